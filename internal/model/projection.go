package model

import "time"

// ShowListing is a show joined with both of its parties.  It is a
// read-only view computed at query time; nothing writes through it.
type ShowListing struct {
	ShowID          uint64    `db:"show_id" json:"show_id"`
	VenueID         uint64    `db:"venue_id" json:"venue_id"`
	VenueName       string    `db:"venue_name" json:"venue_name"`
	ArtistID        uint64    `db:"artist_id" json:"artist_id"`
	ArtistName      string    `db:"artist_name" json:"artist_name"`
	ArtistImageLink string    `db:"artist_image_link" json:"artist_image_link"`
	StartTime       time.Time `db:"start_time" json:"start_time"`
}

// CounterpartShow is a show seen from one side of the relationship.
// On a venue page the counterpart is the artist; on an artist page it
// is the venue.
type CounterpartShow struct {
	ShowID               uint64    `db:"show_id" json:"show_id"`
	CounterpartID        uint64    `db:"counterpart_id" json:"counterpart_id"`
	CounterpartName      string    `db:"counterpart_name" json:"counterpart_name"`
	CounterpartImageLink string    `db:"counterpart_image_link" json:"counterpart_image_link"`
	StartTime            time.Time `db:"start_time" json:"start_time"`
}
