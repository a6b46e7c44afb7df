package model

import "time"

// Show books an artist into a venue at a point in time.  Both
// references must point at existing rows when the show is inserted.
//
// Fields:
//  ID        – primary key identifier.
//  ArtistID  – artist performing.
//  VenueID   – venue hosting the show.
//  StartTime – when the show begins (stored in UTC).
//  CreatedAt – creation timestamp.
type Show struct {
	ID        uint64    `db:"id" json:"id"`                 // shows.id
	ArtistID  uint64    `db:"artist_id" json:"artist_id"`   // shows.artist_id
	VenueID   uint64    `db:"venue_id" json:"venue_id"`     // shows.venue_id
	StartTime time.Time `db:"start_time" json:"start_time"` // shows.start_time
	CreatedAt time.Time `db:"created_at" json:"created_at"` // shows.created_at
}
