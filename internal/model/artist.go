package model

import "time"

// ArtistFields mirrors VenueFields for performers.  SeekingVenue
// replaces SeekingTalent; everything else has the same meaning.
type ArtistFields struct {
	Name               string `db:"name" json:"name"`                               // artists.name
	City               string `db:"city" json:"city"`                               // artists.city
	State              string `db:"state" json:"state"`                             // artists.state
	Address            string `db:"address" json:"address"`                         // artists.address
	Phone              string `db:"phone" json:"phone"`                             // artists.phone
	Website            string `db:"website" json:"website"`                         // artists.website
	FacebookLink       string `db:"facebook_link" json:"facebook_link"`             // artists.facebook_link
	ImageLink          string `db:"image_link" json:"image_link"`                   // artists.image_link
	Genres             Genres `db:"genres" json:"genres"`                           // artists.genres (JSON array)
	SeekingVenue       bool   `db:"seeking_venue" json:"seeking_venue"`             // artists.seeking_venue
	SeekingDescription string `db:"seeking_description" json:"seeking_description"` // artists.seeking_description
}

// Artist is a row of the `artists` table.
type Artist struct {
	ID uint64 `db:"id" json:"id"` // artists.id
	ArtistFields
	CreatedAt time.Time `db:"created_at" json:"created_at"` // artists.created_at
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"` // artists.updated_at
}

// Named returns the artist name.
func (a Artist) Named() string { return a.Name }
