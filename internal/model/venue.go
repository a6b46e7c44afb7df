package model

import "time"

// VenueFields holds every mutable column of a venue.  Create and
// update both take the full set; an update replaces all of them.
//
// Fields:
//  Name               – display name, required.
//  City, State        – location used to group venues into areas.
//  Address            – street address.
//  Phone, Website     – contact details.
//  FacebookLink       – link to the venue's Facebook page.
//  ImageLink          – link to a picture of the venue.
//  Genres             – genre labels the venue books.
//  SeekingTalent      – whether the venue is looking for artists.
//  SeekingDescription – free text shown with SeekingTalent.
type VenueFields struct {
	Name               string `db:"name" json:"name"`                               // venues.name
	City               string `db:"city" json:"city"`                               // venues.city
	State              string `db:"state" json:"state"`                             // venues.state
	Address            string `db:"address" json:"address"`                         // venues.address
	Phone              string `db:"phone" json:"phone"`                             // venues.phone
	Website            string `db:"website" json:"website"`                         // venues.website
	FacebookLink       string `db:"facebook_link" json:"facebook_link"`             // venues.facebook_link
	ImageLink          string `db:"image_link" json:"image_link"`                   // venues.image_link
	Genres             Genres `db:"genres" json:"genres"`                           // venues.genres (JSON array)
	SeekingTalent      bool   `db:"seeking_talent" json:"seeking_talent"`           // venues.seeking_talent
	SeekingDescription string `db:"seeking_description" json:"seeking_description"` // venues.seeking_description
}

// Venue is a row of the `venues` table.  ID is assigned by the store
// on insert and never changes afterwards.
type Venue struct {
	ID uint64 `db:"id" json:"id"` // venues.id
	VenueFields
	CreatedAt time.Time `db:"created_at" json:"created_at"` // venues.created_at
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"` // venues.updated_at
}

// Named returns the venue name.  It lets venues flow through the search matcher.
func (v Venue) Named() string { return v.Name }
