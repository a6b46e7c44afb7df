package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iliyamo/gig-registry/internal/model"
	"github.com/iliyamo/gig-registry/internal/repository"
)

// Column limits of the venues and artists tables.
const (
	maxNameLen  = 255
	maxShortLen = 120
	maxLongLen  = 500
)

// profile is the part of VenueFields and ArtistFields that validation
// looks at.  Both share it field for field.
type profile struct {
	Name               *string
	City               *string
	State              *string
	Address            *string
	Phone              *string
	Website            *string
	FacebookLink       *string
	ImageLink          *string
	Genres             *model.Genres
	SeekingDescription *string
}

// clean trims every text field, normalises genres and checks lengths.
// It rewrites the fields in place and returns the first problem found.
func (p profile) clean() error {
	*p.Name = strings.TrimSpace(*p.Name)
	if *p.Name == "" {
		return &repository.ValidationError{Field: "name", Message: "is required"}
	}
	if err := maxLen("name", *p.Name, maxNameLen); err != nil {
		return err
	}
	short := []struct {
		field string
		value *string
	}{
		{"city", p.City},
		{"state", p.State},
		{"address", p.Address},
		{"phone", p.Phone},
		{"website", p.Website},
		{"facebook_link", p.FacebookLink},
	}
	for _, f := range short {
		*f.value = strings.TrimSpace(*f.value)
		if err := maxLen(f.field, *f.value, maxShortLen); err != nil {
			return err
		}
	}
	*p.ImageLink = strings.TrimSpace(*p.ImageLink)
	if err := maxLen("image_link", *p.ImageLink, maxLongLen); err != nil {
		return err
	}
	*p.SeekingDescription = strings.TrimSpace(*p.SeekingDescription)
	if err := maxLen("seeking_description", *p.SeekingDescription, maxLongLen); err != nil {
		return err
	}
	*p.Genres = model.NormalizeGenres(*p.Genres)
	for _, g := range *p.Genres {
		if err := maxLen("genres", g, maxShortLen); err != nil {
			return err
		}
	}
	return nil
}

func maxLen(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return &repository.ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", limit)}
	}
	return nil
}

func cleanVenue(f *model.VenueFields) error {
	return profile{&f.Name, &f.City, &f.State, &f.Address, &f.Phone, &f.Website,
		&f.FacebookLink, &f.ImageLink, &f.Genres, &f.SeekingDescription}.clean()
}

func cleanArtist(f *model.ArtistFields) error {
	return profile{&f.Name, &f.City, &f.State, &f.Address, &f.Phone, &f.Website,
		&f.FacebookLink, &f.ImageLink, &f.Genres, &f.SeekingDescription}.clean()
}

func checkID(field string, id uint64) error {
	if id == 0 {
		return &repository.ValidationError{Field: field, Message: "must be a positive id"}
	}
	return nil
}

// startLayouts are tried in order by ParseStartTime.
var startLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// ParseStartTime parses a show start time.  RFC 3339 input keeps its
// offset; the offset-less form layouts are read as UTC.  The result is in
// UTC with microsecond precision, the precision the store keeps.
func ParseStartTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &repository.ValidationError{Field: "start_time", Message: "is required"}
	}
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Truncate(time.Microsecond), nil
		}
	}
	return time.Time{}, &repository.ValidationError{
		Field:   "start_time",
		Message: fmt.Sprintf("%q is not a valid timestamp (use RFC 3339 or YYYY-MM-DD HH:MM:SS)", raw),
	}
}
