// Package queue defines the registry's domain events and moves them over
// RabbitMQ: a publisher used after committed writes and a consumer that
// appends every event to logs/registry.log.
package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventType names what happened.
type EventType string

const (
	VenueCreated  EventType = "venue.created"
	VenueUpdated  EventType = "venue.updated"
	VenueDeleted  EventType = "venue.deleted"
	ArtistCreated EventType = "artist.created"
	ArtistUpdated EventType = "artist.updated"
	ArtistDeleted EventType = "artist.deleted"
	ShowListed    EventType = "show.listed"
	ShowDeleted   EventType = "show.deleted"
)

// Event is published after a write commits.  It carries enough context for
// downstream consumers to log or notify without querying the database.
// Fields that do not apply to the event type are left zero and omitted.
type Event struct {
	ID           string     `json:"event_id"`
	Type         EventType  `json:"type"`
	OccurredAt   time.Time  `json:"occurred_at"`
	VenueID      uint64     `json:"venue_id,omitempty"`
	VenueName    string     `json:"venue_name,omitempty"`
	ArtistID     uint64     `json:"artist_id,omitempty"`
	ArtistName   string     `json:"artist_name,omitempty"`
	ShowID       uint64     `json:"show_id,omitempty"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	RemovedShows int64      `json:"removed_shows,omitempty"`
}

// NewEvent stamps a fresh event of type t with a random id and the current time.
func NewEvent(t EventType) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
	}
}

// Line renders e as a single human-friendly log line, newline terminated.
func (e Event) Line() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s | event_id=%s", e.OccurredAt.UTC().Format(time.RFC3339), e.Type, e.ID)
	if e.ShowID != 0 {
		fmt.Fprintf(&b, " | show_id=%d", e.ShowID)
	}
	if e.VenueID != 0 {
		fmt.Fprintf(&b, " | venue_id=%d", e.VenueID)
	}
	if e.VenueName != "" {
		fmt.Fprintf(&b, " | venue=%q", e.VenueName)
	}
	if e.ArtistID != 0 {
		fmt.Fprintf(&b, " | artist_id=%d", e.ArtistID)
	}
	if e.ArtistName != "" {
		fmt.Fprintf(&b, " | artist=%q", e.ArtistName)
	}
	if e.StartTime != nil {
		fmt.Fprintf(&b, " | start_time=%s", e.StartTime.UTC().Format(time.RFC3339))
	}
	if e.RemovedShows != 0 {
		fmt.Fprintf(&b, " | removed_shows=%d", e.RemovedShows)
	}
	b.WriteByte('\n')
	return b.String()
}
