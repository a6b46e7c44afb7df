package service

import (
	"context"
	"time"

	"github.com/iliyamo/gig-registry/internal/model"
	"github.com/iliyamo/gig-registry/internal/queue"
	"github.com/iliyamo/gig-registry/internal/repository"
)

// CreateShow lists artistID at venueID starting at start.  Both ids must
// exist; the check and the insert commit together, so a missing party
// leaves no row behind.
func (r *Registry) CreateShow(ctx context.Context, artistID, venueID uint64, start time.Time) (*model.ShowListing, error) {
	if err := checkID("artist_id", artistID); err != nil {
		return nil, err
	}
	if err := checkID("venue_id", venueID); err != nil {
		return nil, err
	}
	if start.IsZero() {
		return nil, &repository.ValidationError{Field: "start_time", Message: "is required"}
	}
	s := &model.Show{ArtistID: artistID, VenueID: venueID, StartTime: start}
	listing, err := r.shows.Create(ctx, s)
	if err != nil {
		return nil, err
	}
	ev := queue.NewEvent(queue.ShowListed)
	ev.ShowID = listing.ShowID
	ev.VenueID, ev.VenueName = listing.VenueID, listing.VenueName
	ev.ArtistID, ev.ArtistName = listing.ArtistID, listing.ArtistName
	st := listing.StartTime
	ev.StartTime = &st
	r.publish(ctx, ev)
	return &listing, nil
}

// GetShow returns the joined view of one show.
func (r *Registry) GetShow(ctx context.Context, id uint64) (*model.ShowListing, error) {
	if err := checkID("show_id", id); err != nil {
		return nil, err
	}
	return r.shows.GetListing(ctx, id)
}

// DeleteShow removes one show.  Its artist and venue are untouched.
func (r *Registry) DeleteShow(ctx context.Context, id uint64) error {
	if err := checkID("show_id", id); err != nil {
		return err
	}
	if err := r.shows.Delete(ctx, id); err != nil {
		return err
	}
	ev := queue.NewEvent(queue.ShowDeleted)
	ev.ShowID = id
	r.publish(ctx, ev)
	return nil
}

// ListShowsWithDetails returns every show joined with its artist and venue.
func (r *Registry) ListShowsWithDetails(ctx context.Context) ([]model.ShowListing, error) {
	return r.shows.ListDetailed(ctx)
}
