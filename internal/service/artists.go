package service

import (
	"context"
	"time"

	"github.com/iliyamo/gig-registry/internal/model"
	"github.com/iliyamo/gig-registry/internal/queue"
	"github.com/iliyamo/gig-registry/internal/search"
	"github.com/iliyamo/gig-registry/internal/showtime"
)

// ArtistDetail is an artist with its shows split around a reference instant.
type ArtistDetail struct {
	model.Artist
	PastShows          []model.CounterpartShow `json:"past_shows"`
	UpcomingShows      []model.CounterpartShow `json:"upcoming_shows"`
	PastShowsCount     int                     `json:"past_shows_count"`
	UpcomingShowsCount int                     `json:"upcoming_shows_count"`
}

// ArtistSummary is the short form used in search results.
type ArtistSummary struct {
	ID               uint64 `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

// CreateArtist validates f, stores it and returns the new artist.
func (r *Registry) CreateArtist(ctx context.Context, f model.ArtistFields) (*model.Artist, error) {
	if err := cleanArtist(&f); err != nil {
		return nil, err
	}
	a := &model.Artist{ArtistFields: f}
	if err := r.artists.Create(ctx, a); err != nil {
		return nil, err
	}
	ev := queue.NewEvent(queue.ArtistCreated)
	ev.ArtistID, ev.ArtistName = a.ID, a.Name
	r.publish(ctx, ev)
	return a, nil
}

// GetArtist returns the stored artist without its shows.
func (r *Registry) GetArtist(ctx context.Context, id uint64) (*model.Artist, error) {
	if err := checkID("artist_id", id); err != nil {
		return nil, err
	}
	return r.artists.GetByID(ctx, id)
}

// GetArtistDetail returns the artist with its shows classified against now.
func (r *Registry) GetArtistDetail(ctx context.Context, id uint64, now time.Time) (*ArtistDetail, error) {
	a, err := r.GetArtist(ctx, id)
	if err != nil {
		return nil, err
	}
	shows, err := r.artists.ListShows(ctx, id)
	if err != nil {
		return nil, err
	}
	split := showtime.Partition(now, shows)
	return &ArtistDetail{
		Artist:             *a,
		PastShows:          split.Past,
		UpcomingShows:      split.Upcoming,
		PastShowsCount:     len(split.Past),
		UpcomingShowsCount: len(split.Upcoming),
	}, nil
}

// UpdateArtist replaces every field of artist id with f.
func (r *Registry) UpdateArtist(ctx context.Context, id uint64, f model.ArtistFields) (*model.Artist, error) {
	if err := checkID("artist_id", id); err != nil {
		return nil, err
	}
	if err := cleanArtist(&f); err != nil {
		return nil, err
	}
	a := &model.Artist{ID: id, ArtistFields: f}
	if err := r.artists.Update(ctx, a); err != nil {
		return nil, err
	}
	ev := queue.NewEvent(queue.ArtistUpdated)
	ev.ArtistID, ev.ArtistName = a.ID, a.Name
	r.publish(ctx, ev)
	return a, nil
}

// DeleteArtist removes the artist under the registry's delete policy
// and returns how many shows went with it.
func (r *Registry) DeleteArtist(ctx context.Context, id uint64) (int64, error) {
	if err := checkID("artist_id", id); err != nil {
		return 0, err
	}
	removed, err := r.artists.Delete(ctx, id, r.policy)
	if err != nil {
		return 0, err
	}
	ev := queue.NewEvent(queue.ArtistDeleted)
	ev.ArtistID, ev.RemovedShows = id, removed
	r.publish(ctx, ev)
	return removed, nil
}

// ListArtists returns every artist ordered by id.
func (r *Registry) ListArtists(ctx context.Context) ([]model.Artist, error) {
	return r.artists.ListAll(ctx)
}

// FilterArtists returns artists whose field (name, city or state)
// contains needle, ignoring case.
func (r *Registry) FilterArtists(ctx context.Context, field, needle string) ([]model.Artist, error) {
	return r.artists.FilterBySubstring(ctx, field, needle)
}

// SearchArtists matches needle against artist names.
func (r *Registry) SearchArtists(ctx context.Context, needle string, now time.Time) (search.Result[ArtistSummary], error) {
	artists, err := r.artists.ListAll(ctx)
	if err != nil {
		return search.Result[ArtistSummary]{}, err
	}
	hits := search.Filter(artists, needle)
	shows, err := r.shows.ListAll(ctx)
	if err != nil {
		return search.Result[ArtistSummary]{}, err
	}
	upcoming := map[uint64]int{}
	for _, s := range shows {
		upcoming[s.ArtistID] += showtime.CountUpcoming(now, s.StartTime)
	}
	data := make([]ArtistSummary, 0, hits.Count)
	for _, a := range hits.Data {
		data = append(data, ArtistSummary{ID: a.ID, Name: a.Name, NumUpcomingShows: upcoming[a.ID]})
	}
	return search.Result[ArtistSummary]{Count: len(data), Data: data}, nil
}
