package service

import (
	"context"
	"sort"
	"time"

	"github.com/iliyamo/gig-registry/internal/model"
	"github.com/iliyamo/gig-registry/internal/queue"
	"github.com/iliyamo/gig-registry/internal/search"
	"github.com/iliyamo/gig-registry/internal/showtime"
)

// VenueDetail is a venue with its shows split around a reference instant.
type VenueDetail struct {
	model.Venue
	PastShows          []model.CounterpartShow `json:"past_shows"`
	UpcomingShows      []model.CounterpartShow `json:"upcoming_shows"`
	PastShowsCount     int                     `json:"past_shows_count"`
	UpcomingShowsCount int                     `json:"upcoming_shows_count"`
}

// VenueSummary is the short form used in area listings and search results.
type VenueSummary struct {
	ID               uint64 `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

// Area groups the venues of one city and state.
type Area struct {
	City   string         `json:"city"`
	State  string         `json:"state"`
	Venues []VenueSummary `json:"venues"`
}

// CreateVenue validates f and stores a new venue.
func (r *Registry) CreateVenue(ctx context.Context, f model.VenueFields) (*model.Venue, error) {
	if err := cleanVenue(&f); err != nil {
		return nil, err
	}
	v := &model.Venue{VenueFields: f}
	if err := r.venues.Create(ctx, v); err != nil {
		return nil, err
	}
	ev := queue.NewEvent(queue.VenueCreated)
	ev.VenueID, ev.VenueName = v.ID, v.Name
	r.publish(ctx, ev)
	return v, nil
}

// GetVenue returns the stored venue.
func (r *Registry) GetVenue(ctx context.Context, id uint64) (*model.Venue, error) {
	if err := checkID("venue_id", id); err != nil {
		return nil, err
	}
	return r.venues.GetByID(ctx, id)
}

// GetVenueDetail returns the venue with its shows classified against now.
func (r *Registry) GetVenueDetail(ctx context.Context, id uint64, now time.Time) (*VenueDetail, error) {
	v, err := r.GetVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	shows, err := r.venues.ListShows(ctx, id)
	if err != nil {
		return nil, err
	}
	split := showtime.Partition(now, shows)
	return &VenueDetail{
		Venue:              *v,
		PastShows:          split.Past,
		UpcomingShows:      split.Upcoming,
		PastShowsCount:     len(split.Past),
		UpcomingShowsCount: len(split.Upcoming),
	}, nil
}

// UpdateVenue replaces every field of venue id with f.
func (r *Registry) UpdateVenue(ctx context.Context, id uint64, f model.VenueFields) (*model.Venue, error) {
	if err := checkID("venue_id", id); err != nil {
		return nil, err
	}
	if err := cleanVenue(&f); err != nil {
		return nil, err
	}
	v := &model.Venue{ID: id, VenueFields: f}
	if err := r.venues.Update(ctx, v); err != nil {
		return nil, err
	}
	ev := queue.NewEvent(queue.VenueUpdated)
	ev.VenueID, ev.VenueName = v.ID, v.Name
	r.publish(ctx, ev)
	return v, nil
}

// DeleteVenue removes venue id under the registry's delete policy and
// returns how many shows went with it.
func (r *Registry) DeleteVenue(ctx context.Context, id uint64) (int64, error) {
	if err := checkID("venue_id", id); err != nil {
		return 0, err
	}
	removed, err := r.venues.Delete(ctx, id, r.policy)
	if err != nil {
		return 0, err
	}
	ev := queue.NewEvent(queue.VenueDeleted)
	ev.VenueID, ev.RemovedShows = id, removed
	r.publish(ctx, ev)
	return removed, nil
}

// ListVenues returns every venue.
func (r *Registry) ListVenues(ctx context.Context) ([]model.Venue, error) {
	return r.venues.ListAll(ctx)
}

// FilterVenues returns venues whose name, city or state contains needle.
func (r *Registry) FilterVenues(ctx context.Context, field, needle string) ([]model.Venue, error) {
	return r.venues.FilterBySubstring(ctx, field, needle)
}

// SearchVenues matches needle against venue names.  Every hit carries its
// number of upcoming shows relative to now.
func (r *Registry) SearchVenues(ctx context.Context, needle string, now time.Time) (search.Result[VenueSummary], error) {
	venues, err := r.venues.ListAll(ctx)
	if err != nil {
		return search.Result[VenueSummary]{}, err
	}
	hits := search.Filter(venues, needle)
	upcoming, err := r.upcomingByVenue(ctx, now)
	if err != nil {
		return search.Result[VenueSummary]{}, err
	}
	data := make([]VenueSummary, 0, hits.Count)
	for _, v := range hits.Data {
		data = append(data, VenueSummary{ID: v.ID, Name: v.Name, NumUpcomingShows: upcoming[v.ID]})
	}
	return search.Result[VenueSummary]{Count: len(data), Data: data}, nil
}

// ListVenueAreas groups all venues by city and state.  Areas are ordered
// by state then city; venues inside an area keep id order.
func (r *Registry) ListVenueAreas(ctx context.Context, now time.Time) ([]Area, error) {
	venues, err := r.venues.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	upcoming, err := r.upcomingByVenue(ctx, now)
	if err != nil {
		return nil, err
	}
	type key struct{ city, state string }
	index := map[key]int{}
	areas := []Area{}
	for _, v := range venues {
		k := key{v.City, v.State}
		i, ok := index[k]
		if !ok {
			i = len(areas)
			index[k] = i
			areas = append(areas, Area{City: v.City, State: v.State, Venues: []VenueSummary{}})
		}
		areas[i].Venues = append(areas[i].Venues, VenueSummary{ID: v.ID, Name: v.Name, NumUpcomingShows: upcoming[v.ID]})
	}
	sort.SliceStable(areas, func(i, j int) bool {
		if areas[i].State != areas[j].State {
			return areas[i].State < areas[j].State
		}
		return areas[i].City < areas[j].City
	})
	return areas, nil
}

func (r *Registry) upcomingByVenue(ctx context.Context, now time.Time) (map[uint64]int, error) {
	shows, err := r.shows.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := map[uint64]int{}
	for _, s := range shows {
		out[s.VenueID] += showtime.CountUpcoming(now, s.StartTime)
	}
	return out, nil
}
