package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/gig-registry/internal/repository"
)

// busyOrNil accepts a write that lost a lock wait; anything else fails.
func busyOrNil(err error) bool {
	return err == nil || errors.Is(err, repository.ErrStoreUnavailable)
}

func TestConcurrentUpdatesNeverMix(t *testing.T) {
	r := newRegistry(t, repository.RejectIfReferenced)
	ctx := context.Background()
	v, err := r.CreateVenue(ctx, venueFields("start"))
	require.NoError(t, err)

	const writers = 20
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f := venueFields(fmt.Sprintf("n%02d", i))
			f.City = f.Name
			_, errs[i] = r.UpdateVenue(ctx, v.ID, f)
		}(i)
	}
	wg.Wait()

	ok := 0
	for i, err := range errs {
		assert.Truef(t, busyOrNil(err), "writer %d: %v", i, err)
		if err == nil {
			ok++
		}
	}
	require.Positive(t, ok)

	got, err := r.GetVenue(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Name, got.City)
	assert.Regexp(t, `^n\d\d$`, got.Name)
}

func TestCreateShowRacesCascadeDelete(t *testing.T) {
	r := newRegistry(t, repository.Cascade)
	ctx := context.Background()
	v, err := r.CreateVenue(ctx, venueFields("The Musical Hop"))
	require.NoError(t, err)
	a, err := r.CreateArtist(ctx, artistFields("Guns N Petals"))
	require.NoError(t, err)

	const creators = 16
	errs := make([]error, creators)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < creators; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = r.CreateShow(ctx, a.ID, v.ID, refNow)
		}(i)
	}
	var deleteErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		_, deleteErr = r.DeleteVenue(ctx, v.ID)
	}()
	close(start)
	wg.Wait()

	require.NoError(t, deleteErr)
	for i, err := range errs {
		assert.Truef(t, busyOrNil(err) || errors.Is(err, repository.ErrConstraint), "creator %d: %v", i, err)
	}

	var orphans int
	require.NoError(t, r.shows.DB().GetContext(ctx, &orphans,
		"SELECT COUNT(*) FROM shows WHERE venue_id NOT IN (SELECT id FROM venues)"))
	assert.Zero(t, orphans)

	_, err = r.GetVenue(ctx, v.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	shows, err := r.ListShowsWithDetails(ctx)
	require.NoError(t, err)
	assert.Empty(t, shows)
}

func TestFilterVenuesAgreesWithSearch(t *testing.T) {
	r := newRegistry(t, repository.RejectIfReferenced)
	ctx := context.Background()
	for _, name := range []string{"ÉCOLE de Musique", "Straße Bar", "The Dueling Pianos Bar"} {
		_, err := r.CreateVenue(ctx, venueFields(name))
		require.NoError(t, err)
	}

	for _, needle := range []string{"école", "STRASSE", "bar", "zz"} {
		found, err := r.SearchVenues(ctx, needle, refNow)
		require.NoError(t, err)
		filtered, err := r.FilterVenues(ctx, "name", needle)
		require.NoError(t, err)
		assert.Equalf(t, found.Count, len(filtered), "needle %q", needle)
	}
}
