package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/gig-registry/internal/model"
	"github.com/iliyamo/gig-registry/internal/testutil"
)

type repos struct {
	venues  *VenueRepo
	artists *ArtistRepo
	shows   *ShowRepo
}

func newRepos(t *testing.T) repos {
	db := testutil.NewDB(t)
	return repos{NewVenueRepo(db), NewArtistRepo(db), NewShowRepo(db)}
}

func sampleVenue(name string) *model.Venue {
	return &model.Venue{VenueFields: model.VenueFields{
		Name:               name,
		City:               "San Francisco",
		State:              "CA",
		Address:            "1015 Folsom Street",
		Phone:              "123-123-1234",
		Website:            "https://www.themusicalhop.com",
		FacebookLink:       "https://www.facebook.com/TheMusicalHop",
		ImageLink:          "https://images.example.com/hop.jpg",
		Genres:             model.Genres{"Jazz", "Reggae", "Swing"},
		SeekingTalent:      true,
		SeekingDescription: "We are on the lookout for a local artist.",
	}}
}

func sampleArtist(name string) *model.Artist {
	return &model.Artist{ArtistFields: model.ArtistFields{
		Name:      name,
		City:      "San Francisco",
		State:     "CA",
		Genres:    model.Genres{"Rock n Roll"},
		ImageLink: "https://images.example.com/" + name + ".jpg",
	}}
}

func TestVenueRoundTrip(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	v := sampleVenue("The Musical Hop")
	require.NoError(t, r.venues.Create(ctx, v))
	require.NotZero(t, v.ID)

	got, err := r.venues.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.VenueFields, got.VenueFields)
	assert.True(t, v.CreatedAt.Equal(got.CreatedAt))
}

func TestGetByIDNotFound(t *testing.T) {
	r := newRepos(t)
	_, err := r.venues.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, KindVenue, nf.Kind)
	assert.Equal(t, uint64(42), nf.ID)

	_, err = r.artists.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.shows.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateReplacesAllFields(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	a := sampleArtist("Guns N Petals")
	require.NoError(t, r.artists.Create(ctx, a))

	upd := &model.Artist{ID: a.ID, ArtistFields: model.ArtistFields{Name: "Guns N Roses"}}
	require.NoError(t, r.artists.Update(ctx, upd))

	got, err := r.artists.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Guns N Roses", got.Name)
	assert.Empty(t, got.City)
	assert.Empty(t, got.Genres)
	assert.True(t, a.CreatedAt.Equal(got.CreatedAt))
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestUpdateMissingLeavesStoreUntouched(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	v := sampleVenue("The Dueling Pianos Bar")
	require.NoError(t, r.venues.Create(ctx, v))

	err := r.venues.Update(ctx, &model.Venue{ID: v.ID + 1, VenueFields: model.VenueFields{Name: "x"}})
	require.ErrorIs(t, err, ErrNotFound)

	all, err := r.venues.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, v.VenueFields, all[0].VenueFields)
}

func TestShowCreateRequiresBothParties(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	v := sampleVenue("Park Square Live Music & Coffee")
	require.NoError(t, r.venues.Create(ctx, v))
	a := sampleArtist("Matt Quevado")
	require.NoError(t, r.artists.Create(ctx, a))
	start := time.Date(2035, 6, 15, 23, 0, 0, 0, time.UTC)

	_, err := r.shows.Create(ctx, &model.Show{ArtistID: a.ID + 10, VenueID: v.ID, StartTime: start})
	require.ErrorIs(t, err, ErrConstraint)
	_, err = r.shows.Create(ctx, &model.Show{ArtistID: a.ID, VenueID: v.ID + 10, StartTime: start})
	require.ErrorIs(t, err, ErrConstraint)

	all, err := r.shows.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	s := &model.Show{ArtistID: a.ID, VenueID: v.ID, StartTime: start.In(time.FixedZone("PDT", -7*3600))}
	listing, err := r.shows.Create(ctx, s)
	require.NoError(t, err)
	assert.NotZero(t, s.ID)
	assert.Equal(t, s.ID, listing.ShowID)
	assert.Equal(t, "Park Square Live Music & Coffee", listing.VenueName)
	assert.Equal(t, "Matt Quevado", listing.ArtistName)
	assert.Equal(t, a.ImageLink, listing.ArtistImageLink)
	assert.True(t, start.Equal(listing.StartTime))

	got, err := r.shows.GetListing(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, listing.ShowID, got.ShowID)
	assert.Equal(t, listing.VenueName, got.VenueName)
	assert.Equal(t, listing.ArtistName, got.ArtistName)
	assert.True(t, start.Equal(got.StartTime))
	assert.Equal(t, time.UTC, got.StartTime.Location())
}

func TestDeletePolicies(t *testing.T) {
	ctx := context.Background()
	setup := func(t *testing.T) (repos, *model.Venue, *model.Artist) {
		r := newRepos(t)
		v := sampleVenue("The Musical Hop")
		require.NoError(t, r.venues.Create(ctx, v))
		a := sampleArtist("The Wild Sax Band")
		require.NoError(t, r.artists.Create(ctx, a))
		for i := 0; i < 2; i++ {
			_, err := r.shows.Create(ctx, &model.Show{ArtistID: a.ID, VenueID: v.ID, StartTime: time.Now().Add(time.Duration(i) * time.Hour)})
			require.NoError(t, err)
		}
		return r, v, a
	}

	t.Run("reject", func(t *testing.T) {
		r, v, a := setup(t)
		_, err := r.venues.Delete(ctx, v.ID, RejectIfReferenced)
		require.ErrorIs(t, err, ErrConstraint)
		_, err = r.artists.Delete(ctx, a.ID, RejectIfReferenced)
		require.ErrorIs(t, err, ErrConstraint)

		_, err = r.venues.GetByID(ctx, v.ID)
		require.NoError(t, err)
		shows, err := r.shows.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, shows, 2)
	})

	t.Run("cascade", func(t *testing.T) {
		r, v, a := setup(t)
		removed, err := r.venues.Delete(ctx, v.ID, Cascade)
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)

		_, err = r.venues.GetByID(ctx, v.ID)
		require.ErrorIs(t, err, ErrNotFound)
		shows, err := r.shows.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, shows)

		removed, err = r.artists.Delete(ctx, a.ID, RejectIfReferenced)
		require.NoError(t, err)
		assert.Zero(t, removed)
	})

	t.Run("missing twice", func(t *testing.T) {
		r := newRepos(t)
		for i := 0; i < 2; i++ {
			_, err := r.venues.Delete(ctx, 99, Cascade)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, r.shows.Delete(ctx, 99), ErrNotFound)
		}
	})
}

func TestFilterBySubstring(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	for _, name := range []string{"The Musical Hop", "Park Square Live Music & Coffee", "100% Jazz_Club", "ÉCOLE de Musique"} {
		require.NoError(t, r.venues.Create(ctx, sampleVenue(name)))
	}

	names := func(vs []model.Venue) []string {
		out := []string{}
		for _, v := range vs {
			out = append(out, v.Name)
		}
		return out
	}

	got, err := r.venues.FilterBySubstring(ctx, "name", "hop")
	require.NoError(t, err)
	assert.Equal(t, []string{"The Musical Hop"}, names(got))

	got, err = r.venues.FilterBySubstring(ctx, "name", "MUSIC")
	require.NoError(t, err)
	assert.Equal(t, []string{"The Musical Hop", "Park Square Live Music & Coffee", "ÉCOLE de Musique"}, names(got))

	// Case folding goes beyond ASCII.
	got, err = r.venues.FilterBySubstring(ctx, "name", "école")
	require.NoError(t, err)
	assert.Equal(t, []string{"ÉCOLE de Musique"}, names(got))

	// LIKE wildcards in the needle are literals.
	got, err = r.venues.FilterBySubstring(ctx, "name", "0%")
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Jazz_Club"}, names(got))
	got, err = r.venues.FilterBySubstring(ctx, "name", "z_c")
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Jazz_Club"}, names(got))

	got, err = r.venues.FilterBySubstring(ctx, "city", "francisco")
	require.NoError(t, err)
	assert.Len(t, got, 4)

	_, err = r.venues.FilterBySubstring(ctx, "phone", "1")
	assert.ErrorIs(t, err, ErrValidation)

	a := sampleArtist("Ærø Quartet")
	a.City = "MÜNCHEN"
	require.NoError(t, r.artists.Create(ctx, a))
	require.NoError(t, r.artists.Create(ctx, sampleArtist("Guns N Petals")))
	artists, err := r.artists.FilterBySubstring(ctx, "city", "münchen")
	require.NoError(t, err)
	require.Len(t, artists, 1)
	assert.Equal(t, a.ID, artists[0].ID)
	artists, err = r.artists.FilterBySubstring(ctx, "name", "ærø")
	require.NoError(t, err)
	require.Len(t, artists, 1)
	assert.Equal(t, "Ærø Quartet", artists[0].Name)
}

func TestFilterQueryByDialect(t *testing.T) {
	q, args := filterQuery(dialect{asciiLower: true}, "id, name", "venues", "name", "École")
	assert.Equal(t, "SELECT id, name FROM venues ORDER BY id", q)
	assert.Empty(t, args)

	q, args = filterQuery(dialect{returning: true, rowLock: " FOR UPDATE"}, "id, name", "venues", "name", "50%")
	assert.Equal(t, "SELECT id, name FROM venues WHERE LOWER(name) LIKE ? ESCAPE '!' ORDER BY id", q)
	assert.Equal(t, []any{"%50!%%"}, args)
}

func TestListShowsJoinsCounterpart(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	v := sampleVenue("The Musical Hop")
	require.NoError(t, r.venues.Create(ctx, v))
	a := sampleArtist("Guns N Petals")
	require.NoError(t, r.artists.Create(ctx, a))
	late := time.Date(2035, 1, 2, 0, 0, 0, 0, time.UTC)
	early := time.Date(2019, 5, 21, 21, 30, 0, 0, time.UTC)
	for _, st := range []time.Time{late, early} {
		_, err := r.shows.Create(ctx, &model.Show{ArtistID: a.ID, VenueID: v.ID, StartTime: st})
		require.NoError(t, err)
	}

	vs, err := r.venues.ListShows(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, a.ID, vs[0].CounterpartID)
	assert.Equal(t, "Guns N Petals", vs[0].CounterpartName)
	assert.True(t, early.Equal(vs[0].StartTime))
	assert.True(t, late.Equal(vs[1].StartTime))

	as, err := r.artists.ListShows(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, as, 2)
	assert.Equal(t, v.ID, as[0].CounterpartID)
	assert.Equal(t, "The Musical Hop", as[0].CounterpartName)

	_, err = r.venues.ListShows(ctx, v.ID+1)
	assert.ErrorIs(t, err, ErrNotFound)

	detailed, err := r.shows.ListDetailed(ctx)
	require.NoError(t, err)
	require.Len(t, detailed, 2)
	assert.True(t, early.Equal(detailed[0].StartTime))
}

func TestParseDeletePolicy(t *testing.T) {
	for in, want := range map[string]DeletePolicy{
		"":                     RejectIfReferenced,
		"reject":               RejectIfReferenced,
		"Reject-If-Referenced": RejectIfReferenced,
		" cascade ":            Cascade,
	} {
		got, err := ParseDeletePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDeletePolicy("orphan")
	assert.Error(t, err)
	assert.Equal(t, "cascade", Cascade.String())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "dup"}, ErrConstraint},
		{"mysql fk", &mysql.MySQLError{Number: 1452, Message: "fk"}, ErrConstraint},
		{"mysql deadlock", &mysql.MySQLError{Number: 1213, Message: "deadlock"}, ErrStoreUnavailable},
		{"mysql bad conn", mysql.ErrInvalidConn, ErrStoreUnavailable},
		{"pq fk", &pq.Error{Code: "23503"}, ErrConstraint},
		{"pq connection", &pq.Error{Code: "08006"}, ErrStoreUnavailable},
		{"sqlite fk", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, ErrConstraint},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, ErrStoreUnavailable},
		{"deadline", context.DeadlineExceeded, ErrStoreUnavailable},
		{"taxonomy passes through", notFound(KindShow, 3), ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(KindShow, "create", tt.err)
			assert.ErrorIs(t, got, tt.want)
		})
	}

	plain := classify(KindVenue, "list", errors.New("boom"))
	assert.EqualError(t, plain, "list venue: boom")
	for _, sentinel := range []error{ErrValidation, ErrNotFound, ErrConstraint, ErrStoreUnavailable} {
		assert.NotErrorIs(t, plain, sentinel)
	}
	assert.Nil(t, classify(KindVenue, "list", nil))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%hop%", containsPattern("HOP"))
	assert.Equal(t, "%100!%!_!!%", containsPattern("100%_!"))
	assert.Equal(t, "%%", containsPattern(""))
}
