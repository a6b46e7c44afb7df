package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/gig-registry/internal/model"
	"github.com/iliyamo/gig-registry/internal/search"
)

const artistColumns = `id, name, city, state, address, phone, website, facebook_link, image_link,
	genres, seeking_venue, seeking_description, created_at, updated_at`

// ArtistRepo manages persistence for artists.
type ArtistRepo struct {
	db *sqlx.DB
	d  dialect
}

// NewArtistRepo constructs an ArtistRepo with the given DB handle.
func NewArtistRepo(db *sqlx.DB) *ArtistRepo {
	return &ArtistRepo{db: db, d: dialectOf(db)}
}

// Create inserts a and assigns the generated ID back to it.
func (r *ArtistRepo) Create(ctx context.Context, a *model.Artist) error {
	const q = `INSERT INTO artists (name, city, state, address, phone, website, facebook_link, image_link,
		genres, seeking_venue, seeking_description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	ts := now()
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		id, err := r.d.insert(ctx, tx, q, a.Name, a.City, a.State, a.Address, a.Phone, a.Website,
			a.FacebookLink, a.ImageLink, a.Genres, a.SeekingVenue, a.SeekingDescription, ts, ts)
		a.ID = id
		return err
	})
	if err != nil {
		a.ID = 0
		return classify(KindArtist, "create", err)
	}
	a.CreatedAt, a.UpdatedAt = ts, ts
	return nil
}

// GetByID retrieves an artist by its ID.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (*model.Artist, error) {
	var a model.Artist
	q := r.db.Rebind("SELECT " + artistColumns + " FROM artists WHERE id = ?")
	if err := r.db.GetContext(ctx, &a, q, id); err != nil {
		if isNoRows(err) {
			return nil, notFound(KindArtist, id)
		}
		return nil, classify(KindArtist, "get", err)
	}
	normalizeArtist(&a)
	return &a, nil
}

// ListAll returns all artists ordered by id.
func (r *ArtistRepo) ListAll(ctx context.Context) ([]model.Artist, error) {
	out := []model.Artist{}
	if err := r.db.SelectContext(ctx, &out, "SELECT "+artistColumns+" FROM artists ORDER BY id"); err != nil {
		return nil, classify(KindArtist, "list", err)
	}
	for i := range out {
		normalizeArtist(&out[i])
	}
	return out, nil
}

// Update overwrites all mutable columns of the artist a.ID.  Either every
// column changes or, on error, none does.
func (r *ArtistRepo) Update(ctx context.Context, a *model.Artist) error {
	const q = `UPDATE artists SET name = ?, city = ?, state = ?, address = ?, phone = ?, website = ?,
		facebook_link = ?, image_link = ?, genres = ?, seeking_venue = ?, seeking_description = ?, updated_at = ?
		WHERE id = ?`
	ts := now()
	var created model.Artist
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		ok, err := exists(ctx, tx, "artists", a.ID, r.d.rowLock)
		if err != nil {
			return err
		}
		if !ok {
			return notFound(KindArtist, a.ID)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(q), a.Name, a.City, a.State, a.Address, a.Phone, a.Website,
			a.FacebookLink, a.ImageLink, a.Genres, a.SeekingVenue, a.SeekingDescription, ts, a.ID); err != nil {
			return err
		}
		return tx.GetContext(ctx, &created.CreatedAt, tx.Rebind("SELECT created_at FROM artists WHERE id = ?"), a.ID)
	})
	if err != nil {
		return classify(KindArtist, "update", err)
	}
	a.CreatedAt = created.CreatedAt.UTC()
	a.UpdatedAt = ts
	return nil
}

// Delete removes the artist, applying policy to the artist's shows.  It
// returns how many shows were removed with it.
func (r *ArtistRepo) Delete(ctx context.Context, id uint64, policy DeletePolicy) (int64, error) {
	var removed int64
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) (err error) {
		removed, err = deleteWithShows(ctx, tx, r.d, KindArtist, "artists", "artist_id", id, policy)
		return err
	})
	if err != nil {
		return 0, classify(KindArtist, "delete", err)
	}
	return removed, nil
}

// FilterBySubstring returns artists whose field contains needle,
// case-insensitively.  See VenueRepo.FilterBySubstring.
func (r *ArtistRepo) FilterBySubstring(ctx context.Context, field, needle string) ([]model.Artist, error) {
	col, err := filterColumn(field)
	if err != nil {
		return nil, err
	}
	q, args := filterQuery(r.d, artistColumns, "artists", col, needle)
	var rows []model.Artist
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, classify(KindArtist, "filter", err)
	}
	out := make([]model.Artist, 0, len(rows))
	for _, a := range rows {
		value := a.Name
		switch col {
		case "city":
			value = a.City
		case "state":
			value = a.State
		}
		if !search.Match(value, needle) {
			continue
		}
		normalizeArtist(&a)
		out = append(out, a)
	}
	return out, nil
}

// ListShows returns the artist's shows joined with the hosting venue.
func (r *ArtistRepo) ListShows(ctx context.Context, artistID uint64) ([]model.CounterpartShow, error) {
	const q = `SELECT s.id AS show_id, v.id AS counterpart_id, v.name AS counterpart_name,
		v.image_link AS counterpart_image_link, s.start_time
		FROM shows s
		JOIN venues v ON v.id = s.venue_id
		WHERE s.artist_id = ?
		ORDER BY s.start_time ASC, s.id ASC`
	return listCounterparts(ctx, r.db, KindArtist, "artists", artistID, q)
}

func normalizeArtist(a *model.Artist) {
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	if a.Genres == nil {
		a.Genres = model.Genres{}
	}
}
