// Package repository contains data access logic separated from HTTP handlers.
// This file holds the venue queries: CRUD, substring filtering and the
// artist-side join used to classify a venue's shows.
package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/gig-registry/internal/model"
	"github.com/iliyamo/gig-registry/internal/search"
)

const venueColumns = `id, name, city, state, address, phone, website, facebook_link, image_link,
	genres, seeking_talent, seeking_description, created_at, updated_at`

// VenueRepo encapsulates all database queries related to venues.
type VenueRepo struct {
	db *sqlx.DB
	d  dialect
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sqlx.DB) *VenueRepo {
	return &VenueRepo{db: db, d: dialectOf(db)}
}

// Create inserts v and fills in its ID and timestamps.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (name, city, state, address, phone, website, facebook_link, image_link,
		genres, seeking_talent, seeking_description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	ts := now()
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		id, err := r.d.insert(ctx, tx, q, v.Name, v.City, v.State, v.Address, v.Phone, v.Website,
			v.FacebookLink, v.ImageLink, v.Genres, v.SeekingTalent, v.SeekingDescription, ts, ts)
		if err != nil {
			return err
		}
		v.ID = id
		return nil
	})
	if err != nil {
		v.ID = 0
		return classify(KindVenue, "create", err)
	}
	v.CreatedAt, v.UpdatedAt = ts, ts
	return nil
}

// GetByID fetches a venue by id.  A missing row is reported as a NotFoundError.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	var v model.Venue
	err := r.db.GetContext(ctx, &v, r.db.Rebind("SELECT "+venueColumns+" FROM venues WHERE id = ?"), id)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound(KindVenue, id)
		}
		return nil, classify(KindVenue, "get", err)
	}
	normalizeVenue(&v)
	return &v, nil
}

// ListAll returns every venue ordered by id.
func (r *VenueRepo) ListAll(ctx context.Context) ([]model.Venue, error) {
	out := []model.Venue{}
	if err := r.db.SelectContext(ctx, &out, "SELECT "+venueColumns+" FROM venues ORDER BY id"); err != nil {
		return nil, classify(KindVenue, "list", err)
	}
	for i := range out {
		normalizeVenue(&out[i])
	}
	return out, nil
}

// Update replaces every mutable column of the venue with v's values.
// The row is locked for the duration of the transaction so concurrent
// updates to the same venue are applied one after the other.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
	const q = `UPDATE venues SET name = ?, city = ?, state = ?, address = ?, phone = ?, website = ?,
		facebook_link = ?, image_link = ?, genres = ?, seeking_talent = ?, seeking_description = ?, updated_at = ?
		WHERE id = ?`
	ts := now()
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		ok, err := exists(ctx, tx, "venues", v.ID, r.d.rowLock)
		if err != nil {
			return err
		}
		if !ok {
			return notFound(KindVenue, v.ID)
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(q), v.Name, v.City, v.State, v.Address, v.Phone, v.Website,
			v.FacebookLink, v.ImageLink, v.Genres, v.SeekingTalent, v.SeekingDescription, ts, v.ID)
		if err != nil {
			return err
		}
		return tx.GetContext(ctx, &v.CreatedAt, tx.Rebind("SELECT created_at FROM venues WHERE id = ?"), v.ID)
	})
	if err != nil {
		return classify(KindVenue, "update", err)
	}
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = ts
	return nil
}

// Delete removes a venue.  With RejectIfReferenced the call fails with a
// ConstraintError while any show still points at the venue; with Cascade
// those shows are deleted in the same transaction.  It returns the number
// of shows removed alongside the venue.
func (r *VenueRepo) Delete(ctx context.Context, id uint64, policy DeletePolicy) (int64, error) {
	var removed int64
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		n, err := deleteWithShows(ctx, tx, r.d, KindVenue, "venues", "venue_id", id, policy)
		removed = n
		return err
	})
	if err != nil {
		return 0, classify(KindVenue, "delete", err)
	}
	return removed, nil
}

// FilterBySubstring returns venues whose field contains needle, ignoring
// case.  MySQL and PostgreSQL narrow the candidates with LOWER(col) LIKE;
// SQLite returns every row.  Each candidate is then checked with Unicode
// case folding, so the result matches SearchVenues exactly.
func (r *VenueRepo) FilterBySubstring(ctx context.Context, field, needle string) ([]model.Venue, error) {
	col, err := filterColumn(field)
	if err != nil {
		return nil, err
	}
	q, args := filterQuery(r.d, venueColumns, "venues", col, needle)
	var rows []model.Venue
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, classify(KindVenue, "filter", err)
	}
	out := make([]model.Venue, 0, len(rows))
	for _, v := range rows {
		if search.Match(venueField(v, col), needle) {
			normalizeVenue(&v)
			out = append(out, v)
		}
	}
	return out, nil
}

// ListShows returns the venue's shows joined with the performing artist,
// ordered by start time.  It reports NotFound when the venue itself is missing.
func (r *VenueRepo) ListShows(ctx context.Context, venueID uint64) ([]model.CounterpartShow, error) {
	const q = `SELECT s.id AS show_id, a.id AS counterpart_id, a.name AS counterpart_name,
		a.image_link AS counterpart_image_link, s.start_time
		FROM shows s
		JOIN artists a ON a.id = s.artist_id
		WHERE s.venue_id = ?
		ORDER BY s.start_time ASC, s.id ASC`
	return listCounterparts(ctx, r.db, KindVenue, "venues", venueID, q)
}

func venueField(v model.Venue, col string) string {
	switch col {
	case "city":
		return v.City
	case "state":
		return v.State
	default:
		return v.Name
	}
}

func normalizeVenue(v *model.Venue) {
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
	if v.Genres == nil {
		v.Genres = model.Genres{}
	}
}
