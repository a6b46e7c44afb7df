// Package repository contains data access logic for Show domain operations. This file defines
// the show queries. A Show links one artist to one venue at a start time; both links are
// foreign keys and are checked again inside the inserting transaction.
package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/gig-registry/internal/model"
)

const showColumns = `id, artist_id, venue_id, start_time, created_at`

// listingQuery joins every show with its artist and venue.  Callers append
// a WHERE clause and ordering.
const listingQuery = `SELECT s.id AS show_id, v.id AS venue_id, v.name AS venue_name,
	a.id AS artist_id, a.name AS artist_name, a.image_link AS artist_image_link, s.start_time
	FROM shows s
	JOIN artists a ON a.id = s.artist_id
	JOIN venues v  ON v.id = s.venue_id`

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sqlx.DB
	d  dialect
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sqlx.DB) *ShowRepo {
	return &ShowRepo{db: db, d: dialectOf(db)}
}

// DB exposes the underlying handle so callers can run health checks.
func (r *ShowRepo) DB() *sqlx.DB {
	return r.db
}

// Create inserts s after confirming, in the same transaction, that both
// the artist and the venue exist.  A missing reference is reported as a
// ConstraintError and nothing is written.  On success s carries its new
// ID and the returned listing holds the joined names.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) (model.ShowListing, error) {
	const q = `INSERT INTO shows (artist_id, venue_id, start_time, created_at) VALUES (?, ?, ?, ?)`
	var listing model.ShowListing
	ts := now()
	start := s.StartTime.UTC()
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var artist struct {
			Name      string `db:"name"`
			ImageLink string `db:"image_link"`
		}
		err := tx.GetContext(ctx, &artist, tx.Rebind("SELECT name, image_link FROM artists WHERE id = ?"), s.ArtistID)
		if err != nil {
			if isNoRows(err) {
				return &ConstraintError{Kind: KindShow, Reason: fmt.Sprintf("artist %d does not exist", s.ArtistID)}
			}
			return err
		}
		var venueName string
		err = tx.GetContext(ctx, &venueName, tx.Rebind("SELECT name FROM venues WHERE id = ?"), s.VenueID)
		if err != nil {
			if isNoRows(err) {
				return &ConstraintError{Kind: KindShow, Reason: fmt.Sprintf("venue %d does not exist", s.VenueID)}
			}
			return err
		}
		id, err := r.d.insert(ctx, tx, q, s.ArtistID, s.VenueID, start, ts)
		if err != nil {
			return err
		}
		listing = model.ShowListing{
			ShowID:          id,
			VenueID:         s.VenueID,
			VenueName:       venueName,
			ArtistID:        s.ArtistID,
			ArtistName:      artist.Name,
			ArtistImageLink: artist.ImageLink,
			StartTime:       start,
		}
		return nil
	})
	if err != nil {
		return model.ShowListing{}, classify(KindShow, "create", err)
	}
	s.ID = listing.ShowID
	s.StartTime = start
	s.CreatedAt = ts
	return listing, nil
}

// GetByID retrieves a show by its ID.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	var s model.Show
	if err := r.db.GetContext(ctx, &s, r.db.Rebind("SELECT "+showColumns+" FROM shows WHERE id = ?"), id); err != nil {
		if isNoRows(err) {
			return nil, notFound(KindShow, id)
		}
		return nil, classify(KindShow, "get", err)
	}
	s.StartTime = s.StartTime.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}

// ListAll returns every show ordered by start time.
func (r *ShowRepo) ListAll(ctx context.Context) ([]model.Show, error) {
	out := []model.Show{}
	if err := r.db.SelectContext(ctx, &out, "SELECT "+showColumns+" FROM shows ORDER BY start_time ASC, id ASC"); err != nil {
		return nil, classify(KindShow, "list", err)
	}
	for i := range out {
		out[i].StartTime = out[i].StartTime.UTC()
		out[i].CreatedAt = out[i].CreatedAt.UTC()
	}
	return out, nil
}

// ListDetailed returns every show joined with its artist and venue,
// ordered by start time.  It is a pure read.
func (r *ShowRepo) ListDetailed(ctx context.Context) ([]model.ShowListing, error) {
	out := []model.ShowListing{}
	if err := r.db.SelectContext(ctx, &out, listingQuery+" ORDER BY s.start_time ASC, s.id ASC"); err != nil {
		return nil, classify(KindShow, "list detailed", err)
	}
	for i := range out {
		out[i].StartTime = out[i].StartTime.UTC()
	}
	return out, nil
}

// GetListing returns the joined view of a single show.
func (r *ShowRepo) GetListing(ctx context.Context, id uint64) (*model.ShowListing, error) {
	var l model.ShowListing
	if err := r.db.GetContext(ctx, &l, r.db.Rebind(listingQuery+" WHERE s.id = ?"), id); err != nil {
		if isNoRows(err) {
			return nil, notFound(KindShow, id)
		}
		return nil, classify(KindShow, "get listing", err)
	}
	l.StartTime = l.StartTime.UTC()
	return &l, nil
}

// Delete removes a show.  Nothing references shows, so no policy applies.
func (r *ShowRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM shows WHERE id = ?"), id)
	if err != nil {
		return classify(KindShow, "delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(KindShow, "delete", err)
	}
	if n == 0 {
		return notFound(KindShow, id)
	}
	return nil
}
