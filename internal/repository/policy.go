package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/gig-registry/internal/model"
)

// DeletePolicy decides what happens to the shows of a venue or artist
// that is being deleted.  It is chosen once at startup.
type DeletePolicy int

const (
	// RejectIfReferenced refuses the delete with a ConstraintError while
	// any show references the record.
	RejectIfReferenced DeletePolicy = iota
	// Cascade deletes the referencing shows together with the record.
	Cascade
)

func (p DeletePolicy) String() string {
	if p == Cascade {
		return "cascade"
	}
	return "reject"
}

// ParseDeletePolicy accepts "reject" (also "reject-if-referenced", "")
// and "cascade".
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject", "reject-if-referenced", "reject_if_referenced":
		return RejectIfReferenced, nil
	case "cascade":
		return Cascade, nil
	}
	return RejectIfReferenced, fmt.Errorf("unknown delete policy %q", s)
}

// deleteWithShows removes the row id from table after applying policy to
// the shows that reference it through fkCol.  It must run inside tx.
func deleteWithShows(ctx context.Context, tx *sqlx.Tx, d dialect, kind Kind, table, fkCol string, id uint64, policy DeletePolicy) (int64, error) {
	ok, err := exists(ctx, tx, table, id, d.rowLock)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, notFound(kind, id)
	}
	var refs int64
	if err := tx.GetContext(ctx, &refs, tx.Rebind("SELECT COUNT(*) FROM shows WHERE "+fkCol+" = ?"), id); err != nil {
		return 0, err
	}
	var removed int64
	if refs > 0 {
		if policy != Cascade {
			return 0, &ConstraintError{Kind: kind, Reason: fmt.Sprintf("%d show(s) still reference this %s", refs, kind)}
		}
		res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM shows WHERE "+fkCol+" = ?"), id)
		if err != nil {
			return 0, err
		}
		removed, _ = res.RowsAffected()
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM "+table+" WHERE id = ?"), id); err != nil {
		return 0, err
	}
	return removed, nil
}

// listCounterparts verifies the owning row exists and then runs q, which
// must select the model.CounterpartShow columns for the given id.
func listCounterparts(ctx context.Context, db *sqlx.DB, kind Kind, table string, id uint64, q string) ([]model.CounterpartShow, error) {
	out := []model.CounterpartShow{}
	err := withTx(ctx, db, func(tx *sqlx.Tx) error {
		ok, err := exists(ctx, tx, table, id, "")
		if err != nil {
			return err
		}
		if !ok {
			return notFound(kind, id)
		}
		return tx.SelectContext(ctx, &out, tx.Rebind(q), id)
	})
	if err != nil {
		return nil, classify(kind, "list shows", err)
	}
	for i := range out {
		out[i].StartTime = out[i].StartTime.UTC()
	}
	return out, nil
}
