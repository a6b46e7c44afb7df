package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// dialect captures the few places where the supported drivers differ.
type dialect struct {
	// returning is true when the driver cannot report LastInsertId and
	// the id has to come back through INSERT ... RETURNING.
	returning bool
	// rowLock is appended to a SELECT that must hold the row until commit.
	rowLock string
	// asciiLower is true when the database LOWER only folds ASCII, so a
	// LIKE prefilter would drop non-ASCII case variants.
	asciiLower bool
}

func dialectOf(db *sqlx.DB) dialect {
	switch db.DriverName() {
	case "postgres", "pgx":
		return dialect{returning: true, rowLock: " FOR UPDATE"}
	case "sqlite3":
		// SQLite serialises writers on the whole database file.
		return dialect{asciiLower: true}
	default:
		return dialect{rowLock: " FOR UPDATE"}
	}
}

// insert runs an INSERT inside tx and returns the generated id.
func (d dialect) insert(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (uint64, error) {
	if d.returning {
		var id uint64
		if err := tx.QueryRowxContext(ctx, tx.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// withTx runs fn inside a transaction.  The transaction commits when fn
// returns nil and rolls back otherwise, so callers never observe a
// half-applied write.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}

// exists reports whether table has a row with the given id.  lock is
// appended verbatim so callers can hold the row for the rest of tx.
func exists(ctx context.Context, tx *sqlx.Tx, table string, id uint64, lock string) (bool, error) {
	var one int
	err := tx.QueryRowxContext(ctx, tx.Rebind("SELECT 1 FROM "+table+" WHERE id = ?"+lock), id).Scan(&one)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// now is the store clock.  Timestamps are truncated to microseconds so
// they survive a round trip through DATETIME(6) and TIMESTAMPTZ.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
