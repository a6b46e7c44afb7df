package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// MySQL server error numbers we care about.
const (
	mysqlDupEntry        = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// classify turns a raw driver error into one of the taxonomy errors.
// Errors that already belong to the taxonomy pass through untouched;
// anything unrecognised is wrapped with the operation for context.
func classify(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConstraint) || errors.Is(err, ErrStoreUnavailable) {
		return err
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDupEntry:
			return &ConstraintError{Kind: kind, Reason: "duplicate value", Err: err}
		case mysqlRowIsReferenced, mysqlNoReferencedRow:
			return &ConstraintError{Kind: kind, Reason: "foreign key violation", Err: err}
		case mysqlLockWaitTimeout, mysqlDeadlock:
			return &UnavailableError{Op: op, Err: err}
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "23": // integrity_constraint_violation
			return &ConstraintError{Kind: kind, Reason: pqErr.Code.Name(), Err: err}
		case "08", "40", "53", "57": // connection, rollback, resources, operator intervention
			return &UnavailableError{Op: op, Err: err}
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code {
		case sqlite3.ErrConstraint:
			reason := "constraint failed"
			if liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
				reason = "foreign key violation"
			} else if liteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
				reason = "duplicate value"
			}
			return &ConstraintError{Kind: kind, Reason: reason, Err: err}
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen, sqlite3.ErrIoErr:
			return &UnavailableError{Op: op, Err: err}
		}
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, sql.ErrTxDone) || errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &UnavailableError{Op: op, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &UnavailableError{Op: op, Err: err}
	}
	return fmt.Errorf("%s %s: %w", op, kind, err)
}
