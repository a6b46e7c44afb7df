// Package testutil opens throwaway SQLite stores for tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/gig-registry/internal/config"
	"github.com/iliyamo/gig-registry/internal/database"
)

// NewDB returns a migrated SQLite database in t's temp dir.  It is
// closed when the test finishes.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := database.Open(config.DBConfig{
		Driver:       "sqlite3",
		Path:         filepath.Join(t.TempDir(), "registry.db"),
		MaxOpenConns: 4,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}
