package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/iliyamo/gig-registry/internal/config"
)

// Open connects to the configured database and verifies the connection.
func Open(cfg config.DBConfig) (*sqlx.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	maxOpen := cfg.MaxOpenConns
	if maxOpen < 1 {
		maxOpen = 25
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// DSN builds the driver-specific connection string.
func DSN(cfg config.DBConfig) (string, error) {
	switch cfg.Driver {
	case "mysql":
		auth := cfg.User
		if cfg.Pass != "" {
			auth = fmt.Sprintf("%s:%s", cfg.User, cfg.Pass)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			auth, cfg.Host, cfg.Port, cfg.Name), nil
	case "postgres":
		u := url.URL{
			Scheme: "postgres",
			Host:   cfg.Host + ":" + cfg.Port,
			Path:   "/" + cfg.Name,
		}
		if cfg.Pass != "" {
			u.User = url.UserPassword(cfg.User, cfg.Pass)
		} else {
			u.User = url.User(cfg.User)
		}
		q := url.Values{}
		q.Set("sslmode", cfg.SSLMode)
		q.Set("timezone", "UTC")
		u.RawQuery = q.Encode()
		return u.String(), nil
	case "sqlite3":
		// foreign keys are off by default in SQLite; immediate transactions
		// take the write lock at BEGIN so two writers never deadlock on upgrade.
		return fmt.Sprintf("file:%s?_foreign_keys=1&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate",
			cfg.Path), nil
	}
	return "", fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
}
