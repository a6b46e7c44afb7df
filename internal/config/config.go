package config // package config loads application configuration from environment variables

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; a .env file in the working directory is loaded
// by main before Load runs.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	LogLevel        string        // debug, info, warn or error
	DeletePolicy    string        // reject or cascade; applies to venue and artist deletes
	ShutdownTimeout time.Duration // grace period for in-flight requests on shutdown
	DB              DBConfig
}

// DBConfig selects and configures the SQL store.
type DBConfig struct {
	Driver       string // mysql, postgres or sqlite3
	User         string // database username
	Pass         string // database password (optional)
	Host         string // database host address
	Port         string // database port number
	Name         string // database name
	SSLMode      string // postgres sslmode
	Path         string // sqlite3 database file
	Migrate      bool   // apply embedded migrations at startup
	MaxOpenConns int    // connection pool size
}

var defaultDBPorts = map[string]string{
	"mysql":    "3306",
	"postgres": "5432",
}

// Load reads configuration values from environment variables.  Unlike the
// individual helpers it does not fall back silently on bad input: every
// invalid or missing required key is collected into one error.
func Load() (Config, error) {
	var env strictEnv
	driver := strings.ToLower(envStr("DB_DRIVER", "mysql"))
	cfg := Config{
		Env:             envStr("APP_ENV", "dev"),
		Port:            envStr("APP_PORT", "8080"),
		LogLevel:        strings.ToLower(envStr("LOG_LEVEL", "info")),
		DeletePolicy:    strings.ToLower(envStr("DELETE_POLICY", "reject")),
		ShutdownTimeout: env.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DB: DBConfig{
			Driver:       driver,
			User:         envStr("DB_USER", ""),
			Pass:         envStr("DB_PASS", ""),
			Host:         envStr("DB_HOST", ""),
			Port:         envStr("DB_PORT", defaultDBPorts[driver]),
			Name:         envStr("DB_NAME", ""),
			SSLMode:      envStr("DB_SSLMODE", "disable"),
			Path:         envStr("DB_PATH", "registry.db"),
			Migrate:      env.boolean("DB_MIGRATE", true),
			MaxOpenConns: env.integer("DB_MAX_OPEN_CONNS", 25),
		},
	}
	if problems := append(env.problems, cfg.problems()...); len(problems) > 0 {
		return Config{}, invalidConfig(problems)
	}
	return cfg, nil
}

// Validate checks that the combination of values can start a server.
func (c Config) Validate() error {
	if problems := c.problems(); len(problems) > 0 {
		return invalidConfig(problems)
	}
	return nil
}

func invalidConfig(problems []string) error {
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

func (c Config) problems() []string {
	var problems []string
	switch c.DB.Driver {
	case "mysql", "postgres":
		if c.DB.Host == "" {
			problems = append(problems, "DB_HOST is required")
		}
		if c.DB.User == "" {
			problems = append(problems, "DB_USER is required")
		}
		if c.DB.Name == "" {
			problems = append(problems, "DB_NAME is required")
		}
	case "sqlite3":
		if c.DB.Path == "" {
			problems = append(problems, "DB_PATH is required")
		}
	default:
		problems = append(problems, fmt.Sprintf("DB_DRIVER %q is not one of mysql, postgres, sqlite3", c.DB.Driver))
	}
	switch c.DeletePolicy {
	case "reject", "reject-if-referenced", "cascade":
	default:
		problems = append(problems, fmt.Sprintf("DELETE_POLICY %q is not one of reject, cascade", c.DeletePolicy))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if c.Port == "" {
		problems = append(problems, "APP_PORT is required")
	}
	if c.DB.MaxOpenConns < 1 {
		problems = append(problems, "DB_MAX_OPEN_CONNS must be at least 1")
	}
	if c.ShutdownTimeout < 0 {
		problems = append(problems, "SHUTDOWN_TIMEOUT must not be negative")
	}
	return problems
}
