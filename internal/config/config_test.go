package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSQLiteDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_PATH", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("DELETE_POLICY", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite3", cfg.DB.Driver)
	assert.Equal(t, "registry.db", cfg.DB.Path)
	assert.Equal(t, "reject", cfg.DeletePolicy)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.DB.Migrate)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadMySQL(t *testing.T) {
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "gigs")
	t.Setenv("DB_NAME", "registry")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_MIGRATE", "false")
	t.Setenv("DELETE_POLICY", "Cascade")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, "3306", cfg.DB.Port)
	assert.False(t, cfg.DB.Migrate)
	assert.Equal(t, "cascade", cfg.DeletePolicy)
}

func TestLoadReportsEveryProblem(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("DELETE_POLICY", "orphan")
	t.Setenv("LOG_LEVEL", "loud")

	_, err := Load()
	require.Error(t, err)
	for _, want := range []string{"DB_HOST", "DB_USER", "DB_NAME", "DELETE_POLICY", "LOG_LEVEL"} {
		assert.Contains(t, err.Error(), want)
	}

	t.Setenv("DB_DRIVER", "oracle")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestLoadRejectsUnparseableValues(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_PATH", "registry.db")
	t.Setenv("DELETE_POLICY", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "ten seconds")
	t.Setenv("DB_MIGRATE", "maybe")
	t.Setenv("DB_MAX_OPEN_CONNS", "lots")

	_, err := Load()
	require.Error(t, err)
	for _, want := range []string{
		`SHUTDOWN_TIMEOUT "ten seconds" is not a valid duration`,
		`DB_MIGRATE "maybe" is not a valid bool`,
		`DB_MAX_OPEN_CONNS "lots" is not a valid integer`,
	} {
		assert.Contains(t, err.Error(), want)
	}

	t.Setenv("SHUTDOWN_TIMEOUT", "15s")
	t.Setenv("DB_MIGRATE", "off")
	t.Setenv("DB_MAX_OPEN_CONNS", " 8 ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.DB.Migrate)
	assert.Equal(t, 8, cfg.DB.MaxOpenConns)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "yes")
	t.Setenv("X_INT", "nope")
	t.Setenv("X_DUR", "1500ms")
	assert.True(t, envBool("X_BOOL", false))
	assert.Equal(t, 7, envInt("X_INT", 7))
	assert.Equal(t, 1500*time.Millisecond, envDur("X_DUR", time.Second))
	assert.Equal(t, "d", envStr("X_UNSET_FOR_TEST", "d"))
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_BURST", "")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "")

	t.Setenv("RATE_LIMIT_WRITE_CAPACITY", "")
	t.Setenv("RATE_LIMIT_KEY_STRATEGY", "per-user")
	t.Setenv("RATE_LIMIT_PREFIX", "")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL, "TTL is raised to five refill intervals")
	assert.Equal(t, RateKeyIPRoute, cfg.KeyStrategy)
	assert.Equal(t, "registry:rl", cfg.Prefix)

	bucket, size := cfg.Bucket("GET")
	assert.Equal(t, "read", bucket)
	assert.Equal(t, 1, size)
	bucket, size = cfg.Bucket("delete")
	assert.Equal(t, "write", bucket)
	assert.Equal(t, 20, size)

	// A zero write capacity falls back to the read bucket size.
	_, size = RateLimitConfig{Capacity: 5}.Bucket("POST")
	assert.Equal(t, 5, size)
}

func TestCacheTTLForSearch(t *testing.T) {
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("CACHE_SEARCH_TTL", "5s")
	t.Setenv("CACHE_KEY_STRATEGY", "bogus")
	t.Setenv("CACHE_INVALIDATE_ON_WRITE", "")

	c := LoadCacheConfig()
	assert.Equal(t, CacheKeyRouteQuery, c.KeyStrategy)
	assert.True(t, c.InvalidateOnWrite)
	assert.Equal(t, 5*time.Second, c.TTLFor("/v1/artists/search"))
	assert.Equal(t, 5*time.Second, c.TTLFor("/v1/venues/search/"))
	assert.Equal(t, time.Minute, c.TTLFor("/v1/venues/3"))

	t.Setenv("CACHE_SEARCH_TTL", "2h")
	assert.Equal(t, time.Minute, LoadCacheConfig().SearchTTL, "search entries never outlive pages")
}

func TestLoadCacheAndQueueConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head,")
	t.Setenv("QUEUE_ENABLED", "1")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@mq:5672/")

	c := LoadCacheConfig()
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, c.Methods)

	q := LoadQueueConfig()
	assert.True(t, q.Enabled)
	assert.Equal(t, "amqp://u:p@mq:5672/", q.URL)
	assert.Equal(t, "registry.events", q.Queue)
}

func TestLoadRedisConfig(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_TLS", "true")
	r := LoadRedisConfig()
	assert.Equal(t, "cache:6380", r.Addr)
	assert.True(t, r.TLS)

	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	assert.Equal(t, "redis:6379", LoadRedisConfig().Addr)
}
