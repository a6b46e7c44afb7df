package config

import (
	"strings"
	"time"
)

// Cache key strategies.  Every strategy hashes the concrete request path,
// so /v1/venues/1 and /v1/venues/2 never share an entry.
const (
	CacheKeyRoute            = "route"              // path only; ?search_term is ignored
	CacheKeyRouteQuery       = "route_query"        // path and sorted query
	CacheKeyMethodRoute      = "method_route"       // GET and HEAD kept apart
	CacheKeyMethodRouteQuery = "method_route_query" // both of the above
)

var cacheKeyStrategies = map[string]bool{
	CacheKeyRoute:            true,
	CacheKeyRouteQuery:       true,
	CacheKeyMethodRoute:      true,
	CacheKeyMethodRouteQuery: true,
}

// CacheConfig configures the Redis response cache in front of the
// registry's read endpoints.
//
// Venue and artist pages split shows into upcoming and past at request
// time, so a cached page can be stale by up to TTL.  Search results use
// the shorter SearchTTL.  With InvalidateOnWrite every successful create,
// update or delete drops all entries under Prefix, since a new show
// changes both its venue's and its artist's pages.
type CacheConfig struct {
	Enabled           bool
	Methods           map[string]bool
	TTL               time.Duration
	SearchTTL         time.Duration
	KeyStrategy       string
	Prefix            string
	MaxBodyBytes      int
	InvalidateOnWrite bool
}

// LoadCacheConfig reads the CACHE_* variables.  Methods are upper-cased,
// an unknown key strategy falls back to route_query and SearchTTL never
// exceeds TTL.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:           envBool("CACHE_ENABLED", true),
		Methods:           parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:               envDur("CACHE_TTL", 30*time.Second),
		SearchTTL:         envDur("CACHE_SEARCH_TTL", 10*time.Second),
		KeyStrategy:       strings.ToLower(envStr("CACHE_KEY_STRATEGY", CacheKeyRouteQuery)),
		Prefix:            envStr("CACHE_PREFIX", "registry:cache"),
		MaxBodyBytes:      envInt("CACHE_MAX_BODY_BYTES", 1<<20),
		InvalidateOnWrite: envBool("CACHE_INVALIDATE_ON_WRITE", true),
	}
	if !cacheKeyStrategies[cfg.KeyStrategy] {
		cfg.KeyStrategy = CacheKeyRouteQuery
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	if cfg.SearchTTL <= 0 || cfg.SearchTTL > cfg.TTL {
		cfg.SearchTTL = cfg.TTL
	}
	return cfg
}

// TTLFor returns how long a response for path may be served from cache.
func (c CacheConfig) TTLFor(path string) time.Duration {
	ttl := c.TTL
	if strings.HasSuffix(strings.TrimSuffix(path, "/"), "/search") && c.SearchTTL > 0 {
		ttl = c.SearchTTL
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return ttl
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
