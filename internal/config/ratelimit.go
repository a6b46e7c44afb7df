package config

import (
	"net/http"
	"strings"
	"time"
)

// Rate limit key strategies.
const (
	RateKeyIP      = "ip"       // one bucket pair per client address
	RateKeyRoute   = "route"    // shared by every client of a route
	RateKeyIPRoute = "ip_route" // per client and route
)

// RateLimitConfig configures the Redis token buckets in front of the API.
// Reads (listings, search, detail pages) and writes (creating, updating
// or deleting venues, artists and shows) draw from separate buckets so a
// burst of catalogue edits cannot starve browsing.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int // read bucket size
	WriteCapacity  int // write bucket size
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
	Debug          bool
}

// Bucket names the bucket a request with method draws from and its size.
func (c RateLimitConfig) Bucket(method string) (string, int) {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return "read", max(c.Capacity, 1)
	}
	if c.WriteCapacity < 1 {
		return "write", max(c.Capacity, 1)
	}
	return "write", c.WriteCapacity
}

// LoadRateLimitConfig reads the RATE_LIMIT_* variables.  RATE_LIMIT_BURST
// and RATE_LIMIT_REFILL_EVERY are shorthands that override capacity and
// refill rate.  Sizes are clamped to at least one and the bucket TTL to
// at least five refill intervals.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
		WriteCapacity:  envInt("RATE_LIMIT_WRITE_CAPACITY", 20),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    strings.ToLower(envStr("RATE_LIMIT_KEY_STRATEGY", RateKeyIPRoute)),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "registry:rl"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}
	if b := envInt("RATE_LIMIT_BURST", -1); b > 0 {
		cfg.Capacity = b
	}
	if every := envDur("RATE_LIMIT_REFILL_EVERY", 0); every > 0 {
		cfg.RefillTokens = 1
		cfg.RefillInterval = every
	}
	switch cfg.KeyStrategy {
	case RateKeyIP, RateKeyRoute, RateKeyIPRoute:
	default:
		cfg.KeyStrategy = RateKeyIPRoute
	}
	cfg.Capacity = max(cfg.Capacity, 1)
	cfg.WriteCapacity = max(cfg.WriteCapacity, 1)
	cfg.RefillTokens = max(cfg.RefillTokens, 1)
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	cfg.TTL = max(cfg.TTL, 5*cfg.RefillInterval)
	return cfg
}
