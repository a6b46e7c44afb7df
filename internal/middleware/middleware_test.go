package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/gig-registry/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}, "X-Request-Id": {"abc"}}
	body := []byte(`{"count":1}`)
	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, body, gotBody)

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
	_, _, _, ok = decodePayload(bs[:9])
	assert.False(t, ok, "header length past end of buffer")
}

func TestCacheKeyUsesConcretePath(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "registry:cache", KeyStrategy: "route_query"}
	k1 := cacheKeyFrom(cfg, httptest.NewRequest(http.MethodGet, "/venues/1", nil))
	k2 := cacheKeyFrom(cfg, httptest.NewRequest(http.MethodGet, "/venues/2", nil))
	assert.NotEqual(t, k1, k2)
	assert.Regexp(t, `^registry:cache:[0-9a-f]{40}$`, k1)

	a := cacheKeyFrom(cfg, httptest.NewRequest(http.MethodGet, "/venues/search?q=hop&page=1", nil))
	b := cacheKeyFrom(cfg, httptest.NewRequest(http.MethodGet, "/venues/search?page=1&q=hop", nil))
	assert.Equal(t, a, b)

	cfg.KeyStrategy = config.CacheKeyRoute
	c := cacheKeyFrom(cfg, httptest.NewRequest(http.MethodGet, "/venues/search?q=other", nil))
	d := cacheKeyFrom(cfg, httptest.NewRequest(http.MethodGet, "/venues/search?q=hop", nil))
	assert.Equal(t, c, d)
}

func TestCaptureWriterLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, err := cw.Write([]byte("abc"))
	require.NoError(t, err)
	assert.False(t, cw.truncated())
	_, err = cw.Write([]byte("def"))
	require.NoError(t, err)
	assert.True(t, cw.truncated())
	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/venues", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	called := 0
	h := func(c echo.Context) error { called++; return c.NoContent(http.StatusNoContent) }

	require.NoError(t, NewRedisCache(config.CacheConfig{Enabled: true}, nil)(h)(c))
	require.NoError(t, NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil)(h)(c))
	assert.Equal(t, 2, called)

	boom := errors.New("boom")
	err := NewRedisCache(config.CacheConfig{}, nil)(func(echo.Context) error { return boom })(c)
	assert.ErrorIs(t, err, boom)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/shows", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/shows")

	cfg := config.RateLimitConfig{Prefix: "registry:rl"}
	assert.Equal(t, "registry:rl:write:ip:10.0.0.7:route:POST /shows", buildRateKey(cfg, c))
	cfg.KeyStrategy = config.RateKeyIP
	assert.Equal(t, "registry:rl:write:ip:10.0.0.7", buildRateKey(cfg, c))
	cfg.KeyStrategy = config.RateKeyRoute
	assert.Equal(t, "registry:rl:write:route:POST /shows", buildRateKey(cfg, c))

	// Browsing from the same address draws from its own bucket.
	get := httptest.NewRequest(http.MethodGet, "/v1/venues/search", nil)
	get.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c = e.NewContext(get, httptest.NewRecorder())
	c.SetPath("/v1/venues/search")
	cfg.KeyStrategy = config.RateKeyIP
	assert.Equal(t, "registry:rl:read:ip:10.0.0.7", buildRateKey(cfg, c))
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 0, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(1))
	assert.Equal(t, 2, retryAfterSeconds(1001))
	assert.Equal(t, 0, retryAfterSeconds(-5))
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(3), asInt64(int64(3)))
	assert.Equal(t, int64(4), asInt64("4"))
	assert.Equal(t, int64(5), asInt64(float64(5)))
	assert.Equal(t, int64(0), asInt64(nil))
}
