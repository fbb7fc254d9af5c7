package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsplay/sports-centre-booking/internal/config"
)

func limiterConfig(capacity int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
}

func serveLimited(t *testing.T, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestTokenBucketLimits(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mw := NewTokenBucket(limiterConfig(2), rdb)

	first := serveLimited(t, mw)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	second := serveLimited(t, mw)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	// Bucket drained; the next request from the same client is turned
	// away with a retry hint.
	third := serveLimited(t, mw)
	require.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.NotEmpty(t, third.Header().Get("Retry-After"))
	assert.Contains(t, third.Body.String(), "too_many_requests")
}

func TestTokenBucketDisabledPassThrough(t *testing.T) {
	cfg := limiterConfig(1)
	cfg.Enabled = false
	mw := NewTokenBucket(cfg, nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serveLimited(t, mw).Code)
	}
}

func TestTokenBucketNilRedisPassThrough(t *testing.T) {
	mw := NewTokenBucket(limiterConfig(1), nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serveLimited(t, mw).Code)
	}
}
