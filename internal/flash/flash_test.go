package flash

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEchoContext(cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func putAndCarry(t *testing.T, s *Store, msg string) echo.Context {
	t.Helper()
	c, rec := newEchoContext()
	require.NoError(t, s.Put(context.Background(), c, msg))

	res := rec.Result()
	require.NotEmpty(t, res.Cookies(), "Put must set the flash cookie")
	next, _ := newEchoContext(res.Cookies()...)
	return next
}

func TestFlashRedisRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewStore(rdb, time.Minute)

	next := putAndCarry(t, s, "Thank you Alice!")
	assert.Equal(t, "Thank you Alice!", s.Pop(context.Background(), next))
}

func TestFlashShownExactlyOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewStore(rdb, time.Minute)

	next := putAndCarry(t, s, "once")
	assert.Equal(t, "once", s.Pop(context.Background(), next))

	// The same token again yields nothing.
	again, _ := newEchoContext(next.Request().Cookies()...)
	assert.Empty(t, s.Pop(context.Background(), again))
}

func TestFlashExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewStore(rdb, time.Minute)

	next := putAndCarry(t, s, "stale")
	mr.FastForward(2 * time.Minute)
	assert.Empty(t, s.Pop(context.Background(), next))
}

func TestFlashInMemoryFallback(t *testing.T) {
	s := NewStore(nil, time.Minute)

	next := putAndCarry(t, s, "no redis needed")
	assert.Equal(t, "no redis needed", s.Pop(context.Background(), next))
	again, _ := newEchoContext(next.Request().Cookies()...)
	assert.Empty(t, s.Pop(context.Background(), again))
}

func TestFlashNoCookie(t *testing.T) {
	s := NewStore(nil, time.Minute)
	c, _ := newEchoContext()
	assert.Empty(t, s.Pop(context.Background(), c))
}

func TestFlashInMemorySweepsExpired(t *testing.T) {
	s := NewStore(nil, time.Minute)

	// An orphaned token whose cookie was never presented again.
	s.mu.Lock()
	s.mem["orphan"] = memEntry{msg: "stale", exp: time.Now().Add(-time.Second)}
	s.mu.Unlock()

	next := putAndCarry(t, s, "fresh")

	s.mu.Lock()
	_, orphaned := s.mem["orphan"]
	size := len(s.mem)
	s.mu.Unlock()
	assert.False(t, orphaned, "expired entries must be swept on Put")
	assert.Equal(t, 1, size)

	assert.Equal(t, "fresh", s.Pop(context.Background(), next))
}
