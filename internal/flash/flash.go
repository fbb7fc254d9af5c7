// Package flash stores one-shot acknowledgment messages shown after a
// redirect.  Booking and feedback submissions follow the
// POST-redirect-GET pattern: the success text is not embedded in the
// redirect target, it is parked under a random token referenced by a
// short-lived cookie and consumed by the next GET.
//
// Messages live in Redis when a client is available so they survive
// instance restarts and load-balanced deployments.  Without Redis the
// store degrades to an in-process map guarded by a mutex, matching how
// the rest of the application treats Redis as optional.
package flash

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Cookie is the name of the cookie referencing a pending message.
const Cookie = "flash"

const keyPrefix = "flash:"

// Store holds pending flash messages.
type Store struct {
	rdb *redis.Client
	ttl time.Duration

	mu  sync.Mutex
	mem map[string]memEntry
}

type memEntry struct {
	msg string
	exp time.Time
}

// NewStore builds a Store.  rdb may be nil, in which case messages are
// kept in process memory only.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{rdb: rdb, ttl: ttl, mem: make(map[string]memEntry)}
}

// Put parks a message under a fresh token and points the flash cookie
// at it.  Call before issuing the redirect.
func (s *Store) Put(ctx context.Context, c echo.Context, msg string) error {
	token := uuid.NewString()
	if s.rdb != nil {
		if err := s.rdb.Set(ctx, keyPrefix+token, msg, s.ttl).Err(); err != nil {
			return err
		}
	} else {
		s.mu.Lock()
		now := time.Now()
		// Entries whose cookie was lost are never popped; drop the
		// expired ones here so the fallback map cannot grow unbounded.
		for tok, e := range s.mem {
			if now.After(e.exp) {
				delete(s.mem, tok)
			}
		}
		s.mem[token] = memEntry{msg: msg, exp: now.Add(s.ttl)}
		s.mu.Unlock()
	}
	c.SetCookie(&http.Cookie{
		Name:     Cookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
	})
	return nil
}

// Pop consumes and returns the pending message for the request, or ""
// when there is none.  The message and cookie are cleared so it is
// shown exactly once.
func (s *Store) Pop(ctx context.Context, c echo.Context) string {
	cookie, err := c.Cookie(Cookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	token := cookie.Value
	c.SetCookie(&http.Cookie{Name: Cookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	if s.rdb != nil {
		msg, err := s.rdb.GetDel(ctx, keyPrefix+token).Result()
		if err != nil {
			return ""
		}
		return msg
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.mem[token]
	if !ok {
		return ""
	}
	delete(s.mem, token)
	if time.Now().After(e.exp) {
		return ""
	}
	return e.msg
}
