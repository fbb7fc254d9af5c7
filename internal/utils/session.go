package utils // package utils provides helper functions for session tokens and hashing

import (
	"errors"
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// SessionToken represents a signed HS256 JWT carried in the session
// cookie, together with its expiry.  The token identifies the logged
// in account and whether it holds the staff capability.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// SessionClaims is the decoded content of a valid session token.
type SessionClaims struct {
	AccountID uint64 // subject of the token
	Staff     bool   // staff capability flag
}

// ErrInvalidSession is returned by ParseSession for expired, malformed
// or wrongly signed tokens.
var ErrInvalidSession = errors.New("invalid session token")

// NewSessionToken builds and signs an HS256 JWT for an account.  The
// claims are: subject (sub) holding the account ID, staff holding the
// capability flag, expiration (exp) and issued at (iat).
func NewSessionToken(secret string, accountID uint64, staff bool, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   accountID,
		"staff": staff,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSession validates a session token string and extracts its
// claims.  The signing method must be HMAC; anything else is rejected
// with ErrInvalidSession.
func ParseSession(secret, raw string) (SessionClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return SessionClaims{}, ErrInvalidSession
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, ErrInvalidSession
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return SessionClaims{}, ErrInvalidSession
	}
	staff, _ := claims["staff"].(bool)
	return SessionClaims{AccountID: uint64(sub), Staff: staff}, nil
}
