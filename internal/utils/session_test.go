package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("secret", 42, true, 30)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims, err := ParseSession("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.AccountID)
	assert.True(t, claims.Staff)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	tok, err := NewSessionToken("secret", 1, false, 30)
	require.NoError(t, err)

	_, err = ParseSession("other-secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionTokenExpired(t *testing.T) {
	tok, err := NewSessionToken("secret", 1, false, -1)
	require.NoError(t, err)

	_, err = ParseSession("secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionTokenGarbage(t *testing.T) {
	_, err := ParseSession("secret", "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestPasswordHashVerify(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, VerifyPassword(hash, "hunter22"))
	assert.False(t, VerifyPassword(hash, "hunter23"))
}
