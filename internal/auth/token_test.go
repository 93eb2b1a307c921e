package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, expiresAt, err := tm.GenerateToken("user-1", "sess-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.GenerateToken("user-1", "sess-1")
	require.NoError(t, err)

	other := NewTokenManager("other-secret", time.Hour)
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	_, err := tm.ParseToken("not-a-jwt")
	assert.Error(t, err)
}

func TestTokenExpiredRejected(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	tm.ttl = -time.Minute
	token, _, err := tm.GenerateToken("user-1", "sess-1")
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenManagerDefaultTTL(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	assert.Equal(t, 12*time.Hour, tm.TTL())
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, ComparePassword(hash, "password123"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
