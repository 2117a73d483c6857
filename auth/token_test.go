package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenStoreEmpty(t *testing.T) {
	ts := NewTokenStore()

	_, ok := ts.Token()
	assert.False(t, ok)
	_, ok = ts.Claims()
	assert.False(t, ok)
}

func TestTokenStoreValidToken(t *testing.T) {
	ts := NewTokenStore()
	ts.SetToken(signedToken(t, Claims{
		UserID:   "u1",
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}))

	token, ok := ts.Token()
	require.True(t, ok)
	assert.NotEmpty(t, token)

	claims, ok := ts.Claims()
	require.True(t, ok)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestTokenStoreExpiredToken(t *testing.T) {
	ts := NewTokenStore()
	ts.SetToken(signedToken(t, Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}))

	_, ok := ts.Token()
	assert.False(t, ok, "expired tokens must not be presented")
}

func TestTokenStoreOpaqueToken(t *testing.T) {
	ts := NewTokenStore()
	ts.SetToken("not-a-jwt")

	token, ok := ts.Token()
	require.True(t, ok, "non-JWT tokens are passed through for the backend to judge")
	assert.Equal(t, "not-a-jwt", token)

	_, ok = ts.Claims()
	assert.False(t, ok)
}

func TestTokenStoreClear(t *testing.T) {
	ts := NewTokenStore()
	ts.SetToken("not-a-jwt")
	ts.ClearToken()

	_, ok := ts.Token()
	assert.False(t, ok)
}
