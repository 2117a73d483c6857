package auth

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"boozedash/pkg/log"
)

// Claims token claims issued by the backend
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenStore holds the current authentication credential
//
// The client never verifies the signature (it has no key); it only inspects
// the expiry so obviously stale tokens are not presented to the backend.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewTokenStore creates an empty token store
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// SetToken stores the credential received from the login flow
func (t *TokenStore) SetToken(token string) {
	t.mu.Lock()
	t.token = token
	t.mu.Unlock()
}

// ClearToken removes the stored credential
func (t *TokenStore) ClearToken() {
	t.mu.Lock()
	t.token = ""
	t.mu.Unlock()
}

// Token returns the stored credential. ok is false when no credential is
// present or the token is past its expiry.
func (t *TokenStore) Token() (string, bool) {
	t.mu.RLock()
	token := t.token
	t.mu.RUnlock()

	if token == "" {
		return "", false
	}

	claims := &Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		// Opaque token, let the backend decide
		return token, true
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		log.Debug("Stored token is expired")
		return "", false
	}
	return token, true
}

// Claims returns the decoded claims of the stored token, when decodable
func (t *TokenStore) Claims() (*Claims, bool) {
	t.mu.RLock()
	token := t.token
	t.mu.RUnlock()

	if token == "" {
		return nil, false
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}
