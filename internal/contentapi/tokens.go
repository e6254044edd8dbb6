package contentapi

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens is the credential pair issued at login.
type Tokens struct {
	Access  string `json:"accessToken"`
	Refresh string `json:"refreshToken"`
}

// TokenStore persists the credentials the client attaches to requests.
type TokenStore interface {
	Tokens() Tokens
	SetTokens(Tokens)
	Clear()
}

// MemoryTokens is a TokenStore held in memory.
type MemoryTokens struct {
	mu sync.RWMutex
	t  Tokens
}

func NewMemoryTokens(t Tokens) *MemoryTokens {
	return &MemoryTokens{t: t}
}

func (m *MemoryTokens) Tokens() Tokens {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.t
}

func (m *MemoryTokens) SetTokens(t Tokens) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t = t
}

func (m *MemoryTokens) Clear() {
	m.SetTokens(Tokens{})
}

// anonymous never holds credentials.
type anonymous struct{}

func (anonymous) Tokens() Tokens   { return Tokens{} }
func (anonymous) SetTokens(Tokens) {}
func (anonymous) Clear()           {}

// ExpiresAt reads the exp claim of an access token without verifying its
// signature; the API verifies it.
func ExpiresAt(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
