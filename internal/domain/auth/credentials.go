package auth

import (
	"errors"
	"time"
)

var (
	ErrNoActiveAuth = errors.New("no active square authorization found")
	ErrTokenExpired = errors.New("square access token has expired")
)

// Credentials is one merchant's Square authorization obtained through the
// OAuth linking flow. One active row per client id.
type Credentials struct {
	ClientID     string
	MerchantID   string
	AccessToken  string
	RefreshToken string
	LocationID   string
	MerchantName string
	Status       string
	ExpiresAt    time.Time
	LastUsedAt   time.Time
}

// Expired reports whether the access token is past its expiry at now.
func (c Credentials) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// TokenGrant is the raw result of an OAuth authorization-code exchange,
// before it is folded into stored Credentials.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	MerchantID   string
	ExpiresAt    time.Time
}
