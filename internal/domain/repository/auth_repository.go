package repository

import (
	"context"

	"github.com/Visionary-Advance/xoco-coffee/internal/domain/auth"
)

// MerchantAuthRepository stores Square OAuth credentials per client id.
type MerchantAuthRepository interface {
	Save(ctx context.Context, creds *auth.Credentials) error
	// Active returns the active credentials for the client id, or
	// auth.ErrNoActiveAuth.
	Active(ctx context.Context, clientID string) (*auth.Credentials, error)
	TouchLastUsed(ctx context.Context, clientID string) error
}
