package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/Visionary-Advance/xoco-coffee/internal/domain/auth"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/repository"
	"github.com/Visionary-Advance/xoco-coffee/pkg/logger"
)

// TokenExchanger swaps an OAuth authorization code for merchant tokens.
// Implemented by the Square client.
type TokenExchanger interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (*auth.TokenGrant, error)
}

// Service handles the merchant-side Square OAuth linking flow: the
// callback exchange and lookups of the stored credentials.
type Service struct {
	exchanger TokenExchanger
	repo      repository.MerchantAuthRepository
	clientID  string
	// locationID is the default location attached to newly linked
	// credentials.
	locationID string
	log        logger.Logger
	now        func() time.Time
}

func NewService(
	exchanger TokenExchanger,
	repo repository.MerchantAuthRepository,
	clientID, locationID string,
	log logger.Logger,
) *Service {
	return &Service{
		exchanger:  exchanger,
		repo:       repo,
		clientID:   clientID,
		locationID: locationID,
		log:        log,
		now:        time.Now,
	}
}

// HandleCallback completes the OAuth flow: it exchanges the authorization
// code and persists the resulting credentials as the active authorization
// for this application.
func (s *Service) HandleCallback(ctx context.Context, code, redirectURI string) (*auth.Credentials, error) {
	if code == "" {
		return nil, fmt.Errorf("authorization code is empty")
	}

	grant, err := s.exchanger.ExchangeCode(ctx, code, redirectURI)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	creds := &auth.Credentials{
		ClientID:     s.clientID,
		MerchantID:   grant.MerchantID,
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		LocationID:   s.locationID,
		Status:       "active",
		ExpiresAt:    grant.ExpiresAt,
		LastUsedAt:   s.now(),
	}
	if err := s.repo.Save(ctx, creds); err != nil {
		return nil, fmt.Errorf("save credentials: %w", err)
	}

	s.log.Info("square merchant linked",
		logger.String("merchant_id", grant.MerchantID),
	)
	return creds, nil
}

// Credentials returns the active stored authorization, refusing expired
// tokens, and records the access.
func (s *Service) Credentials(ctx context.Context) (*auth.Credentials, error) {
	creds, err := s.repo.Active(ctx, s.clientID)
	if err != nil {
		return nil, err
	}
	if creds.Expired(s.now()) {
		return nil, auth.ErrTokenExpired
	}
	if err := s.repo.TouchLastUsed(ctx, s.clientID); err != nil {
		s.log.Warn("last_used_at not updated", logger.Error(err))
	}
	return creds, nil
}
