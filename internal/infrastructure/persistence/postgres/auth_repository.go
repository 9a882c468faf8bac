package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Visionary-Advance/xoco-coffee/internal/domain/auth"
)

// MerchantAuthRepository stores Square OAuth credentials in the
// square_auth table, one active row per client id.
type MerchantAuthRepository struct {
	pool *pgxpool.Pool
}

func NewMerchantAuthRepository(pool *pgxpool.Pool) *MerchantAuthRepository {
	return &MerchantAuthRepository{pool: pool}
}

func (r *MerchantAuthRepository) Save(ctx context.Context, creds *auth.Credentials) error {
	if creds == nil {
		return fmt.Errorf("credentials are nil")
	}

	const query = `
		INSERT INTO square_auth (client_id, merchant_id, access_token, refresh_token,
			location_id, merchant_name, status, expires_at, last_used_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (client_id) DO UPDATE
		SET merchant_id = EXCLUDED.merchant_id,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			location_id = EXCLUDED.location_id,
			merchant_name = EXCLUDED.merchant_name,
			status = EXCLUDED.status,
			expires_at = EXCLUDED.expires_at,
			last_used_at = EXCLUDED.last_used_at;
	`

	if err := r.ensureTable(ctx); err != nil {
		return err
	}

	_, err := r.pool.Exec(ctx, query,
		creds.ClientID,
		creds.MerchantID,
		creds.AccessToken,
		creds.RefreshToken,
		creds.LocationID,
		creds.MerchantName,
		creds.Status,
		creds.ExpiresAt,
		creds.LastUsedAt,
	)
	return err
}

func (r *MerchantAuthRepository) Active(ctx context.Context, clientID string) (*auth.Credentials, error) {
	const query = `
		SELECT client_id, merchant_id, access_token, refresh_token,
			location_id, merchant_name, status, expires_at, last_used_at
		FROM square_auth
		WHERE client_id = $1 AND status = 'active';
	`
	var c auth.Credentials
	err := r.pool.QueryRow(ctx, query, clientID).Scan(
		&c.ClientID,
		&c.MerchantID,
		&c.AccessToken,
		&c.RefreshToken,
		&c.LocationID,
		&c.MerchantName,
		&c.Status,
		&c.ExpiresAt,
		&c.LastUsedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, auth.ErrNoActiveAuth
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *MerchantAuthRepository) TouchLastUsed(ctx context.Context, clientID string) error {
	const query = `
		UPDATE square_auth
		SET last_used_at = $2
		WHERE client_id = $1 AND status = 'active';
	`
	_, err := r.pool.Exec(ctx, query, clientID, time.Now())
	return err
}

func (r *MerchantAuthRepository) ensureTable(ctx context.Context) error {
	const stmt = `
		CREATE TABLE IF NOT EXISTS square_auth (
			client_id TEXT PRIMARY KEY,
			merchant_id TEXT NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL DEFAULT '',
			location_id TEXT NOT NULL DEFAULT '',
			merchant_name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			expires_at TIMESTAMPTZ NOT NULL,
			last_used_at TIMESTAMPTZ NOT NULL
		);
	`
	_, err := r.pool.Exec(ctx, stmt)
	return err
}
