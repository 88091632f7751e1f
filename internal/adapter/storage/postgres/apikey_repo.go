package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payment-orchestrator/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ApiKeyRepo implements ports.ApiKeyRepository.
type ApiKeyRepo struct {
	pool Pool
}

// NewApiKeyRepo creates a new ApiKeyRepo.
func NewApiKeyRepo(pool Pool) *ApiKeyRepo {
	return &ApiKeyRepo{pool: pool}
}

const apiKeyColumns = `id, merchant_id, hashed_key, permissions, active, created_at, last_used_at`

// GetByHashedKey fetches an API key by its hashed form. Returns (nil,
// nil) when no key matches, mirroring PaymentRepo.GetByID.
func (r *ApiKeyRepo) GetByHashedKey(ctx context.Context, hashedKey string) (*domain.ApiKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE hashed_key = $1`
	row := r.pool.QueryRow(ctx, query, hashedKey)

	var k domain.ApiKey
	err := row.Scan(&k.ID, &k.MerchantID, &k.HashedKey, &k.Permissions, &k.Active, &k.CreatedAt, &k.LastUsedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan api key: %w", err)
	}
	return &k, nil
}

// TouchLastUsed records the current time as the key's last-used
// timestamp. Called fire-and-forget from APIKeyAuth, so a failure here
// never blocks a request.
func (r *ApiKeyRepo) TouchLastUsed(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE api_keys SET last_used_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("touch api key last_used_at: %w", err)
	}
	return nil
}
