package postgres

import (
	"context"
	"errors"
	"fmt"

	"payment-orchestrator/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// IdempotencyRepo implements ports.IdempotencyRepository, the durable tier
// behind the Redis idempotency cache.
type IdempotencyRepo struct {
	pool Pool
}

// NewIdempotencyRepo creates a new IdempotencyRepo.
func NewIdempotencyRepo(pool Pool) *IdempotencyRepo {
	return &IdempotencyRepo{pool: pool}
}

const idempotencyColumns = `key, merchant_id, fingerprint, path, method, status, response_body, response_status, created_at, expires_at`

// Create inserts a new processing record within the advisory-locked
// transaction StartProcessing runs under.
func (r *IdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, rec *domain.IdempotencyRecord) error {
	query := `INSERT INTO idempotency_records (` + idempotencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := tx.Exec(ctx, query,
		rec.Key, rec.MerchantID, rec.Fingerprint, rec.Path, rec.Method, rec.Status,
		rec.ResponseBody, rec.ResponseStatus, rec.CreatedAt, rec.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert idempotency record: %w", err)
	}
	return nil
}

// Get fetches the record for (key, merchantID), or nil if absent.
func (r *IdempotencyRepo) Get(ctx context.Context, key, merchantID string) (*domain.IdempotencyRecord, error) {
	query := `SELECT ` + idempotencyColumns + ` FROM idempotency_records WHERE key = $1 AND merchant_id = $2`
	rec, err := scanIdempotencyRow(r.pool.QueryRow(ctx, query, key, merchantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// Complete transitions a record to completed with its cached response.
func (r *IdempotencyRepo) Complete(ctx context.Context, key, merchantID string, status domain.IdempotencyStatus, responseBody []byte, responseStatus int) error {
	query := `UPDATE idempotency_records SET status = $1, response_body = $2, response_status = $3
		WHERE key = $4 AND merchant_id = $5`
	tag, err := r.pool.Exec(ctx, query, status, responseBody, responseStatus, key, merchantID)
	if err != nil {
		return fmt.Errorf("complete idempotency record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("idempotency record not found: %s/%s", merchantID, key)
	}
	return nil
}

// Delete removes the record for (key, merchantID). A missing row is not
// an error: the caller is clearing state that may never have committed.
func (r *IdempotencyRepo) Delete(ctx context.Context, key, merchantID string) error {
	query := `DELETE FROM idempotency_records WHERE key = $1 AND merchant_id = $2`
	if _, err := r.pool.Exec(ctx, query, key, merchantID); err != nil {
		return fmt.Errorf("delete idempotency record: %w", err)
	}
	return nil
}

func scanIdempotencyRow(row pgx.Row) (*domain.IdempotencyRecord, error) {
	rec := &domain.IdempotencyRecord{}
	err := row.Scan(
		&rec.Key, &rec.MerchantID, &rec.Fingerprint, &rec.Path, &rec.Method, &rec.Status,
		&rec.ResponseBody, &rec.ResponseStatus, &rec.CreatedAt, &rec.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan idempotency record: %w", err)
	}
	return rec, nil
}
