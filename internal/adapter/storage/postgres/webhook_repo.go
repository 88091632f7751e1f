package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"payment-orchestrator/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// WebhookRepo implements ports.WebhookRepository, the persisted record of
// every outbound webhook delivery attempt stream.
type WebhookRepo struct {
	pool Pool
}

// NewWebhookRepo creates a new WebhookRepo.
func NewWebhookRepo(pool Pool) *WebhookRepo {
	return &WebhookRepo{pool: pool}
}

const webhookColumns = `id, payment_id, event_type, payload, url, signature, attempts, max_attempts,
	next_retry_at, last_error, status, created_at, sent_at`

// Create inserts a new pending WebhookEvent within an existing transaction
// so it commits atomically with the mutation that triggered it.
func (r *WebhookRepo) Create(ctx context.Context, tx pgx.Tx, event *domain.WebhookEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	query := `INSERT INTO webhook_events (` + webhookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = tx.Exec(ctx, query,
		event.ID, event.PaymentID, event.EventType, payload, event.URL, event.Signature,
		event.Attempts, event.MaxAttempts, event.NextRetryAt, event.LastError, event.Status,
		event.CreatedAt, event.SentAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook event: %w", err)
	}
	return nil
}

// GetByID fetches a webhook event by ID.
func (r *WebhookRepo) GetByID(ctx context.Context, id string) (*domain.WebhookEvent, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhook_events WHERE id = $1`
	event, err := scanWebhookRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// UpdateDeliveryResult persists the outcome of one delivery attempt:
// attempts count, status, last error, next retry time, and sent time.
func (r *WebhookRepo) UpdateDeliveryResult(ctx context.Context, event *domain.WebhookEvent) error {
	query := `UPDATE webhook_events SET attempts = $1, status = $2, last_error = $3,
		next_retry_at = $4, sent_at = $5 WHERE id = $6`
	tag, err := r.pool.Exec(ctx, query,
		event.Attempts, event.Status, event.LastError, event.NextRetryAt, event.SentAt, event.ID,
	)
	if err != nil {
		return fmt.Errorf("update webhook delivery result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("webhook event not found: %s", event.ID)
	}
	return nil
}

// ListDue returns up to limit pending events whose retry is due: either
// never scheduled (enqueued but not yet attempted) or next_retry_at at or
// before "before" (a Unix timestamp), and which have not exhausted their
// attempts. Used by the periodic sweeper.
func (r *WebhookRepo) ListDue(ctx context.Context, before int64, limit int) ([]domain.WebhookEvent, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhook_events
		WHERE status = 'pending' AND (next_retry_at IS NULL OR next_retry_at <= to_timestamp($1))
		AND attempts < max_attempts
		ORDER BY created_at ASC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, query, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list due webhook events: %w", err)
	}
	defer rows.Close()

	var result []domain.WebhookEvent
	for rows.Next() {
		event, err := scanWebhookRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate webhook rows: %w", err)
	}
	return result, nil
}

func scanWebhookRow(row pgx.Row) (*domain.WebhookEvent, error) {
	event := &domain.WebhookEvent{}
	var payload []byte

	err := row.Scan(
		&event.ID, &event.PaymentID, &event.EventType, &payload, &event.URL, &event.Signature,
		&event.Attempts, &event.MaxAttempts, &event.NextRetryAt, &event.LastError, &event.Status,
		&event.CreatedAt, &event.SentAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan webhook event: %w", err)
	}

	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &event.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal webhook payload: %w", err)
		}
	}
	return event, nil
}
