package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"payment-orchestrator/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository, the append-only
// per-payment step log (one row per status transition or provider
// interaction).
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a transaction row within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	rawResponse, err := json.Marshal(t.RawResponse)
	if err != nil {
		return fmt.Errorf("marshal raw response: %w", err)
	}

	query := `INSERT INTO transactions (id, payment_id, status, raw_response, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = tx.Exec(ctx, query, t.ID, t.PaymentID, t.Status, rawResponse, t.ErrorMessage, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListByPayment fetches every step log entry for a payment, oldest first.
func (r *TransactionRepo) ListByPayment(ctx context.Context, paymentID string) ([]domain.Transaction, error) {
	query := `SELECT id, payment_id, status, raw_response, error_message, created_at
		FROM transactions WHERE payment_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var result []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		var rawResponse []byte
		if err := rows.Scan(&t.ID, &t.PaymentID, &t.Status, &rawResponse, &t.ErrorMessage, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		if len(rawResponse) > 0 {
			if err := json.Unmarshal(rawResponse, &t.RawResponse); err != nil {
				return nil, fmt.Errorf("unmarshal raw response: %w", err)
			}
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return result, nil
}
