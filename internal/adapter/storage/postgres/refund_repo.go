package postgres

import (
	"context"
	"errors"
	"fmt"

	"payment-orchestrator/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// RefundRepo implements ports.RefundRepository.
type RefundRepo struct {
	pool Pool
}

// NewRefundRepo creates a new RefundRepo.
func NewRefundRepo(pool Pool) *RefundRepo {
	return &RefundRepo{pool: pool}
}

const refundColumns = `id, payment_id, amount, currency, status, reason, provider_refund_id, created_at, updated_at`

// Create inserts a refund within a database transaction.
func (r *RefundRepo) Create(ctx context.Context, tx pgx.Tx, refund *domain.Refund) error {
	query := `INSERT INTO refunds (` + refundColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := tx.Exec(ctx, query,
		refund.ID, refund.PaymentID, refund.Amount.Decimal(), refund.Amount.Currency(),
		refund.Status, refund.Reason, refund.ProviderRefundID, refund.CreatedAt, refund.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert refund: %w", err)
	}
	return nil
}

// GetByID fetches a refund by ID.
func (r *RefundRepo) GetByID(ctx context.Context, id string) (*domain.Refund, error) {
	query := `SELECT ` + refundColumns + ` FROM refunds WHERE id = $1`
	refund, err := scanRefundRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return refund, nil
}

// UpdateStatus transitions a refund's status, within a database
// transaction.
func (r *RefundRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status domain.RefundStatus, providerRefundID *string) error {
	query := `UPDATE refunds SET status = $1, provider_refund_id = COALESCE($2, provider_refund_id), updated_at = NOW() WHERE id = $3`
	tag, err := tx.Exec(ctx, query, status, providerRefundID, id)
	if err != nil {
		return fmt.Errorf("update refund status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("refund not found: %s", id)
	}
	return nil
}

// ListByPayment fetches every refund for a payment, oldest first.
func (r *RefundRepo) ListByPayment(ctx context.Context, paymentID string) ([]domain.Refund, error) {
	query := `SELECT ` + refundColumns + ` FROM refunds WHERE payment_id = $1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list refunds: %w", err)
	}
	defer rows.Close()

	var result []domain.Refund
	for rows.Next() {
		refund, err := scanRefundRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *refund)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate refund rows: %w", err)
	}
	return result, nil
}

// SumByPaymentAndStatus returns the decimal-string sum of refund amounts
// for a payment restricted to the given statuses, used to compute the
// amount still available for refund under the amount-conservation
// invariant.
func (r *RefundRepo) SumByPaymentAndStatus(ctx context.Context, paymentID string, statuses []domain.RefundStatus) (string, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM refunds WHERE payment_id = $1 AND status = ANY($2)`
	var sum string
	err := r.pool.QueryRow(ctx, query, paymentID, statuses).Scan(&sum)
	if err != nil {
		return "", fmt.Errorf("sum refunds: %w", err)
	}
	return sum, nil
}

func scanRefundRow(row pgx.Row) (*domain.Refund, error) {
	refund := &domain.Refund{}
	var amount string
	var currency string

	err := row.Scan(
		&refund.ID, &refund.PaymentID, &amount, &currency, &refund.Status,
		&refund.Reason, &refund.ProviderRefundID, &refund.CreatedAt, &refund.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan refund: %w", err)
	}

	m, err := newMoneyFromDB(amount, currency)
	if err != nil {
		return nil, err
	}
	refund.Amount = m
	return refund, nil
}
