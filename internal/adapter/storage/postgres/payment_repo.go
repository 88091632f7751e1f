package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// PaymentRepo implements ports.PaymentRepository.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

const paymentColumns = `id, external_id, merchant_id, amount, currency, status, provider,
	provider_transaction_id, description, metadata, webhook_url, created_at, updated_at`

// Create inserts a new payment within a database transaction.
func (r *PaymentRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Payment) error {
	metadata, err := json.Marshal(p.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = tx.Exec(ctx, query,
		p.ID, p.ExternalID, p.MerchantID, p.Amount.Decimal(), p.Amount.Currency(), p.Status, p.Provider,
		p.ProviderTransactionID, p.Description, metadata, p.WebhookURL, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID fetches a payment by ID.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return r.scanPayment(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches a payment by ID with a row-level lock, for use
// in refund and reconciliation paths that must serialize status
// transitions.
func (r *PaymentRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`
	return r.scanPayment(tx.QueryRow(ctx, query, id))
}

// GetByExternalID fetches a payment by merchant-scoped external ID.
func (r *PaymentRepo) GetByExternalID(ctx context.Context, merchantID, externalID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE merchant_id = $1 AND external_id = $2`
	return r.scanPayment(r.pool.QueryRow(ctx, query, merchantID, externalID))
}

// GetByProviderTransactionIDForUpdate locks and fetches the payment
// matching a provider's own transaction id, used to apply inbound
// webhook callbacks that identify the payment by that id rather than
// ours. Scoped by provider as well as transaction id since two
// providers could in principle emit colliding transaction ids.
func (r *PaymentRepo) GetByProviderTransactionIDForUpdate(ctx context.Context, tx pgx.Tx, providerTransactionID, provider string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE provider_transaction_id = $1 AND provider = $2 FOR UPDATE`
	return r.scanPayment(tx.QueryRow(ctx, query, providerTransactionID, provider))
}

// UpdateStatus transitions a payment's status and optionally records the
// provider transaction id, within a database transaction.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status domain.PaymentStatus, providerTxID *string) error {
	query := `UPDATE payments SET status = $1, provider_transaction_id = COALESCE($2, provider_transaction_id), updated_at = NOW() WHERE id = $3`
	tag, err := tx.Exec(ctx, query, status, providerTxID, id)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment not found: %s", id)
	}
	return nil
}

// List fetches payments with filtering and pagination, scoped to a
// merchant so a merchant can never observe another merchant's payments.
func (r *PaymentRepo) List(ctx context.Context, params ports.PaymentListParams) ([]domain.Payment, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("merchant_id = $%d", argIdx))
	args = append(args, params.MerchantID)
	argIdx++

	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.Provider != nil {
		conditions = append(conditions, fmt.Sprintf("provider = $%d", argIdx))
		args = append(args, *params.Provider)
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= to_timestamp($%d)", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= to_timestamp($%d)", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM payments %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	dataQuery := fmt.Sprintf(`SELECT %s FROM payments %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		paymentColumns, where, argIdx, argIdx+1)
	args = append(args, limit, params.Offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPaymentRow(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate payment rows: %w", err)
	}
	return payments, total, nil
}

func (r *PaymentRepo) scanPayment(row pgx.Row) (*domain.Payment, error) {
	p, err := scanPaymentRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// scanPaymentRow scans a single row (from QueryRow or Query.Next) into a
// domain.Payment, reconstructing the money.Money value from its separate
// amount/currency columns.
func scanPaymentRow(row pgx.Row) (*domain.Payment, error) {
	p := &domain.Payment{}
	var amount string
	var currency string
	var metadata []byte

	err := row.Scan(
		&p.ID, &p.ExternalID, &p.MerchantID, &amount, &currency, &p.Status, &p.Provider,
		&p.ProviderTransactionID, &p.Description, &metadata, &p.WebhookURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}

	m, err := newMoneyFromDB(amount, currency)
	if err != nil {
		return nil, err
	}
	p.Amount = m
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &p.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal payment metadata: %w", err)
		}
	}
	return p, nil
}
