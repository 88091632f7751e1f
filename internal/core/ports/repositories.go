package ports

import (
	"context"

	"payment-orchestrator/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// PaymentListParams holds filter and pagination input for listing payments.
type PaymentListParams struct {
	MerchantID string
	Status     *domain.PaymentStatus
	Provider   *string
	From       *int64 // Unix timestamp
	To         *int64 // Unix timestamp
	Limit      int
	Offset     int
}

// PaymentRepository defines persistence operations for payments.
type PaymentRepository interface {
	Create(ctx context.Context, tx pgx.Tx, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Payment, error)
	GetByExternalID(ctx context.Context, merchantID, externalID string) (*domain.Payment, error)
	// GetByProviderTransactionIDForUpdate locks and returns the payment a
	// provider webhook callback refers to, looked up by the provider's
	// own transaction id rather than the internal payment id, scoped to
	// that provider so two providers' transaction ids can never collide.
	GetByProviderTransactionIDForUpdate(ctx context.Context, tx pgx.Tx, providerTransactionID, provider string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status domain.PaymentStatus, providerTxID *string) error
	List(ctx context.Context, params PaymentListParams) ([]domain.Payment, int64, error)
}

// TransactionRepository defines persistence operations for the append-only
// per-payment step log.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error
	ListByPayment(ctx context.Context, paymentID string) ([]domain.Transaction, error)
}

// RefundRepository defines persistence operations for refunds.
type RefundRepository interface {
	Create(ctx context.Context, tx pgx.Tx, refund *domain.Refund) error
	GetByID(ctx context.Context, id string) (*domain.Refund, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status domain.RefundStatus, providerRefundID *string) error
	ListByPayment(ctx context.Context, paymentID string) ([]domain.Refund, error)
	SumByPaymentAndStatus(ctx context.Context, paymentID string, statuses []domain.RefundStatus) (string, error)
}

// IdempotencyRepository defines durable persistence for idempotency
// records, the backing tier behind the Redis cache.
type IdempotencyRepository interface {
	Create(ctx context.Context, tx pgx.Tx, record *domain.IdempotencyRecord) error
	Get(ctx context.Context, key, merchantID string) (*domain.IdempotencyRecord, error)
	Complete(ctx context.Context, key, merchantID string, status domain.IdempotencyStatus, responseBody []byte, responseStatus int) error
	// Delete removes the record for (key, merchantID), used when a
	// request aborts before completion.
	Delete(ctx context.Context, key, merchantID string) error
}

// WebhookRepository defines persistence operations for outbound webhook
// delivery attempts.
type WebhookRepository interface {
	Create(ctx context.Context, tx pgx.Tx, event *domain.WebhookEvent) error
	GetByID(ctx context.Context, id string) (*domain.WebhookEvent, error)
	UpdateDeliveryResult(ctx context.Context, event *domain.WebhookEvent) error
	ListDue(ctx context.Context, before int64, limit int) ([]domain.WebhookEvent, error)
}

// AuditRepository defines persistence for the append-only audit log.
type AuditRepository interface {
	Create(ctx context.Context, tx pgx.Tx, entry *domain.AuditLog) error
	ListByResource(ctx context.Context, resourceType, resourceID string) ([]domain.AuditLog, error)
}

// ApiKeyRepository defines persistence for merchant API credentials.
type ApiKeyRepository interface {
	GetByHashedKey(ctx context.Context, hashedKey string) (*domain.ApiKey, error)
	TouchLastUsed(ctx context.Context, id string) error
}

// DBTransactor provides database transaction management, including
// advisory-locked transactional scopes keyed by an arbitrary string.
type DBTransactor interface {
	// WithTx runs fn inside a transaction, committing on success and
	// rolling back on error or panic.
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
	// WithAdvisoryLock runs fn inside a transaction that holds a
	// transaction-scoped advisory lock keyed by lockKey (hashed to a
	// 63-bit integer). The lock is released automatically when the
	// transaction ends.
	WithAdvisoryLock(ctx context.Context, lockKey string, fn func(tx pgx.Tx) error) error
}
