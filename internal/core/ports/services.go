package ports

import (
	"context"
	"errors"
	"time"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/money"

	"github.com/jackc/pgx/v5"
)

// SignatureService handles HMAC-SHA256 signing and verification, used for
// outbound webhook signatures and for verifying inbound provider webhook
// callbacks.
type SignatureService interface {
	Sign(secretKey string, payload []byte) string
	Verify(secretKey string, payload []byte, signature string) bool
}

// HashService handles password hashing (Argon2id), used by the minimal
// internal ops login surface.
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations for the internal ops surface.
type TokenService interface {
	Generate(operatorID string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	OperatorID string
}

// IdempotencyCache is the Redis-layer idempotency check (fast path),
// mirroring the durable record maintained by IdempotencyRepository.
type IdempotencyCache interface {
	Get(ctx context.Context, key, merchantID string) (*domain.IdempotencyRecord, error)
	Set(ctx context.Context, key, merchantID string, record *domain.IdempotencyRecord, ttl time.Duration) error
	Delete(ctx context.Context, key, merchantID string) error
}

// RateLimiter enforces a per-merchant fixed-window request budget.
type RateLimiter interface {
	Allow(ctx context.Context, merchantID string) (bool, error)
}

// --- Provider abstraction & registry ---

// ProviderChargeRequest is the uniform charge request passed to a provider.
type ProviderChargeRequest struct {
	PaymentID   string
	Amount      money.Money
	Description string
	Metadata    map[string]string
}

// ProviderChargeResponse is the uniform charge response returned by a
// provider, normalized to the service's status vocabulary.
type ProviderChargeResponse struct {
	Success       bool
	TransactionID string
	Status        domain.PaymentStatus // one of pending, completed, failed
	RawResponse   map[string]any
	ErrorCode     string
	ErrorMessage  string
}

// ProviderRefundRequest is the uniform refund request passed to a provider.
type ProviderRefundRequest struct {
	PaymentID             string
	ProviderTransactionID string
	Amount                money.Money
	Reason                string
}

// ProviderRefundResponse is the uniform refund response returned by a
// provider.
type ProviderRefundResponse struct {
	Success      bool
	RefundID     string
	Status       domain.RefundStatus
	RawResponse  map[string]any
	ErrorCode    string
	ErrorMessage string
}

// ProviderWebhookEvent is the normalized form of a provider webhook
// payload, independent of the provider's own status vocabulary.
type ProviderWebhookEvent struct {
	Type          string
	TransactionID string
	Status        domain.PaymentStatus
	RawPayload    map[string]any
}

// Provider is the uniform interface every payment provider integration
// implements: charge, refund, webhook parsing, and webhook signature
// verification.
type Provider interface {
	Name() string
	ProcessPayment(ctx context.Context, req ProviderChargeRequest) (ProviderChargeResponse, error)
	ProcessRefund(ctx context.Context, req ProviderRefundRequest) (ProviderRefundResponse, error)
	ParseWebhook(payload []byte, signature string) (ProviderWebhookEvent, error)
	VerifyWebhookSignature(payload []byte, header, secret string) bool
}

// ProviderRegistry resolves a provider by name, case-insensitively.
type ProviderRegistry interface {
	Get(name string) (Provider, error)
	Register(provider Provider)
}

// CircuitBreaker wraps a single guarded call with failure/timeout
// accounting. Execute returns the guarded function's result, or
// apperror.ErrCircuitOpen when the breaker is open, without invoking fn.
type CircuitBreaker interface {
	Name() string
	State() string
	Execute(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error)
}

// CircuitBreakerFactory produces (or returns the memoized) breaker for a
// named provider.
type CircuitBreakerFactory interface {
	For(providerName string) CircuitBreaker
	// All returns every breaker created so far, keyed by provider name,
	// for readiness reporting.
	All() map[string]CircuitBreaker
}

// --- Durable queue ---

// QueuePublisher publishes a durable message, surviving broker restart,
// to the named queue.
type QueuePublisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
	PublishDelayed(ctx context.Context, queueName string, body []byte, delay time.Duration) error
}

// QueueConsumer consumes messages from a named queue with manual
// ack/nack semantics.
type QueueConsumer interface {
	Consume(ctx context.Context, queueName string, handler func(ctx context.Context, body []byte) error) error
}

// --- Service Ports (Business Logic) ---

// CreatePaymentRequest holds validated input for payment creation.
type CreatePaymentRequest struct {
	MerchantID  string
	ExternalID  *string
	Amount      money.Money
	Provider    string
	Description string
	Metadata    map[string]string
	WebhookURL  *string
}

// PaymentService defines the core payment business logic: creation via
// the charge saga, retrieval, and listing.
type PaymentService interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*domain.Payment, error)
	// GetPayment loads a payment by id, embedding its transactions and
	// refunds, and enforces ownership: a payment belonging to a
	// different merchantID is reported as apperror.NotFound, identical
	// to an absent payment, so merchants cannot enumerate each other's
	// payment ids.
	GetPayment(ctx context.Context, id, merchantID string) (*domain.Payment, error)
	ListPayments(ctx context.Context, params PaymentListParams) ([]domain.Payment, int64, error)
	GetRefundableSummary(ctx context.Context, paymentID, merchantID string) (*domain.RefundableSummary, error)
}

// CreateRefundRequest holds validated input for refund creation.
type CreateRefundRequest struct {
	PaymentID  string
	MerchantID string
	Amount     *money.Money // nil = full remaining refund
	Reason     string
}

// RefundService defines refund business logic: creation via the refund
// saga, retrieval.
type RefundService interface {
	CreateRefund(ctx context.Context, req CreateRefundRequest) (*domain.Refund, error)
	// GetRefund loads a refund by id and enforces ownership against the
	// refund's parent payment, mirroring PaymentService.GetPayment.
	GetRefund(ctx context.Context, id, merchantID string) (*domain.Refund, error)
}

// IdempotencyService implements the two-tier idempotency gate described
// for every mutating endpoint.
type IdempotencyService interface {
	// StartProcessing attempts to claim key for merchantID. If an
	// existing record matches fingerprint and is completed, its cached
	// response is returned with done=true. If it matches and is still
	// processing, ErrIdempotencyInProgress is returned. If an existing
	// record's fingerprint differs, ErrIdempotencyConflict is returned.
	// Otherwise a new processing record is created and done=false is
	// returned so the caller proceeds.
	StartProcessing(ctx context.Context, key, merchantID, fingerprint, path, method string) (record *domain.IdempotencyRecord, done bool, err error)
	Complete(ctx context.Context, key, merchantID string, responseBody []byte, responseStatus int) error
	// Remove drops the record for (key, merchantID) from both tiers. Used
	// when a request aborts before Complete runs (e.g. a panic unwinds
	// past the handler) so the caller can retry immediately instead of
	// waiting out the full TTL stuck at status=processing.
	Remove(ctx context.Context, key, merchantID string) error
}

// WebhookService defines durable outbound webhook delivery: enqueueing a
// new event within an existing transaction and delivering one due event
// (invoked by the worker loop).
type WebhookService interface {
	EnqueueWebhook(ctx context.Context, tx pgx.Tx, event *domain.WebhookEvent) error
	Deliver(ctx context.Context, eventID string) error
	SweepDue(ctx context.Context, limit int) (int, error)
}

// ErrWebhookEventNotFound is returned by WebhookService.Deliver when the
// event row no longer exists. The queue consumer acks and discards the
// message on this error rather than retrying.
var ErrWebhookEventNotFound = errors.New("webhook event not found")

// ErrWebhookDeliveryFailed is returned by WebhookService.Deliver when the
// POST to the merchant endpoint failed (non-2xx or transport error) but
// the failure was durably recorded and, if retries remain, a delayed
// redelivery already scheduled. The queue consumer nacks this message
// without requeue since the persistence-driven retry owns the next
// attempt.
var ErrWebhookDeliveryFailed = errors.New("webhook delivery failed")

// AuditService records append-only audit entries, optionally within an
// existing transaction so the audit row commits atomically with the
// mutation it describes.
type AuditService interface {
	Record(ctx context.Context, tx pgx.Tx, entry *domain.AuditLog) error
}

// AuthService defines the minimal internal ops login surface used by
// reconciliation/admin tooling; it is not part of the merchant-facing API.
type AuthService interface {
	Login(ctx context.Context, operatorID, password string) (string, time.Time, error)
}
