package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/money"
	"payment-orchestrator/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// The in-memory repositories below implement every ports.*Repository
// and ports.DBTransactor interface without a real database, so the
// black-box suite in this package can exercise the full service layer
// end to end. None of them touch the pgx.Tx argument they're handed —
// WithTx/WithAdvisoryLock pass a nil pgx.Tx through, which is safe since
// these fakes never call a method on it.

// --- In-Memory Payment Repo ---

type inMemoryPaymentRepo struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment
}

func newInMemoryPaymentRepo() *inMemoryPaymentRepo {
	return &inMemoryPaymentRepo{payments: make(map[string]*domain.Payment)}
}

func clonePayment(p *domain.Payment) *domain.Payment {
	cp := *p
	return &cp
}

func (r *inMemoryPaymentRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[p.ID] = clonePayment(p)
	return nil
}

func (r *inMemoryPaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	return clonePayment(p), nil
}

func (r *inMemoryPaymentRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Payment, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryPaymentRepo) GetByExternalID(ctx context.Context, merchantID, externalID string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.payments {
		if p.MerchantID == merchantID && p.ExternalID != nil && *p.ExternalID == externalID {
			return clonePayment(p), nil
		}
	}
	return nil, nil
}

func (r *inMemoryPaymentRepo) GetByProviderTransactionIDForUpdate(ctx context.Context, tx pgx.Tx, providerTransactionID, provider string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.payments {
		if p.ProviderTransactionID != nil && *p.ProviderTransactionID == providerTransactionID && p.Provider == provider {
			return clonePayment(p), nil
		}
	}
	return nil, nil
}

func (r *inMemoryPaymentRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status domain.PaymentStatus, providerTxID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return fmt.Errorf("payment not found: %s", id)
	}
	p.Status = status
	if providerTxID != nil {
		p.ProviderTransactionID = providerTxID
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryPaymentRepo) List(ctx context.Context, params ports.PaymentListParams) ([]domain.Payment, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.Payment
	for _, p := range r.payments {
		if p.MerchantID != params.MerchantID {
			continue
		}
		if params.Status != nil && p.Status != *params.Status {
			continue
		}
		if params.Provider != nil && p.Provider != *params.Provider {
			continue
		}
		matched = append(matched, *clonePayment(p))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })

	total := int64(len(matched))
	offset := params.Offset
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + params.Limit
	if params.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu   sync.RWMutex
	rows map[string]*domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{rows: make(map[string]*domain.Transaction)}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.rows[t.ID] = &cp
	return nil
}

func (r *inMemoryTransactionRepo) ListByPayment(ctx context.Context, paymentID string) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, t := range r.rows {
		if t.PaymentID == paymentID {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

// --- In-Memory Refund Repo ---

type inMemoryRefundRepo struct {
	mu      sync.RWMutex
	refunds map[string]*domain.Refund
}

func newInMemoryRefundRepo() *inMemoryRefundRepo {
	return &inMemoryRefundRepo{refunds: make(map[string]*domain.Refund)}
}

func (r *inMemoryRefundRepo) Create(ctx context.Context, tx pgx.Tx, refund *domain.Refund) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *refund
	r.refunds[refund.ID] = &cp
	return nil
}

func (r *inMemoryRefundRepo) GetByID(ctx context.Context, id string) (*domain.Refund, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	refund, ok := r.refunds[id]
	if !ok {
		return nil, nil
	}
	cp := *refund
	return &cp, nil
}

func (r *inMemoryRefundRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status domain.RefundStatus, providerRefundID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	refund, ok := r.refunds[id]
	if !ok {
		return fmt.Errorf("refund not found: %s", id)
	}
	refund.Status = status
	if providerRefundID != nil {
		refund.ProviderRefundID = providerRefundID
	}
	refund.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryRefundRepo) ListByPayment(ctx context.Context, paymentID string) ([]domain.Refund, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Refund
	for _, refund := range r.refunds {
		if refund.PaymentID == paymentID {
			result = append(result, *refund)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *inMemoryRefundRepo) SumByPaymentAndStatus(ctx context.Context, paymentID string, statuses []domain.RefundStatus) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[domain.RefundStatus]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}

	var sum *money.Money
	for _, refund := range r.refunds {
		if refund.PaymentID != paymentID || !wanted[refund.Status] {
			continue
		}
		if sum == nil {
			v := refund.Amount
			sum = &v
			continue
		}
		added, err := sum.Add(refund.Amount)
		if err != nil {
			return "", err
		}
		sum = &added
	}
	if sum == nil {
		return "0", nil
	}
	return sum.String(), nil
}

// --- In-Memory Idempotency Repo ---

type inMemoryIdempotencyRepo struct {
	mu      sync.Mutex
	records map[string]*domain.IdempotencyRecord
}

func newInMemoryIdempotencyRepo() *inMemoryIdempotencyRepo {
	return &inMemoryIdempotencyRepo{records: make(map[string]*domain.IdempotencyRecord)}
}

func idempotencyMapKey(key, merchantID string) string { return merchantID + ":" + key }

func (r *inMemoryIdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, record *domain.IdempotencyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := idempotencyMapKey(record.Key, record.MerchantID)
	if _, exists := r.records[k]; exists {
		return fmt.Errorf("idempotency record already exists: %s", k)
	}
	cp := *record
	r.records[k] = &cp
	return nil
}

func (r *inMemoryIdempotencyRepo) Get(ctx context.Context, key, merchantID string) (*domain.IdempotencyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[idempotencyMapKey(key, merchantID)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *inMemoryIdempotencyRepo) Complete(ctx context.Context, key, merchantID string, status domain.IdempotencyStatus, responseBody []byte, responseStatus int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[idempotencyMapKey(key, merchantID)]
	if !ok {
		return fmt.Errorf("idempotency record not found")
	}
	rec.Status = status
	rec.ResponseBody = responseBody
	rec.ResponseStatus = responseStatus
	return nil
}

func (r *inMemoryIdempotencyRepo) Delete(ctx context.Context, key, merchantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, idempotencyMapKey(key, merchantID))
	return nil
}

// --- In-Memory Webhook Repo ---

type inMemoryWebhookRepo struct {
	mu     sync.Mutex
	events map[string]*domain.WebhookEvent
}

func newInMemoryWebhookRepo() *inMemoryWebhookRepo {
	return &inMemoryWebhookRepo{events: make(map[string]*domain.WebhookEvent)}
}

func (r *inMemoryWebhookRepo) Create(ctx context.Context, tx pgx.Tx, event *domain.WebhookEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *event
	r.events[event.ID] = &cp
	return nil
}

func (r *inMemoryWebhookRepo) GetByID(ctx context.Context, id string) (*domain.WebhookEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *inMemoryWebhookRepo) UpdateDeliveryResult(ctx context.Context, event *domain.WebhookEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return fmt.Errorf("webhook event not found: %s", event.ID)
	}
	cp := *event
	r.events[event.ID] = &cp
	return nil
}

func (r *inMemoryWebhookRepo) ListDue(ctx context.Context, before int64, limit int) ([]domain.WebhookEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.WebhookEvent
	for _, e := range r.events {
		if e.Status != domain.WebhookStatusPending {
			continue
		}
		if e.NextRetryAt != nil && e.NextRetryAt.Unix() > before {
			continue
		}
		result = append(result, *e)
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, tx pgx.Tx, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *inMemoryAuditRepo) ListByResource(ctx context.Context, resourceType, resourceID string) ([]domain.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.AuditLog
	for _, e := range r.entries {
		if e.ResourceType == resourceType && e.ResourceID == resourceID {
			result = append(result, e)
		}
	}
	return result, nil
}

// --- In-Memory API Key Repo ---

type inMemoryApiKeyRepo struct {
	mu   sync.RWMutex
	keys map[string]*domain.ApiKey
}

func newInMemoryApiKeyRepo() *inMemoryApiKeyRepo {
	return &inMemoryApiKeyRepo{keys: make(map[string]*domain.ApiKey)}
}

func (r *inMemoryApiKeyRepo) add(k *domain.ApiKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[k.HashedKey] = k
}

func (r *inMemoryApiKeyRepo) GetByHashedKey(ctx context.Context, hashedKey string) (*domain.ApiKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.keys[hashedKey]
	if !ok {
		return nil, nil
	}
	cp := *k
	return &cp, nil
}

func (r *inMemoryApiKeyRepo) TouchLastUsed(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.keys {
		if k.ID == id {
			now := time.Now().UTC()
			k.LastUsedAt = &now
			return nil
		}
	}
	return nil
}

// --- In-Memory Transactor (no real transaction, advisory lock emulated
// with a process-wide mutex keyed by lock string) ---

type inMemoryTransactor struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{locks: make(map[string]*sync.Mutex)}
}

func (t *inMemoryTransactor) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func (t *inMemoryTransactor) WithAdvisoryLock(ctx context.Context, lockKey string, fn func(tx pgx.Tx) error) error {
	t.mu.Lock()
	lock, ok := t.locks[lockKey]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[lockKey] = lock
	}
	t.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(nil)
}

// --- In-Memory Queue Publisher ---

// inMemoryQueuePublisher implements ports.QueuePublisher without a real
// broker: no test in this package consumes published jobs, so they are
// simply dropped here.
type inMemoryQueuePublisher struct{}

func newInMemoryQueuePublisher() *inMemoryQueuePublisher { return &inMemoryQueuePublisher{} }

func (p *inMemoryQueuePublisher) Publish(ctx context.Context, queueName string, body []byte) error {
	return nil
}

func (p *inMemoryQueuePublisher) PublishDelayed(ctx context.Context, queueName string, body []byte, delay time.Duration) error {
	return nil
}
