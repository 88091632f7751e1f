// Package mocks holds hand-authored gomock doubles for the ports
// consumed by internal/service's unit tests, following the same
// generated-mock shape go.uber.org/mock/mockgen produces: one
// MockX/MockXMockRecorder pair per interface, an EXPECT() accessor, and
// a ctrl.Call-backed method body per interface method.
package mocks

import (
	"context"
	reflect "reflect"
	"time"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/ports"

	"github.com/jackc/pgx/v5"
	gomock "go.uber.org/mock/gomock"
)

// --- PaymentRepository ---

type MockPaymentRepository struct {
	ctrl     *gomock.Controller
	recorder *MockPaymentRepositoryMockRecorder
}

type MockPaymentRepositoryMockRecorder struct{ mock *MockPaymentRepository }

func NewMockPaymentRepository(ctrl *gomock.Controller) *MockPaymentRepository {
	m := &MockPaymentRepository{ctrl: ctrl}
	m.recorder = &MockPaymentRepositoryMockRecorder{m}
	return m
}

func (m *MockPaymentRepository) EXPECT() *MockPaymentRepositoryMockRecorder { return m.recorder }

func (m *MockPaymentRepository) Create(ctx context.Context, tx pgx.Tx, payment *domain.Payment) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, tx, payment)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockPaymentRepositoryMockRecorder) Create(ctx, tx, payment any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockPaymentRepository)(nil).Create), ctx, tx, payment)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	p, _ := ret[0].(*domain.Payment)
	err, _ := ret[1].(error)
	return p, err
}
func (mr *MockPaymentRepositoryMockRecorder) GetByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockPaymentRepository)(nil).GetByID), ctx, id)
}

func (m *MockPaymentRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Payment, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByIDForUpdate", ctx, tx, id)
	p, _ := ret[0].(*domain.Payment)
	err, _ := ret[1].(error)
	return p, err
}
func (mr *MockPaymentRepositoryMockRecorder) GetByIDForUpdate(ctx, tx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByIDForUpdate", reflect.TypeOf((*MockPaymentRepository)(nil).GetByIDForUpdate), ctx, tx, id)
}

func (m *MockPaymentRepository) GetByExternalID(ctx context.Context, merchantID, externalID string) (*domain.Payment, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByExternalID", ctx, merchantID, externalID)
	p, _ := ret[0].(*domain.Payment)
	err, _ := ret[1].(error)
	return p, err
}
func (mr *MockPaymentRepositoryMockRecorder) GetByExternalID(ctx, merchantID, externalID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByExternalID", reflect.TypeOf((*MockPaymentRepository)(nil).GetByExternalID), ctx, merchantID, externalID)
}

func (m *MockPaymentRepository) GetByProviderTransactionIDForUpdate(ctx context.Context, tx pgx.Tx, providerTransactionID, provider string) (*domain.Payment, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByProviderTransactionIDForUpdate", ctx, tx, providerTransactionID, provider)
	p, _ := ret[0].(*domain.Payment)
	err, _ := ret[1].(error)
	return p, err
}
func (mr *MockPaymentRepositoryMockRecorder) GetByProviderTransactionIDForUpdate(ctx, tx, providerTransactionID, provider any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByProviderTransactionIDForUpdate", reflect.TypeOf((*MockPaymentRepository)(nil).GetByProviderTransactionIDForUpdate), ctx, tx, providerTransactionID, provider)
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status domain.PaymentStatus, providerTxID *string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateStatus", ctx, tx, id, status, providerTxID)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockPaymentRepositoryMockRecorder) UpdateStatus(ctx, tx, id, status, providerTxID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateStatus", reflect.TypeOf((*MockPaymentRepository)(nil).UpdateStatus), ctx, tx, id, status, providerTxID)
}

func (m *MockPaymentRepository) List(ctx context.Context, params ports.PaymentListParams) ([]domain.Payment, int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "List", ctx, params)
	p, _ := ret[0].([]domain.Payment)
	total, _ := ret[1].(int64)
	err, _ := ret[2].(error)
	return p, total, err
}
func (mr *MockPaymentRepositoryMockRecorder) List(ctx, params any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "List", reflect.TypeOf((*MockPaymentRepository)(nil).List), ctx, params)
}

// --- TransactionRepository ---

type MockTransactionRepository struct {
	ctrl     *gomock.Controller
	recorder *MockTransactionRepositoryMockRecorder
}
type MockTransactionRepositoryMockRecorder struct{ mock *MockTransactionRepository }

func NewMockTransactionRepository(ctrl *gomock.Controller) *MockTransactionRepository {
	m := &MockTransactionRepository{ctrl: ctrl}
	m.recorder = &MockTransactionRepositoryMockRecorder{m}
	return m
}
func (m *MockTransactionRepository) EXPECT() *MockTransactionRepositoryMockRecorder { return m.recorder }

func (m *MockTransactionRepository) Create(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, tx, txn)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockTransactionRepositoryMockRecorder) Create(ctx, tx, txn any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockTransactionRepository)(nil).Create), ctx, tx, txn)
}

func (m *MockTransactionRepository) ListByPayment(ctx context.Context, paymentID string) ([]domain.Transaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByPayment", ctx, paymentID)
	t, _ := ret[0].([]domain.Transaction)
	err, _ := ret[1].(error)
	return t, err
}
func (mr *MockTransactionRepositoryMockRecorder) ListByPayment(ctx, paymentID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByPayment", reflect.TypeOf((*MockTransactionRepository)(nil).ListByPayment), ctx, paymentID)
}

// --- RefundRepository ---

type MockRefundRepository struct {
	ctrl     *gomock.Controller
	recorder *MockRefundRepositoryMockRecorder
}
type MockRefundRepositoryMockRecorder struct{ mock *MockRefundRepository }

func NewMockRefundRepository(ctrl *gomock.Controller) *MockRefundRepository {
	m := &MockRefundRepository{ctrl: ctrl}
	m.recorder = &MockRefundRepositoryMockRecorder{m}
	return m
}
func (m *MockRefundRepository) EXPECT() *MockRefundRepositoryMockRecorder { return m.recorder }

func (m *MockRefundRepository) Create(ctx context.Context, tx pgx.Tx, refund *domain.Refund) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, tx, refund)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockRefundRepositoryMockRecorder) Create(ctx, tx, refund any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockRefundRepository)(nil).Create), ctx, tx, refund)
}

func (m *MockRefundRepository) GetByID(ctx context.Context, id string) (*domain.Refund, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	r, _ := ret[0].(*domain.Refund)
	err, _ := ret[1].(error)
	return r, err
}
func (mr *MockRefundRepositoryMockRecorder) GetByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockRefundRepository)(nil).GetByID), ctx, id)
}

func (m *MockRefundRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status domain.RefundStatus, providerRefundID *string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateStatus", ctx, tx, id, status, providerRefundID)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockRefundRepositoryMockRecorder) UpdateStatus(ctx, tx, id, status, providerRefundID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateStatus", reflect.TypeOf((*MockRefundRepository)(nil).UpdateStatus), ctx, tx, id, status, providerRefundID)
}

func (m *MockRefundRepository) ListByPayment(ctx context.Context, paymentID string) ([]domain.Refund, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByPayment", ctx, paymentID)
	r, _ := ret[0].([]domain.Refund)
	err, _ := ret[1].(error)
	return r, err
}
func (mr *MockRefundRepositoryMockRecorder) ListByPayment(ctx, paymentID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByPayment", reflect.TypeOf((*MockRefundRepository)(nil).ListByPayment), ctx, paymentID)
}

func (m *MockRefundRepository) SumByPaymentAndStatus(ctx context.Context, paymentID string, statuses []domain.RefundStatus) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SumByPaymentAndStatus", ctx, paymentID, statuses)
	s, _ := ret[0].(string)
	err, _ := ret[1].(error)
	return s, err
}
func (mr *MockRefundRepositoryMockRecorder) SumByPaymentAndStatus(ctx, paymentID, statuses any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SumByPaymentAndStatus", reflect.TypeOf((*MockRefundRepository)(nil).SumByPaymentAndStatus), ctx, paymentID, statuses)
}

// --- AuditService ---

type MockAuditService struct {
	ctrl     *gomock.Controller
	recorder *MockAuditServiceMockRecorder
}
type MockAuditServiceMockRecorder struct{ mock *MockAuditService }

func NewMockAuditService(ctrl *gomock.Controller) *MockAuditService {
	m := &MockAuditService{ctrl: ctrl}
	m.recorder = &MockAuditServiceMockRecorder{m}
	return m
}
func (m *MockAuditService) EXPECT() *MockAuditServiceMockRecorder { return m.recorder }

func (m *MockAuditService) Record(ctx context.Context, tx pgx.Tx, entry *domain.AuditLog) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Record", ctx, tx, entry)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockAuditServiceMockRecorder) Record(ctx, tx, entry any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Record", reflect.TypeOf((*MockAuditService)(nil).Record), ctx, tx, entry)
}

// --- WebhookService ---

type MockWebhookService struct {
	ctrl     *gomock.Controller
	recorder *MockWebhookServiceMockRecorder
}
type MockWebhookServiceMockRecorder struct{ mock *MockWebhookService }

func NewMockWebhookService(ctrl *gomock.Controller) *MockWebhookService {
	m := &MockWebhookService{ctrl: ctrl}
	m.recorder = &MockWebhookServiceMockRecorder{m}
	return m
}
func (m *MockWebhookService) EXPECT() *MockWebhookServiceMockRecorder { return m.recorder }

func (m *MockWebhookService) EnqueueWebhook(ctx context.Context, tx pgx.Tx, event *domain.WebhookEvent) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "EnqueueWebhook", ctx, tx, event)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockWebhookServiceMockRecorder) EnqueueWebhook(ctx, tx, event any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EnqueueWebhook", reflect.TypeOf((*MockWebhookService)(nil).EnqueueWebhook), ctx, tx, event)
}

func (m *MockWebhookService) Deliver(ctx context.Context, eventID string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Deliver", ctx, eventID)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockWebhookServiceMockRecorder) Deliver(ctx, eventID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Deliver", reflect.TypeOf((*MockWebhookService)(nil).Deliver), ctx, eventID)
}

func (m *MockWebhookService) SweepDue(ctx context.Context, limit int) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SweepDue", ctx, limit)
	n, _ := ret[0].(int)
	err, _ := ret[1].(error)
	return n, err
}
func (mr *MockWebhookServiceMockRecorder) SweepDue(ctx, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SweepDue", reflect.TypeOf((*MockWebhookService)(nil).SweepDue), ctx, limit)
}

// --- DBTransactor ---

type MockDBTransactor struct {
	ctrl     *gomock.Controller
	recorder *MockDBTransactorMockRecorder
}
type MockDBTransactorMockRecorder struct{ mock *MockDBTransactor }

func NewMockDBTransactor(ctrl *gomock.Controller) *MockDBTransactor {
	m := &MockDBTransactor{ctrl: ctrl}
	m.recorder = &MockDBTransactorMockRecorder{m}
	return m
}
func (m *MockDBTransactor) EXPECT() *MockDBTransactorMockRecorder { return m.recorder }

func (m *MockDBTransactor) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "WithTx", ctx, fn)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockDBTransactorMockRecorder) WithTx(ctx, fn any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WithTx", reflect.TypeOf((*MockDBTransactor)(nil).WithTx), ctx, fn)
}

func (m *MockDBTransactor) WithAdvisoryLock(ctx context.Context, lockKey string, fn func(tx pgx.Tx) error) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "WithAdvisoryLock", ctx, lockKey, fn)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockDBTransactorMockRecorder) WithAdvisoryLock(ctx, lockKey, fn any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WithAdvisoryLock", reflect.TypeOf((*MockDBTransactor)(nil).WithAdvisoryLock), ctx, lockKey, fn)
}

// --- ProviderRegistry / Provider ---

type MockProviderRegistry struct {
	ctrl     *gomock.Controller
	recorder *MockProviderRegistryMockRecorder
}
type MockProviderRegistryMockRecorder struct{ mock *MockProviderRegistry }

func NewMockProviderRegistry(ctrl *gomock.Controller) *MockProviderRegistry {
	m := &MockProviderRegistry{ctrl: ctrl}
	m.recorder = &MockProviderRegistryMockRecorder{m}
	return m
}
func (m *MockProviderRegistry) EXPECT() *MockProviderRegistryMockRecorder { return m.recorder }

func (m *MockProviderRegistry) Get(name string) (ports.Provider, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", name)
	p, _ := ret[0].(ports.Provider)
	err, _ := ret[1].(error)
	return p, err
}
func (mr *MockProviderRegistryMockRecorder) Get(name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockProviderRegistry)(nil).Get), name)
}

func (m *MockProviderRegistry) Register(provider ports.Provider) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Register", provider)
}
func (mr *MockProviderRegistryMockRecorder) Register(provider any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Register", reflect.TypeOf((*MockProviderRegistry)(nil).Register), provider)
}

type MockProvider struct {
	ctrl     *gomock.Controller
	recorder *MockProviderMockRecorder
}
type MockProviderMockRecorder struct{ mock *MockProvider }

func NewMockProvider(ctrl *gomock.Controller) *MockProvider {
	m := &MockProvider{ctrl: ctrl}
	m.recorder = &MockProviderMockRecorder{m}
	return m
}
func (m *MockProvider) EXPECT() *MockProviderMockRecorder { return m.recorder }

func (m *MockProvider) Name() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Name")
	s, _ := ret[0].(string)
	return s
}
func (mr *MockProviderMockRecorder) Name() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Name", reflect.TypeOf((*MockProvider)(nil).Name))
}

func (m *MockProvider) ProcessPayment(ctx context.Context, req ports.ProviderChargeRequest) (ports.ProviderChargeResponse, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ProcessPayment", ctx, req)
	r, _ := ret[0].(ports.ProviderChargeResponse)
	err, _ := ret[1].(error)
	return r, err
}
func (mr *MockProviderMockRecorder) ProcessPayment(ctx, req any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ProcessPayment", reflect.TypeOf((*MockProvider)(nil).ProcessPayment), ctx, req)
}

func (m *MockProvider) ProcessRefund(ctx context.Context, req ports.ProviderRefundRequest) (ports.ProviderRefundResponse, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ProcessRefund", ctx, req)
	r, _ := ret[0].(ports.ProviderRefundResponse)
	err, _ := ret[1].(error)
	return r, err
}
func (mr *MockProviderMockRecorder) ProcessRefund(ctx, req any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ProcessRefund", reflect.TypeOf((*MockProvider)(nil).ProcessRefund), ctx, req)
}

func (m *MockProvider) ParseWebhook(payload []byte, signature string) (ports.ProviderWebhookEvent, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ParseWebhook", payload, signature)
	e, _ := ret[0].(ports.ProviderWebhookEvent)
	err, _ := ret[1].(error)
	return e, err
}
func (mr *MockProviderMockRecorder) ParseWebhook(payload, signature any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ParseWebhook", reflect.TypeOf((*MockProvider)(nil).ParseWebhook), payload, signature)
}

func (m *MockProvider) VerifyWebhookSignature(payload []byte, header, secret string) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "VerifyWebhookSignature", payload, header, secret)
	ok, _ := ret[0].(bool)
	return ok
}
func (mr *MockProviderMockRecorder) VerifyWebhookSignature(payload, header, secret any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "VerifyWebhookSignature", reflect.TypeOf((*MockProvider)(nil).VerifyWebhookSignature), payload, header, secret)
}

// --- CircuitBreakerFactory / CircuitBreaker ---

type MockCircuitBreakerFactory struct {
	ctrl     *gomock.Controller
	recorder *MockCircuitBreakerFactoryMockRecorder
}
type MockCircuitBreakerFactoryMockRecorder struct{ mock *MockCircuitBreakerFactory }

func NewMockCircuitBreakerFactory(ctrl *gomock.Controller) *MockCircuitBreakerFactory {
	m := &MockCircuitBreakerFactory{ctrl: ctrl}
	m.recorder = &MockCircuitBreakerFactoryMockRecorder{m}
	return m
}
func (m *MockCircuitBreakerFactory) EXPECT() *MockCircuitBreakerFactoryMockRecorder { return m.recorder }

func (m *MockCircuitBreakerFactory) For(providerName string) ports.CircuitBreaker {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "For", providerName)
	b, _ := ret[0].(ports.CircuitBreaker)
	return b
}
func (mr *MockCircuitBreakerFactoryMockRecorder) For(providerName any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "For", reflect.TypeOf((*MockCircuitBreakerFactory)(nil).For), providerName)
}

func (m *MockCircuitBreakerFactory) All() map[string]ports.CircuitBreaker {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "All")
	a, _ := ret[0].(map[string]ports.CircuitBreaker)
	return a
}
func (mr *MockCircuitBreakerFactoryMockRecorder) All() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "All", reflect.TypeOf((*MockCircuitBreakerFactory)(nil).All))
}

// MockCircuitBreaker passes fn straight through to the wrapped callback,
// the same "closed breaker" behavior most service-layer tests want
// without re-testing the breaker package itself.
type MockCircuitBreaker struct {
	ctrl     *gomock.Controller
	recorder *MockCircuitBreakerMockRecorder
}
type MockCircuitBreakerMockRecorder struct{ mock *MockCircuitBreaker }

func NewMockCircuitBreaker(ctrl *gomock.Controller) *MockCircuitBreaker {
	m := &MockCircuitBreaker{ctrl: ctrl}
	m.recorder = &MockCircuitBreakerMockRecorder{m}
	return m
}
func (m *MockCircuitBreaker) EXPECT() *MockCircuitBreakerMockRecorder { return m.recorder }

func (m *MockCircuitBreaker) Name() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Name")
	s, _ := ret[0].(string)
	return s
}
func (mr *MockCircuitBreakerMockRecorder) Name() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Name", reflect.TypeOf((*MockCircuitBreaker)(nil).Name))
}

func (m *MockCircuitBreaker) State() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "State")
	s, _ := ret[0].(string)
	return s
}
func (mr *MockCircuitBreakerMockRecorder) State() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "State", reflect.TypeOf((*MockCircuitBreaker)(nil).State))
}

func (m *MockCircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Execute", ctx, fn)
	v := ret[0]
	err, _ := ret[1].(error)
	return v, err
}
func (mr *MockCircuitBreakerMockRecorder) Execute(ctx, fn any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Execute", reflect.TypeOf((*MockCircuitBreaker)(nil).Execute), ctx, fn)
}

// --- IdempotencyCache / IdempotencyRepository ---

type MockIdempotencyCache struct {
	ctrl     *gomock.Controller
	recorder *MockIdempotencyCacheMockRecorder
}
type MockIdempotencyCacheMockRecorder struct{ mock *MockIdempotencyCache }

func NewMockIdempotencyCache(ctrl *gomock.Controller) *MockIdempotencyCache {
	m := &MockIdempotencyCache{ctrl: ctrl}
	m.recorder = &MockIdempotencyCacheMockRecorder{m}
	return m
}
func (m *MockIdempotencyCache) EXPECT() *MockIdempotencyCacheMockRecorder { return m.recorder }

func (m *MockIdempotencyCache) Get(ctx context.Context, key, merchantID string) (*domain.IdempotencyRecord, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, key, merchantID)
	r, _ := ret[0].(*domain.IdempotencyRecord)
	err, _ := ret[1].(error)
	return r, err
}
func (mr *MockIdempotencyCacheMockRecorder) Get(ctx, key, merchantID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockIdempotencyCache)(nil).Get), ctx, key, merchantID)
}

func (m *MockIdempotencyCache) Set(ctx context.Context, key, merchantID string, record *domain.IdempotencyRecord, ttl time.Duration) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Set", ctx, key, merchantID, record, ttl)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockIdempotencyCacheMockRecorder) Set(ctx, key, merchantID, record, ttl any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Set", reflect.TypeOf((*MockIdempotencyCache)(nil).Set), ctx, key, merchantID, record, ttl)
}

func (m *MockIdempotencyCache) Delete(ctx context.Context, key, merchantID string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, key, merchantID)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockIdempotencyCacheMockRecorder) Delete(ctx, key, merchantID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockIdempotencyCache)(nil).Delete), ctx, key, merchantID)
}

type MockIdempotencyRepository struct {
	ctrl     *gomock.Controller
	recorder *MockIdempotencyRepositoryMockRecorder
}
type MockIdempotencyRepositoryMockRecorder struct{ mock *MockIdempotencyRepository }

func NewMockIdempotencyRepository(ctrl *gomock.Controller) *MockIdempotencyRepository {
	m := &MockIdempotencyRepository{ctrl: ctrl}
	m.recorder = &MockIdempotencyRepositoryMockRecorder{m}
	return m
}
func (m *MockIdempotencyRepository) EXPECT() *MockIdempotencyRepositoryMockRecorder { return m.recorder }

func (m *MockIdempotencyRepository) Create(ctx context.Context, tx pgx.Tx, record *domain.IdempotencyRecord) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, tx, record)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockIdempotencyRepositoryMockRecorder) Create(ctx, tx, record any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockIdempotencyRepository)(nil).Create), ctx, tx, record)
}

func (m *MockIdempotencyRepository) Get(ctx context.Context, key, merchantID string) (*domain.IdempotencyRecord, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, key, merchantID)
	r, _ := ret[0].(*domain.IdempotencyRecord)
	err, _ := ret[1].(error)
	return r, err
}
func (mr *MockIdempotencyRepositoryMockRecorder) Get(ctx, key, merchantID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockIdempotencyRepository)(nil).Get), ctx, key, merchantID)
}

func (m *MockIdempotencyRepository) Complete(ctx context.Context, key, merchantID string, status domain.IdempotencyStatus, responseBody []byte, responseStatus int) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Complete", ctx, key, merchantID, status, responseBody, responseStatus)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockIdempotencyRepositoryMockRecorder) Complete(ctx, key, merchantID, status, responseBody, responseStatus any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Complete", reflect.TypeOf((*MockIdempotencyRepository)(nil).Complete), ctx, key, merchantID, status, responseBody, responseStatus)
}

func (m *MockIdempotencyRepository) Delete(ctx context.Context, key, merchantID string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, key, merchantID)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockIdempotencyRepositoryMockRecorder) Delete(ctx, key, merchantID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockIdempotencyRepository)(nil).Delete), ctx, key, merchantID)
}

// --- WebhookRepository / QueuePublisher / SignatureService ---

type MockWebhookRepository struct {
	ctrl     *gomock.Controller
	recorder *MockWebhookRepositoryMockRecorder
}
type MockWebhookRepositoryMockRecorder struct{ mock *MockWebhookRepository }

func NewMockWebhookRepository(ctrl *gomock.Controller) *MockWebhookRepository {
	m := &MockWebhookRepository{ctrl: ctrl}
	m.recorder = &MockWebhookRepositoryMockRecorder{m}
	return m
}
func (m *MockWebhookRepository) EXPECT() *MockWebhookRepositoryMockRecorder { return m.recorder }

func (m *MockWebhookRepository) Create(ctx context.Context, tx pgx.Tx, event *domain.WebhookEvent) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, tx, event)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockWebhookRepositoryMockRecorder) Create(ctx, tx, event any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockWebhookRepository)(nil).Create), ctx, tx, event)
}

func (m *MockWebhookRepository) GetByID(ctx context.Context, id string) (*domain.WebhookEvent, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	e, _ := ret[0].(*domain.WebhookEvent)
	err, _ := ret[1].(error)
	return e, err
}
func (mr *MockWebhookRepositoryMockRecorder) GetByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockWebhookRepository)(nil).GetByID), ctx, id)
}

func (m *MockWebhookRepository) UpdateDeliveryResult(ctx context.Context, event *domain.WebhookEvent) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateDeliveryResult", ctx, event)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockWebhookRepositoryMockRecorder) UpdateDeliveryResult(ctx, event any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateDeliveryResult", reflect.TypeOf((*MockWebhookRepository)(nil).UpdateDeliveryResult), ctx, event)
}

func (m *MockWebhookRepository) ListDue(ctx context.Context, before int64, limit int) ([]domain.WebhookEvent, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListDue", ctx, before, limit)
	e, _ := ret[0].([]domain.WebhookEvent)
	err, _ := ret[1].(error)
	return e, err
}
func (mr *MockWebhookRepositoryMockRecorder) ListDue(ctx, before, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListDue", reflect.TypeOf((*MockWebhookRepository)(nil).ListDue), ctx, before, limit)
}

type MockQueuePublisher struct {
	ctrl     *gomock.Controller
	recorder *MockQueuePublisherMockRecorder
}
type MockQueuePublisherMockRecorder struct{ mock *MockQueuePublisher }

func NewMockQueuePublisher(ctrl *gomock.Controller) *MockQueuePublisher {
	m := &MockQueuePublisher{ctrl: ctrl}
	m.recorder = &MockQueuePublisherMockRecorder{m}
	return m
}
func (m *MockQueuePublisher) EXPECT() *MockQueuePublisherMockRecorder { return m.recorder }

func (m *MockQueuePublisher) Publish(ctx context.Context, queueName string, body []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Publish", ctx, queueName, body)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockQueuePublisherMockRecorder) Publish(ctx, queueName, body any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Publish", reflect.TypeOf((*MockQueuePublisher)(nil).Publish), ctx, queueName, body)
}

func (m *MockQueuePublisher) PublishDelayed(ctx context.Context, queueName string, body []byte, delay time.Duration) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PublishDelayed", ctx, queueName, body, delay)
	err, _ := ret[0].(error)
	return err
}
func (mr *MockQueuePublisherMockRecorder) PublishDelayed(ctx, queueName, body, delay any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PublishDelayed", reflect.TypeOf((*MockQueuePublisher)(nil).PublishDelayed), ctx, queueName, body, delay)
}

type MockSignatureService struct {
	ctrl     *gomock.Controller
	recorder *MockSignatureServiceMockRecorder
}
type MockSignatureServiceMockRecorder struct{ mock *MockSignatureService }

func NewMockSignatureService(ctrl *gomock.Controller) *MockSignatureService {
	m := &MockSignatureService{ctrl: ctrl}
	m.recorder = &MockSignatureServiceMockRecorder{m}
	return m
}
func (m *MockSignatureService) EXPECT() *MockSignatureServiceMockRecorder { return m.recorder }

func (m *MockSignatureService) Sign(secretKey string, payload []byte) string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Sign", secretKey, payload)
	s, _ := ret[0].(string)
	return s
}
func (mr *MockSignatureServiceMockRecorder) Sign(secretKey, payload any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Sign", reflect.TypeOf((*MockSignatureService)(nil).Sign), secretKey, payload)
}

func (m *MockSignatureService) Verify(secretKey string, payload []byte, signature string) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Verify", secretKey, payload, signature)
	ok, _ := ret[0].(bool)
	return ok
}
func (mr *MockSignatureServiceMockRecorder) Verify(secretKey, payload, signature any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Verify", reflect.TypeOf((*MockSignatureService)(nil).Verify), secretKey, payload, signature)
}

type MockHashService struct {
	ctrl     *gomock.Controller
	recorder *MockHashServiceMockRecorder
}
type MockHashServiceMockRecorder struct{ mock *MockHashService }

func NewMockHashService(ctrl *gomock.Controller) *MockHashService {
	m := &MockHashService{ctrl: ctrl}
	m.recorder = &MockHashServiceMockRecorder{m}
	return m
}
func (m *MockHashService) EXPECT() *MockHashServiceMockRecorder { return m.recorder }

func (m *MockHashService) Hash(password string) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Hash", password)
	s, _ := ret[0].(string)
	err, _ := ret[1].(error)
	return s, err
}
func (mr *MockHashServiceMockRecorder) Hash(password any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Hash", reflect.TypeOf((*MockHashService)(nil).Hash), password)
}

func (m *MockHashService) Verify(password, hash string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Verify", password, hash)
	ok, _ := ret[0].(bool)
	err, _ := ret[1].(error)
	return ok, err
}
func (mr *MockHashServiceMockRecorder) Verify(password, hash any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Verify", reflect.TypeOf((*MockHashService)(nil).Verify), password, hash)
}

type MockTokenService struct {
	ctrl     *gomock.Controller
	recorder *MockTokenServiceMockRecorder
}
type MockTokenServiceMockRecorder struct{ mock *MockTokenService }

func NewMockTokenService(ctrl *gomock.Controller) *MockTokenService {
	m := &MockTokenService{ctrl: ctrl}
	m.recorder = &MockTokenServiceMockRecorder{m}
	return m
}
func (m *MockTokenService) EXPECT() *MockTokenServiceMockRecorder { return m.recorder }

func (m *MockTokenService) Generate(operatorID string) (string, time.Time, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Generate", operatorID)
	s, _ := ret[0].(string)
	exp, _ := ret[1].(time.Time)
	err, _ := ret[2].(error)
	return s, exp, err
}
func (mr *MockTokenServiceMockRecorder) Generate(operatorID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Generate", reflect.TypeOf((*MockTokenService)(nil).Generate), operatorID)
}

func (m *MockTokenService) Validate(tokenString string) (*ports.TokenClaims, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Validate", tokenString)
	claims, _ := ret[0].(*ports.TokenClaims)
	err, _ := ret[1].(error)
	return claims, err
}
func (mr *MockTokenServiceMockRecorder) Validate(tokenString any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Validate", reflect.TypeOf((*MockTokenService)(nil).Validate), tokenString)
}
