package service

import (
	"context"
	"testing"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/money"
	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/internal/core/ports/mocks"
	"payment-orchestrator/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type paymentTestDeps struct {
	svc         *PaymentServiceImpl
	paymentRepo *mocks.MockPaymentRepository
	txRepo      *mocks.MockTransactionRepository
	refundRepo  *mocks.MockRefundRepository
	webhookSvc  *mocks.MockWebhookService
	providers   *mocks.MockProviderRegistry
	breakers    *mocks.MockCircuitBreakerFactory
	transactor  *mocks.MockDBTransactor
	auditSvc    *mocks.MockAuditService
	ctrl        *gomock.Controller
}

func setupPaymentService(t *testing.T) *paymentTestDeps {
	ctrl := gomock.NewController(t)
	d := &paymentTestDeps{
		paymentRepo: mocks.NewMockPaymentRepository(ctrl),
		txRepo:      mocks.NewMockTransactionRepository(ctrl),
		refundRepo:  mocks.NewMockRefundRepository(ctrl),
		webhookSvc:  mocks.NewMockWebhookService(ctrl),
		providers:   mocks.NewMockProviderRegistry(ctrl),
		breakers:    mocks.NewMockCircuitBreakerFactory(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		auditSvc:    mocks.NewMockAuditService(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewPaymentService(
		d.paymentRepo, d.txRepo, d.refundRepo, d.webhookSvc,
		d.providers, d.breakers, d.transactor, d.auditSvc, zerolog.Nop(),
	)
	return d
}

// passthroughWithTx lets WithTx mocks run fn against a nil pgx.Tx, mirroring
// how the in-memory integration test doubles behave.
func passthroughWithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func TestPaymentService_CreatePayment_Success(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	amount, _ := money.NewFromString("50.0000", "USD")
	req := ports.CreatePaymentRequest{
		MerchantID: "merchant-1",
		Amount:     amount,
		Provider:   "stripesim",
	}

	provider := mocks.NewMockProvider(d.ctrl)
	breaker := mocks.NewMockCircuitBreaker(d.ctrl)

	d.providers.EXPECT().Get("stripesim").Return(provider, nil)
	provider.EXPECT().Name().Return("stripesim").AnyTimes()

	d.transactor.EXPECT().WithTx(ctx, gomock.Any()).DoAndReturn(passthroughWithTx).Times(3)
	d.paymentRepo.EXPECT().Create(ctx, gomock.Nil(), gomock.Any()).Return(nil)
	d.txRepo.EXPECT().Create(ctx, gomock.Nil(), gomock.Any()).Return(nil).Times(3)
	d.auditSvc.EXPECT().Record(ctx, gomock.Nil(), gomock.Any()).Return(nil).Times(2)

	d.breakers.EXPECT().For("stripesim").Return(breaker)
	breaker.EXPECT().Execute(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
			return fn(ctx)
		})
	provider.EXPECT().ProcessPayment(ctx, gomock.Any()).Return(ports.ProviderChargeResponse{
		Success:       true,
		TransactionID: "ch_abc123",
		Status:        domain.PaymentStatusCompleted,
		RawResponse:   map[string]any{"id": "ch_abc123"},
	}, nil)
	d.paymentRepo.EXPECT().UpdateStatus(ctx, gomock.Nil(), gomock.Any(), domain.PaymentStatusProcessing, (*string)(nil)).Return(nil)
	d.paymentRepo.EXPECT().UpdateStatus(ctx, gomock.Nil(), gomock.Any(), domain.PaymentStatusCompleted, gomock.Any()).Return(nil)

	result, err := d.svc.CreatePayment(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.PaymentStatusCompleted, result.Status)
	assert.Equal(t, "merchant-1", result.MerchantID)
}

func TestPaymentService_CreatePayment_InvalidAmount(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	amount, _ := money.NewFromString("0.0000", "USD")
	req := ports.CreatePaymentRequest{MerchantID: "merchant-1", Amount: amount, Provider: "stripesim"}

	result, err := d.svc.CreatePayment(context.Background(), req)
	assert.Nil(t, result)
	assertAppErrorCode(t, err, "VAL_001")
}

func TestPaymentService_CreatePayment_UnknownProvider(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	amount, _ := money.NewFromString("10.0000", "USD")
	req := ports.CreatePaymentRequest{MerchantID: "merchant-1", Amount: amount, Provider: "acmepay"}

	d.providers.EXPECT().Get("acmepay").Return(nil, apperror.ErrUnknownProvider("acmepay"))

	result, err := d.svc.CreatePayment(context.Background(), req)
	assert.Nil(t, result)
	assertAppErrorCode(t, err, "VAL_003")
}

func TestPaymentService_CreatePayment_ProviderDeclined(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	amount, _ := money.NewFromString("100.9900", "USD")
	req := ports.CreatePaymentRequest{MerchantID: "merchant-1", Amount: amount, Provider: "stripesim"}

	provider := mocks.NewMockProvider(d.ctrl)
	breaker := mocks.NewMockCircuitBreaker(d.ctrl)

	d.providers.EXPECT().Get("stripesim").Return(provider, nil)
	provider.EXPECT().Name().Return("stripesim").AnyTimes()

	d.transactor.EXPECT().WithTx(ctx, gomock.Any()).DoAndReturn(passthroughWithTx).Times(3)
	d.paymentRepo.EXPECT().Create(ctx, gomock.Nil(), gomock.Any()).Return(nil)
	d.txRepo.EXPECT().Create(ctx, gomock.Nil(), gomock.Any()).Return(nil).Times(3)
	d.auditSvc.EXPECT().Record(ctx, gomock.Nil(), gomock.Any()).Return(nil).Times(2)

	d.breakers.EXPECT().For("stripesim").Return(breaker)
	breaker.EXPECT().Execute(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
			return fn(ctx)
		})
	provider.EXPECT().ProcessPayment(ctx, gomock.Any()).Return(ports.ProviderChargeResponse{
		Success:       false,
		TransactionID: "ch_declined1",
		Status:        domain.PaymentStatusFailed,
		ErrorCode:     "card_declined",
		ErrorMessage:  "the card was declined",
	}, nil)
	d.paymentRepo.EXPECT().UpdateStatus(ctx, gomock.Nil(), gomock.Any(), domain.PaymentStatusProcessing, (*string)(nil)).Return(nil)
	d.paymentRepo.EXPECT().UpdateStatus(ctx, gomock.Nil(), gomock.Any(), domain.PaymentStatusFailed, gomock.Any()).Return(nil)

	result, err := d.svc.CreatePayment(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.PaymentStatusFailed, result.Status)
}

func TestPaymentService_CreatePayment_CircuitOpen(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	amount, _ := money.NewFromString("25.0000", "USD")
	req := ports.CreatePaymentRequest{MerchantID: "merchant-1", Amount: amount, Provider: "stripesim"}

	provider := mocks.NewMockProvider(d.ctrl)
	breaker := mocks.NewMockCircuitBreaker(d.ctrl)

	d.providers.EXPECT().Get("stripesim").Return(provider, nil)
	provider.EXPECT().Name().Return("stripesim").AnyTimes()

	d.transactor.EXPECT().WithTx(ctx, gomock.Any()).DoAndReturn(passthroughWithTx).Times(3)
	d.paymentRepo.EXPECT().Create(ctx, gomock.Nil(), gomock.Any()).Return(nil)
	d.txRepo.EXPECT().Create(ctx, gomock.Nil(), gomock.Any()).Return(nil).Times(2)
	d.auditSvc.EXPECT().Record(ctx, gomock.Nil(), gomock.Any()).Return(nil)

	d.breakers.EXPECT().For("stripesim").Return(breaker)
	breaker.EXPECT().Execute(ctx, gomock.Any()).Return(nil, apperror.ErrCircuitOpen("stripesim"))

	d.paymentRepo.EXPECT().UpdateStatus(ctx, gomock.Nil(), gomock.Any(), domain.PaymentStatusProcessing, (*string)(nil)).Return(nil)
	d.paymentRepo.EXPECT().UpdateStatus(ctx, gomock.Nil(), gomock.Any(), domain.PaymentStatusFailed, (*string)(nil)).Return(nil)

	result, err := d.svc.CreatePayment(ctx, req)
	assert.Nil(t, result)
	assertAppErrorCode(t, err, "SYS_000")
}

func TestPaymentService_GetPayment_OwnershipMismatch(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	amount, _ := money.NewFromString("10.0000", "USD")
	d.paymentRepo.EXPECT().GetByID(ctx, "pay_1").Return(&domain.Payment{
		ID: "pay_1", MerchantID: "merchant-other", Amount: amount,
	}, nil)

	result, err := d.svc.GetPayment(ctx, "pay_1", "merchant-1")
	assert.Nil(t, result)
	assertAppErrorCode(t, err, "PAY_001")
}

func TestPaymentService_GetPayment_NotFound(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.paymentRepo.EXPECT().GetByID(ctx, "pay_missing").Return(nil, nil)

	result, err := d.svc.GetPayment(ctx, "pay_missing", "merchant-1")
	assert.Nil(t, result)
	assertAppErrorCode(t, err, "PAY_001")
}

func TestPaymentService_GetRefundableSummary(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	amount, _ := money.NewFromString("100.0000", "USD")
	d.paymentRepo.EXPECT().GetByID(ctx, "pay_1").Return(&domain.Payment{
		ID: "pay_1", MerchantID: "merchant-1", Amount: amount,
	}, nil)
	d.refundRepo.EXPECT().SumByPaymentAndStatus(ctx, "pay_1", []domain.RefundStatus{domain.RefundStatusCompleted}).Return("40.0000", nil)
	d.refundRepo.EXPECT().SumByPaymentAndStatus(ctx, "pay_1", []domain.RefundStatus{domain.RefundStatusPending}).Return("", nil)

	summary, err := d.svc.GetRefundableSummary(ctx, "pay_1", "merchant-1")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, "40.0000", summary.TotalRefunded.String())
	assert.Equal(t, "60.0000", summary.AvailableForRefund.String())
}

func assertAppErrorCode(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}
