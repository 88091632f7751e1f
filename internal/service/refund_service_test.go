package service

import (
	"context"
	"fmt"
	"testing"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/money"
	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/internal/core/ports/mocks"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type refundTestDeps struct {
	svc         *RefundServiceImpl
	paymentRepo *mocks.MockPaymentRepository
	refundRepo  *mocks.MockRefundRepository
	txRepo      *mocks.MockTransactionRepository
	webhookSvc  *mocks.MockWebhookService
	providers   *mocks.MockProviderRegistry
	breakers    *mocks.MockCircuitBreakerFactory
	transactor  *mocks.MockDBTransactor
	auditSvc    *mocks.MockAuditService
	ctrl        *gomock.Controller
}

func setupRefundService(t *testing.T) *refundTestDeps {
	ctrl := gomock.NewController(t)
	d := &refundTestDeps{
		paymentRepo: mocks.NewMockPaymentRepository(ctrl),
		refundRepo:  mocks.NewMockRefundRepository(ctrl),
		txRepo:      mocks.NewMockTransactionRepository(ctrl),
		webhookSvc:  mocks.NewMockWebhookService(ctrl),
		providers:   mocks.NewMockProviderRegistry(ctrl),
		breakers:    mocks.NewMockCircuitBreakerFactory(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		auditSvc:    mocks.NewMockAuditService(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewRefundService(
		d.paymentRepo, d.refundRepo, d.txRepo, d.webhookSvc,
		d.providers, d.breakers, d.transactor, d.auditSvc, zerolog.Nop(),
	)
	return d
}

func passthroughWithAdvisoryLock(ctx context.Context, lockKey string, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func TestRefundService_CreateRefund_PartialSuccess(t *testing.T) {
	d := setupRefundService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	paymentAmount, _ := money.NewFromString("100.0000", "USD")
	refundAmount, _ := money.NewFromString("40.0000", "USD")
	providerTxID := "ch_abc123"

	payment := &domain.Payment{
		ID: "pay_1", MerchantID: "merchant-1", Amount: paymentAmount,
		Status: domain.PaymentStatusCompleted, Provider: "stripesim",
		ProviderTransactionID: &providerTxID,
	}

	req := ports.CreateRefundRequest{
		PaymentID:  "pay_1",
		MerchantID: "merchant-1",
		Amount:     &refundAmount,
		Reason:     "requested_by_customer",
	}

	provider := mocks.NewMockProvider(d.ctrl)
	breaker := mocks.NewMockCircuitBreaker(d.ctrl)

	d.transactor.EXPECT().WithAdvisoryLock(ctx, "refund:pay_1", gomock.Any()).DoAndReturn(passthroughWithAdvisoryLock)
	d.paymentRepo.EXPECT().GetByIDForUpdate(ctx, gomock.Nil(), "pay_1").Return(payment, nil)
	d.refundRepo.EXPECT().SumByPaymentAndStatus(ctx, "pay_1", []domain.RefundStatus{domain.RefundStatusCompleted}).Return("", nil)
	d.refundRepo.EXPECT().SumByPaymentAndStatus(ctx, "pay_1", []domain.RefundStatus{domain.RefundStatusPending}).Return("", nil)
	d.providers.EXPECT().Get("stripesim").Return(provider, nil)
	d.refundRepo.EXPECT().Create(ctx, gomock.Nil(), gomock.Any()).Return(nil)
	d.breakers.EXPECT().For("stripesim").Return(breaker)
	provider.EXPECT().Name().Return("stripesim").AnyTimes()
	breaker.EXPECT().Execute(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
			return fn(ctx)
		})
	provider.EXPECT().ProcessRefund(ctx, gomock.Any()).Return(ports.ProviderRefundResponse{
		Success: true, RefundID: "re_abc1", Status: domain.RefundStatusCompleted,
	}, nil)
	d.refundRepo.EXPECT().UpdateStatus(ctx, gomock.Nil(), gomock.Any(), domain.RefundStatusCompleted, gomock.Any()).Return(nil)
	d.paymentRepo.EXPECT().UpdateStatus(ctx, gomock.Nil(), "pay_1", domain.PaymentStatusPartiallyRefunded, nil).Return(nil)
	d.txRepo.EXPECT().Create(ctx, gomock.Nil(), gomock.Any()).Return(nil)
	d.auditSvc.EXPECT().Record(ctx, gomock.Nil(), gomock.Any()).Return(nil).Times(2)

	refund, err := d.svc.CreateRefund(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, refund)
	assert.Equal(t, "40.0000", refund.Amount.String())
	assert.Equal(t, domain.RefundStatusCompleted, refund.Status)
}

func TestRefundService_CreateRefund_ProviderFailure_RecordsFailureDurably(t *testing.T) {
	d := setupRefundService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	paymentAmount, _ := money.NewFromString("100.0000", "USD")
	refundAmount, _ := money.NewFromString("40.0000", "USD")
	providerTxID := "ch_abc123"

	payment := &domain.Payment{
		ID: "pay_1", MerchantID: "merchant-1", Amount: paymentAmount,
		Status: domain.PaymentStatusCompleted, Provider: "stripesim",
		ProviderTransactionID: &providerTxID,
	}

	req := ports.CreateRefundRequest{
		PaymentID:  "pay_1",
		MerchantID: "merchant-1",
		Amount:     &refundAmount,
		Reason:     "requested_by_customer",
	}

	provider := mocks.NewMockProvider(d.ctrl)
	breaker := mocks.NewMockCircuitBreaker(d.ctrl)
	providerErr := fmt.Errorf("provider unreachable")

	d.transactor.EXPECT().WithAdvisoryLock(ctx, "refund:pay_1", gomock.Any()).DoAndReturn(passthroughWithAdvisoryLock)
	d.paymentRepo.EXPECT().GetByIDForUpdate(ctx, gomock.Nil(), "pay_1").Return(payment, nil)
	d.refundRepo.EXPECT().SumByPaymentAndStatus(ctx, "pay_1", []domain.RefundStatus{domain.RefundStatusCompleted}).Return("", nil)
	d.refundRepo.EXPECT().SumByPaymentAndStatus(ctx, "pay_1", []domain.RefundStatus{domain.RefundStatusPending}).Return("", nil)
	d.providers.EXPECT().Get("stripesim").Return(provider, nil)
	d.refundRepo.EXPECT().Create(ctx, gomock.Nil(), gomock.Any()).Return(nil)
	d.breakers.EXPECT().For("stripesim").Return(breaker)
	provider.EXPECT().Name().Return("stripesim").AnyTimes()
	breaker.EXPECT().Execute(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
			return fn(ctx)
		})
	provider.EXPECT().ProcessRefund(ctx, gomock.Any()).Return(ports.ProviderRefundResponse{}, providerErr)
	// refund.created commits inside the advisory-locked tx; the failure
	// is then recorded in a separate, successful transaction.
	d.auditSvc.EXPECT().Record(ctx, gomock.Nil(), gomock.Any()).Return(nil).Times(1)
	d.transactor.EXPECT().WithTx(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(tx pgx.Tx) error) error {
			return fn(nil)
		})
	d.refundRepo.EXPECT().UpdateStatus(ctx, gomock.Nil(), gomock.Any(), domain.RefundStatusFailed, nil).Return(nil)
	d.auditSvc.EXPECT().Record(ctx, gomock.Nil(), gomock.Any()).Return(nil).Times(1)

	refund, err := d.svc.CreateRefund(ctx, req)
	require.Error(t, err)
	assert.Nil(t, refund)
}

func TestRefundService_CreateRefund_ExceedsAvailable(t *testing.T) {
	d := setupRefundService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	paymentAmount, _ := money.NewFromString("100.0000", "USD")
	refundAmount, _ := money.NewFromString("150.0000", "USD")
	providerTxID := "ch_abc123"

	payment := &domain.Payment{
		ID: "pay_1", MerchantID: "merchant-1", Amount: paymentAmount,
		Status: domain.PaymentStatusCompleted, Provider: "stripesim",
		ProviderTransactionID: &providerTxID,
	}

	req := ports.CreateRefundRequest{
		PaymentID:  "pay_1",
		MerchantID: "merchant-1",
		Amount:     &refundAmount,
		Reason:     "requested_by_customer",
	}

	d.transactor.EXPECT().WithAdvisoryLock(ctx, "refund:pay_1", gomock.Any()).DoAndReturn(passthroughWithAdvisoryLock)
	d.paymentRepo.EXPECT().GetByIDForUpdate(ctx, gomock.Nil(), "pay_1").Return(payment, nil)
	d.refundRepo.EXPECT().SumByPaymentAndStatus(ctx, "pay_1", []domain.RefundStatus{domain.RefundStatusCompleted}).Return("", nil)
	d.refundRepo.EXPECT().SumByPaymentAndStatus(ctx, "pay_1", []domain.RefundStatus{domain.RefundStatusPending}).Return("", nil)

	refund, err := d.svc.CreateRefund(ctx, req)
	assert.Nil(t, refund)
	assertAppErrorCode(t, err, "VAL_004")
}

func TestRefundService_CreateRefund_InvalidPaymentState(t *testing.T) {
	d := setupRefundService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	paymentAmount, _ := money.NewFromString("100.0000", "USD")

	payment := &domain.Payment{
		ID: "pay_1", MerchantID: "merchant-1", Amount: paymentAmount,
		Status: domain.PaymentStatusPending, Provider: "stripesim",
	}

	req := ports.CreateRefundRequest{PaymentID: "pay_1", MerchantID: "merchant-1", Reason: "duplicate"}

	d.transactor.EXPECT().WithAdvisoryLock(ctx, "refund:pay_1", gomock.Any()).DoAndReturn(passthroughWithAdvisoryLock)
	d.paymentRepo.EXPECT().GetByIDForUpdate(ctx, gomock.Nil(), "pay_1").Return(payment, nil)

	refund, err := d.svc.CreateRefund(ctx, req)
	assert.Nil(t, refund)
	assertAppErrorCode(t, err, "VAL_005")
}

func TestRefundService_CreateRefund_OwnershipMismatch(t *testing.T) {
	d := setupRefundService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	paymentAmount, _ := money.NewFromString("100.0000", "USD")
	payment := &domain.Payment{ID: "pay_1", MerchantID: "merchant-other", Amount: paymentAmount, Status: domain.PaymentStatusCompleted}

	req := ports.CreateRefundRequest{PaymentID: "pay_1", MerchantID: "merchant-1", Reason: "duplicate"}

	d.transactor.EXPECT().WithAdvisoryLock(ctx, "refund:pay_1", gomock.Any()).DoAndReturn(passthroughWithAdvisoryLock)
	d.paymentRepo.EXPECT().GetByIDForUpdate(ctx, gomock.Nil(), "pay_1").Return(payment, nil)

	refund, err := d.svc.CreateRefund(ctx, req)
	assert.Nil(t, refund)
	assertAppErrorCode(t, err, "PAY_001")
}

func TestRefundService_GetRefund_OwnershipMismatch(t *testing.T) {
	d := setupRefundService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	amount, _ := money.NewFromString("40.0000", "USD")
	d.refundRepo.EXPECT().GetByID(ctx, "re_1").Return(&domain.Refund{ID: "re_1", PaymentID: "pay_1", Amount: amount}, nil)
	d.paymentRepo.EXPECT().GetByID(ctx, "pay_1").Return(&domain.Payment{ID: "pay_1", MerchantID: "merchant-other"}, nil)

	refund, err := d.svc.GetRefund(ctx, "re_1", "merchant-1")
	assert.Nil(t, refund)
	assertAppErrorCode(t, err, "PAY_001")
}
