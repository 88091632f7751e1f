package service

import (
	"context"
	"fmt"
	"time"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/money"
	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/internal/core/saga"
	"payment-orchestrator/pkg/apperror"
	"payment-orchestrator/pkg/idgen"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// chargeCtx carries the mutable state threaded through the charge saga's
// steps: the payment being created, provider response, and the
// transaction it all happens under.
type chargeCtx struct {
	tx            pgx.Tx
	payment       *domain.Payment
	providerResp  ports.ProviderChargeResponse
	webhookEvent  *domain.WebhookEvent
}

// PaymentServiceImpl implements ports.PaymentService via a three-step
// charge saga: persist the pending payment, invoke the provider through
// its circuit breaker, then enqueue a webhook notification. Only the
// persist step has a compensation: if the provider step fails, the
// pending payment is marked failed. The enqueue step never fails the saga.
type PaymentServiceImpl struct {
	paymentRepo ports.PaymentRepository
	txRepo      ports.TransactionRepository
	refundRepo  ports.RefundRepository
	webhookSvc  ports.WebhookService
	providers   ports.ProviderRegistry
	breakers    ports.CircuitBreakerFactory
	transactor  ports.DBTransactor
	auditSvc    ports.AuditService
	log         zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	paymentRepo ports.PaymentRepository,
	txRepo ports.TransactionRepository,
	refundRepo ports.RefundRepository,
	webhookSvc ports.WebhookService,
	providers ports.ProviderRegistry,
	breakers ports.CircuitBreakerFactory,
	transactor ports.DBTransactor,
	auditSvc ports.AuditService,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		paymentRepo: paymentRepo,
		txRepo:      txRepo,
		refundRepo:  refundRepo,
		webhookSvc:  webhookSvc,
		providers:   providers,
		breakers:    breakers,
		transactor:  transactor,
		auditSvc:    auditSvc,
		log:         log,
	}
}

// CreatePayment validates the request, resolves the provider, and runs
// the charge saga. Idempotency is the caller's responsibility (the HTTP
// layer gates every mutating request through ports.IdempotencyService
// before reaching here).
func (s *PaymentServiceImpl) CreatePayment(ctx context.Context, req ports.CreatePaymentRequest) (*domain.Payment, error) {
	if err := req.Amount.Validate(); err != nil {
		return nil, apperror.ErrInvalidAmount()
	}

	provider, err := s.providers.Get(req.Provider)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:          idgen.GenerateID(),
		ExternalID:  req.ExternalID,
		MerchantID:  req.MerchantID,
		Amount:      req.Amount,
		Status:      domain.PaymentStatusPending,
		Provider:    provider.Name(),
		Description: req.Description,
		Metadata:    req.Metadata,
		WebhookURL:  req.WebhookURL,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	cc := &chargeCtx{payment: payment}
	build := saga.NewBuilder[*chargeCtx]().
		StepWithCompensation("persist_pending", s.stepPersistPending, s.compensatePersistPending).
		StepWithCompensation("invoke_provider", s.stepInvokeProvider(provider), nil).
		Step("enqueue_webhook", s.stepEnqueueWebhook)

	if _, err := saga.Execute(ctx, build.Build(), cc); err != nil {
		s.log.Error().Err(err).Str("payment_id", payment.ID).Msg("charge saga failed")
		return nil, apperror.InternalError(fmt.Errorf("charge payment: %w", err))
	}

	return cc.payment, nil
}

func (s *PaymentServiceImpl) stepPersistPending(ctx context.Context, cc *chargeCtx) error {
	return s.transactor.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.paymentRepo.Create(ctx, tx, cc.payment); err != nil {
			return fmt.Errorf("persist payment: %w", err)
		}
		txn := &domain.Transaction{
			ID:        idgen.GenerateID(),
			PaymentID: cc.payment.ID,
			Status:    domain.PaymentStatusPending,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.txRepo.Create(ctx, tx, txn); err != nil {
			return fmt.Errorf("persist initial transaction: %w", err)
		}
		if s.auditSvc != nil {
			entry := &domain.AuditLog{
				ID:           idgen.GenerateID(),
				MerchantID:   &cc.payment.MerchantID,
				Action:       domain.AuditActionPaymentCreated,
				ResourceType: "payment",
				ResourceID:   cc.payment.ID,
				Actor:        "system",
				ActorType:    "system",
				CreatedAt:    time.Now().UTC(),
			}
			if err := s.auditSvc.Record(ctx, tx, entry); err != nil {
				return fmt.Errorf("record audit entry: %w", err)
			}
		}
		return nil
	})
}

// compensatePersistPending marks a payment failed if a later step aborts
// the saga after the pending row already committed. It cannot undo the
// commit (a separate transaction already landed), so it records the
// terminal failure instead.
func (s *PaymentServiceImpl) compensatePersistPending(ctx context.Context, cc *chargeCtx) {
	err := s.transactor.WithTx(ctx, func(tx pgx.Tx) error {
		return s.paymentRepo.UpdateStatus(ctx, tx, cc.payment.ID, domain.PaymentStatusFailed, nil)
	})
	if err != nil {
		s.log.Error().Err(err).Str("payment_id", cc.payment.ID).Msg("failed to mark payment failed during compensation")
		return
	}
	cc.payment.Status = domain.PaymentStatusFailed
}

// markProcessing flips the payment to processing and appends the
// corresponding transaction row before the provider is ever called, so
// the transaction log distinguishes "saga never reached the provider"
// (no processing row) from "provider call was in flight" (a processing
// row with no further row yet) if the process crashes mid-call.
func (s *PaymentServiceImpl) markProcessing(ctx context.Context, cc *chargeCtx) error {
	return s.transactor.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.paymentRepo.UpdateStatus(ctx, tx, cc.payment.ID, domain.PaymentStatusProcessing, nil); err != nil {
			return fmt.Errorf("mark payment processing: %w", err)
		}
		txn := &domain.Transaction{
			ID:        idgen.GenerateID(),
			PaymentID: cc.payment.ID,
			Status:    domain.PaymentStatusProcessing,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.txRepo.Create(ctx, tx, txn); err != nil {
			return fmt.Errorf("persist processing transaction: %w", err)
		}
		cc.payment.Status = domain.PaymentStatusProcessing
		return nil
	})
}

func (s *PaymentServiceImpl) stepInvokeProvider(provider ports.Provider) func(ctx context.Context, cc *chargeCtx) error {
	return func(ctx context.Context, cc *chargeCtx) error {
		priorStatus := cc.payment.Status

		if err := s.markProcessing(ctx, cc); err != nil {
			return err
		}

		breaker := s.breakers.For(provider.Name())
		result, err := breaker.Execute(ctx, func(ctx context.Context) (any, error) {
			return provider.ProcessPayment(ctx, ports.ProviderChargeRequest{
				PaymentID:   cc.payment.ID,
				Amount:      cc.payment.Amount,
				Description: cc.payment.Description,
				Metadata:    cc.payment.Metadata,
			})
		})
		if err != nil {
			return fmt.Errorf("invoke provider %s: %w", provider.Name(), err)
		}
		resp := result.(ports.ProviderChargeResponse)
		cc.providerResp = resp

		newStatus := resp.Status
		if newStatus != priorStatus && !domain.CanTransition(priorStatus, newStatus) {
			return fmt.Errorf("provider returned invalid transition %s -> %s", priorStatus, newStatus)
		}

		return s.transactor.WithTx(ctx, func(tx pgx.Tx) error {
			if err := s.paymentRepo.UpdateStatus(ctx, tx, cc.payment.ID, newStatus, strPtr(resp.TransactionID)); err != nil {
				return fmt.Errorf("update payment status: %w", err)
			}
			txn := &domain.Transaction{
				ID:          idgen.GenerateID(),
				PaymentID:   cc.payment.ID,
				Status:      newStatus,
				RawResponse: resp.RawResponse,
				CreatedAt:   time.Now().UTC(),
			}
			if resp.ErrorMessage != "" {
				txn.ErrorMessage = &resp.ErrorMessage
			}
			if err := s.txRepo.Create(ctx, tx, txn); err != nil {
				return fmt.Errorf("persist provider transaction: %w", err)
			}
			if s.auditSvc != nil {
				entry := &domain.AuditLog{
					ID:           idgen.GenerateID(),
					MerchantID:   &cc.payment.MerchantID,
					Action:       domain.AuditActionPaymentStatusChange,
					ResourceType: "payment",
					ResourceID:   cc.payment.ID,
					NewValue:     string(newStatus),
					Actor:        provider.Name(),
					ActorType:    "provider",
					CreatedAt:    time.Now().UTC(),
				}
				if err := s.auditSvc.Record(ctx, tx, entry); err != nil {
					return fmt.Errorf("record audit entry: %w", err)
				}
			}
			return nil
		})
	}
}

func (s *PaymentServiceImpl) stepEnqueueWebhook(ctx context.Context, cc *chargeCtx) error {
	cc.payment.Status = cc.providerResp.Status
	cc.payment.ProviderTransactionID = strPtr(cc.providerResp.TransactionID)

	if cc.payment.WebhookURL == nil {
		return nil
	}

	payload := map[string]any{
		"payment_id": cc.payment.ID,
		"status":     string(cc.payment.Status),
		"amount":     cc.payment.Amount.String(),
		"provider":   cc.payment.Provider,
	}

	event := &domain.WebhookEvent{
		ID:          idgen.GenerateID(),
		PaymentID:   &cc.payment.ID,
		EventType:   "payment." + string(cc.payment.Status),
		Payload:     payload,
		URL:         *cc.payment.WebhookURL,
		Attempts:    0,
		MaxAttempts: 5,
		Status:      domain.WebhookStatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	// Best-effort: the charge itself already committed in the prior step.
	// A failure to enqueue the notification must not roll back a
	// completed charge, so it is logged rather than returned.
	err := s.transactor.WithTx(ctx, func(tx pgx.Tx) error {
		return s.webhookSvc.EnqueueWebhook(ctx, tx, event)
	})
	if err != nil {
		s.log.Error().Err(err).Str("payment_id", cc.payment.ID).Msg("failed to enqueue payment webhook")
		return nil
	}
	cc.webhookEvent = event
	return nil
}

// GetPayment fetches a payment by ID, embedding its transaction and
// refund history. A payment owned by a different merchant is reported
// identically to an absent one, so merchants cannot probe for the
// existence of ids they do not own.
func (s *PaymentServiceImpl) GetPayment(ctx context.Context, id, merchantID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get payment: %w", err))
	}
	if payment == nil || payment.MerchantID != merchantID {
		return nil, apperror.ErrNotFound("payment")
	}

	txns, err := s.txRepo.ListByPayment(ctx, payment.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	payment.Transactions = txns

	refunds, err := s.refundRepo.ListByPayment(ctx, payment.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list refunds: %w", err))
	}
	payment.Refunds = refunds

	return payment, nil
}

// ListPayments lists payments for a merchant, filtered and paginated.
func (s *PaymentServiceImpl) ListPayments(ctx context.Context, params ports.PaymentListParams) ([]domain.Payment, int64, error) {
	payments, total, err := s.paymentRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list payments: %w", err))
	}
	return payments, total, nil
}

// GetRefundableSummary reports how much of a payment remains refundable:
// completed refunds reduce the available amount permanently, pending
// refunds reserve it provisionally.
func (s *PaymentServiceImpl) GetRefundableSummary(ctx context.Context, paymentID, merchantID string) (*domain.RefundableSummary, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get payment: %w", err))
	}
	if payment == nil || payment.MerchantID != merchantID {
		return nil, apperror.ErrNotFound("payment")
	}

	completedStr, err := s.refundRepo.SumByPaymentAndStatus(ctx, paymentID, []domain.RefundStatus{domain.RefundStatusCompleted})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("sum completed refunds: %w", err))
	}
	pendingStr, err := s.refundRepo.SumByPaymentAndStatus(ctx, paymentID, []domain.RefundStatus{domain.RefundStatusPending})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("sum pending refunds: %w", err))
	}

	currency := payment.Amount.Currency()
	completed, err := parseSum(completedStr, currency)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	pending, err := parseSum(pendingStr, currency)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	available, err := payment.Amount.Sub(completed)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("compute available: %w", err))
	}
	available, err = available.Sub(pending)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("compute available: %w", err))
	}

	return &domain.RefundableSummary{
		PaymentAmount:      payment.Amount,
		TotalRefunded:      completed,
		PendingRefunds:     pending,
		AvailableForRefund: available,
	}, nil
}

func parseSum(s, currency string) (money.Money, error) {
	if s == "" {
		return money.Zero(currency), nil
	}
	m, err := money.NewFromString(s, currency)
	if err != nil {
		return money.Money{}, fmt.Errorf("parse refund sum: %w", err)
	}
	return m, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
