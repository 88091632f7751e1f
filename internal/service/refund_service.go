package service

import (
	"context"
	"fmt"
	"time"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/money"
	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/pkg/apperror"
	"payment-orchestrator/pkg/idgen"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// RefundServiceImpl implements ports.RefundService: row-locks the
// payment, enforces the amount-conservation invariant against prior
// refunds, calls the provider through its breaker, then persists the
// outcome — all inside the advisory-locked row the payment is held
// under, so concurrent refund requests against the same payment
// serialize rather than race.
type RefundServiceImpl struct {
	paymentRepo ports.PaymentRepository
	refundRepo  ports.RefundRepository
	txRepo      ports.TransactionRepository
	webhookSvc  ports.WebhookService
	providers   ports.ProviderRegistry
	breakers    ports.CircuitBreakerFactory
	transactor  ports.DBTransactor
	auditSvc    ports.AuditService
	log         zerolog.Logger
}

// NewRefundService creates a new RefundServiceImpl.
func NewRefundService(
	paymentRepo ports.PaymentRepository,
	refundRepo ports.RefundRepository,
	txRepo ports.TransactionRepository,
	webhookSvc ports.WebhookService,
	providers ports.ProviderRegistry,
	breakers ports.CircuitBreakerFactory,
	transactor ports.DBTransactor,
	auditSvc ports.AuditService,
	log zerolog.Logger,
) *RefundServiceImpl {
	return &RefundServiceImpl{
		paymentRepo: paymentRepo,
		refundRepo:  refundRepo,
		txRepo:      txRepo,
		webhookSvc:  webhookSvc,
		providers:   providers,
		breakers:    breakers,
		transactor:  transactor,
		auditSvc:    auditSvc,
		log:         log,
	}
}

// CreateRefund validates req against the locked payment's remaining
// refundable balance, invokes the provider, and records the outcome.
func (s *RefundServiceImpl) CreateRefund(ctx context.Context, req ports.CreateRefundRequest) (*domain.Refund, error) {
	var refund *domain.Refund
	var providerErr error

	err := s.transactor.WithAdvisoryLock(ctx, "refund:"+req.PaymentID, func(tx pgx.Tx) error {
		payment, err := s.paymentRepo.GetByIDForUpdate(ctx, tx, req.PaymentID)
		if err != nil {
			return fmt.Errorf("lock payment: %w", err)
		}
		if payment == nil || payment.MerchantID != req.MerchantID {
			return apperror.ErrNotFound("payment")
		}
		if payment.Status != domain.PaymentStatusCompleted && payment.Status != domain.PaymentStatusPartiallyRefunded {
			return apperror.ErrInvalidRefundState()
		}

		completedStr, err := s.refundRepo.SumByPaymentAndStatus(ctx, payment.ID, []domain.RefundStatus{domain.RefundStatusCompleted})
		if err != nil {
			return fmt.Errorf("sum completed refunds: %w", err)
		}
		pendingStr, err := s.refundRepo.SumByPaymentAndStatus(ctx, payment.ID, []domain.RefundStatus{domain.RefundStatusPending})
		if err != nil {
			return fmt.Errorf("sum pending refunds: %w", err)
		}

		currency := payment.Amount.Currency()
		completed, err := parseSum(completedStr, currency)
		if err != nil {
			return err
		}
		pending, err := parseSum(pendingStr, currency)
		if err != nil {
			return err
		}

		available, err := payment.Amount.Sub(completed)
		if err != nil {
			return fmt.Errorf("compute available: %w", err)
		}
		available, err = available.Sub(pending)
		if err != nil {
			return fmt.Errorf("compute available: %w", err)
		}

		amount := available
		if req.Amount != nil {
			if err := req.Amount.Validate(); err != nil {
				return apperror.ErrInvalidAmount()
			}
			if req.Amount.GreaterThan(available) {
				return apperror.ErrRefundExceedsAvailable()
			}
			amount = *req.Amount
		}
		if !amount.IsPositive() {
			return apperror.ErrRefundExceedsAvailable()
		}

		provider, err := s.providers.Get(payment.Provider)
		if err != nil {
			return err
		}
		if payment.ProviderTransactionID == nil {
			return fmt.Errorf("payment %s has no provider transaction id", payment.ID)
		}

		now := time.Now().UTC()
		r := &domain.Refund{
			ID:        idgen.GenerateID(),
			PaymentID: payment.ID,
			Amount:    amount,
			Status:    domain.RefundStatusPending,
			Reason:    req.Reason,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.refundRepo.Create(ctx, tx, r); err != nil {
			return fmt.Errorf("persist refund: %w", err)
		}
		if s.auditSvc != nil {
			entry := &domain.AuditLog{
				ID:           idgen.GenerateID(),
				MerchantID:   &payment.MerchantID,
				Action:       domain.AuditActionRefundCreated,
				ResourceType: "refund",
				ResourceID:   r.ID,
				NewValue:     string(r.Status),
				Actor:        "system",
				ActorType:    "system",
				CreatedAt:    now,
			}
			if err := s.auditSvc.Record(ctx, tx, entry); err != nil {
				return fmt.Errorf("record audit entry: %w", err)
			}
		}

		breaker := s.breakers.For(provider.Name())
		result, err := breaker.Execute(ctx, func(ctx context.Context) (any, error) {
			return provider.ProcessRefund(ctx, ports.ProviderRefundRequest{
				PaymentID:             payment.ID,
				ProviderTransactionID: *payment.ProviderTransactionID,
				Amount:                amount,
				Reason:                req.Reason,
			})
		})
		if err != nil {
			// The refund row and its refund.created audit entry already
			// sit in this same tx; returning a non-nil error here would
			// roll both back. Stash the failure and let the closure
			// commit normally, then mark the refund failed in a
			// follow-up transaction the way compensatePersistPending
			// does for payments.
			providerErr = fmt.Errorf("invoke provider refund: %w", err)
			refund = r
			return nil
		}
		resp := result.(ports.ProviderRefundResponse)

		if err := s.refundRepo.UpdateStatus(ctx, tx, r.ID, resp.Status, strPtr(resp.RefundID)); err != nil {
			return fmt.Errorf("update refund status: %w", err)
		}
		r.Status = resp.Status
		r.ProviderRefundID = strPtr(resp.RefundID)

		newPaymentStatus := domain.PaymentStatusPartiallyRefunded
		fullyRefunded, err := isFullyRefunded(payment.Amount, completed, pending, amount, resp.Status)
		if err != nil {
			return err
		}
		if fullyRefunded {
			newPaymentStatus = domain.PaymentStatusRefunded
		}
		paymentUpdated := false
		if resp.Status == domain.RefundStatusCompleted && domain.CanTransition(payment.Status, newPaymentStatus) {
			if err := s.paymentRepo.UpdateStatus(ctx, tx, payment.ID, newPaymentStatus, nil); err != nil {
				return fmt.Errorf("update payment status: %w", err)
			}
			payment.Status = newPaymentStatus
			paymentUpdated = true
		}

		if paymentUpdated {
			txn := &domain.Transaction{
				ID:          idgen.GenerateID(),
				PaymentID:   payment.ID,
				Status:      payment.Status,
				RawResponse: resp.RawResponse,
				CreatedAt:   now,
			}
			if err := s.txRepo.Create(ctx, tx, txn); err != nil {
				return fmt.Errorf("persist refund transaction: %w", err)
			}
		}

		action := domain.AuditActionRefundCreated
		if resp.Status == domain.RefundStatusCompleted {
			action = domain.AuditActionRefundCompleted
		}
		if s.auditSvc != nil {
			entry := &domain.AuditLog{
				ID:           idgen.GenerateID(),
				MerchantID:   &payment.MerchantID,
				Action:       action,
				ResourceType: "refund",
				ResourceID:   r.ID,
				NewValue:     string(r.Status),
				Actor:        "system",
				ActorType:    "system",
				CreatedAt:    now,
			}
			if err := s.auditSvc.Record(ctx, tx, entry); err != nil {
				return fmt.Errorf("record audit entry: %w", err)
			}
		}

		if resp.Status == domain.RefundStatusCompleted && payment.WebhookURL != nil {
			event := &domain.WebhookEvent{
				ID:        idgen.GenerateID(),
				PaymentID: &payment.ID,
				EventType: "refund.completed",
				Payload: map[string]any{
					"refund_id":      r.ID,
					"payment_id":     payment.ID,
					"amount":         r.Amount.String(),
					"payment_status": string(payment.Status),
				},
				URL:         *payment.WebhookURL,
				MaxAttempts: 5,
				Status:      domain.WebhookStatusPending,
				CreatedAt:   now,
			}
			if err := s.webhookSvc.EnqueueWebhook(ctx, tx, event); err != nil {
				return fmt.Errorf("enqueue refund webhook: %w", err)
			}
		}

		refund = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	if providerErr != nil {
		s.failRefund(ctx, refund)
		return nil, providerErr
	}
	return refund, nil
}

// failRefund durably records a refund as failed after its insert and
// refund.created audit entry have already committed in a prior
// transaction. Mirrors compensatePersistPending in payment_service.go:
// the insert can't be undone, so the terminal failure is recorded
// instead.
func (s *RefundServiceImpl) failRefund(ctx context.Context, r *domain.Refund) {
	now := time.Now().UTC()
	err := s.transactor.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.refundRepo.UpdateStatus(ctx, tx, r.ID, domain.RefundStatusFailed, nil); err != nil {
			return fmt.Errorf("mark refund failed: %w", err)
		}
		if s.auditSvc != nil {
			entry := &domain.AuditLog{
				ID:           idgen.GenerateID(),
				Action:       domain.AuditActionRefundFailed,
				ResourceType: "refund",
				ResourceID:   r.ID,
				NewValue:     string(domain.RefundStatusFailed),
				Actor:        "system",
				ActorType:    "system",
				CreatedAt:    now,
			}
			if err := s.auditSvc.Record(ctx, tx, entry); err != nil {
				return fmt.Errorf("record audit entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("refund_id", r.ID).Msg("failed to record refund failure")
		return
	}
	r.Status = domain.RefundStatusFailed
}

// isFullyRefunded reports whether, after adding amount (assuming it
// completes) to the already-completed total, the payment's full amount
// has been returned.
func isFullyRefunded(paymentAmount, completed, pending money.Money, amount money.Money, status domain.RefundStatus) (bool, error) {
	if status != domain.RefundStatusCompleted {
		return false, nil
	}
	total, err := completed.Add(amount)
	if err != nil {
		return false, fmt.Errorf("sum refunded: %w", err)
	}
	cmp, err := total.Cmp(paymentAmount)
	if err != nil {
		return false, fmt.Errorf("compare refunded total: %w", err)
	}
	_ = pending
	return cmp >= 0, nil
}

// GetRefund fetches a refund by ID, checking ownership against the
// parent payment's merchant (a refund carries no merchant id of its
// own).
func (s *RefundServiceImpl) GetRefund(ctx context.Context, id, merchantID string) (*domain.Refund, error) {
	refund, err := s.refundRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get refund: %w", err))
	}
	if refund == nil {
		return nil, apperror.ErrNotFound("refund")
	}
	payment, err := s.paymentRepo.GetByID(ctx, refund.PaymentID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get parent payment: %w", err))
	}
	if payment == nil || payment.MerchantID != merchantID {
		return nil, apperror.ErrNotFound("refund")
	}
	return refund, nil
}
