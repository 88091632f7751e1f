package handler

import (
	"io"
	"time"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/pkg/apperror"
	"payment-orchestrator/pkg/idgen"
	"payment-orchestrator/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// WebhookHandler handles inbound provider webhook callbacks — a
// provider reporting an asynchronous status change on a payment it
// previously accepted. It never touches the outbound delivery path
// (ports.WebhookService's Deliver/SweepDue), though it shares the same
// EnqueueWebhook entry point to notify the merchant once reconciled.
type WebhookHandler struct {
	providers     ports.ProviderRegistry
	paymentRepo   ports.PaymentRepository
	txnRepo       ports.TransactionRepository
	transactor    ports.DBTransactor
	webhookSvc    ports.WebhookService
	auditSvc      ports.AuditService
	webhookSecret string
	log           zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(
	providers ports.ProviderRegistry,
	paymentRepo ports.PaymentRepository,
	txnRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	webhookSvc ports.WebhookService,
	auditSvc ports.AuditService,
	webhookSecret string,
	log zerolog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		providers:     providers,
		paymentRepo:   paymentRepo,
		txnRepo:       txnRepo,
		transactor:    transactor,
		webhookSvc:    webhookSvc,
		auditSvc:      auditSvc,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

// providerWebhookResponse distinguishes "reconciled" from "received but
// not applied" without surfacing an HTTP error for conditions that are
// not the caller's fault (unknown payment, stale/non-advancing status).
// Only signature failure is a hard error (401), per §6. Processed is
// omitted entirely on the accepted path, present as false on the
// handled-error path.
type providerWebhookResponse struct {
	Received  bool  `json:"received"`
	Processed *bool `json:"processed,omitempty"`
}

// HandleProviderWebhook handles POST /api/v1/webhooks/:provider.
func (h *WebhookHandler) HandleProviderWebhook(c *gin.Context) {
	providerName := c.Param("provider")
	provider, err := h.providers.Get(providerName)
	if err != nil {
		response.Error(c, err)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, apperror.Validation("cannot read request body"))
		return
	}

	signatureHeader := c.GetHeader("X-Webhook-Signature")
	if !provider.VerifyWebhookSignature(body, signatureHeader, h.webhookSecret) {
		response.Error(c, apperror.ErrInvalidSignature())
		return
	}

	event, err := provider.ParseWebhook(body, signatureHeader)
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	processed := false
	ctx := c.Request.Context()
	err = h.transactor.WithTx(ctx, func(tx pgx.Tx) error {
		payment, err := h.paymentRepo.GetByProviderTransactionIDForUpdate(ctx, tx, event.TransactionID, provider.Name())
		if err != nil {
			return err
		}
		if payment == nil {
			h.log.Warn().Str("provider_transaction_id", event.TransactionID).Str("provider", provider.Name()).Msg("webhook for unknown payment, ignoring")
			return nil
		}
		if !domain.CanTransition(payment.Status, event.Status) {
			h.log.Info().Str("payment_id", payment.ID).Str("from", string(payment.Status)).Str("to", string(event.Status)).Msg("ignoring webhook with non-advancing status transition")
			return nil
		}

		if err := h.paymentRepo.UpdateStatus(ctx, tx, payment.ID, event.Status, nil); err != nil {
			return err
		}
		if err := h.txnRepo.Create(ctx, tx, &domain.Transaction{
			ID:          idgen.GenerateID(),
			PaymentID:   payment.ID,
			Status:      event.Status,
			RawResponse: event.RawPayload,
			CreatedAt:   time.Now().UTC(),
		}); err != nil {
			return err
		}
		if h.auditSvc != nil {
			entry := &domain.AuditLog{
				ID:           idgen.GenerateID(),
				MerchantID:   &payment.MerchantID,
				Action:       domain.AuditActionPaymentStatusChange,
				ResourceType: "payment",
				ResourceID:   payment.ID,
				OldValue:     string(payment.Status),
				NewValue:     string(event.Status),
				Actor:        provider.Name(),
				ActorType:    "provider",
				CreatedAt:    time.Now().UTC(),
			}
			if err := h.auditSvc.Record(ctx, tx, entry); err != nil {
				return err
			}
		}
		if payment.WebhookURL != nil {
			webhookEvent := &domain.WebhookEvent{
				ID:          idgen.GenerateID(),
				PaymentID:   &payment.ID,
				EventType:   "payment." + string(event.Status),
				Payload: map[string]any{
					"payment_id": payment.ID,
					"status":     string(event.Status),
					"amount":     payment.Amount.String(),
					"provider":   provider.Name(),
				},
				URL:         *payment.WebhookURL,
				MaxAttempts: 5,
				Status:      domain.WebhookStatusPending,
				CreatedAt:   time.Now().UTC(),
			}
			if err := h.webhookSvc.EnqueueWebhook(ctx, tx, webhookEvent); err != nil {
				return err
			}
		}
		processed = true
		return nil
	})
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	if processed {
		c.JSON(200, providerWebhookResponse{Received: true})
		return
	}
	notProcessed := false
	c.JSON(200, providerWebhookResponse{Received: true, Processed: &notProcessed})
}
