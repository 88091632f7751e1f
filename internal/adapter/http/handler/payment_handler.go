package handler

import (
	"time"

	"payment-orchestrator/internal/adapter/http/dto"
	"payment-orchestrator/internal/adapter/http/middleware"
	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/money"
	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/pkg/apperror"
	"payment-orchestrator/pkg/response"

	"github.com/gin-gonic/gin"
)

const timeLayout = time.RFC3339

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// CreatePayment handles POST /api/v1/payments.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	merchantID, ok := mustMerchantID(c)
	if !ok {
		return
	}

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if !money.IsActiveCurrency(req.Currency) {
		response.Error(c, apperror.ErrInvalidCurrency(req.Currency))
		return
	}

	amount, err := money.NewFromString(req.Amount, req.Currency)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}
	if err := amount.Validate(); err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	payment, err := h.paymentSvc.CreatePayment(c.Request.Context(), ports.CreatePaymentRequest{
		MerchantID:  merchantID,
		ExternalID:  req.ExternalID,
		Amount:      amount,
		Provider:    req.Provider,
		Description: req.Description,
		Metadata:    req.Metadata,
		WebhookURL:  req.WebhookURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toPaymentResponse(payment))
}

// GetPayment handles GET /api/v1/payments/:id.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	merchantID, ok := mustMerchantID(c)
	if !ok {
		return
	}
	payment, err := h.paymentSvc.GetPayment(c.Request.Context(), c.Param("id"), merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toPaymentDetailResponse(payment))
}

// ListPayments handles GET /api/v1/payments.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	merchantID, ok := mustMerchantID(c)
	if !ok {
		return
	}

	var q dto.PaymentListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	params := ports.PaymentListParams{
		MerchantID: merchantID,
		Limit:      q.Limit,
		Offset:     q.Offset,
		From:       q.From,
		To:         q.To,
	}
	if q.Status != "" {
		status := domain.PaymentStatus(q.Status)
		params.Status = &status
	}
	if q.Provider != "" {
		params.Provider = &q.Provider
	}

	payments, total, err := h.paymentSvc.ListPayments(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		items[i] = toPaymentResponse(&payments[i])
	}

	response.Paginated(c, items, response.PaginationMeta{
		Total:   total,
		Limit:   params.Limit,
		Offset:  params.Offset,
		HasMore: int64(params.Offset+len(payments)) < total,
	})
}

// GetRefundableSummary handles GET /api/v1/payments/:id/refundable.
func (h *PaymentHandler) GetRefundableSummary(c *gin.Context) {
	merchantID, ok := mustMerchantID(c)
	if !ok {
		return
	}
	summary, err := h.paymentSvc.GetRefundableSummary(c.Request.Context(), c.Param("id"), merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.RefundableSummaryResponse{
		PaymentAmount:      summary.PaymentAmount.String(),
		TotalRefunded:      summary.TotalRefunded.String(),
		PendingRefunds:     summary.PendingRefunds.String(),
		AvailableForRefund: summary.AvailableForRefund.String(),
		Currency:           summary.PaymentAmount.Currency(),
	})
}

func mustMerchantID(c *gin.Context) (string, bool) {
	v, ok := c.Get(middleware.CtxMerchantID)
	if !ok {
		response.Error(c, apperror.ErrMissingAPIKey())
		return "", false
	}
	id, ok := v.(string)
	if !ok || id == "" {
		response.Error(c, apperror.ErrMissingAPIKey())
		return "", false
	}
	return id, true
}

func toPaymentResponse(p *domain.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:                    p.ID,
		ExternalID:            p.ExternalID,
		Amount:                p.Amount.String(),
		Currency:              p.Amount.Currency(),
		Status:                string(p.Status),
		Provider:              p.Provider,
		ProviderTransactionID: p.ProviderTransactionID,
		Description:           p.Description,
		Metadata:              p.Metadata,
		CreatedAt:             p.CreatedAt.Format(timeLayout),
		UpdatedAt:             p.UpdatedAt.Format(timeLayout),
	}
}

// toPaymentDetailResponse renders a payment together with its
// transaction log and refunds, for the single-payment GET endpoint.
func toPaymentDetailResponse(p *domain.Payment) dto.PaymentDetailResponse {
	txns := make([]dto.TransactionResponse, len(p.Transactions))
	for i, t := range p.Transactions {
		txns[i] = dto.TransactionResponse{
			ID:           t.ID,
			PaymentID:    t.PaymentID,
			Status:       string(t.Status),
			RawResponse:  t.RawResponse,
			ErrorMessage: t.ErrorMessage,
			CreatedAt:    t.CreatedAt.Format(timeLayout),
		}
	}
	refunds := make([]dto.RefundResponse, len(p.Refunds))
	for i := range p.Refunds {
		refunds[i] = toRefundResponse(&p.Refunds[i])
	}
	return dto.PaymentDetailResponse{
		PaymentResponse: toPaymentResponse(p),
		Transactions:    txns,
		Refunds:         refunds,
	}
}
