package handler

import (
	"payment-orchestrator/internal/adapter/http/dto"
	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/money"
	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/pkg/apperror"
	"payment-orchestrator/pkg/response"

	"github.com/gin-gonic/gin"
)

// RefundHandler handles refund endpoints.
type RefundHandler struct {
	refundSvc  ports.RefundService
	paymentSvc ports.PaymentService
}

// NewRefundHandler creates a new RefundHandler.
func NewRefundHandler(refundSvc ports.RefundService, paymentSvc ports.PaymentService) *RefundHandler {
	return &RefundHandler{refundSvc: refundSvc, paymentSvc: paymentSvc}
}

// CreateRefund handles POST /api/v1/payments/:id/refunds.
func (h *RefundHandler) CreateRefund(c *gin.Context) {
	merchantID, ok := mustMerchantID(c)
	if !ok {
		return
	}
	paymentID := c.Param("id")

	var req dto.CreateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	// The payment is always loaded here, both to resolve the decimal
	// amount's currency and to confirm the caller owns it before the
	// refund service takes the row lock.
	payment, err := h.paymentSvc.GetPayment(c.Request.Context(), paymentID, merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	var amount *money.Money
	if req.Amount != nil {
		parsed, err := money.NewFromString(*req.Amount, payment.Amount.Currency())
		if err != nil {
			response.Error(c, apperror.ErrInvalidAmount())
			return
		}
		amount = &parsed
	}

	refund, err := h.refundSvc.CreateRefund(c.Request.Context(), ports.CreateRefundRequest{
		PaymentID:  paymentID,
		MerchantID: merchantID,
		Amount:     amount,
		Reason:     req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toRefundResponse(refund))
}

// GetRefund handles GET /api/v1/refunds/:id.
func (h *RefundHandler) GetRefund(c *gin.Context) {
	merchantID, ok := mustMerchantID(c)
	if !ok {
		return
	}
	refund, err := h.refundSvc.GetRefund(c.Request.Context(), c.Param("id"), merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toRefundResponse(refund))
}

func toRefundResponse(r *domain.Refund) dto.RefundResponse {
	return dto.RefundResponse{
		ID:               r.ID,
		PaymentID:        r.PaymentID,
		Amount:           r.Amount.String(),
		Status:           string(r.Status),
		Reason:           r.Reason,
		ProviderRefundID: r.ProviderRefundID,
		CreatedAt:        r.CreatedAt.Format(timeLayout),
		UpdatedAt:        r.UpdatedAt.Format(timeLayout),
	}
}
