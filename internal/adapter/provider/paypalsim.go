package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/pkg/idgen"
)

// PaypalSim is the orchestrator's second deterministic simulator
// provider. It follows the same fixed amount-based decision rules as
// StripeSim (so scenario fixtures are provider-agnostic) but differs in
// its identifier prefixes and its webhook signature header format, to
// exercise the registry's case-insensitive, per-provider dispatch.
type PaypalSim struct{}

// NewPaypalSim constructs the paypalsim provider.
func NewPaypalSim() *PaypalSim { return &PaypalSim{} }

func (p *PaypalSim) Name() string { return "paypalsim" }

func (p *PaypalSim) ProcessPayment(ctx context.Context, req ports.ProviderChargeRequest) (ports.ProviderChargeResponse, error) {
	suffix, err := idgen.GenerateShortID()
	if err != nil {
		return ports.ProviderChargeResponse{}, fmt.Errorf("paypalsim: generate capture id: %w", err)
	}
	txnID := "PAY-" + strings.ToUpper(suffix)
	amount := req.Amount.String()

	switch amount {
	case "100.9900":
		return ports.ProviderChargeResponse{
			Success:       false,
			TransactionID: txnID,
			Status:        domain.PaymentStatusFailed,
			RawResponse:   map[string]any{"id": txnID, "state": "DENIED", "amount": amount},
			ErrorCode:     "card_declined",
			ErrorMessage:  "instrument declined",
		}, nil
	case "100.5000":
		return ports.ProviderChargeResponse{
			Success:       true,
			TransactionID: txnID,
			Status:        domain.PaymentStatusPending,
			RawResponse:   map[string]any{"id": txnID, "state": "PENDING", "amount": amount},
		}, nil
	default:
		return ports.ProviderChargeResponse{
			Success:       true,
			TransactionID: txnID,
			Status:        domain.PaymentStatusCompleted,
			RawResponse:   map[string]any{"id": txnID, "state": "COMPLETED", "amount": amount},
		}, nil
	}
}

func (p *PaypalSim) ProcessRefund(ctx context.Context, req ports.ProviderRefundRequest) (ports.ProviderRefundResponse, error) {
	suffix, err := idgen.GenerateShortID()
	if err != nil {
		return ports.ProviderRefundResponse{}, fmt.Errorf("paypalsim: generate refund id: %w", err)
	}
	refundID := "REF-" + strings.ToUpper(suffix)
	return ports.ProviderRefundResponse{
		Success:     true,
		RefundID:    refundID,
		Status:      domain.RefundStatusCompleted,
		RawResponse: map[string]any{"id": refundID, "state": "COMPLETED", "amount": req.Amount.String()},
	}, nil
}

type paypalSimWebhookPayload struct {
	ID           string         `json:"id"`
	EventType    string         `json:"event_type"`
	ResourceID   string         `json:"resource_id"`
	ResourceState string        `json:"resource_state"`
	Resource     map[string]any `json:"resource"`
}

func (p *PaypalSim) ParseWebhook(payload []byte, signature string) (ports.ProviderWebhookEvent, error) {
	var w paypalSimWebhookPayload
	if err := json.Unmarshal(payload, &w); err != nil {
		return ports.ProviderWebhookEvent{}, fmt.Errorf("paypalsim: parse webhook: %w", err)
	}

	var status domain.PaymentStatus
	switch w.ResourceState {
	case "COMPLETED":
		status = domain.PaymentStatusCompleted
	case "PENDING":
		status = domain.PaymentStatusPending
	default:
		status = domain.PaymentStatusFailed
	}

	raw := map[string]any{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		raw = map[string]any{}
	}

	return ports.ProviderWebhookEvent{
		Type:          w.EventType,
		TransactionID: w.ResourceID,
		Status:        status,
		RawPayload:    raw,
	}, nil
}

// VerifyWebhookSignature checks a header of the form
// "<unix-seconds>:<base64-hmac-sha256-of-'<ts>:<payload>'>", rejecting
// headers older than maxWebhookSignatureAge. The delimiter and encoding
// deliberately differ from StripeSim's to exercise per-provider
// verification logic rather than a shared helper.
func (p *PaypalSim) VerifyWebhookSignature(payload []byte, header, secret string) bool {
	idx := strings.Index(header, ":")
	if idx < 0 {
		return false
	}
	ts := header[:idx]
	sig := header[idx+1:]

	tsInt, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	if time.Since(time.Unix(tsInt, 0)) > maxWebhookSignatureAge {
		return false
	}

	signedPayload := ts + ":" + string(payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signedPayload))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}
