package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/pkg/idgen"
)

// maxWebhookSignatureAge is the maximum age a provider webhook's
// timestamp may carry before verification rejects it, regardless of
// provider signature format.
const maxWebhookSignatureAge = 300 * time.Second

// StripeSim is a deterministic, self-contained simulator standing in for
// a real Stripe-like gateway. It never makes a network call; its
// decisions follow fixed amount-based rules so tests and demos are
// reproducible.
//
// Rule: amount 100.99 declines with card_declined; amount 100.50 settles
// pending; every other amount settles completed.
type StripeSim struct{}

// NewStripeSim constructs the stripesim provider.
func NewStripeSim() *StripeSim { return &StripeSim{} }

func (s *StripeSim) Name() string { return "stripesim" }

func (s *StripeSim) ProcessPayment(ctx context.Context, req ports.ProviderChargeRequest) (ports.ProviderChargeResponse, error) {
	suffix, err := idgen.GenerateShortID()
	if err != nil {
		return ports.ProviderChargeResponse{}, fmt.Errorf("stripesim: generate transaction id: %w", err)
	}
	txnID := "ch_" + suffix
	amount := req.Amount.String()

	switch amount {
	case "100.9900":
		return ports.ProviderChargeResponse{
			Success:       false,
			TransactionID: txnID,
			Status:        domain.PaymentStatusFailed,
			RawResponse:   map[string]any{"id": txnID, "status": "declined", "amount": amount},
			ErrorCode:     "card_declined",
			ErrorMessage:  "the card was declined",
		}, nil
	case "100.5000":
		return ports.ProviderChargeResponse{
			Success:       true,
			TransactionID: txnID,
			Status:        domain.PaymentStatusPending,
			RawResponse:   map[string]any{"id": txnID, "status": "pending", "amount": amount},
		}, nil
	default:
		return ports.ProviderChargeResponse{
			Success:       true,
			TransactionID: txnID,
			Status:        domain.PaymentStatusCompleted,
			RawResponse:   map[string]any{"id": txnID, "status": "completed", "amount": amount},
		}, nil
	}
}

func (s *StripeSim) ProcessRefund(ctx context.Context, req ports.ProviderRefundRequest) (ports.ProviderRefundResponse, error) {
	suffix, err := idgen.GenerateShortID()
	if err != nil {
		return ports.ProviderRefundResponse{}, fmt.Errorf("stripesim: generate refund id: %w", err)
	}
	refundID := "re_" + suffix
	return ports.ProviderRefundResponse{
		Success:     true,
		RefundID:    refundID,
		Status:      domain.RefundStatusCompleted,
		RawResponse: map[string]any{"id": refundID, "status": "succeeded", "amount": req.Amount.String()},
	}, nil
}

// stripeSimWebhookPayload is the wire shape StripeSim emits for
// reconciliation webhooks, loosely modeled on Stripe's event envelope.
type stripeSimWebhookPayload struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Created   int64          `json:"created"`
	Data      map[string]any `json:"data"`
	ProviderTransactionID string `json:"provider_transaction_id"`
	Status                string `json:"status"`
}

func (s *StripeSim) ParseWebhook(payload []byte, signature string) (ports.ProviderWebhookEvent, error) {
	var p stripeSimWebhookPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return ports.ProviderWebhookEvent{}, fmt.Errorf("stripesim: parse webhook: %w", err)
	}

	var status domain.PaymentStatus
	switch p.Status {
	case "completed", "succeeded":
		status = domain.PaymentStatusCompleted
	case "pending":
		status = domain.PaymentStatusPending
	default:
		status = domain.PaymentStatusFailed
	}

	raw := map[string]any{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		raw = map[string]any{}
	}

	return ports.ProviderWebhookEvent{
		Type:          p.Type,
		TransactionID: p.ProviderTransactionID,
		Status:        status,
		RawPayload:    raw,
	}, nil
}

// VerifyWebhookSignature checks a header of the form
// "t=<unix-seconds>,v1=<hex-hmac-sha256-of-'t.payload'>", rejecting
// headers older than maxWebhookSignatureAge.
func (s *StripeSim) VerifyWebhookSignature(payload []byte, header, secret string) bool {
	parts := strings.Split(header, ",")
	var ts, sig string
	for _, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts = kv[1]
		case "v1":
			sig = kv[1]
		}
	}
	if ts == "" || sig == "" {
		return false
	}

	tsInt, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	if time.Since(time.Unix(tsInt, 0)) > maxWebhookSignatureAge {
		return false
	}

	signedPayload := ts + "." + string(payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signedPayload))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}
