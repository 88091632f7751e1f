package domain

import (
	"time"

	"payment-orchestrator/internal/core/money"
)

// RefundStatus represents the lifecycle state of a refund.
type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusCompleted RefundStatus = "completed"
	RefundStatusFailed    RefundStatus = "failed"
)

// Refund is a proposed movement of money back, bound to a payment.
type Refund struct {
	ID               string
	PaymentID        string
	Amount           money.Money
	Status           RefundStatus
	Reason           string
	ProviderRefundID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RefundableSummary answers "how much of this payment can still be refunded".
type RefundableSummary struct {
	PaymentAmount      money.Money
	TotalRefunded      money.Money
	PendingRefunds     money.Money
	AvailableForRefund money.Money
}
