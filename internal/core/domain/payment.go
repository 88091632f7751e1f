package domain

import (
	"time"

	"payment-orchestrator/internal/core/money"
)

// PaymentStatus represents the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending            PaymentStatus = "pending"
	PaymentStatusProcessing         PaymentStatus = "processing"
	PaymentStatusCompleted          PaymentStatus = "completed"
	PaymentStatusFailed             PaymentStatus = "failed"
	PaymentStatusRefunded           PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded  PaymentStatus = "partially_refunded"
)

// paymentTransitions enumerates every status transition this service
// permits. Anything absent from this table is invalid.
var paymentTransitions = map[PaymentStatus]map[PaymentStatus]bool{
	PaymentStatusPending: {
		PaymentStatusProcessing: true,
		PaymentStatusCompleted:  true,
		PaymentStatusFailed:     true,
	},
	PaymentStatusProcessing: {
		PaymentStatusCompleted: true,
		PaymentStatusFailed:    true,
	},
	PaymentStatusCompleted: {
		PaymentStatusRefunded:          true,
		PaymentStatusPartiallyRefunded: true,
	},
	PaymentStatusFailed: {},
	PaymentStatusRefunded: {},
	PaymentStatusPartiallyRefunded: {
		PaymentStatusRefunded: true,
	},
}

// CanTransition reports whether moving from "from" to "to" is permitted
// by the payment status-transition table above.
func CanTransition(from, to PaymentStatus) bool {
	if from == to {
		return false
	}
	next, ok := paymentTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// Payment is the request to move money through a provider.
type Payment struct {
	ID                    string
	ExternalID            *string
	MerchantID            string
	Amount                money.Money
	Status                PaymentStatus
	Provider              string
	ProviderTransactionID *string
	Description           string
	Metadata              map[string]string
	WebhookURL            *string
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// Embedded for API responses; not persisted columns of the payments table.
	Transactions []Transaction `json:"-"`
	Refunds      []Refund      `json:"-"`
}

// Transaction is an append-only step log entry for a payment: one row
// per status transition or provider interaction.
type Transaction struct {
	ID           string
	PaymentID    string
	Status       PaymentStatus
	RawResponse  map[string]any
	ErrorMessage *string
	CreatedAt    time.Time
}
