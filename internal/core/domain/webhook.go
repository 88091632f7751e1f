package domain

import "time"

// WebhookStatus represents the delivery state of an outbound webhook.
type WebhookStatus string

const (
	WebhookStatusPending WebhookStatus = "pending"
	WebhookStatusSent    WebhookStatus = "sent"
	WebhookStatusFailed  WebhookStatus = "failed"
)

// WebhookEvent is one delivery-attempt stream to a merchant endpoint.
type WebhookEvent struct {
	ID           string
	PaymentID    *string
	EventType    string
	Payload      map[string]any
	URL          string
	Signature    string
	Attempts     int
	MaxAttempts  int
	NextRetryAt  *time.Time
	LastError    *string
	Status       WebhookStatus
	CreatedAt    time.Time
	SentAt       *time.Time
}

// ExhaustedRetries reports whether this event has used up every attempt.
func (e *WebhookEvent) ExhaustedRetries() bool {
	return e.Attempts >= e.MaxAttempts
}
