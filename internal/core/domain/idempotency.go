package domain

import "time"

// IdempotencyStatus tracks whether a request is still being executed or
// has already produced a replayable response.
type IdempotencyStatus string

const (
	IdempotencyStatusProcessing IdempotencyStatus = "processing"
	IdempotencyStatusCompleted  IdempotencyStatus = "completed"
)

// IdempotencyRecord is the at-most-once gate keyed by (merchant, key).
type IdempotencyRecord struct {
	Key             string
	MerchantID      string
	Fingerprint     string
	Path            string
	Method          string
	Status          IdempotencyStatus
	ResponseBody    []byte
	ResponseStatus  int
	CreatedAt       time.Time
	ExpiresAt       time.Time
}

// IsExpired reports whether the record is eligible for garbage collection.
func (r *IdempotencyRecord) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
