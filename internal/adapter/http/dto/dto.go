package dto

// CreatePaymentRequest is the request body for initiating a payment.
type CreatePaymentRequest struct {
	ExternalID  *string           `json:"external_id,omitempty" binding:"omitempty,safe_id,max=100"`
	Amount      string            `json:"amount" binding:"required"`
	Currency    string            `json:"currency" binding:"required,len=3"`
	Provider    string            `json:"provider" binding:"required,safe_id"`
	Description string            `json:"description,omitempty" binding:"max=500"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	WebhookURL  *string           `json:"webhook_url,omitempty" binding:"omitempty,safe_url"`
}

// PaymentResponse is the response body describing a payment.
type PaymentResponse struct {
	ID                    string            `json:"id"`
	ExternalID            *string           `json:"external_id,omitempty"`
	Amount                string            `json:"amount"`
	Currency              string            `json:"currency"`
	Status                string            `json:"status"`
	Provider              string            `json:"provider"`
	ProviderTransactionID *string           `json:"provider_transaction_id,omitempty"`
	Description           string            `json:"description,omitempty"`
	Metadata              map[string]string `json:"metadata,omitempty"`
	CreatedAt             string            `json:"created_at"`
	UpdatedAt             string            `json:"updated_at"`
}

// TransactionResponse is the response body describing a single step in
// a payment's append-only transaction log.
type TransactionResponse struct {
	ID           string         `json:"id"`
	PaymentID    string         `json:"payment_id"`
	Status       string         `json:"status"`
	RawResponse  map[string]any `json:"raw_response,omitempty"`
	ErrorMessage *string        `json:"error_message,omitempty"`
	CreatedAt    string         `json:"created_at"`
}

// PaymentDetailResponse is the response body for GET /payments/:id,
// embedding the payment's transaction log and refunds.
type PaymentDetailResponse struct {
	PaymentResponse
	Transactions []TransactionResponse `json:"transactions"`
	Refunds      []RefundResponse      `json:"refunds"`
}

// PaymentListQuery binds the query-string filters for listing payments.
type PaymentListQuery struct {
	Status   string `form:"status"`
	Provider string `form:"provider"`
	From     *int64 `form:"from"`
	To       *int64 `form:"to"`
	Limit    int    `form:"limit,default=50"`
	Offset   int    `form:"offset,default=0"`
}

// RefundableSummaryResponse is the response body for the refundable-balance query.
type RefundableSummaryResponse struct {
	PaymentAmount      string `json:"payment_amount"`
	TotalRefunded      string `json:"total_refunded"`
	PendingRefunds     string `json:"pending_refunds"`
	AvailableForRefund string `json:"available_for_refund"`
	Currency           string `json:"currency"`
}

// CreateRefundRequest is the request body for initiating a refund.
type CreateRefundRequest struct {
	Amount *string `json:"amount,omitempty"`
	Reason string  `json:"reason" binding:"required,max=500"`
}

// RefundResponse is the response body describing a refund.
type RefundResponse struct {
	ID               string  `json:"id"`
	PaymentID        string  `json:"payment_id"`
	Amount           string  `json:"amount"`
	Status           string  `json:"status"`
	Reason           string  `json:"reason,omitempty"`
	ProviderRefundID *string `json:"provider_refund_id,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

// LoginRequest is the request body for the internal ops login surface.
type LoginRequest struct {
	OperatorID string `json:"operator_id" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful operator login.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"` // Unix timestamp
}
