package postgres

import (
	"context"
	"testing"
	"time"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/money"
	"payment-orchestrator/internal/core/ports"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayment() *domain.Payment {
	amount, _ := money.NewFromString("100.0000", "USD")
	return &domain.Payment{
		ID:         "pay_test123",
		MerchantID: "merchant-1",
		Amount:     amount,
		Status:     domain.PaymentStatusPending,
		Provider:   "stripesim",
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
}

func paymentRow(p *domain.Payment) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "external_id", "merchant_id", "amount", "currency", "status", "provider",
		"provider_transaction_id", "description", "metadata", "webhook_url", "created_at", "updated_at",
	}).AddRow(
		p.ID, p.ExternalID, p.MerchantID, p.Amount.String(), p.Amount.Currency(), p.Status, p.Provider,
		p.ProviderTransactionID, p.Description, []byte("{}"), p.WebhookURL, p.CreatedAt, p.UpdatedAt,
	)
}

func TestPaymentRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(p.ID, p.ExternalID, p.MerchantID, p.Amount.Decimal(), p.Amount.Currency(), p.Status, p.Provider,
			p.ProviderTransactionID, p.Description, []byte("null"), p.WebhookURL, p.CreatedAt, p.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment()

	mock.ExpectQuery("SELECT .+ FROM payments WHERE id").
		WithArgs(p.ID).
		WillReturnRows(paymentRow(p))

	result, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p.ID, result.ID)
	assert.Equal(t, "100.0000", result.Amount.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM payments WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "external_id", "merchant_id", "amount", "currency", "status", "provider",
			"provider_transaction_id", "description", "metadata", "webhook_url", "created_at", "updated_at",
		}))

	result, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM payments WHERE id .+ FOR UPDATE").
		WithArgs(p.ID).
		WillReturnRows(paymentRow(p))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(context.Background(), tx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	providerTxID := "ch_abc123"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs(domain.PaymentStatusCompleted, &providerTxID, "pay_test123").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateStatus(context.Background(), tx, "pay_test123", domain.PaymentStatusCompleted, &providerTxID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_UpdateStatus_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs(domain.PaymentStatusFailed, (*string)(nil), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateStatus(context.Background(), tx, "missing", domain.PaymentStatusFailed, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "payment not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM payments").
		WithArgs("merchant-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))

	mock.ExpectQuery("SELECT .+ FROM payments WHERE merchant_id .+ ORDER BY created_at DESC").
		WithArgs("merchant-1", 50, 0).
		WillReturnRows(paymentRow(p))

	payments, total, err := repo.List(context.Background(), ports.PaymentListParams{
		MerchantID: "merchant-1",
		Limit:      0,
		Offset:     0,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, payments, 1)
	assert.Equal(t, p.ID, payments[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
