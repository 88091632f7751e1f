package postgres

import (
	"context"
	"testing"
	"time"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/money"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRefund() *domain.Refund {
	amount, _ := money.NewFromString("40.0000", "USD")
	return &domain.Refund{
		ID:        "re_test123",
		PaymentID: "pay_test123",
		Amount:    amount,
		Status:    domain.RefundStatusPending,
		Reason:    "requested_by_customer",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func refundRow(r *domain.Refund) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "payment_id", "amount", "currency", "status", "reason", "provider_refund_id", "created_at", "updated_at",
	}).AddRow(
		r.ID, r.PaymentID, r.Amount.String(), r.Amount.Currency(), r.Status, r.Reason,
		r.ProviderRefundID, r.CreatedAt, r.UpdatedAt,
	)
}

func TestRefundRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRefundRepo(mock)
	r := newTestRefund()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO refunds").
		WithArgs(r.ID, r.PaymentID, r.Amount.Decimal(), r.Amount.Currency(), r.Status, r.Reason, r.ProviderRefundID, r.CreatedAt, r.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, r)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRefundRepo(mock)
	r := newTestRefund()

	mock.ExpectQuery("SELECT .+ FROM refunds WHERE id").
		WithArgs(r.ID).
		WillReturnRows(refundRow(r))

	result, err := repo.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, r.ID, result.ID)
	assert.Equal(t, "40.0000", result.Amount.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundRepo_ListByPayment(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRefundRepo(mock)
	r := newTestRefund()

	mock.ExpectQuery("SELECT .+ FROM refunds WHERE payment_id .+ ORDER BY created_at ASC").
		WithArgs(r.PaymentID).
		WillReturnRows(refundRow(r))

	result, err := repo.ListByPayment(context.Background(), r.PaymentID)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, r.ID, result[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundRepo_SumByPaymentAndStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRefundRepo(mock)

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM refunds").
		WithArgs("pay_test123", []domain.RefundStatus{domain.RefundStatusCompleted}).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow("60.0000"))

	sum, err := repo.SumByPaymentAndStatus(context.Background(), "pay_test123", []domain.RefundStatus{domain.RefundStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, "60.0000", sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundRepo_UpdateStatus_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRefundRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE refunds SET status").
		WithArgs(domain.RefundStatusCompleted, (*string)(nil), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateStatus(context.Background(), tx, "missing", domain.RefundStatusCompleted, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "refund not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
