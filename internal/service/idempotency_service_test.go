package service

import (
	"context"
	"testing"
	"time"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/ports/mocks"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type idempotencyTestDeps struct {
	svc        *IdempotencyServiceImpl
	cache      *mocks.MockIdempotencyCache
	repo       *mocks.MockIdempotencyRepository
	transactor *mocks.MockDBTransactor
	ctrl       *gomock.Controller
}

func setupIdempotencyService(t *testing.T) *idempotencyTestDeps {
	ctrl := gomock.NewController(t)
	d := &idempotencyTestDeps{
		cache:      mocks.NewMockIdempotencyCache(ctrl),
		repo:       mocks.NewMockIdempotencyRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewIdempotencyService(d.cache, d.repo, d.transactor, time.Hour, zerolog.Nop())
	return d
}

func passthroughWithAdvisoryLockDB(ctx context.Context, lockKey string, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func TestIdempotencyService_StartProcessing_FreshKey(t *testing.T) {
	d := setupIdempotencyService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.cache.EXPECT().Get(ctx, "key1", "merchant-1").Return(nil, nil)
	d.transactor.EXPECT().WithAdvisoryLock(ctx, "idempotency:merchant-1:key1", gomock.Any()).DoAndReturn(passthroughWithAdvisoryLockDB)
	d.repo.EXPECT().Get(ctx, "key1", "merchant-1").Return(nil, nil)
	d.repo.EXPECT().Create(ctx, gomock.Nil(), gomock.Any()).Return(nil)
	d.cache.EXPECT().Set(ctx, "key1", "merchant-1", gomock.Any(), time.Hour).Return(nil)

	record, done, err := d.svc.StartProcessing(ctx, "key1", "merchant-1", "fp-abc", "/api/v1/payments", "POST")
	require.NoError(t, err)
	assert.False(t, done)
	require.NotNil(t, record)
	assert.Equal(t, domain.IdempotencyStatusProcessing, record.Status)
}

func TestIdempotencyService_StartProcessing_CacheHitReplay(t *testing.T) {
	d := setupIdempotencyService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	cached := &domain.IdempotencyRecord{
		Key: "key1", MerchantID: "merchant-1", Fingerprint: "fp-abc",
		Status: domain.IdempotencyStatusCompleted, ResponseBody: []byte(`{"id":"pay_1"}`), ResponseStatus: 201,
	}
	d.cache.EXPECT().Get(ctx, "key1", "merchant-1").Return(cached, nil)

	record, done, err := d.svc.StartProcessing(ctx, "key1", "merchant-1", "fp-abc", "/api/v1/payments", "POST")
	require.NoError(t, err)
	assert.True(t, done)
	require.NotNil(t, record)
	assert.Equal(t, 201, record.ResponseStatus)
}

func TestIdempotencyService_StartProcessing_FingerprintConflict(t *testing.T) {
	d := setupIdempotencyService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	cached := &domain.IdempotencyRecord{
		Key: "key1", MerchantID: "merchant-1", Fingerprint: "fp-original",
		Status: domain.IdempotencyStatusCompleted,
	}
	d.cache.EXPECT().Get(ctx, "key1", "merchant-1").Return(cached, nil)

	record, done, err := d.svc.StartProcessing(ctx, "key1", "merchant-1", "fp-different", "/api/v1/payments", "POST")
	assert.Nil(t, record)
	assert.False(t, done)
	assertAppErrorCode(t, err, "IDEM_001")
}

func TestIdempotencyService_StartProcessing_InProgress(t *testing.T) {
	d := setupIdempotencyService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.cache.EXPECT().Get(ctx, "key1", "merchant-1").Return(nil, nil)
	d.transactor.EXPECT().WithAdvisoryLock(ctx, "idempotency:merchant-1:key1", gomock.Any()).DoAndReturn(passthroughWithAdvisoryLockDB)
	d.repo.EXPECT().Get(ctx, "key1", "merchant-1").Return(&domain.IdempotencyRecord{
		Key: "key1", MerchantID: "merchant-1", Fingerprint: "fp-abc", Status: domain.IdempotencyStatusProcessing,
	}, nil)

	record, done, err := d.svc.StartProcessing(ctx, "key1", "merchant-1", "fp-abc", "/api/v1/payments", "POST")
	assert.Nil(t, record)
	assert.False(t, done)
	assertAppErrorCode(t, err, "IDEM_002")
}

func TestIdempotencyService_Remove(t *testing.T) {
	d := setupIdempotencyService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.repo.EXPECT().Delete(ctx, "key1", "merchant-1").Return(nil)
	d.cache.EXPECT().Delete(ctx, "key1", "merchant-1").Return(nil)

	err := d.svc.Remove(ctx, "key1", "merchant-1")
	assert.NoError(t, err)
}

func TestIdempotencyService_Complete(t *testing.T) {
	d := setupIdempotencyService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	body := []byte(`{"id":"pay_1"}`)
	existing := &domain.IdempotencyRecord{
		Key: "key1", MerchantID: "merchant-1", Fingerprint: "fp1",
		Status: domain.IdempotencyStatusProcessing, ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	d.repo.EXPECT().Get(ctx, "key1", "merchant-1").Return(existing, nil)
	d.repo.EXPECT().Complete(ctx, "key1", "merchant-1", domain.IdempotencyStatusCompleted, body, 201).Return(nil)
	d.cache.EXPECT().Set(ctx, "key1", "merchant-1", gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, key, merchantID string, record *domain.IdempotencyRecord, ttl time.Duration) error {
			assert.Equal(t, domain.IdempotencyStatusCompleted, record.Status)
			assert.Equal(t, body, record.ResponseBody)
			assert.Equal(t, 201, record.ResponseStatus)
			assert.Greater(t, ttl, time.Duration(0))
			return nil
		})

	err := d.svc.Complete(ctx, "key1", "merchant-1", body, 201)
	assert.NoError(t, err)
}

func TestIdempotencyService_Complete_ExpiredDropsCache(t *testing.T) {
	d := setupIdempotencyService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	body := []byte(`{"id":"pay_1"}`)
	existing := &domain.IdempotencyRecord{
		Key: "key1", MerchantID: "merchant-1", Fingerprint: "fp1",
		Status: domain.IdempotencyStatusProcessing, ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	d.repo.EXPECT().Get(ctx, "key1", "merchant-1").Return(existing, nil)
	d.repo.EXPECT().Complete(ctx, "key1", "merchant-1", domain.IdempotencyStatusCompleted, body, 201).Return(nil)
	d.cache.EXPECT().Delete(ctx, "key1", "merchant-1").Return(nil)

	err := d.svc.Complete(ctx, "key1", "merchant-1", body, 201)
	assert.NoError(t, err)
}
