package service

import (
	"context"
	"fmt"
	"time"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// IdempotencyServiceImpl implements ports.IdempotencyService as a
// two-tier gate: the Redis cache answers the common case without a
// database round trip, falling through to the durable Postgres record
// — created under an advisory lock keyed by (merchant, key) so two
// concurrent requests bearing the same key never both proceed — on a
// cache miss.
type IdempotencyServiceImpl struct {
	cache      ports.IdempotencyCache
	repo       ports.IdempotencyRepository
	transactor ports.DBTransactor
	ttl        time.Duration
	log        zerolog.Logger
}

// NewIdempotencyService creates a new IdempotencyServiceImpl.
func NewIdempotencyService(
	cache ports.IdempotencyCache,
	repo ports.IdempotencyRepository,
	transactor ports.DBTransactor,
	ttl time.Duration,
	log zerolog.Logger,
) *IdempotencyServiceImpl {
	return &IdempotencyServiceImpl{
		cache:      cache,
		repo:       repo,
		transactor: transactor,
		ttl:        ttl,
		log:        log,
	}
}

// StartProcessing claims (key, merchantID) for the caller, or reports why
// it cannot be claimed: a fingerprint mismatch against a prior request
// reusing the same key (ErrIdempotencyConflict), or an in-flight request
// still processing (ErrIdempotencyInProgress). A completed record with a
// matching fingerprint is replayed by returning done=true.
func (s *IdempotencyServiceImpl) StartProcessing(ctx context.Context, key, merchantID, fingerprint, path, method string) (*domain.IdempotencyRecord, bool, error) {
	if existing, err := s.cache.Get(ctx, key, merchantID); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("idempotency cache read failed, falling through to database")
	} else if existing != nil {
		record, done, err := s.evaluate(existing, fingerprint)
		if err != nil {
			return nil, false, err
		}
		if done {
			return record, true, nil
		}
	}

	var record *domain.IdempotencyRecord
	var done bool

	err := s.transactor.WithAdvisoryLock(ctx, "idempotency:"+merchantID+":"+key, func(tx pgx.Tx) error {
		existing, err := s.repo.Get(ctx, key, merchantID)
		if err != nil {
			return fmt.Errorf("load idempotency record: %w", err)
		}
		if existing != nil {
			r, d, err := s.evaluate(existing, fingerprint)
			if err != nil {
				return err
			}
			record, done = r, d
			if done {
				if cacheErr := s.cache.Set(ctx, key, merchantID, r, s.ttl); cacheErr != nil {
					s.log.Warn().Err(cacheErr).Str("key", key).Msg("idempotency cache refresh failed")
				}
			}
			return nil
		}

		now := time.Now().UTC()
		fresh := &domain.IdempotencyRecord{
			Key:         key,
			MerchantID:  merchantID,
			Fingerprint: fingerprint,
			Path:        path,
			Method:      method,
			Status:      domain.IdempotencyStatusProcessing,
			CreatedAt:   now,
			ExpiresAt:   now.Add(s.ttl),
		}
		if err := s.repo.Create(ctx, tx, fresh); err != nil {
			return fmt.Errorf("create idempotency record: %w", err)
		}
		if cacheErr := s.cache.Set(ctx, key, merchantID, fresh, s.ttl); cacheErr != nil {
			s.log.Warn().Err(cacheErr).Str("key", key).Msg("idempotency cache write failed")
		}
		record, done = fresh, false
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return record, done, nil
}

// evaluate classifies an existing record against the fingerprint of the
// incoming request.
func (s *IdempotencyServiceImpl) evaluate(existing *domain.IdempotencyRecord, fingerprint string) (*domain.IdempotencyRecord, bool, error) {
	if existing.Fingerprint != fingerprint {
		return nil, false, apperror.ErrIdempotencyConflict()
	}
	switch existing.Status {
	case domain.IdempotencyStatusCompleted:
		return existing, true, nil
	case domain.IdempotencyStatusProcessing:
		return nil, false, apperror.ErrIdempotencyInProgress()
	default:
		return nil, false, fmt.Errorf("unknown idempotency status: %s", existing.Status)
	}
}

// Remove drops the record for (key, merchantID) from both the cache and
// the durable tier. Invoked when a request aborts before Complete runs
// (a panic recovered above the idempotency middleware, for instance) so
// a retry with the same key is not rejected with ErrIdempotencyInProgress
// for the remainder of the TTL.
func (s *IdempotencyServiceImpl) Remove(ctx context.Context, key, merchantID string) error {
	if err := s.repo.Delete(ctx, key, merchantID); err != nil {
		return fmt.Errorf("delete idempotency record: %w", err)
	}
	if err := s.cache.Delete(ctx, key, merchantID); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("idempotency cache invalidation failed on removal")
	}
	return nil
}

// Complete stores the final response against (key, merchantID) in the
// durable tier, then rewrites the cache entry with the completed record
// — preserving the original expiry rather than the full TTL — so a
// replay within the same window hits the cache instead of falling
// through to the database on every retry.
func (s *IdempotencyServiceImpl) Complete(ctx context.Context, key, merchantID string, responseBody []byte, responseStatus int) error {
	existing, err := s.repo.Get(ctx, key, merchantID)
	if err != nil {
		return fmt.Errorf("load idempotency record: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("complete idempotency record: no record for key %q", key)
	}

	if err := s.repo.Complete(ctx, key, merchantID, domain.IdempotencyStatusCompleted, responseBody, responseStatus); err != nil {
		return fmt.Errorf("complete idempotency record: %w", err)
	}

	completed := *existing
	completed.Status = domain.IdempotencyStatusCompleted
	completed.ResponseBody = responseBody
	completed.ResponseStatus = responseStatus

	remaining := existing.ExpiresAt.Sub(time.Now().UTC())
	if remaining <= 0 {
		if err := s.cache.Delete(ctx, key, merchantID); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("idempotency cache invalidation failed on completion")
		}
		return nil
	}
	if err := s.cache.Set(ctx, key, merchantID, &completed, remaining); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("idempotency cache refresh failed on completion")
	}
	return nil
}
