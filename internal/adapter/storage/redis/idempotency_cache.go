package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"payment-orchestrator/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// IdempotencyCache implements ports.IdempotencyCache using Redis, the
// fast-path mirror of the durable idempotency record.
type IdempotencyCache struct {
	client *goredis.Client
	prefix string
}

// NewIdempotencyCache creates a new Redis-backed idempotency cache.
func NewIdempotencyCache(client *goredis.Client) *IdempotencyCache {
	return &IdempotencyCache{
		client: client,
		prefix: "idempotency:",
	}
}

func (c *IdempotencyCache) cacheKey(key, merchantID string) string {
	return fmt.Sprintf("%s%s:%s", c.prefix, merchantID, key)
}

// Get retrieves a cached record, or nil, nil if absent.
func (c *IdempotencyCache) Get(ctx context.Context, key, merchantID string) (*domain.IdempotencyRecord, error) {
	val, err := c.client.Get(ctx, c.cacheKey(key, merchantID)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis idempotency get: %w", err)
	}

	var rec domain.IdempotencyRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal idempotency record: %w", err)
	}
	return &rec, nil
}

// Set stores a record in the cache with the given TTL.
func (c *IdempotencyCache) Set(ctx context.Context, key, merchantID string, record *domain.IdempotencyRecord, ttl time.Duration) error {
	val, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal idempotency record: %w", err)
	}
	if err := c.client.Set(ctx, c.cacheKey(key, merchantID), val, ttl).Err(); err != nil {
		return fmt.Errorf("redis idempotency set: %w", err)
	}
	return nil
}

// Delete removes a cached record, used when a conflicting fingerprint
// invalidates the cache entry.
func (c *IdempotencyCache) Delete(ctx context.Context, key, merchantID string) error {
	if err := c.client.Del(ctx, c.cacheKey(key, merchantID)).Err(); err != nil {
		return fmt.Errorf("redis idempotency delete: %w", err)
	}
	return nil
}
