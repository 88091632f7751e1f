package redis

import (
	"context"
	"fmt"
	"time"

	"payment-orchestrator/config"

	goredis "github.com/redis/go-redis/v9"
)

// RateLimitStore implements ports.RateLimiter, a per-merchant fixed-window
// counter backed by Redis.
type RateLimitStore struct {
	client *goredis.Client
	prefix string
	cfg    config.RateLimitConfig
}

// NewRateLimitStore creates a new Redis-backed rate limit store.
func NewRateLimitStore(client *goredis.Client, cfg config.RateLimitConfig) *RateLimitStore {
	return &RateLimitStore{
		client: client,
		prefix: "ratelimit:",
		cfg:    cfg,
	}
}

// Allow checks whether merchantID is within its per-minute request budget.
// It uses a fixed-window counter: INCR + EXPIRE on a key scoped by the
// current minute, so the window resets cleanly without storing timestamps.
func (s *RateLimitStore) Allow(ctx context.Context, merchantID string) (bool, error) {
	window := time.Minute
	windowID := time.Now().Unix() / int64(window.Seconds())
	redisKey := fmt.Sprintf("%s%s:%d", s.prefix, merchantID, windowID)

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("redis rate limit incr: %w", err)
	}
	if count == 1 {
		s.client.Expire(ctx, redisKey, window+time.Second)
	}

	limit := int64(s.cfg.RequestsPerMinute + s.cfg.Burst)
	return count <= limit, nil
}
