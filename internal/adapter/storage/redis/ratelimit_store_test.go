package redis

import (
	"context"
	"testing"

	"payment-orchestrator/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitStore_AllowsWithinBudget(t *testing.T) {
	client := newTestRedisClient(t)
	store := NewRateLimitStore(client, config.RateLimitConfig{RequestsPerMinute: 3, Burst: 0})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := store.Allow(ctx, "merchant-1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}
}

func TestRateLimitStore_RejectsOverBudget(t *testing.T) {
	client := newTestRedisClient(t)
	store := NewRateLimitStore(client, config.RateLimitConfig{RequestsPerMinute: 2, Burst: 0})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := store.Allow(ctx, "merchant-1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := store.Allow(ctx, "merchant-1")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRateLimitStore_BurstExtendsBudget(t *testing.T) {
	client := newTestRedisClient(t)
	store := NewRateLimitStore(client, config.RateLimitConfig{RequestsPerMinute: 2, Burst: 1})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := store.Allow(ctx, "merchant-1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed within burst", i+1)
	}

	allowed, err := store.Allow(ctx, "merchant-1")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRateLimitStore_IsolatedPerMerchant(t *testing.T) {
	client := newTestRedisClient(t)
	store := NewRateLimitStore(client, config.RateLimitConfig{RequestsPerMinute: 1, Burst: 0})
	ctx := context.Background()

	allowedA, err := store.Allow(ctx, "merchant-a")
	require.NoError(t, err)
	assert.True(t, allowedA)

	allowedB, err := store.Allow(ctx, "merchant-b")
	require.NoError(t, err)
	assert.True(t, allowedB)
}
