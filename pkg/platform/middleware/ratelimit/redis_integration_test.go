//go:build integration

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passport/pkg/testutil/containers"
)

func TestRedisWindow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	rc := containers.GetManager().GetRedis(t)
	require.NoError(t, rc.FlushAll(ctx))

	limiter := NewRedisWindow(rc.Client, 2, time.Minute)

	for i := range 2 {
		result, err := limiter.Allow(ctx, "198.51.100.4")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 1-i, result.Remaining)
	}

	denied, err := limiter.Allow(ctx, "198.51.100.4")
	require.NoError(t, err)
	assert.False(t, denied.Allowed)
	assert.Positive(t, denied.RetryAfter)

	other, err := limiter.Allow(ctx, "198.51.100.5")
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	ttl, err := rc.Client.TTL(ctx, redisKeyPrefix+"198.51.100.4").Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
}
