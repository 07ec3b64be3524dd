//go:build integration

package redis_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passport/pkg/testutil/containers"
)

func TestPoolStatsAfterTraffic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	rc := containers.GetManager().GetRedis(t)

	require.NoError(t, rc.Wrapped.Health(ctx))
	for range 5 {
		require.NoError(t, rc.Client.Ping(ctx).Err())
	}

	rc.Wrapped.RecordPoolStats()
	assert.Positive(t, testutil.ToFloat64(rc.Metrics.TotalConns))
}
