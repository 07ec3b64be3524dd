//go:build integration

package containers

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"passport/internal/platform/config"
	redisclient "passport/internal/platform/redis"
)

type RedisContainer struct {
	Container testcontainers.Container
	URL       string
	Wrapped   *redisclient.Client
	Client    *goredis.Client
	Metrics   *redisclient.PoolMetrics
}

// NewRedisContainer connects through redisclient.New with its pool metrics
// on a throwaway registry.
func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}

	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("redis connection string: %v", err)
	}

	metrics := redisclient.NewPoolMetrics(prometheus.NewRegistry())
	client, err := redisclient.New(ctx, config.RedisConfig{
		URL:          url,
		PoolSize:     5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}, metrics)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("connect redis: %v", err)
	}

	return &RedisContainer{
		Container: container,
		URL:       url,
		Wrapped:   client,
		Client:    client.Client,
		Metrics:   metrics,
	}
}

func (r *RedisContainer) FlushAll(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}
