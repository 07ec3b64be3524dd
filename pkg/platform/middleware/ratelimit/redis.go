package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "passport:ratelimit:"

// RedisWindow is a sliding window kept in one sorted set per client, shared
// by every replica pointed at the same Redis.
type RedisWindow struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisWindow(client redis.UniversalClient, limit int, window time.Duration) *RedisWindow {
	return &RedisWindow{
		client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (r *RedisWindow) Allow(ctx context.Context, key string) (Result, error) {
	now := r.now()
	setKey := redisKeyPrefix + key
	cutoff := strconv.FormatInt(now.Add(-r.window).UnixNano(), 10)

	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, setKey, "-inf", cutoff)
	count := pipe.ZCard(ctx, setKey)
	oldest := pipe.ZRangeWithScores(ctx, setKey, 0, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("read window: %w", err)
	}

	resetAt := now.Add(r.window)
	if first := oldest.Val(); len(first) > 0 {
		resetAt = time.Unix(0, int64(first[0].Score)).Add(r.window)
	}

	if int(count.Val()) >= r.limit {
		return Result{
			Limit:      r.limit,
			ResetAt:    resetAt,
			RetryAfter: retryAfterSeconds(false, now, resetAt),
		}, nil
	}

	pipe = r.client.TxPipeline()
	pipe.ZAdd(ctx, setKey, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	pipe.Expire(ctx, setKey, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("record hit: %w", err)
	}

	return Result{
		Allowed:   true,
		Limit:     r.limit,
		Remaining: r.limit - int(count.Val()) - 1,
		ResetAt:   resetAt,
	}, nil
}
