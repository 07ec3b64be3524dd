//go:build integration

// Package containers starts the Postgres and Redis instances behind the
// history and leaderboard mirrors. Each starts once per test binary; Ryuk
// removes them when the process exits.
package containers

import (
	"sync"
	"testing"
)

type Manager struct {
	postgres lazy[PostgresContainer]
	redis    lazy[RedisContainer]
}

var manager = &Manager{}

func GetManager() *Manager { return manager }

func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	return m.postgres.get(t, NewPostgresContainer)
}

func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	return m.redis.get(t, NewRedisContainer)
}

// lazy starts a container on first use. A failed start is retried by the next
// caller since start aborts the test through t.Fatalf.
type lazy[T any] struct {
	mu  sync.Mutex
	val *T
}

func (l *lazy[T]) get(t *testing.T, start func(*testing.T) *T) *T {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.val == nil {
		l.val = start(t)
	}
	return l.val
}
