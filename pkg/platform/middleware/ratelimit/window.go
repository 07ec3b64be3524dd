package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SlidingWindow is an in-process Limiter. Use RedisWindow when several
// replicas must share one budget.
type SlidingWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	clients map[string][]time.Time
}

type WindowOption func(*SlidingWindow)

func WithClock(now func() time.Time) WindowOption {
	return func(s *SlidingWindow) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSlidingWindow(limit int, window time.Duration, opts ...WindowOption) *SlidingWindow {
	s := &SlidingWindow{
		limit:   limit,
		window:  window,
		now:     time.Now,
		clients: make(map[string][]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SlidingWindow) Allow(_ context.Context, key string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	hits := expire(s.clients[key], now.Add(-s.window))

	if len(hits) >= s.limit {
		s.clients[key] = hits
		resetAt := hits[0].Add(s.window)
		return Result{
			Limit:      s.limit,
			ResetAt:    resetAt,
			RetryAfter: retryAfterSeconds(false, now, resetAt),
		}, nil
	}

	hits = append(hits, now)
	s.clients[key] = hits
	return Result{
		Allowed:   true,
		Limit:     s.limit,
		Remaining: s.limit - len(hits),
		ResetAt:   hits[0].Add(s.window),
	}, nil
}

// Sweep drops clients with no hits inside the window.
func (s *SlidingWindow) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.window)
	for key, hits := range s.clients {
		if hits = expire(hits, cutoff); len(hits) == 0 {
			delete(s.clients, key)
		} else {
			s.clients[key] = hits
		}
	}
}

func expire(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(hits); i++ {
		if hits[i].After(cutoff) {
			break
		}
	}
	return hits[i:]
}
