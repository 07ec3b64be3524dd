package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestSlidingWindow(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	limiter := NewSlidingWindow(2, time.Minute, WithClock(clock.now))

	first, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 1, first.Remaining)

	clock.t = clock.t.Add(10 * time.Second)
	second, _ := limiter.Allow(ctx, "10.0.0.1")
	assert.True(t, second.Allowed)
	assert.Equal(t, 0, second.Remaining)

	denied, _ := limiter.Allow(ctx, "10.0.0.1")
	assert.False(t, denied.Allowed)
	assert.Equal(t, 50, denied.RetryAfter)

	other, _ := limiter.Allow(ctx, "10.0.0.2")
	assert.True(t, other.Allowed, "clients have separate budgets")

	clock.t = clock.t.Add(51 * time.Second)
	again, _ := limiter.Allow(ctx, "10.0.0.1")
	assert.True(t, again.Allowed, "oldest hit left the window")
}

func TestSweep(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	limiter := NewSlidingWindow(5, time.Minute, WithClock(clock.now))
	_, _ = limiter.Allow(context.Background(), "a")

	clock.t = clock.t.Add(2 * time.Minute)
	limiter.Sweep()
	assert.Empty(t, limiter.clients)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (Result, error) {
	return Result{}, errors.New("store down")
}

func TestMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	serve := func(h http.Handler) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/passports/1", nil)
		req.RemoteAddr = "192.0.2.7:51234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	t.Run("over the limit returns 429", func(t *testing.T) {
		h := Middleware(NewSlidingWindow(1, time.Minute), logger)(ok)

		first := serve(h)
		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

		second := serve(h)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.NotEmpty(t, second.Header().Get("Retry-After"))
		assert.JSONEq(t, `{"error":"rate_limit_exceeded","error_description":"too many requests, retry later"}`, second.Body.String())
	})

	t.Run("limiter failure lets the request through", func(t *testing.T) {
		h := Middleware(failingLimiter{}, logger)(ok)
		assert.Equal(t, http.StatusOK, serve(h).Code)
	})
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:51234"
	assert.Equal(t, "192.0.2.7", ClientKey(req))

	req.RemoteAddr = "192.0.2.8"
	assert.Equal(t, "192.0.2.8", ClientKey(req))
}
