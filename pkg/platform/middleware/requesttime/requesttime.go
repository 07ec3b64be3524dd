// Package requesttime pins one evaluation time per request so every score
// and age computed while serving it agrees.
package requesttime

import (
	"context"
	"net/http"
	"time"
)

type contextKey struct{}

// Middleware stamps each request with clock(), truncated to the second.
// A nil clock means time.Now.
func Middleware(clock func() time.Time) func(http.Handler) http.Handler {
	if clock == nil {
		clock = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithTime(r.Context(), clock().UTC().Truncate(time.Second))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the pinned time, if any.
func FromContext(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(contextKey{}).(time.Time)
	return t, ok
}

// WithTime pins t on ctx. CLI commands and tests use it directly.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}
