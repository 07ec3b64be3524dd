package httptransport

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passport/internal/passport/handler"
	"passport/internal/passport/service"
	"passport/internal/passport/session"
	"passport/internal/passport/sources/memory"
	"passport/internal/platform/health"
	"passport/pkg/platform/middleware/ratelimit"
	"passport/pkg/platform/middleware/request"
)

func newRouter(t *testing.T, limiter ratelimit.Limiter) http.Handler {
	t.Helper()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ledger := memory.NewDemoLedger(now)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()

	svc := service.New(
		service.WithLogger(logger),
		service.WithSession(session.New(ledger,
			session.WithPlatforms(ledger),
			session.WithArchive(ledger),
			session.WithRewards(ledger),
			session.WithLeaderboard(ledger),
		)),
	)
	h := health.New("test")
	h.RegisterSession(svc)

	return NewRouter(RouterConfig{
		Passports: handler.New(svc, logger),
		Health:    h,
		Logger:    logger,
		Metrics:   request.NewMetrics(reg),
		Gatherer:  reg,
		Limiter:   limiter,
		Clock:     func() time.Time { return now },
	})
}

func TestRouterServesPassportAPI(t *testing.T) {
	router := newRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/passports/1/strength", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(97), body["score"])
	assert.Equal(t, "2025-06-01T00:00:00Z", body["evaluated_at"], "evaluation time comes from the request clock")
}

func TestRouterProbesAndMetrics(t *testing.T) {
	router := newRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/passports/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "passport_http_request_duration_seconds")
}

func TestRouterRateLimitsAPIOnly(t *testing.T) {
	router := newRouter(t, ratelimit.NewSlidingWindow(1, time.Minute))

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, get("/v1/categories").Code)
	limited := get("/v1/categories")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("X-Request-ID"))

	assert.Equal(t, http.StatusOK, get("/health/live").Code)
}
