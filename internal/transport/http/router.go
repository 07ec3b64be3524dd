package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"passport/internal/passport/handler"
	"passport/internal/platform/health"
	"passport/pkg/platform/middleware/ratelimit"
	"passport/pkg/platform/middleware/request"
	"passport/pkg/platform/middleware/requesttime"
)

// RouterConfig carries what NewRouter mounts.
type RouterConfig struct {
	Passports *handler.Handler
	Health    *health.Handler
	Logger    *slog.Logger
	Metrics   *request.Metrics
	Gatherer  prometheus.Gatherer
	Limiter   ratelimit.Limiter
	Timeout   time.Duration
	Clock     func() time.Time
}

// NewRouter wires all public endpoints with middleware. The passport API is
// served under /v1; health and metrics stay at the root for probes.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware(clock))
	r.Use(request.Logger(logger))
	if cfg.Metrics != nil {
		r.Use(request.Latency(cfg.Metrics))
	}

	if cfg.Health != nil {
		cfg.Health.Register(r)
	}
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(request.Timeout(timeout))
		if cfg.Limiter != nil {
			r.Use(ratelimit.Middleware(cfg.Limiter, logger))
		}
		if cfg.Passports != nil {
			cfg.Passports.Register(r)
		}
	})

	return r
}
