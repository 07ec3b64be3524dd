package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"passport/internal/app"
	"passport/internal/passport/handler"
	"passport/internal/platform/config"
	"passport/internal/platform/health"
	"passport/internal/platform/httpserver"
	"passport/internal/platform/logger"
	redisclient "passport/internal/platform/redis"
	httptransport "passport/internal/transport/http"
	"passport/pkg/platform/middleware/ratelimit"
	"passport/pkg/platform/middleware/request"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Server.LogLevel)

	log.Info("initializing passport server",
		"addr", cfg.Server.Addr,
		"environment", cfg.Server.Environment,
		"redis_mirror", cfg.Redis.URL != "",
		"archive_mirror", cfg.Database.URL != "",
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := app.New(ctx, cfg, log, reg)
	if err != nil {
		log.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("failed to close connections", "error", err)
		}
	}()

	h := health.New(cfg.Server.Environment)
	h.RegisterSession(a.Service)
	if a.Redis != nil {
		h.RegisterOptional("redis", a.Redis.Health)
	}
	if a.Database != nil {
		h.RegisterOptional("database", a.Database.Health)
	}

	if a.Redis != nil {
		go recordPoolStats(ctx, a.Redis)
	}
	if a.Syncer != nil && cfg.Mirror.Interval > 0 {
		go a.Syncer.Run(ctx, cfg.Mirror.Interval, cfg.Mirror.Depth)
	}

	var limiter ratelimit.Limiter
	switch {
	case cfg.RateLimit.Requests == 0:
	case a.Redis != nil:
		limiter = ratelimit.NewRedisWindow(a.Redis.Client, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	default:
		window := ratelimit.NewSlidingWindow(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		go sweepClients(ctx, window, cfg.RateLimit.Window)
		limiter = window
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Passports: handler.New(a.Service, log),
		Health:    h,
		Logger:    log,
		Metrics:   request.NewMetrics(reg),
		Gatherer:  reg,
		Limiter:   limiter,
		Timeout:   cfg.Server.RequestTimeout,
	})
	srv := httpserver.New(cfg.Server.Addr, router, cfg.Server.RequestTimeout)

	log.Info("starting http server", "addr", cfg.Server.Addr)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("server error", "error", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		return
	}

	log.Info("server stopped")
}

func recordPoolStats(ctx context.Context, client *redisclient.Client) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			client.RecordPoolStats()
		}
	}
}

func sweepClients(ctx context.Context, window *ratelimit.SlidingWindow, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			window.Sweep()
		}
	}
}
