// Package app assembles the passport client from configuration: chain
// connection, contract adapters, optional mirrors and the aggregating service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prometheus/client_golang/prometheus"

	"passport/internal/passport/metrics"
	"passport/internal/passport/service"
	"passport/internal/passport/session"
	"passport/internal/passport/sources"
	"passport/internal/passport/sources/contract"
	"passport/internal/passport/sources/indexed"
	"passport/internal/passport/tracer"
	"passport/internal/platform/config"
	"passport/internal/platform/database"
	platformmetrics "passport/internal/platform/metrics"
	redisclient "passport/internal/platform/redis"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/platform/circuit"
)

// App owns every long-lived connection. Close releases them.
type App struct {
	Service  *service.Service
	Session  *session.Session
	Syncer   *indexed.Syncer
	Redis    *redisclient.Client
	Database *database.Pool
	Metrics  *platformmetrics.Metrics

	chain *ethclient.Client
}

// New dials the ledger, opens the configured mirrors and binds a session.
// When a mirror is configured it replaces the matching chain source for
// reads, and the chain source becomes the mirror's upstream.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (_ *App, err error) {
	if cfg.Chain.RPCURL == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "PASSPORT_RPC_URL is required")
	}

	a := &App{Metrics: platformmetrics.New(reg)}
	defer func() {
		if err != nil {
			a.Close() //nolint:errcheck // best-effort cleanup on init failure
		}
	}()

	a.chain, err = ethclient.DialContext(ctx, cfg.Chain.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial ledger: %w", err)
	}
	binder := contract.NewBinder(contract.NewTimeoutCaller(a.chain, cfg.Chain.CallTimeout))

	a.Redis, err = redisclient.New(ctx, cfg.Redis, redisclient.NewPoolMetrics(reg))
	if err != nil {
		return nil, err
	}
	a.Database, err = database.New(ctx, cfg.Database, reg)
	if err != nil {
		return nil, err
	}

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithMetrics(metrics.NewWithRegisterer(reg)),
		service.WithTracer(tracer.NewOTel()),
	}
	if cfg.Chain.BreakerThreshold > 0 {
		opts = append(opts, service.WithCircuitBreakers(
			circuit.WithFailureThreshold(cfg.Chain.BreakerThreshold),
			circuit.WithCooldown(cfg.Chain.BreakerCooldown),
		))
	}
	a.Service = service.New(opts...)

	var (
		sessionOpts []session.Option
		board       *indexed.RedisLeaderboard
		store       *indexed.PostgresArchive
	)
	if a.Redis != nil {
		board = indexed.NewRedisLeaderboard(a.Redis.Client)
		sessionOpts = append(sessionOpts, session.WithLeaderboard(board))
	}
	if a.Database != nil {
		store = indexed.NewPostgresArchive(a.Database.DB())
		sessionOpts = append(sessionOpts, session.WithArchive(store))
	}

	a.Session, err = a.Service.Connect(ctx, cfg.Chain.Session(), binder, sessionOpts...)
	if err != nil {
		return nil, err
	}
	a.Metrics.RecordBindings(a.Session.Bindings())

	if board != nil || store != nil {
		a.Syncer = indexed.NewSyncer(indexed.SyncerConfig{
			Registry:    a.Session.Registry(),
			Leaderboard: upstream(ctx, logger, sources.KindLeaderboard, cfg.Chain.LeaderboardAddress, binder.BindLeaderboard),
			Archive:     upstream(ctx, logger, sources.KindArchive, cfg.Chain.ArchiveAddress, binder.BindArchive),
			Board:       board,
			Store:       store,
			Logger:      logger,
			Observer:    a.Metrics,
		})
	}
	return a, nil
}

// upstream binds the chain source a mirror copies from. A missing address or
// failed bind leaves that mirror without an upstream, so its sync is a no-op.
func upstream[T any](ctx context.Context, logger *slog.Logger, kind sources.SourceKind, address string, bind func(context.Context, string) (T, error)) T {
	var zero T
	if address == "" {
		return zero
	}
	src, err := bind(ctx, address)
	if err != nil {
		logger.WarnContext(ctx, "mirror upstream unavailable",
			"source", kind.String(),
			"error", err,
		)
		return zero
	}
	return src
}

// Close releases every connection the App opened.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.Database != nil {
		errs = append(errs, a.Database.Close())
	}
	if a.chain != nil {
		a.chain.Close()
	}
	return errors.Join(errs...)
}
