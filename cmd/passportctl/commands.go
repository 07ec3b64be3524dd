package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	cli "gopkg.in/urfave/cli.v1"

	"passport/internal/app"
	"passport/internal/passport/service"
	"passport/internal/passport/session"
	"passport/internal/passport/sources/memory"
	"passport/internal/platform/config"
	"passport/internal/platform/logger"
	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/platform/middleware/requesttime"
)

// opener yields a bound service and a release func for one command run.
type opener func(c *cli.Context, log *slog.Logger) (*service.Service, func() error, error)

func queryCommands(open opener) []cli.Command {
	return []cli.Command{
		{
			Name:      "passport",
			Usage:     "Print the aggregated passport of a handle",
			ArgsUsage: "<handle>",
			Action: query(open, func(ctx context.Context, c *cli.Context, svc *service.Service) (any, error) {
				handle, err := handleArg(c)
				if err != nil {
					return nil, err
				}
				return present(svc.GetPassport(ctx, handle))
			}),
		},
		{
			Name:      "profile",
			Usage:     "Print the full profile of a handle",
			ArgsUsage: "<handle>",
			Action: query(open, func(ctx context.Context, c *cli.Context, svc *service.Service) (any, error) {
				handle, err := handleArg(c)
				if err != nil {
					return nil, err
				}
				return present(svc.GetProfile(ctx, handle))
			}),
		},
		{
			Name:      "strength",
			Usage:     "Print the verification strength of a handle",
			ArgsUsage: "<handle>",
			Flags:     []cli.Flag{basicFlag},
			Action: query(open, func(ctx context.Context, c *cli.Context, svc *service.Service) (any, error) {
				handle, err := handleArg(c)
				if err != nil {
					return nil, err
				}
				if c.Bool("basic") {
					return present(svc.GetBasicVerificationStrength(ctx, handle))
				}
				return present(svc.GetVerificationStrength(ctx, handle))
			}),
		},
		{
			Name:      "scan",
			Usage:     "List passports of a category",
			ArgsUsage: "<category>",
			Flags:     []cli.Flag{limitFlag, startFlag},
			Action: query(open, func(ctx context.Context, c *cli.Context, svc *service.Service) (any, error) {
				category := c.Args().First()
				if category == "" {
					return nil, dErrors.New(dErrors.CodeBadRequest, "category argument is required")
				}
				return svc.ScanByCategory(ctx, category, c.Int("limit"), id.PassportID(c.Uint64("start")))
			}),
		},
		{
			Name:      "proofs",
			Usage:     "Print the proof hashes of a handle",
			ArgsUsage: "<handle>",
			Action: query(open, func(ctx context.Context, c *cli.Context, svc *service.Service) (any, error) {
				handle, err := handleArg(c)
				if err != nil {
					return nil, err
				}
				return present(svc.GetProofHashes(ctx, handle))
			}),
		},
		{
			Name:      "points",
			Usage:     "Print the points of a handle",
			ArgsUsage: "<handle>",
			Action: query(open, func(ctx context.Context, c *cli.Context, svc *service.Service) (any, error) {
				handle, err := handleArg(c)
				if err != nil {
					return nil, err
				}
				return present(svc.GetPoints(ctx, handle))
			}),
		},
		{
			Name:  "session",
			Usage: "Print which sources the session bound",
			Action: query(open, func(_ context.Context, _ *cli.Context, svc *service.Service) (any, error) {
				return svc.Health(), nil
			}),
		},
	}
}

// query wraps a service call with setup, a pinned request time and JSON output.
func query(open opener, run func(context.Context, *cli.Context, *service.Service) (any, error)) func(*cli.Context) error {
	return func(c *cli.Context) (err error) {
		log := logger.NewWithWriter(os.Stderr, logLevel(c))
		svc, release, err := open(c, log)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, release())
		}()

		ctx := requesttime.WithTime(context.Background(), time.Now().UTC())
		result, err := run(ctx, c, svc)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
}

func handleArg(c *cli.Context) (string, error) {
	handle := c.Args().First()
	if handle == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "handle argument is required")
	}
	return handle, nil
}

// present turns an absent result into a no_identity error so the command
// exits non-zero instead of printing null.
func present[T any](v *T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, dErrors.New(dErrors.CodeNoIdentity, "no passport for handle")
	}
	return v, nil
}

func logLevel(c *cli.Context) slog.Level {
	level := slog.LevelWarn
	if raw := c.GlobalString("log-level"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return slog.LevelWarn
		}
	}
	return level
}

// chainConfig layers the global flags over the environment.
func chainConfig(c *cli.Context) config.Config {
	cfg := config.FromEnv()
	cfg.Chain.RPCURL = c.GlobalString("rpc")
	cfg.Chain.RegistryAddress = c.GlobalString("registry")
	cfg.Chain.PlatformsAddress = c.GlobalString("platforms")
	cfg.Chain.ArchiveAddress = c.GlobalString("archive")
	cfg.Chain.RewardsAddress = c.GlobalString("rewards")
	cfg.Chain.LeaderboardAddress = c.GlobalString("leaderboard")
	if timeout := c.GlobalDuration("timeout"); timeout > 0 {
		cfg.Chain.CallTimeout = timeout
	}
	return cfg
}

func openLedger(c *cli.Context, log *slog.Logger) (*service.Service, func() error, error) {
	a, err := app.New(context.Background(), chainConfig(c), log, prometheus.NewRegistry())
	if err != nil {
		return nil, nil, err
	}
	return a.Service, a.Close, nil
}

func openDemo(_ *cli.Context, log *slog.Logger) (*service.Service, func() error, error) {
	ledger := memory.NewDemoLedger(time.Now().UTC())
	svc := service.New(
		service.WithLogger(log),
		service.WithSession(session.New(ledger,
			session.WithLogger(log),
			session.WithPlatforms(ledger),
			session.WithArchive(ledger),
			session.WithRewards(ledger),
			session.WithLeaderboard(ledger),
		)),
	)
	return svc, func() error { return nil }, nil
}

func mirrorCmd(c *cli.Context) (err error) {
	log := logger.NewWithWriter(os.Stderr, logLevel(c))
	cfg := chainConfig(c)
	ctx := context.Background()

	a, err := app.New(ctx, cfg, log, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()
	if a.Syncer == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "mirror needs REDIS_URL or DATABASE_URL")
	}

	started := time.Now()
	if err := a.Syncer.SyncAll(ctx, c.Int("depth")); err != nil {
		return fmt.Errorf("mirror sync: %w", err)
	}
	log.Info("mirror sync complete", "duration", time.Since(started))
	return nil
}
