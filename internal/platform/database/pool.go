// Package database opens the Postgres store behind the verification history
// mirror.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"passport/internal/platform/config"
	"passport/migrations"
)

var errNotConfigured = errors.New("archive database not configured")

type Pool struct {
	db *sql.DB
}

// New connects, migrates the history schema and, when reg is non-nil,
// exports sql.DBStats as passport_archive_* series. An empty URL yields a
// nil Pool, which every method tolerates.
func New(ctx context.Context, cfg config.DatabaseConfig, reg prometheus.Registerer) (_ *Pool, err error) {
	if cfg.URL == "" {
		return nil, nil
	}

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close() //nolint:errcheck // best-effort cleanup on init failure
		}
	}()

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping archive database: %w", err)
	}
	if err = migrations.Up(ctx, db); err != nil {
		return nil, err
	}
	if reg != nil {
		if err = reg.Register(collectors.NewDBStatsCollector(db, "passport_archive")); err != nil {
			return nil, fmt.Errorf("register archive pool stats: %w", err)
		}
	}
	return &Pool{db: db}, nil
}

func (p *Pool) DB() *sql.DB {
	if p == nil {
		return nil
	}
	return p.db
}

func (p *Pool) Health(ctx context.Context) error {
	if p == nil || p.db == nil {
		return errNotConfigured
	}
	return p.db.PingContext(ctx)
}

func (p *Pool) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}
