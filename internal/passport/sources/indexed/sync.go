package indexed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"passport/internal/passport/sources"
	id "passport/pkg/domain"
)

// Syncer copies ledger state into the mirrors. Either mirror may be nil, in
// which case the matching Sync call is a no-op.
type Syncer struct {
	registry    sources.IdentityRegistry
	leaderboard sources.Leaderboard
	archive     sources.Archive

	board    *RedisLeaderboard
	store    *PostgresArchive
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

// Observer receives the outcome of every refresh run by Run.
type Observer interface {
	ObserveMirror(mirror string, entries int, err error, started, finished time.Time)
}

// Mirror names reported to the Observer.
const (
	MirrorLeaderboard = "leaderboard"
	MirrorArchive     = "archive"
)

// SyncerConfig names the upstream sources and the mirrors they feed.
type SyncerConfig struct {
	Registry    sources.IdentityRegistry
	Leaderboard sources.Leaderboard
	Archive     sources.Archive
	Board       *RedisLeaderboard
	Store       *PostgresArchive
	Logger      *slog.Logger
	Observer    Observer
}

func NewSyncer(cfg SyncerConfig) *Syncer {
	if cfg.Registry == nil {
		panic("indexed: registry is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		registry:    cfg.Registry,
		leaderboard: cfg.Leaderboard,
		archive:     cfg.Archive,
		board:       cfg.Board,
		store:       cfg.Store,
		logger:      logger,
		observer:    cfg.Observer,
		now:         time.Now,
	}
}

// SyncLeaderboard replaces the mirrored global board and every supported
// category board with the ledger's current top depth entries, and refreshes
// category stats. It returns the number of entries written.
func (s *Syncer) SyncLeaderboard(ctx context.Context, depth int) (int, error) {
	if s.board == nil || s.leaderboard == nil {
		return 0, nil
	}

	written := 0
	global, err := s.leaderboard.GetTopEntries(ctx, depth)
	if err != nil {
		return written, fmt.Errorf("read global board: %w", err)
	}
	if err := s.board.ReplaceBoard(ctx, "", global); err != nil {
		return written, err
	}
	written += len(global)

	categories, err := s.registry.GetSupportedCategories(ctx)
	if err != nil {
		return written, fmt.Errorf("read categories: %w", err)
	}
	for _, category := range categories {
		entries, err := s.leaderboard.GetTopEntriesByCategory(ctx, category, depth)
		if err != nil {
			return written, fmt.Errorf("read %s board: %w", category, err)
		}
		if err := s.board.ReplaceBoard(ctx, category, entries); err != nil {
			return written, err
		}
		written += len(entries)
		stats, err := s.leaderboard.GetCategoryStats(ctx, category)
		if err != nil {
			return written, fmt.Errorf("read %s stats: %w", category, err)
		}
		stats.Category = category
		if err := s.board.PutCategoryStats(ctx, stats); err != nil {
			return written, err
		}
	}

	s.logger.InfoContext(ctx, "leaderboard mirrored",
		"entries", written,
		"categories", len(categories),
	)
	return written, nil
}

// SyncArchive mirrors the full history of every platform the passport has
// verified. It returns the number of history entries written.
func (s *Syncer) SyncArchive(ctx context.Context, passportID id.PassportID) (int, error) {
	if s.store == nil || s.archive == nil {
		return 0, nil
	}

	platforms, err := s.registry.GetVerifiedPlatforms(ctx, passportID)
	if err != nil {
		return 0, fmt.Errorf("read platforms: %w", err)
	}
	written := 0
	for _, platform := range platforms {
		history, err := s.archive.GetVerificationHistory(ctx, passportID, platform)
		if err != nil {
			if sources.IsNotFound(err) {
				continue
			}
			return written, fmt.Errorf("read %s history: %w", platform, err)
		}
		if err := s.store.Replace(ctx, passportID, platform, history); err != nil {
			return written, err
		}
		written += len(history)
	}

	s.logger.InfoContext(ctx, "archive mirrored",
		"passport_id", passportID.String(),
		"entries", written,
	)
	return written, nil
}

// SyncAll refreshes the leaderboard mirror, then the archive of every
// passport on the global top depth. Archive failures for one passport are
// logged and do not stop the others.
func (s *Syncer) SyncAll(ctx context.Context, depth int) error {
	started := s.now()
	written, err := s.SyncLeaderboard(ctx, depth)
	s.observe(MirrorLeaderboard, written, err, started)
	if err != nil {
		return err
	}
	if s.store == nil || s.archive == nil || s.leaderboard == nil {
		return nil
	}

	started = s.now()
	top, err := s.leaderboard.GetTopEntries(ctx, depth)
	if err != nil {
		err = fmt.Errorf("read global board: %w", err)
		s.observe(MirrorArchive, 0, err, started)
		return err
	}
	total := 0
	var firstErr error
	for _, entry := range top {
		n, err := s.SyncArchive(ctx, entry.PassportID)
		total += n
		if err != nil {
			s.logger.WarnContext(ctx, "archive mirror failed",
				"passport_id", entry.PassportID.String(),
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	s.observe(MirrorArchive, total, firstErr, started)
	return firstErr
}

// Run calls SyncAll immediately and then every interval until ctx is done.
func (s *Syncer) Run(ctx context.Context, interval time.Duration, depth int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := s.SyncAll(ctx, depth); err != nil && ctx.Err() == nil {
			s.logger.ErrorContext(ctx, "mirror refresh failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Syncer) observe(mirror string, written int, err error, started time.Time) {
	if s.observer != nil {
		s.observer.ObserveMirror(mirror, written, err, started, s.now())
	}
}
