package service

import (
	"context"

	"passport/internal/passport/format"
	"passport/internal/passport/metrics"
	"passport/internal/passport/models"
	"passport/internal/passport/sources"
	id "passport/pkg/domain"
)

// Lookups that pass straight through to one source under the availability
// policy. nil results mean absent: unbound source, failed call, or unknown handle.

// IsIdentifierVerified asks the registry which passport, if any, has verified
// identifier on platform.
func (s *Service) IsIdentifierVerified(ctx context.Context, platform, identifier string) (*models.IdentifierMatch, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	type answer struct {
		verified bool
		owner    id.PassportID
	}
	a, _, err := mandatory(ctx, s, sources.OpIsIdentifierVerified, func(ctx context.Context) (answer, error) {
		verified, owner, err := sess.Registry().IsIdentifierVerified(ctx, platform, identifier)
		return answer{verified, owner}, err
	})
	if err != nil {
		return nil, err
	}
	match := &models.IdentifierMatch{Platform: platform, Identifier: identifier, Verified: a.verified}
	if a.verified {
		match.PassportID = a.owner
	}
	return match, nil
}

func (s *Service) GetSupportedCategories(ctx context.Context) ([]string, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	categories, _, err := mandatory(ctx, s, sources.OpGetSupportedCategories, sess.Registry().GetSupportedCategories)
	if err != nil {
		return nil, err
	}
	return nonNil(categories), nil
}

func (s *Service) GetPlatformConfig(ctx context.Context, platform string) (*models.PlatformConfig, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	src, bound := sess.Platforms()
	cfg, ok := optional(ctx, s, sources.KindPlatforms, sources.OpGetPlatformConfig, bound, func(ctx context.Context) (models.PlatformConfig, error) {
		return src.GetPlatformConfig(ctx, platform)
	})
	if !ok {
		return nil, nil
	}
	if cfg.Platform == "" {
		cfg.Platform = platform
	}
	return &cfg, nil
}

func (s *Service) GetSupportedPlatforms(ctx context.Context) ([]string, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	src, bound := sess.Platforms()
	platforms, ok := optional(ctx, s, sources.KindPlatforms, sources.OpGetSupportedPlatforms, bound, func(ctx context.Context) ([]string, error) {
		return src.GetSupportedPlatforms(ctx)
	})
	if !ok {
		return nil, nil
	}
	return nonNil(platforms), nil
}

// ValidatePlatformDependencies checks platform's prerequisites against the
// passport's currently active platforms.
func (s *Service) ValidatePlatformDependencies(ctx context.Context, handle, platform string) (*models.DependencyCheck, error) {
	sess, _, err := s.begin(handle)
	if err != nil {
		return nil, err
	}
	if !sess.Has(sources.KindPlatforms) {
		s.recordDegraded(ctx, sources.KindPlatforms, sources.OpValidateDependencies, metrics.ReasonUnbound, nil)
		return nil, nil
	}
	p, err := s.GetPassport(ctx, handle)
	if err != nil || p == nil {
		return nil, err
	}
	src, bound := sess.Platforms()
	check, ok := optional(ctx, s, sources.KindPlatforms, sources.OpValidateDependencies, bound, func(ctx context.Context) (models.DependencyCheck, error) {
		return src.ValidatePlatformDependencies(ctx, platform, p.ActivePlatforms())
	})
	if !ok {
		return nil, nil
	}
	check.Platform = platform
	check.Missing = nonNil(check.Missing)
	return &check, nil
}

// GetVerificationHistory returns the archive's entries for one platform, oldest first.
func (s *Service) GetVerificationHistory(ctx context.Context, handle, platform string) ([]models.HistoryEntry, error) {
	sess, passportID, ok, err := s.resolveHandle(ctx, handle)
	if err != nil || !ok {
		return nil, err
	}
	src, bound := sess.Archive()
	entries, ok := optional(ctx, s, sources.KindArchive, sources.OpGetVerificationHistory, bound, func(ctx context.Context) ([]models.HistoryEntry, error) {
		return src.GetVerificationHistory(ctx, passportID, platform)
	})
	if !ok {
		return nil, nil
	}
	return nonNil(entries), nil
}

func (s *Service) GetPlatformHistory(ctx context.Context, handle, platform string) (*models.PlatformHistory, error) {
	sess, passportID, ok, err := s.resolveHandle(ctx, handle)
	if err != nil || !ok {
		return nil, err
	}
	src, bound := sess.Archive()
	summary, ok := optional(ctx, s, sources.KindArchive, sources.OpGetPlatformHistory, bound, func(ctx context.Context) (models.PlatformHistory, error) {
		return src.GetPlatformHistory(ctx, passportID, platform)
	})
	if !ok {
		return nil, nil
	}
	summary.Platform = platform
	return &summary, nil
}

// GetPoints returns the rewards source's total, falling back to the
// passport's own point snapshot when rewards is unbound or failing.
func (s *Service) GetPoints(ctx context.Context, handle string) (*models.Points, error) {
	sess, passportID, ok, err := s.resolveHandle(ctx, handle)
	if err != nil || !ok {
		return nil, err
	}
	src, bound := sess.Rewards()
	if total, ok := optional(ctx, s, sources.KindRewards, sources.OpGetPoints, bound, func(ctx context.Context) (int64, error) {
		return src.GetPoints(ctx, passportID)
	}); ok {
		return &models.Points{Total: total, Source: models.PointsFromRewards}, nil
	}

	record, ok, err := s.loadRecord(ctx, sess, passportID)
	if err != nil || !ok {
		return nil, err
	}
	return &models.Points{Total: record.TotalPoints, Source: models.PointsFromPassport}, nil
}

// GetPointBreakdown has no fallback: the passport carries no breakdown.
func (s *Service) GetPointBreakdown(ctx context.Context, handle string) (*models.PointBreakdown, error) {
	sess, passportID, ok, err := s.resolveHandle(ctx, handle)
	if err != nil || !ok {
		return nil, err
	}
	src, bound := sess.Rewards()
	b, ok := optional(ctx, s, sources.KindRewards, sources.OpGetPointBreakdown, bound, func(ctx context.Context) (models.PointBreakdown, error) {
		return src.GetPointBreakdown(ctx, passportID)
	})
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (s *Service) GetPlatformPoints(ctx context.Context, handle, platform string) (*int64, error) {
	sess, passportID, ok, err := s.resolveHandle(ctx, handle)
	if err != nil || !ok {
		return nil, err
	}
	src, bound := sess.Rewards()
	points, ok := optional(ctx, s, sources.KindRewards, sources.OpGetPlatformPoints, bound, func(ctx context.Context) (int64, error) {
		return src.GetPlatformPoints(ctx, passportID, platform)
	})
	if !ok {
		return nil, nil
	}
	return &points, nil
}

// GetReferralInfo falls back to the passport's referral code and count when
// the rewards source is unbound or failing; ReferredBy and earnings are then unknown.
func (s *Service) GetReferralInfo(ctx context.Context, handle string) (*models.ReferralInfo, error) {
	sess, passportID, ok, err := s.resolveHandle(ctx, handle)
	if err != nil || !ok {
		return nil, err
	}
	src, bound := sess.Rewards()
	if info, ok := optional(ctx, s, sources.KindRewards, sources.OpGetReferralInfo, bound, func(ctx context.Context) (models.ReferralInfo, error) {
		return src.GetReferralInfo(ctx, passportID)
	}); ok {
		info.Source = models.PointsFromRewards
		return &info, nil
	}

	record, ok, err := s.loadRecord(ctx, sess, passportID)
	if err != nil || !ok {
		return nil, err
	}
	return &models.ReferralInfo{
		ReferralCode:   record.ReferralCode,
		TotalReferrals: record.TotalReferrals,
		Source:         models.PointsFromPassport,
	}, nil
}

func (s *Service) ValidateReferralCode(ctx context.Context, code string) (*models.ReferralValidation, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	src, bound := sess.Rewards()
	v, ok := optional(ctx, s, sources.KindRewards, sources.OpValidateReferralCode, bound, func(ctx context.Context) (models.ReferralValidation, error) {
		return src.ValidateReferralCode(ctx, code)
	})
	if !ok {
		return nil, nil
	}
	v.Code = code
	return &v, nil
}

func (s *Service) GetPointConfig(ctx context.Context) (*models.PointConfig, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	src, bound := sess.Rewards()
	cfg, ok := optional(ctx, s, sources.KindRewards, sources.OpGetPointConfig, bound, func(ctx context.Context) (models.PointConfig, error) {
		return src.GetPointConfig(ctx)
	})
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

// GetTopEntries returns the top count entries of the global board, or of
// category's board when category is non-empty.
func (s *Service) GetTopEntries(ctx context.Context, category string, count int) ([]models.LeaderboardEntry, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	board, bound := sess.Leaderboard()
	var (
		entries []models.LeaderboardEntry
		ok      bool
	)
	if category == "" {
		entries, ok = optional(ctx, s, sources.KindLeaderboard, sources.OpGetTopEntries, bound, func(ctx context.Context) ([]models.LeaderboardEntry, error) {
			return board.GetTopEntries(ctx, count)
		})
	} else {
		entries, ok = optional(ctx, s, sources.KindLeaderboard, sources.OpGetTopEntriesByCategory, bound, func(ctx context.Context) ([]models.LeaderboardEntry, error) {
			return board.GetTopEntriesByCategory(ctx, format.NormalizeCategory(category), count)
		})
	}
	if !ok {
		return nil, nil
	}
	return nonNil(entries), nil
}

// GetPassportEntry returns the passport's global entry, or its entry on
// category's board when category is non-empty. Rank 0 means unranked.
func (s *Service) GetPassportEntry(ctx context.Context, handle, category string) (*models.LeaderboardEntry, error) {
	sess, passportID, ok, err := s.resolveHandle(ctx, handle)
	if err != nil || !ok {
		return nil, err
	}
	board, bound := sess.Leaderboard()
	op, fetch := sources.OpGetPassportEntry, func(ctx context.Context) (models.LeaderboardEntry, error) {
		return board.GetPassportEntry(ctx, passportID)
	}
	if category != "" {
		op, fetch = sources.OpGetPassportCatEntry, func(ctx context.Context) (models.LeaderboardEntry, error) {
			return board.GetPassportCategoryEntry(ctx, passportID, category)
		}
	}
	entry, ok := optional(ctx, s, sources.KindLeaderboard, op, bound, fetch)
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// GetPassportRank returns nil when the rank is unavailable and a zero Rank
// when the passport is not ranked.
func (s *Service) GetPassportRank(ctx context.Context, handle, category string) (*models.Rank, error) {
	sess, passportID, ok, err := s.resolveHandle(ctx, handle)
	if err != nil || !ok {
		return nil, err
	}
	board, bound := sess.Leaderboard()
	op, fetch := sources.OpGetPassportRank, func(ctx context.Context) (models.Rank, error) {
		return board.GetPassportRank(ctx, passportID)
	}
	if category != "" {
		op, fetch = sources.OpGetPassportCatRank, func(ctx context.Context) (models.Rank, error) {
			return board.GetPassportCategoryRank(ctx, passportID, category)
		}
	}
	rank, ok := optional(ctx, s, sources.KindLeaderboard, op, bound, fetch)
	if !ok {
		return nil, nil
	}
	return &rank, nil
}

func (s *Service) GetPassportScore(ctx context.Context, handle, category string) (*int64, error) {
	sess, passportID, ok, err := s.resolveHandle(ctx, handle)
	if err != nil || !ok {
		return nil, err
	}
	board, bound := sess.Leaderboard()
	op, fetch := sources.OpGetPassportScore, func(ctx context.Context) (int64, error) {
		return board.GetPassportScore(ctx, passportID)
	}
	if category != "" {
		op, fetch = sources.OpGetPassportCatScore, func(ctx context.Context) (int64, error) {
			return board.GetPassportCategoryScore(ctx, passportID, category)
		}
	}
	score, ok := optional(ctx, s, sources.KindLeaderboard, op, bound, fetch)
	if !ok {
		return nil, nil
	}
	return &score, nil
}

// IsRanked degrades to false when the leaderboard is unavailable.
func (s *Service) IsRanked(ctx context.Context, handle, category string) (bool, error) {
	sess, passportID, ok, err := s.resolveHandle(ctx, handle)
	if err != nil || !ok {
		return false, err
	}
	board, bound := sess.Leaderboard()
	op, fetch := sources.OpIsRanked, func(ctx context.Context) (bool, error) {
		return board.IsRanked(ctx, passportID)
	}
	if category != "" {
		op, fetch = sources.OpIsRankedInCategory, func(ctx context.Context) (bool, error) {
			return board.IsRankedInCategory(ctx, passportID, category)
		}
	}
	ranked, _ := optional(ctx, s, sources.KindLeaderboard, op, bound, fetch)
	return ranked, nil
}

func (s *Service) GetCategoryStats(ctx context.Context, category string) (*models.CategoryStats, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	board, bound := sess.Leaderboard()
	stats, ok := optional(ctx, s, sources.KindLeaderboard, sources.OpGetCategoryStats, bound, func(ctx context.Context) (models.CategoryStats, error) {
		return board.GetCategoryStats(ctx, category)
	})
	if !ok {
		return nil, nil
	}
	stats.Category = category
	return &stats, nil
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
