// Package sources defines the read capabilities the aggregator consumes.
//
// Each data source is an independent, ledger-backed service. Implementations
// (contract adapters, indexed mirrors, in-memory fakes) must return failures
// as *SourceError so callers only ever branch on ErrorCategory.
package sources

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"passport/internal/passport/models"
	id "passport/pkg/domain"
)

// SourceKind names one of the five data sources.
type SourceKind string

const (
	KindRegistry    SourceKind = "registry"
	KindPlatforms   SourceKind = "platforms"
	KindArchive     SourceKind = "archive"
	KindRewards     SourceKind = "rewards"
	KindLeaderboard SourceKind = "leaderboard"
)

// OptionalKinds lists the sources a session may run without.
var OptionalKinds = []SourceKind{KindPlatforms, KindArchive, KindRewards, KindLeaderboard}

// AllKinds lists every source, mandatory first.
var AllKinds = append([]SourceKind{KindRegistry}, OptionalKinds...)

func (k SourceKind) String() string { return string(k) }

// Mandatory reports whether the kind is required for a session.
func (k SourceKind) Mandatory() bool { return k == KindRegistry }

// PassportRecord holds the base fields the identity registry stores for a
// passport. Platforms and verifications are fetched separately.
type PassportRecord struct {
	ID                id.PassportID
	Owner             common.Address
	CreatedAt         time.Time
	VerificationCount int64
	Category          string
	TotalPoints       int64
	ReferralCode      string
	TotalReferrals    int64
}

// IdentityRegistry is the mandatory source every passport lives in.
type IdentityRegistry interface {
	// PassportIDByOwner returns a not_found SourceError when owner holds no passport.
	PassportIDByOwner(ctx context.Context, owner common.Address) (id.PassportID, error)
	GetPassport(ctx context.Context, passportID id.PassportID) (PassportRecord, error)
	// GetVerifiedPlatforms returns platforms in registry insertion order.
	GetVerifiedPlatforms(ctx context.Context, passportID id.PassportID) ([]string, error)
	GetVerification(ctx context.Context, passportID id.PassportID, platform string) (models.Verification, error)
	IsIdentifierVerified(ctx context.Context, platform, identifier string) (bool, id.PassportID, error)
	GetSupportedCategories(ctx context.Context) ([]string, error)
}

// PlatformRegistry describes which platforms exist and how they are configured.
type PlatformRegistry interface {
	GetPlatformConfig(ctx context.Context, platform string) (models.PlatformConfig, error)
	GetSupportedPlatforms(ctx context.Context) ([]string, error)
	ValidatePlatformDependencies(ctx context.Context, platform string, verified []string) (models.DependencyCheck, error)
}

// Archive keeps every verification event, including revoked ones.
type Archive interface {
	// GetVerificationHistory returns entries oldest first.
	GetVerificationHistory(ctx context.Context, passportID id.PassportID, platform string) ([]models.HistoryEntry, error)
	GetPlatformHistory(ctx context.Context, passportID id.PassportID, platform string) (models.PlatformHistory, error)
}

// Rewards tracks points and referrals.
type Rewards interface {
	GetPoints(ctx context.Context, passportID id.PassportID) (int64, error)
	GetPointBreakdown(ctx context.Context, passportID id.PassportID) (models.PointBreakdown, error)
	GetPlatformPoints(ctx context.Context, passportID id.PassportID, platform string) (int64, error)
	GetReferralInfo(ctx context.Context, passportID id.PassportID) (models.ReferralInfo, error)
	ValidateReferralCode(ctx context.Context, code string) (models.ReferralValidation, error)
	GetPointConfig(ctx context.Context) (models.PointConfig, error)
}

// Leaderboard ranks passports globally and per category. Rank 0 means the
// passport is not ranked on that board.
type Leaderboard interface {
	GetTopEntries(ctx context.Context, count int) ([]models.LeaderboardEntry, error)
	GetTopEntriesByCategory(ctx context.Context, category string, count int) ([]models.LeaderboardEntry, error)
	GetPassportEntry(ctx context.Context, passportID id.PassportID) (models.LeaderboardEntry, error)
	GetPassportCategoryEntry(ctx context.Context, passportID id.PassportID, category string) (models.LeaderboardEntry, error)
	GetPassportRank(ctx context.Context, passportID id.PassportID) (models.Rank, error)
	GetPassportCategoryRank(ctx context.Context, passportID id.PassportID, category string) (models.Rank, error)
	GetPassportScore(ctx context.Context, passportID id.PassportID) (int64, error)
	GetPassportCategoryScore(ctx context.Context, passportID id.PassportID, category string) (int64, error)
	IsRanked(ctx context.Context, passportID id.PassportID) (bool, error)
	IsRankedInCategory(ctx context.Context, passportID id.PassportID, category string) (bool, error)
	GetCategoryStats(ctx context.Context, category string) (models.CategoryStats, error)
}
