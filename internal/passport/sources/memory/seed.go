package memory

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"passport/internal/passport/models"
	id "passport/pkg/domain"
)

// Demo owners, exported so examples and tests can address the seeded passports.
var (
	DemoOwnerBuilder = common.HexToAddress("0x1111111111111111111111111111111111111111")
	DemoOwnerSocial  = common.HexToAddress("0x2222222222222222222222222222222222222222")
	DemoOwnerNewbie  = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

// ProofFor derives a deterministic proof hash for fixtures.
func ProofFor(passportID id.PassportID, platform string) models.ProofHash {
	return sha256.Sum256([]byte(fmt.Sprintf("%d:%s", passportID, platform)))
}

// VerifiedOn builds an active verification for fixtures.
func VerifiedOn(passportID id.PassportID, platform, identifier string, at time.Time) models.Verification {
	return models.Verification{
		Identifier: identifier,
		VerifiedAt: at,
		ProofHash:  ProofFor(passportID, platform),
		Active:     true,
	}
}

// NewDemoLedger returns a ledger seeded with three passports at ids 1, 2 and 4,
// leaving 3 as a gap so scans observe a miss.
func NewDemoLedger(now time.Time) *Ledger {
	l := NewLedger()
	l.SetCategories("builder", "social", "newcomer")

	for _, cfg := range []models.PlatformConfig{
		{Platform: "twitter", Supported: true, PlatformType: "social", PointReward: 50},
		{Platform: "discord", Supported: true, PlatformType: "social", PointReward: 30},
		{Platform: "telegram", Supported: true, PlatformType: "social", PointReward: 30},
		{Platform: "github", Supported: true, PlatformType: "developer", PointReward: 100,
			Punishment: models.PunishmentPolicy{Enabled: true, PeriodDays: 30}},
		{Platform: "gitlab", Supported: true, PlatformType: "developer", PointReward: 80, RequiredPlatforms: []string{"github"}},
		{Platform: "ens", Supported: true, PlatformType: "chain", PointReward: 120, RequiredPlatforms: []string{"twitter"}},
	} {
		l.AddPlatform(cfg)
	}
	l.SetPointConfig(models.PointConfig{ReferrerReward: 100, RefereeReward: 50, HoldingReward: 10, HoldingPeriodDays: 7})

	builder := models.Passport{
		ID:                1,
		Owner:             DemoOwnerBuilder,
		CreatedAt:         now.AddDate(0, 0, -400),
		VerificationCount: 6,
		Category:          "builder",
		TotalPoints:       250,
		ReferralCode:      "BUILD-1",
		TotalReferrals:    3,
		Platforms:         []string{"twitter", "discord", "telegram", "github", "gitlab", "ens"},
		Verifications: map[string]models.Verification{
			"twitter":  VerifiedOn(1, "twitter", "@builder", now.AddDate(0, 0, -390)),
			"discord":  VerifiedOn(1, "discord", "builder#0001", now.AddDate(0, 0, -380)),
			"telegram": VerifiedOn(1, "telegram", "@builder_tg", now.AddDate(0, 0, -370)),
			"github":   VerifiedOn(1, "github", "builder", now.AddDate(0, 0, -360)),
			"gitlab":   VerifiedOn(1, "gitlab", "builder", now.AddDate(0, 0, -350)),
			"ens":      VerifiedOn(1, "ens", "builder.eth", now.AddDate(0, 0, -340)),
		},
	}
	l.AddPassport(builder)
	l.SetPointBreakdown(1, models.PointBreakdown{Holding: 40, Platform: 180, Referral: 30, Total: 250})
	l.SetPlatformPoints(1, "github", 100)
	l.SetReferral(1, models.ReferralInfo{ReferralCode: "BUILD-1", TotalReferrals: 3, ReferralEarnings: 300})
	l.AddHistory(1, "github",
		models.HistoryEntry{Identifier: "old-builder", VerifiedAt: now.AddDate(0, 0, -500), RevokedAt: ptr(now.AddDate(0, 0, -450)), WasRevoked: true, RevokeReason: "account renamed", ProofHash: ProofFor(1, "github-old")},
		models.HistoryEntry{Identifier: "builder", VerifiedAt: now.AddDate(0, 0, -360), ProofHash: ProofFor(1, "github")},
	)

	revoked := VerifiedOn(2, "github", "socialite-dev", now.AddDate(0, 0, -20))
	revoked.Active = false
	social := models.Passport{
		ID:                2,
		Owner:             DemoOwnerSocial,
		CreatedAt:         now.AddDate(0, 0, -90),
		VerificationCount: 3,
		Category:          "social",
		TotalPoints:       80,
		ReferralCode:      "SOC-2",
		Platforms:         []string{"twitter", "discord", "github"},
		Verifications: map[string]models.Verification{
			"twitter": VerifiedOn(2, "twitter", "@socialite", now.AddDate(0, 0, -85)),
			"discord": VerifiedOn(2, "discord", "socialite#4242", now.AddDate(0, 0, -80)),
			"github":  revoked,
		},
	}
	l.AddPassport(social)
	l.SetPointBreakdown(2, models.PointBreakdown{Holding: 10, Platform: 80, Total: 80})
	l.SetReferral(2, models.ReferralInfo{ReferralCode: "SOC-2", ReferredBy: DemoOwnerBuilder})

	newbie := models.Passport{
		ID:                4,
		Owner:             DemoOwnerNewbie,
		CreatedAt:         now.AddDate(0, 0, -10),
		VerificationCount: 1,
		Category:          "newcomer",
		Platforms:         []string{"twitter"},
		Verifications: map[string]models.Verification{
			"twitter": VerifiedOn(4, "twitter", "@newbie", now.AddDate(0, 0, -10)),
		},
	}
	l.AddPassport(newbie)

	l.SetEntry(models.LeaderboardEntry{PassportID: 1, Owner: DemoOwnerBuilder, TotalScore: 250, HoldingScore: 40, PlatformScore: 180, ReferralScore: 30, VerificationCount: 6, Category: "builder", LastUpdated: now, Rank: 1, PreviousRank: 2})
	l.SetEntry(models.LeaderboardEntry{PassportID: 2, Owner: DemoOwnerSocial, TotalScore: 80, HoldingScore: 10, PlatformScore: 80, VerificationCount: 3, Category: "social", LastUpdated: now, Rank: 2, PreviousRank: 1})
	l.SetCategoryEntry(models.LeaderboardEntry{PassportID: 1, Owner: DemoOwnerBuilder, TotalScore: 250, Category: "builder", LastUpdated: now, Rank: 1})
	l.SetCategoryEntry(models.LeaderboardEntry{PassportID: 2, Owner: DemoOwnerSocial, TotalScore: 80, Category: "social", LastUpdated: now, Rank: 1})

	return l
}

func ptr[T any](v T) *T { return &v }
