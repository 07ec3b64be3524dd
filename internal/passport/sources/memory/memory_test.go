package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"passport/internal/passport/models"
	"passport/internal/passport/sources"
	"passport/internal/sentinel"
)

type LedgerSuite struct {
	suite.Suite
	ctx    context.Context
	now    time.Time
	ledger *Ledger
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s.ledger = NewDemoLedger(s.now)
}

func (s *LedgerSuite) TestRegistry() {
	s.Run("reverse lookup", func() {
		passportID, err := s.ledger.PassportIDByOwner(s.ctx, DemoOwnerSocial)
		s.Require().NoError(err)
		s.Equal(uint64(2), uint64(passportID))
	})

	s.Run("reverse lookup miss is not_found", func() {
		_, err := s.ledger.PassportIDByOwner(s.ctx, common.HexToAddress("0x9999999999999999999999999999999999999999"))
		s.True(sources.IsNotFound(err))
	})

	s.Run("platforms keep insertion order", func() {
		platforms, err := s.ledger.GetVerifiedPlatforms(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal([]string{"twitter", "discord", "telegram", "github", "gitlab", "ens"}, platforms)
	})

	s.Run("unminted id has no platforms", func() {
		platforms, err := s.ledger.GetVerifiedPlatforms(s.ctx, 999)
		s.Require().NoError(err)
		s.Empty(platforms)
	})

	s.Run("returned slices are copies", func() {
		platforms, _ := s.ledger.GetVerifiedPlatforms(s.ctx, 1)
		platforms[0] = "mutated"
		again, _ := s.ledger.GetVerifiedPlatforms(s.ctx, 1)
		s.Equal("twitter", again[0])
	})

	s.Run("identifier lookup ignores revoked verifications", func() {
		ok, _, err := s.ledger.IsIdentifierVerified(s.ctx, "github", "socialite-dev")
		s.Require().NoError(err)
		s.False(ok)

		ok, passportID, err := s.ledger.IsIdentifierVerified(s.ctx, "github", "builder")
		s.Require().NoError(err)
		s.True(ok)
		s.Equal(uint64(1), uint64(passportID))
	})
}

func (s *LedgerSuite) TestFailureInjection() {
	s.ledger.FailOn(sources.OpGetVerification, errors.New("rpc reset"), "github")

	_, err := s.ledger.GetVerification(s.ctx, 1, "github")
	s.Require().Error(err)
	s.Equal(sources.ErrorInternal, sources.CategoryOf(err))

	_, err = s.ledger.GetVerification(s.ctx, 1, "twitter")
	s.NoError(err, "argument-scoped failure must not leak to other platforms")

	s.ledger.FailOn(sources.OpGetPoints, sentinel.ErrUnavailable)
	_, err = s.ledger.GetPoints(s.ctx, 1)
	s.Equal(sources.ErrorSourceOutage, sources.CategoryOf(err))

	s.ledger.FailOn(sources.OpGetPoints, nil)
	_, err = s.ledger.GetPoints(s.ctx, 1)
	s.NoError(err)

	s.Equal(2, s.ledger.Calls(sources.OpGetVerification))
	s.ledger.ResetCalls()
	s.Equal(0, s.ledger.Calls(sources.OpGetVerification))
}

func (s *LedgerSuite) TestPlatformsAndArchive() {
	check, err := s.ledger.ValidatePlatformDependencies(s.ctx, "ens", []string{"github"})
	s.Require().NoError(err)
	s.False(check.Valid)
	s.Equal([]string{"twitter"}, check.Missing)

	summary, err := s.ledger.GetPlatformHistory(s.ctx, 1, "github")
	s.Require().NoError(err)
	s.Equal(int64(2), summary.TotalVerifications)
	s.Equal(int64(1), summary.TotalRevocations)
	s.Require().NotNil(summary.FirstVerifiedAt)
	s.Equal(s.now.AddDate(0, 0, -500), *summary.FirstVerifiedAt)
}

func (s *LedgerSuite) TestLeaderboard() {
	s.Run("unseeded passport is unranked", func() {
		rank, err := s.ledger.GetPassportRank(s.ctx, 4)
		s.Require().NoError(err)
		s.Equal(models.NotRanked, rank)

		ranked, err := s.ledger.IsRanked(s.ctx, 4)
		s.Require().NoError(err)
		s.False(ranked)
	})

	s.Run("top entries ordered by rank", func() {
		top, err := s.ledger.GetTopEntries(s.ctx, 10)
		s.Require().NoError(err)
		s.Require().Len(top, 2)
		s.Equal(models.Rank(1), top[0].Rank)
		s.Equal(models.Rank(2), top[1].Rank)
	})

	s.Run("category stats derive from entries", func() {
		stats, err := s.ledger.GetCategoryStats(s.ctx, "Builder")
		s.Require().NoError(err)
		s.Equal(int64(1), stats.Participants)
		s.Equal(int64(250), stats.TopScore)
	})
}
