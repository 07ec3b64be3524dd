package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"passport/internal/passport/metrics"
	"passport/internal/passport/models"
	"passport/internal/passport/session"
	"passport/internal/passport/sources"
	"passport/internal/passport/sources/memory"
	"passport/internal/sentinel"
	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/platform/circuit"
)

const (
	builderHandle = "0x1111111111111111111111111111111111111111"
	socialHandle  = "2"
	newbieHandle  = "4"
	strangerAddr  = "0x9999999999999999999999999999999999999999"
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	now     time.Time
	ledger  *memory.Ledger
	metrics *metrics.Metrics
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s.ledger = memory.NewDemoLedger(s.now)
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
}

// newService binds every source to the demo ledger except those listed in unbound.
func (s *ServiceSuite) newService(unbound ...sources.SourceKind) *Service {
	skip := map[sources.SourceKind]bool{}
	for _, k := range unbound {
		skip[k] = true
	}
	var opts []session.Option
	if !skip[sources.KindPlatforms] {
		opts = append(opts, session.WithPlatforms(s.ledger))
	}
	if !skip[sources.KindArchive] {
		opts = append(opts, session.WithArchive(s.ledger))
	}
	if !skip[sources.KindRewards] {
		opts = append(opts, session.WithRewards(s.ledger))
	}
	if !skip[sources.KindLeaderboard] {
		opts = append(opts, session.WithLeaderboard(s.ledger))
	}
	return New(
		WithSession(session.New(s.ledger, opts...)),
		WithClock(func() time.Time { return s.now }),
		WithMetrics(s.metrics),
	)
}

func (s *ServiceSuite) TestNotConnected() {
	svc := New()
	s.False(svc.Connected())

	_, err := svc.GetPassport(s.ctx, "1")
	s.ErrorIs(err, ErrNotConnected)
	s.True(dErrors.HasCode(err, dErrors.CodeNotConnected))

	_, err = svc.ScanByCategory(s.ctx, "builder", 5, 1)
	s.ErrorIs(err, ErrNotConnected)

	_, err = svc.GetPointConfig(s.ctx)
	s.ErrorIs(err, ErrNotConnected)

	s.False(svc.Health().Connected)

	svc.Bind(session.New(s.ledger))
	s.True(svc.Connected())
	p, err := svc.GetPassport(s.ctx, "1")
	s.Require().NoError(err)
	s.NotNil(p)
}

func (s *ServiceSuite) TestInvalidHandle() {
	svc := s.newService()
	for _, handle := range []string{"", "alice", "0x12", "0"} {
		_, err := svc.GetPassport(s.ctx, handle)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidHandle), handle)
	}
}

func (s *ServiceSuite) TestGetPassport() {
	svc := s.newService()

	s.Run("owner handle resolves through reverse lookup", func() {
		p, err := svc.GetPassport(s.ctx, builderHandle)
		s.Require().NoError(err)
		s.Require().NotNil(p)
		s.Equal(id.PassportID(1), p.ID)
		s.Equal([]string{"twitter", "discord", "telegram", "github", "gitlab", "ens"}, p.Platforms)
		s.Len(p.Verifications, len(p.Platforms))
		for _, platform := range p.Platforms {
			s.Contains(p.Verifications, platform)
		}
	})

	s.Run("owner without passport is absent", func() {
		p, err := svc.GetPassport(s.ctx, strangerAddr)
		s.Require().NoError(err)
		s.Nil(p)

		has, err := svc.HasPassport(s.ctx, strangerAddr)
		s.Require().NoError(err)
		s.False(has)
	})

	s.Run("unknown identifier is absent", func() {
		p, err := svc.GetPassport(s.ctx, "3")
		s.Require().NoError(err)
		s.Nil(p)

		has, err := svc.HasPassport(s.ctx, "3")
		s.Require().NoError(err)
		s.False(has)
	})

	s.Run("existing identifier", func() {
		has, err := svc.HasPassport(s.ctx, socialHandle)
		s.Require().NoError(err)
		s.True(has)
	})
}

func (s *ServiceSuite) TestGetPassport_OmitsFailedPlatform() {
	svc := s.newService()
	s.ledger.FailOn(sources.OpGetVerification, errors.New("rpc: connection reset"), "github")

	p, err := svc.GetPassport(s.ctx, "1")
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Equal([]string{"twitter", "discord", "telegram", "gitlab", "ens"}, p.Platforms)
	s.NotContains(p.Verifications, "github")
	s.Equal(1.0, testutil.ToFloat64(s.metrics.OmittedPlatformsTotal))
}

func (s *ServiceSuite) TestMandatoryFailurePropagatesUnmodified() {
	svc := s.newService()
	upstream := sources.NewSourceError(sources.ErrorSourceOutage, sources.KindRegistry, sources.OpGetPassport, "node unreachable", sentinel.ErrUnavailable)
	s.ledger.FailOn(sources.OpGetPassport, upstream)

	_, err := svc.GetPassport(s.ctx, "1")
	s.Require().Error(err)
	s.Same(upstream, err)

	_, err = svc.GetProfile(s.ctx, "1")
	s.Same(upstream, err)

	s.ledger.FailOn(sources.OpGetPassport, nil)
	s.ledger.FailOn(sources.OpGetPassportByOwner, sentinel.ErrUnavailable)
	_, err = svc.GetPassport(s.ctx, builderHandle)
	s.Equal(sources.ErrorSourceOutage, sources.CategoryOf(err))
}

func (s *ServiceSuite) TestGetUserVerifications_OnlyActive() {
	svc := s.newService()

	for _, handle := range []string{"1", socialHandle, newbieHandle} {
		list, err := svc.GetUserVerifications(s.ctx, handle)
		s.Require().NoError(err)
		p, err := svc.GetPassport(s.ctx, handle)
		s.Require().NoError(err)
		for _, v := range list {
			s.True(v.Active)
			s.True(p.Verifications[v.Platform].Active)
		}
	}

	list, err := svc.GetUserVerifications(s.ctx, socialHandle)
	s.Require().NoError(err)
	s.Len(list, 2)
	s.Equal("twitter", list[0].Platform)
	s.Equal("discord", list[1].Platform)
}

func (s *ServiceSuite) TestGetVerification() {
	svc := s.newService()

	v, err := svc.GetVerification(s.ctx, socialHandle, "github")
	s.Require().NoError(err)
	s.Require().NotNil(v)
	s.False(v.Active, "single lookups still expose revoked verifications")

	v, err = svc.GetVerification(s.ctx, socialHandle, "ens")
	s.Require().NoError(err)
	s.Nil(v)
}

func (s *ServiceSuite) TestGetProfile() {
	s.Run("all sources bound", func() {
		svc := s.newService()
		profile, err := svc.GetProfile(s.ctx, builderHandle)
		s.Require().NoError(err)
		s.Require().NotNil(profile)

		s.Require().NotNil(profile.Points)
		s.Equal(int64(250), profile.Points.Total)
		s.Equal(models.Points{Total: 250, Source: models.PointsFromRewards}, profile.TotalPoints)
		s.Require().NotNil(profile.Referral)
		s.Equal(int64(300), profile.Referral.ReferralEarnings)
		s.Require().NotNil(profile.Leaderboard)
		s.True(profile.Leaderboard.Ranked)
		s.Equal(97, profile.Strength.Score)
	})

	s.Run("optional facets fail independently", func() {
		svc := s.newService()
		s.ledger.FailOn(sources.OpGetPointBreakdown, sentinel.ErrUnavailable)
		s.ledger.FailOn(sources.OpGetPassportEntry, errors.New("execution reverted"))
		defer s.ledger.FailOn(sources.OpGetPointBreakdown, nil)
		defer s.ledger.FailOn(sources.OpGetPassportEntry, nil)

		profile, err := svc.GetProfile(s.ctx, builderHandle)
		s.Require().NoError(err)
		s.Nil(profile.Points)
		s.Equal(models.PointsFromPassport, profile.TotalPoints.Source)
		s.Equal(models.PointsFromRewards, profile.Referral.Source)
		s.Require().NotNil(profile.Leaderboard)
		s.Nil(profile.Leaderboard.Global)
		s.NotNil(profile.Leaderboard.CategoryEntry)
		s.Equal(95, profile.Strength.Score)
	})

	s.Run("rewards and leaderboard unbound", func() {
		svc := s.newService(sources.KindRewards, sources.KindLeaderboard)
		s.ledger.ResetCalls()

		profile, err := svc.GetProfile(s.ctx, builderHandle)
		s.Require().NoError(err)
		s.Nil(profile.Points)
		s.Nil(profile.Leaderboard)
		s.Require().NotNil(profile.Referral)
		s.Equal(models.ReferralInfo{ReferralCode: "BUILD-1", TotalReferrals: 3, Source: models.PointsFromPassport}, *profile.Referral)
		s.Zero(s.ledger.Calls(sources.OpGetPointBreakdown), "unbound sources are never called")
		s.Zero(s.ledger.Calls(sources.OpGetPassportEntry))
	})

	s.Run("absent handle", func() {
		profile, err := s.newService().GetProfile(s.ctx, strangerAddr)
		s.Require().NoError(err)
		s.Nil(profile)
	})
}

func (s *ServiceSuite) TestGetLeaderboardSnapshot() {
	s.Run("unranked passport is never first", func() {
		snapshot, err := s.newService().GetLeaderboardSnapshot(s.ctx, newbieHandle)
		s.Require().NoError(err)
		s.Require().NotNil(snapshot)
		s.Equal("newcomer", snapshot.Category)
		s.Require().NotNil(snapshot.Global)
		s.False(snapshot.Global.Rank.IsRanked())
		s.False(snapshot.Ranked)

		raw, err := json.Marshal(snapshot.Global)
		s.Require().NoError(err)
		s.Contains(string(raw), `"rank":null`)
	})

	s.Run("facets degrade independently", func() {
		svc := s.newService()
		s.ledger.FailOn(sources.OpIsRanked, sentinel.ErrUnavailable)
		s.ledger.FailOn(sources.OpGetSupportedCategories, sentinel.ErrUnavailable)
		defer s.ledger.FailOn(sources.OpIsRanked, nil)
		defer s.ledger.FailOn(sources.OpGetSupportedCategories, nil)

		snapshot, err := svc.GetLeaderboardSnapshot(s.ctx, "1")
		s.Require().NoError(err)
		s.False(snapshot.Ranked)
		s.Empty(snapshot.Categories)
		s.NotNil(snapshot.Categories)
		s.Require().NotNil(snapshot.Global)
		s.Equal(models.Rank(1), snapshot.Global.Rank)
		s.Require().NotNil(snapshot.CategoryEntry)
		s.Equal(models.Rank(1), snapshot.CategoryEntry.Rank)
	})

	s.Run("leaderboard unbound", func() {
		snapshot, err := s.newService(sources.KindLeaderboard).GetLeaderboardSnapshot(s.ctx, "1")
		s.Require().NoError(err)
		s.Nil(snapshot.Global)
		s.Nil(snapshot.CategoryEntry)
		s.False(snapshot.Ranked)
		s.Equal([]string{"builder", "social", "newcomer"}, snapshot.Categories)
	})
}

func (s *ServiceSuite) TestGetProofHashes() {
	svc := s.newService()

	s.Run("only active platforms", func() {
		proofs, err := svc.GetProofHashes(s.ctx, socialHandle)
		s.Require().NoError(err)
		s.Require().NotNil(proofs)
		byPlatform := proofs.ByPlatform()
		s.Len(byPlatform, 2)
		s.Equal(memory.ProofFor(2, "twitter"), byPlatform["twitter"])
		s.Equal(memory.ProofFor(2, "discord"), byPlatform["discord"])
		s.NotContains(byPlatform, "github")
	})

	s.Run("no passport is an error", func() {
		_, err := svc.GetProofHashes(s.ctx, strangerAddr)
		s.True(dErrors.HasCode(err, dErrors.CodeNoIdentity))

		_, err = svc.GetProofHashes(s.ctx, "3")
		s.True(dErrors.HasCode(err, dErrors.CodeNoIdentity))

		proofs, err := svc.GetProofHashes(s.ctx, "999")
		s.Nil(proofs)
		s.True(dErrors.HasCode(err, dErrors.CodeNoIdentity))
	})

	s.Run("passport without active proofs is absent", func() {
		s.ledger.AddPassport(models.Passport{
			ID:        5,
			Platforms: []string{"github"},
			Verifications: map[string]models.Verification{
				"github": {Identifier: "gone", Active: false},
			},
		})
		proofs, err := svc.GetProofHashes(s.ctx, "5")
		s.Require().NoError(err)
		s.Nil(proofs)
	})
}

func (s *ServiceSuite) TestGetVerificationStrength() {
	s.Run("full binding", func() {
		vs, err := s.newService().GetVerificationStrength(s.ctx, "1")
		s.Require().NoError(err)
		s.Equal(models.StrengthBreakdown{Platforms: 75, Age: 10, Diversity: 10, Points: 2}, vs.Breakdown)
		s.Equal(97, vs.Score)
		s.Equal(models.GradeA, vs.Grade)
		s.Equal(s.now, vs.EvaluatedAt)
	})

	s.Run("rewards unbound", func() {
		vs, err := s.newService(sources.KindRewards).GetVerificationStrength(s.ctx, "1")
		s.Require().NoError(err)
		s.Equal(95, vs.Score)
		s.Equal(models.GradeA, vs.Grade)
	})

	s.Run("new single-platform passport", func() {
		vs, err := s.newService().GetVerificationStrength(s.ctx, newbieHandle)
		s.Require().NoError(err)
		s.Equal(15, vs.Score)
		s.Equal(models.GradeF, vs.Grade)
	})

	s.Run("basic variant", func() {
		vs, err := s.newService().GetBasicVerificationStrength(s.ctx, "1")
		s.Require().NoError(err)
		s.Equal(95, vs.Score)
		s.Zero(vs.Breakdown.Points)
	})

	s.Run("no passport", func() {
		_, err := s.newService().GetVerificationStrength(s.ctx, strangerAddr)
		s.True(dErrors.HasCode(err, dErrors.CodeNoIdentity))
	})
}

func (s *ServiceSuite) TestPointsAndReferralFallback() {
	s.Run("breakdown absent without rewards", func() {
		b, err := s.newService(sources.KindRewards).GetPointBreakdown(s.ctx, "1")
		s.Require().NoError(err)
		s.Nil(b)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.DegradedResultsTotal.WithLabelValues("rewards", metrics.ReasonUnbound)))
	})

	s.Run("points fall back to the passport", func() {
		pts, err := s.newService(sources.KindRewards).GetPoints(s.ctx, "1")
		s.Require().NoError(err)
		s.Equal(&models.Points{Total: 250, Source: models.PointsFromPassport}, pts)
	})

	s.Run("failing rewards also falls back", func() {
		svc := s.newService()
		s.ledger.FailOn(sources.OpGetReferralInfo, sentinel.ErrUnavailable)
		defer s.ledger.FailOn(sources.OpGetReferralInfo, nil)

		info, err := svc.GetReferralInfo(s.ctx, "1")
		s.Require().NoError(err)
		s.Equal(models.PointsFromPassport, info.Source)
		s.Equal("BUILD-1", info.ReferralCode)
		s.False(info.HasReferrer())
	})

	s.Run("rewards bound", func() {
		info, err := s.newService().GetReferralInfo(s.ctx, socialHandle)
		s.Require().NoError(err)
		s.True(info.HasReferrer())
		s.Equal(memory.DemoOwnerBuilder, info.ReferredBy)
	})
}

func (s *ServiceSuite) TestOptionalLookups() {
	svc := s.newService()

	cfg, err := svc.GetPlatformConfig(s.ctx, "github")
	s.Require().NoError(err)
	s.True(cfg.Punishment.Enabled)

	check, err := svc.ValidatePlatformDependencies(s.ctx, newbieHandle, "gitlab")
	s.Require().NoError(err)
	s.False(check.Valid)
	s.Equal([]string{"github"}, check.Missing)

	history, err := svc.GetVerificationHistory(s.ctx, builderHandle, "github")
	s.Require().NoError(err)
	s.Len(history, 2)
	s.True(history[0].WasRevoked)

	empty, err := svc.GetVerificationHistory(s.ctx, builderHandle, "ens")
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)

	top, err := svc.GetTopEntries(s.ctx, "", 1)
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	s.Equal(id.PassportID(1), top[0].PassportID)

	rank, err := svc.GetPassportRank(s.ctx, newbieHandle, "")
	s.Require().NoError(err)
	s.Require().NotNil(rank)
	s.False(rank.IsRanked())

	match, err := svc.IsIdentifierVerified(s.ctx, "twitter", "@newbie")
	s.Require().NoError(err)
	s.True(match.Verified)
	s.Equal(id.PassportID(4), match.PassportID)

	unbound := s.newService(sources.KindPlatforms, sources.KindArchive, sources.KindLeaderboard)
	cfg, err = unbound.GetPlatformConfig(s.ctx, "github")
	s.Require().NoError(err)
	s.Nil(cfg)
	history, err = unbound.GetVerificationHistory(s.ctx, builderHandle, "github")
	s.Require().NoError(err)
	s.Nil(history)
	ranked, err := unbound.IsRanked(s.ctx, "1", "")
	s.Require().NoError(err)
	s.False(ranked)
}

func (s *ServiceSuite) TestScanByCategory() {
	svc := s.newService()

	result, err := svc.ScanByCategory(s.ctx, "BUILDER", 5, 1)
	s.Require().NoError(err)
	s.Require().Len(result.Matches, 1)
	s.Equal(id.PassportID(1), result.Matches[0].PassportID)
	s.LessOrEqual(result.Probes, 50)
	s.Equal(float64(result.Probes), testutil.ToFloat64(s.metrics.ScanProbesTotal))

	_, err = svc.ScanByCategory(s.ctx, "   ", 5, 1)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestHealth() {
	h := s.newService(sources.KindArchive).Health()
	s.True(h.Connected)
	s.Len(h.Sources, len(sources.AllKinds))
	for _, b := range h.Sources {
		s.Equal(b.Kind != sources.KindArchive, b.Bound, b.Kind.String())
	}
}

func (s *ServiceSuite) TestCircuitBreaker() {
	svc := New(
		WithSession(session.New(s.ledger, session.WithRewards(s.ledger))),
		WithMetrics(s.metrics),
		WithCircuitBreakers(circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour)),
	)

	s.Run("not_found never trips the breaker", func() {
		s.ledger.FailOn(sources.OpGetPointBreakdown, sentinel.ErrNotFound)
		for range 3 {
			b, err := svc.GetPointBreakdown(s.ctx, "1")
			s.Require().NoError(err)
			s.Nil(b)
		}
		s.Equal(circuit.StateClosed, svc.breakers[sources.KindRewards].State())
	})

	s.Run("outages open the breaker and calls stop", func() {
		s.ledger.FailOn(sources.OpGetPointBreakdown, sentinel.ErrUnavailable)
		defer s.ledger.FailOn(sources.OpGetPointBreakdown, nil)
		s.ledger.ResetCalls()

		for range 4 {
			b, err := svc.GetPointBreakdown(s.ctx, "1")
			s.Require().NoError(err)
			s.Nil(b)
		}
		s.Equal(2, s.ledger.Calls(sources.OpGetPointBreakdown))
		s.Equal(2.0, testutil.ToFloat64(s.metrics.DegradedResultsTotal.WithLabelValues("rewards", metrics.ReasonCircuitOpen)))

		pts, err := svc.GetPoints(s.ctx, "1")
		s.Require().NoError(err)
		s.Equal(models.PointsFromPassport, pts.Source, "open circuit still falls back")
	})

	s.Run("other sources keep their own breaker", func() {
		s.Equal(circuit.StateClosed, svc.breakers[sources.KindLeaderboard].State())
	})
}
