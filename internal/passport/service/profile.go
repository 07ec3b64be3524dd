package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"passport/internal/passport/metrics"
	"passport/internal/passport/models"
	"passport/internal/passport/session"
	"passport/internal/passport/sources"
	"passport/internal/passport/strength"
	"passport/internal/passport/tracer"
	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
)

const (
	variantFull  = "full"
	variantBasic = "basic"
)

// profileFacets holds the parallel profile fetches. Each goroutine writes
// only its own field.
type profileFacets struct {
	breakdown   *models.PointBreakdown
	referral    *models.ReferralInfo
	leaderboard *models.LeaderboardSnapshot
}

// GetProfile merges the passport with its points, referral and leaderboard
// facets. Facets are fetched in parallel and degrade independently; only a
// registry failure fails the profile.
func (s *Service) GetProfile(ctx context.Context, handle string) (profile *models.Profile, err error) {
	sess, passportID, ok, err := s.resolveHandle(ctx, handle)
	if err != nil || !ok {
		return nil, err
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanGetProfile, tracer.Int64(tracer.AttrPassportID, int64(passportID)))
	defer func() { span.End(err) }()

	p, err := s.loadPassport(ctx, sess, passportID)
	if err != nil || p == nil {
		return nil, err
	}

	var facets profileFacets
	var g errgroup.Group
	g.Go(func() error {
		rewards, bound := sess.Rewards()
		if b, ok := optional(ctx, s, sources.KindRewards, sources.OpGetPointBreakdown, bound, func(ctx context.Context) (models.PointBreakdown, error) {
			return rewards.GetPointBreakdown(ctx, p.ID)
		}); ok {
			facets.breakdown = &b
		}
		return nil
	})
	g.Go(func() error {
		facets.referral = s.referralFor(ctx, sess, p)
		return nil
	})
	g.Go(func() error {
		if _, bound := sess.Leaderboard(); !bound {
			s.recordDegraded(ctx, sources.KindLeaderboard, sources.OpGetPassportEntry, metrics.ReasonUnbound, nil)
			return nil
		}
		facets.leaderboard = s.leaderboardSnapshot(ctx, sess, p.ID, p.Category)
		return nil
	})
	_ = g.Wait()

	profile = &models.Profile{
		Passport:    p,
		Points:      facets.breakdown,
		TotalPoints: models.Points{Total: p.TotalPoints, Source: models.PointsFromPassport},
		Referral:    facets.referral,
		Leaderboard: facets.leaderboard,
	}
	var points *int64
	if facets.breakdown != nil {
		total := facets.breakdown.Total
		points = &total
		profile.TotalPoints = models.Points{Total: total, Source: models.PointsFromRewards}
	}
	profile.Strength = s.score(variantFull, strength.Evaluate(p, points, s.clock(ctx)))
	return profile, nil
}

// referralFor reads the rewards source and falls back to the referral fields
// carried by the passport itself.
func (s *Service) referralFor(ctx context.Context, sess *session.Session, p *models.Passport) *models.ReferralInfo {
	rewards, bound := sess.Rewards()
	info, ok := optional(ctx, s, sources.KindRewards, sources.OpGetReferralInfo, bound, func(ctx context.Context) (models.ReferralInfo, error) {
		return rewards.GetReferralInfo(ctx, p.ID)
	})
	if ok {
		info.Source = models.PointsFromRewards
		return &info
	}
	return &models.ReferralInfo{
		ReferralCode:   p.ReferralCode,
		TotalReferrals: p.TotalReferrals,
		Source:         models.PointsFromPassport,
	}
}

// GetLeaderboardSnapshot reads the passport's category first, then fetches
// the global entry, the category entry, the ranked flag and the supported
// categories in parallel. Each of the four degrades on its own.
func (s *Service) GetLeaderboardSnapshot(ctx context.Context, handle string) (snapshot *models.LeaderboardSnapshot, err error) {
	sess, passportID, ok, err := s.resolveHandle(ctx, handle)
	if err != nil || !ok {
		return nil, err
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanLeaderboard, tracer.Int64(tracer.AttrPassportID, int64(passportID)))
	defer func() { span.End(err) }()

	record, ok, err := s.loadRecord(ctx, sess, passportID)
	if err != nil || !ok {
		return nil, err
	}
	return s.leaderboardSnapshot(ctx, sess, passportID, record.Category), nil
}

func (s *Service) leaderboardSnapshot(ctx context.Context, sess *session.Session, passportID id.PassportID, category string) *models.LeaderboardSnapshot {
	board, bound := sess.Leaderboard()
	registry := sess.Registry()

	snapshot := &models.LeaderboardSnapshot{
		PassportID: passportID,
		Category:   category,
		Categories: []string{},
	}

	var g errgroup.Group
	g.Go(func() error {
		if e, ok := optional(ctx, s, sources.KindLeaderboard, sources.OpGetPassportEntry, bound, func(ctx context.Context) (models.LeaderboardEntry, error) {
			return board.GetPassportEntry(ctx, passportID)
		}); ok {
			snapshot.Global = &e
		}
		return nil
	})
	g.Go(func() error {
		if e, ok := optional(ctx, s, sources.KindLeaderboard, sources.OpGetPassportCatEntry, bound, func(ctx context.Context) (models.LeaderboardEntry, error) {
			return board.GetPassportCategoryEntry(ctx, passportID, category)
		}); ok {
			snapshot.CategoryEntry = &e
		}
		return nil
	})
	g.Go(func() error {
		ranked, _ := optional(ctx, s, sources.KindLeaderboard, sources.OpIsRanked, bound, func(ctx context.Context) (bool, error) {
			return board.IsRanked(ctx, passportID)
		})
		snapshot.Ranked = ranked
		return nil
	})
	var categories []string
	g.Go(func() error {
		// The registry is always bound; a failure here still only empties this facet.
		if list, ok := optional(ctx, s, sources.KindRegistry, sources.OpGetSupportedCategories, true, registry.GetSupportedCategories); ok && list != nil {
			categories = list
		}
		return nil
	})
	_ = g.Wait()

	if categories != nil {
		snapshot.Categories = categories
	}
	return snapshot
}

// GetProofHashes returns the proof hashes of every active verification, in
// registry order. A handle without a passport is a no_identity error; a
// passport without any active proof returns nil, nil.
func (s *Service) GetProofHashes(ctx context.Context, handle string) (proofs *models.ProofHashes, err error) {
	sess, passportID, ok, err := s.resolveHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, noIdentity(handle)
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanProofHashes, tracer.Int64(tracer.AttrPassportID, int64(passportID)))
	defer func() { span.End(err) }()

	// Unminted ids report an empty platform list, so existence comes from the
	// record.
	_, ok, err = s.loadRecord(ctx, sess, passportID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, noIdentity(handle)
	}
	platforms, ok, err := s.loadPlatforms(ctx, sess, passportID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, noIdentity(handle)
	}

	slots := s.fetchVerifications(ctx, sess, passportID, platforms)
	proofs = &models.ProofHashes{PassportID: passportID}
	for i, platform := range platforms {
		if slots[i] == nil || !slots[i].Active {
			continue
		}
		proofs.Proofs = append(proofs.Proofs, models.PlatformProof{Platform: platform, ProofHash: slots[i].ProofHash})
	}
	if len(proofs.Proofs) == 0 {
		return nil, nil
	}
	return proofs, nil
}

// GetVerificationStrength scores the passport with every component. The
// points component uses the rewards source only and is 0 when it is
// unavailable. A handle without a passport is a no_identity error.
func (s *Service) GetVerificationStrength(ctx context.Context, handle string) (*models.VerificationStrength, error) {
	return s.strength(ctx, handle, variantFull)
}

// GetBasicVerificationStrength scores the passport from the registry alone.
func (s *Service) GetBasicVerificationStrength(ctx context.Context, handle string) (*models.VerificationStrength, error) {
	return s.strength(ctx, handle, variantBasic)
}

func (s *Service) strength(ctx context.Context, handle, variant string) (result *models.VerificationStrength, err error) {
	sess, passportID, ok, err := s.resolveHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, noIdentity(handle)
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanStrength,
		tracer.Int64(tracer.AttrPassportID, int64(passportID)),
		tracer.String("variant", variant),
	)
	defer func() { span.End(err) }()

	p, err := s.loadPassport(ctx, sess, passportID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, noIdentity(handle)
	}

	now := s.clock(ctx)
	var vs models.VerificationStrength
	if variant == variantBasic {
		vs = strength.EvaluateBasic(p, now)
	} else {
		rewards, bound := sess.Rewards()
		var points *int64
		if total, ok := optional(ctx, s, sources.KindRewards, sources.OpGetPoints, bound, func(ctx context.Context) (int64, error) {
			return rewards.GetPoints(ctx, p.ID)
		}); ok {
			points = &total
		}
		vs = strength.Evaluate(p, points, now)
	}
	vs = s.score(variant, vs)
	return &vs, nil
}

func (s *Service) score(variant string, vs models.VerificationStrength) models.VerificationStrength {
	if s.metrics != nil {
		s.metrics.ObserveStrength(variant, vs.Score)
	}
	return vs
}

func noIdentity(handle string) error {
	return dErrors.New(dErrors.CodeNoIdentity, fmt.Sprintf("no passport for handle %s", handle))
}
