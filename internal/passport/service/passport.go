package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"passport/internal/passport/models"
	"passport/internal/passport/session"
	"passport/internal/passport/sources"
	"passport/internal/passport/tracer"
	id "passport/pkg/domain"
)

// GetPassport resolves handle and assembles the passport. It returns nil, nil
// when the handle has no passport. A platform whose verification cannot be
// loaded is left out of the result.
func (s *Service) GetPassport(ctx context.Context, handle string) (p *models.Passport, err error) {
	sess, passportID, ok, err := s.resolveHandle(ctx, handle)
	if err != nil || !ok {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanGetPassport, tracer.Int64(tracer.AttrPassportID, int64(passportID)))
	defer func() { span.End(err) }()

	return s.loadPassport(ctx, sess, passportID)
}

// HasPassport reports whether handle resolves to an existing passport.
func (s *Service) HasPassport(ctx context.Context, handle string) (bool, error) {
	sess, passportID, ok, err := s.resolveHandle(ctx, handle)
	if err != nil || !ok {
		return false, err
	}
	_, exists, err := s.loadRecord(ctx, sess, passportID)
	return exists, err
}

// GetUserVerifications returns the active verifications of handle's passport
// in registry order. Revoked verifications are never included.
func (s *Service) GetUserVerifications(ctx context.Context, handle string) ([]models.PlatformVerification, error) {
	p, err := s.GetPassport(ctx, handle)
	if err != nil || p == nil {
		return nil, err
	}
	active := p.ActivePlatforms()
	out := make([]models.PlatformVerification, 0, len(active))
	for _, platform := range active {
		out = append(out, models.PlatformVerification{Platform: platform, Verification: p.Verifications[platform]})
	}
	return out, nil
}

// GetVerification returns one platform's verification, active or not, or nil
// when either the passport or the verification doesn't exist.
func (s *Service) GetVerification(ctx context.Context, handle, platform string) (*models.Verification, error) {
	sess, passportID, ok, err := s.resolveHandle(ctx, handle)
	if err != nil || !ok {
		return nil, err
	}
	v, found, err := mandatory(ctx, s, sources.OpGetVerification, func(ctx context.Context) (models.Verification, error) {
		return sess.Registry().GetVerification(ctx, passportID, platform)
	})
	if err != nil || !found {
		return nil, err
	}
	return &v, nil
}

func (s *Service) loadRecord(ctx context.Context, sess *session.Session, passportID id.PassportID) (sources.PassportRecord, bool, error) {
	return mandatory(ctx, s, sources.OpGetPassport, func(ctx context.Context) (sources.PassportRecord, error) {
		return sess.Registry().GetPassport(ctx, passportID)
	})
}

func (s *Service) loadPlatforms(ctx context.Context, sess *session.Session, passportID id.PassportID) ([]string, bool, error) {
	return mandatory(ctx, s, sources.OpGetVerifiedPlatforms, func(ctx context.Context) ([]string, error) {
		return sess.Registry().GetVerifiedPlatforms(ctx, passportID)
	})
}

// loadPassport fetches the record, then the platform list, then every
// platform's verification concurrently. The first two steps are sequential
// because the platform list is keyed by the record's identifier.
func (s *Service) loadPassport(ctx context.Context, sess *session.Session, passportID id.PassportID) (*models.Passport, error) {
	record, ok, err := s.loadRecord(ctx, sess, passportID)
	if err != nil || !ok {
		return nil, err
	}
	platforms, ok, err := s.loadPlatforms(ctx, sess, passportID)
	if err != nil {
		return nil, err
	}
	if !ok {
		platforms = nil
	}

	slots := s.fetchVerifications(ctx, sess, passportID, platforms)

	p := &models.Passport{
		ID:                record.ID,
		Owner:             record.Owner,
		CreatedAt:         record.CreatedAt,
		VerificationCount: record.VerificationCount,
		Category:          record.Category,
		TotalPoints:       record.TotalPoints,
		ReferralCode:      record.ReferralCode,
		TotalReferrals:    record.TotalReferrals,
		Platforms:         make([]string, 0, len(platforms)),
		Verifications:     make(map[string]models.Verification, len(platforms)),
	}
	if p.ID.IsZero() {
		p.ID = passportID
	}
	for i, platform := range platforms {
		if slots[i] == nil {
			continue
		}
		if _, dup := p.Verifications[platform]; dup {
			continue
		}
		p.Platforms = append(p.Platforms, platform)
		p.Verifications[platform] = *slots[i]
	}
	return p, nil
}

// fetchVerifications loads each platform's verification into its own slot,
// so the result keeps the registry order. A failed platform leaves a nil slot
// and never cancels its siblings.
func (s *Service) fetchVerifications(ctx context.Context, sess *session.Session, passportID id.PassportID, platforms []string) []*models.Verification {
	slots := make([]*models.Verification, len(platforms))
	registry := sess.Registry()

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)
	for i, platform := range platforms {
		g.Go(func() error {
			v, err := call(ctx, s, sources.KindRegistry, sources.OpGetVerification, func(ctx context.Context) (models.Verification, error) {
				return registry.GetVerification(ctx, passportID, platform)
			})
			if err != nil {
				s.logger.WarnContext(ctx, "platform verification omitted",
					"passport_id", passportID.String(),
					"platform", platform,
					"error", err,
				)
				if s.metrics != nil {
					s.metrics.IncrementOmittedPlatform()
				}
				tracer.Event(ctx, tracer.EventPlatformOmitted, tracer.String("platform", platform))
				return nil
			}
			slots[i] = &v
			return nil
		})
	}
	_ = g.Wait()
	return slots
}
