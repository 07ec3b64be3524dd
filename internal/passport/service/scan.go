package service

import (
	"context"

	"passport/internal/passport/models"
	"passport/internal/passport/scanner"
	"passport/internal/passport/tracer"
	id "passport/pkg/domain"
	"passport/pkg/validation"
)

type scanRequest struct {
	Category string `validate:"notblank"`
}

// ScanByCategory is best-effort: it probes at most limit*scanner.MaxProbeFactor
// identifiers from startID and may return fewer than limit matches.
func (s *Service) ScanByCategory(ctx context.Context, category string, limit int, startID id.PassportID) (result models.ScanResult, err error) {
	sess, err := s.session()
	if err != nil {
		return models.ScanResult{}, err
	}
	if err := validation.Validate(scanRequest{Category: category}); err != nil {
		return models.ScanResult{}, err
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanScan,
		tracer.String(tracer.AttrCategory, category),
		tracer.Int("limit", limit),
	)
	defer func() { span.End(err) }()

	result, err = scanner.Scan(ctx, sess.Registry(), category, limit, startID)
	span.SetAttributes(
		tracer.Int(tracer.AttrProbes, result.Probes),
		tracer.Int(tracer.AttrMatches, len(result.Matches)),
		tracer.Bool(tracer.AttrExhausted, result.BudgetExhausted),
	)
	if s.metrics != nil {
		s.metrics.RecordScan(result.Probes, result.BudgetExhausted)
	}
	if result.BudgetExhausted {
		s.logger.DebugContext(ctx, "category scan stopped at probe budget",
			"category", category,
			"limit", limit,
			"probes", result.Probes,
			"matches", len(result.Matches),
		)
	}
	return result, err
}
