// Package scanner finds passports by category without an index.
//
// The identity registry offers no category lookup, so Scan walks identifiers
// upward from a start point. The walk is bounded: at most limit*MaxProbeFactor
// identifiers are probed, so a scan over a sparse identifier space returns
// fewer than limit matches even when more exist further along.
package scanner

import (
	"context"

	"passport/internal/passport/format"
	"passport/internal/passport/models"
	"passport/internal/passport/sources"
	id "passport/pkg/domain"
)

// MaxProbeFactor bounds a scan to limit*MaxProbeFactor identifier probes.
const MaxProbeFactor = 10

// Budget returns the probe budget for limit.
func Budget(limit int) int {
	if limit <= 0 {
		return 0
	}
	return limit * MaxProbeFactor
}

// Scan probes identifiers from startID (1 when zero) and collects passports
// whose category matches case-insensitively. Per-identifier failures are
// skipped. The only error returned is the context's, alongside the partial result.
func Scan(ctx context.Context, registry sources.IdentityRegistry, category string, limit int, startID id.PassportID) (models.ScanResult, error) {
	if startID.IsZero() {
		startID = 1
	}
	result := models.ScanResult{
		Category: category,
		Limit:    limit,
		StartID:  startID,
		NextID:   startID,
		Matches:  []models.ScanMatch{},
	}
	if limit <= 0 {
		return result, nil
	}

	budget := Budget(limit)
	current := startID
	for result.Probes < budget && len(result.Matches) < limit {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Probes++
		probed := current
		current++
		result.NextID = current

		record, err := registry.GetPassport(ctx, probed)
		if err != nil {
			continue
		}
		if !format.SameCategory(record.Category, category) {
			continue
		}
		platforms, err := registry.GetVerifiedPlatforms(ctx, probed)
		if err != nil {
			continue
		}
		result.Matches = append(result.Matches, models.ScanMatch{
			PassportID: probed,
			Owner:      record.Owner.Hex(),
			Category:   record.Category,
			Platforms:  platforms,
		})
	}

	result.BudgetExhausted = len(result.Matches) < limit && result.Probes >= budget
	return result, nil
}
