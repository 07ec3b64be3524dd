// Package strength scores how well a passport is verified.
//
// Scoring is a pure function of an already fetched passport and the
// evaluation time. All weights are fixed so scores stay comparable across
// clients.
package strength

import (
	"time"

	"passport/internal/passport/format"
	"passport/internal/passport/models"
)

const (
	PerPlatformWeight = 15
	PlatformCap       = 75
	AgeDivisorDays    = 30
	AgeCap            = 10
	DiversityBonus    = 10
	PointsDivisor     = 100
	PointsCap         = 5
	MaxScore          = 100
)

// Grade thresholds, inclusive lower bounds.
const (
	GradeAThreshold = 80
	GradeBThreshold = 60
	GradeCThreshold = 40
	GradeDThreshold = 20
)

// PlatformSet is one of the disjoint platform families used for the diversity bonus.
type PlatformSet string

const (
	SetSocial    PlatformSet = "social"
	SetDeveloper PlatformSet = "developer"
	SetChain     PlatformSet = "chain"
)

var platformSets = map[string]PlatformSet{
	"twitter":   SetSocial,
	"x":         SetSocial,
	"discord":   SetSocial,
	"telegram":  SetSocial,
	"reddit":    SetSocial,
	"farcaster": SetSocial,
	"instagram": SetSocial,
	"youtube":   SetSocial,
	"tiktok":    SetSocial,

	"github":        SetDeveloper,
	"gitlab":        SetDeveloper,
	"stackoverflow": SetDeveloper,
	"bitbucket":     SetDeveloper,
	"npm":           SetDeveloper,

	"ens":       SetChain,
	"lens":      SetChain,
	"solana":    SetChain,
	"ethereum":  SetChain,
	"bitcoin":   SetChain,
	"worldcoin": SetChain,
	"gitcoin":   SetChain,
}

// SetOf returns the family a platform belongs to, if any.
func SetOf(platform string) (PlatformSet, bool) {
	set, ok := platformSets[format.NormalizePlatform(platform)]
	return set, ok
}

// GradeFor maps a score to its letter grade.
func GradeFor(score int) models.Grade {
	switch {
	case score >= GradeAThreshold:
		return models.GradeA
	case score >= GradeBThreshold:
		return models.GradeB
	case score >= GradeCThreshold:
		return models.GradeC
	case score >= GradeDThreshold:
		return models.GradeD
	default:
		return models.GradeF
	}
}

// Evaluate scores p with every component. points is the rewards source's
// total; nil means the source was unavailable and contributes nothing.
// Age is measured from the passport's creation time.
func Evaluate(p *models.Passport, points *int64, now time.Time) models.VerificationStrength {
	active := p.ActivePlatforms()
	ageDays := format.AgeInDays(p.CreatedAt, now)

	breakdown := models.StrengthBreakdown{
		Platforms: platformComponent(len(active)),
		Age:       ageComponent(ageDays),
		Points:    pointsComponent(points),
	}
	if spansAtLeast(active, 2, SetSocial, SetDeveloper, SetChain) {
		breakdown.Diversity = DiversityBonus
	}
	return result(p, breakdown, len(active), ageDays, now)
}

// EvaluateBasic is the registry-only variant: no points component, diversity
// requires both a social and a developer platform, and age falls back to the
// earliest active verification when the creation time is unknown.
func EvaluateBasic(p *models.Passport, now time.Time) models.VerificationStrength {
	active := p.ActivePlatforms()

	origin := p.CreatedAt
	if origin.IsZero() {
		origin = earliestVerification(p, active)
	}
	ageDays := format.AgeInDays(origin, now)

	breakdown := models.StrengthBreakdown{
		Platforms: platformComponent(len(active)),
		Age:       ageComponent(ageDays),
	}
	if spansAtLeast(active, 2, SetSocial, SetDeveloper) {
		breakdown.Diversity = DiversityBonus
	}
	return result(p, breakdown, len(active), ageDays, now)
}

func result(p *models.Passport, breakdown models.StrengthBreakdown, activeCount, ageDays int, now time.Time) models.VerificationStrength {
	score := min(breakdown.Sum(), MaxScore)
	return models.VerificationStrength{
		PassportID:          p.ID,
		Score:               score,
		Grade:               GradeFor(score),
		Breakdown:           breakdown,
		ActivePlatformCount: activeCount,
		AccountAgeDays:      ageDays,
		EvaluatedAt:         now,
	}
}

func platformComponent(activeCount int) int {
	return min(activeCount*PerPlatformWeight, PlatformCap)
}

func ageComponent(ageDays int) int {
	return min(ageDays/AgeDivisorDays, AgeCap)
}

func pointsComponent(points *int64) int {
	if points == nil || *points <= 0 {
		return 0
	}
	return int(min(*points/PointsDivisor, PointsCap))
}

// spansAtLeast reports whether active platforms cover at least need of the given sets.
func spansAtLeast(active []string, need int, sets ...PlatformSet) bool {
	seen := make(map[PlatformSet]bool, len(sets))
	for _, platform := range active {
		if set, ok := SetOf(platform); ok {
			seen[set] = true
		}
	}
	covered := 0
	for _, set := range sets {
		if seen[set] {
			covered++
		}
	}
	return covered >= need
}

func earliestVerification(p *models.Passport, active []string) time.Time {
	var earliest time.Time
	for _, platform := range active {
		v := p.Verifications[platform]
		if v.VerifiedAt.IsZero() {
			continue
		}
		if earliest.IsZero() || v.VerifiedAt.Before(earliest) {
			earliest = v.VerifiedAt
		}
	}
	return earliest
}
