package strength

import (
	"fmt"
	"maps"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passport/internal/passport/models"
)

var evalTime = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func passportWith(createdDaysAgo int, platforms map[string]bool) *models.Passport {
	p := &models.Passport{
		ID:            1,
		CreatedAt:     evalTime.AddDate(0, 0, -createdDaysAgo),
		Verifications: map[string]models.Verification{},
	}
	for _, name := range slices.Sorted(maps.Keys(platforms)) {
		p.Platforms = append(p.Platforms, name)
		p.Verifications[name] = models.Verification{
			Identifier: name + "-user",
			VerifiedAt: p.CreatedAt,
			Active:     platforms[name],
		}
	}
	return p
}

func points(n int64) *int64 { return &n }

func sixPlatformPassport() *models.Passport {
	return passportWith(400, map[string]bool{
		"twitter": true, "discord": true, "telegram": true,
		"github": true, "gitlab": true,
		"ens": true,
	})
}

func TestEvaluate_FullySourcedVeteran(t *testing.T) {
	got := Evaluate(sixPlatformPassport(), points(250), evalTime)

	assert.Equal(t, models.StrengthBreakdown{Platforms: 75, Age: 10, Diversity: 10, Points: 2}, got.Breakdown)
	assert.Equal(t, 97, got.Score)
	assert.Equal(t, models.GradeA, got.Grade)
	assert.Equal(t, 6, got.ActivePlatformCount)
	assert.Equal(t, 400, got.AccountAgeDays)
}

func TestEvaluate_WithoutRewards(t *testing.T) {
	got := Evaluate(sixPlatformPassport(), nil, evalTime)
	assert.Equal(t, 0, got.Breakdown.Points)
	assert.Equal(t, 95, got.Score)
	assert.Equal(t, models.GradeA, got.Grade)

	single := passportWith(10, map[string]bool{"twitter": true})
	got = Evaluate(single, points(0), evalTime)
	assert.Equal(t, models.StrengthBreakdown{Platforms: 15}, got.Breakdown)
	assert.Equal(t, 15, got.Score)
	assert.Equal(t, models.GradeF, got.Grade)
}

func TestEvaluate_InactivePlatformsIgnored(t *testing.T) {
	p := passportWith(0, map[string]bool{"twitter": true, "github": false, "ens": false})
	got := Evaluate(p, nil, evalTime)

	assert.Equal(t, 1, got.ActivePlatformCount)
	assert.Equal(t, 15, got.Breakdown.Platforms)
	assert.Zero(t, got.Breakdown.Diversity, "revoked platforms must not count toward diversity")
}

func TestEvaluate_DiversityNeedsTwoSets(t *testing.T) {
	tests := []struct {
		name      string
		platforms map[string]bool
		want      int
	}{
		{name: "social only", platforms: map[string]bool{"twitter": true, "discord": true}, want: 0},
		{name: "social and chain", platforms: map[string]bool{"twitter": true, "ens": true}, want: DiversityBonus},
		{name: "developer and chain", platforms: map[string]bool{"GitHub": true, "solana": true}, want: DiversityBonus},
		{name: "unknown platforms", platforms: map[string]bool{"myspace": true, "friendster": true}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(passportWith(1, tt.platforms), nil, evalTime)
			assert.Equal(t, tt.want, got.Breakdown.Diversity)
		})
	}
}

func TestEvaluate_PointsCapped(t *testing.T) {
	got := Evaluate(passportWith(0, nil), points(1_000_000), evalTime)
	assert.Equal(t, PointsCap, got.Breakdown.Points)

	got = Evaluate(passportWith(0, nil), points(-50), evalTime)
	assert.Zero(t, got.Breakdown.Points)
}

func TestEvaluateBasic(t *testing.T) {
	t.Run("chain does not count toward diversity", func(t *testing.T) {
		p := passportWith(100, map[string]bool{"twitter": true, "ens": true})
		got := EvaluateBasic(p, evalTime)
		assert.Zero(t, got.Breakdown.Diversity)
		assert.Zero(t, got.Breakdown.Points)
	})

	t.Run("social plus developer earns the bonus", func(t *testing.T) {
		p := passportWith(100, map[string]bool{"twitter": true, "github": true})
		got := EvaluateBasic(p, evalTime)
		assert.Equal(t, DiversityBonus, got.Breakdown.Diversity)
		assert.Equal(t, 30+3+10, got.Score)
		assert.Equal(t, models.GradeC, got.Grade)
	})

	t.Run("age falls back to earliest active verification", func(t *testing.T) {
		p := passportWith(0, map[string]bool{"twitter": true, "github": true, "gitlab": false})
		p.CreatedAt = time.Time{}
		p.Verifications["twitter"] = models.Verification{VerifiedAt: evalTime.AddDate(0, 0, -95), Active: true}
		p.Verifications["github"] = models.Verification{VerifiedAt: evalTime.AddDate(0, 0, -20), Active: true}
		p.Verifications["gitlab"] = models.Verification{VerifiedAt: evalTime.AddDate(0, 0, -900), Active: false}

		got := EvaluateBasic(p, evalTime)
		assert.Equal(t, 95, got.AccountAgeDays)
		assert.Equal(t, 3, got.Breakdown.Age)
	})
}

func TestGradeFor(t *testing.T) {
	cases := map[int]models.Grade{
		100: models.GradeA, 80: models.GradeA, 79: models.GradeB, 60: models.GradeB,
		59: models.GradeC, 40: models.GradeC, 39: models.GradeD, 20: models.GradeD,
		19: models.GradeF, 0: models.GradeF,
	}
	for score, want := range cases {
		assert.Equal(t, want, GradeFor(score), "score %d", score)
	}
}

func TestScoreAlwaysWithinBounds(t *testing.T) {
	names := make([]string, 0, len(platformSets))
	for name := range platformSets {
		names = append(names, name)
	}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		platforms := map[string]bool{}
		for j := 0; j < rng.Intn(len(names)+1); j++ {
			platforms[names[rng.Intn(len(names))]] = rng.Intn(4) > 0
		}
		p := passportWith(rng.Intn(5000), platforms)
		pts := rng.Int63n(10_000)

		for _, got := range []models.VerificationStrength{Evaluate(p, &pts, evalTime), EvaluateBasic(p, evalTime)} {
			require.GreaterOrEqual(t, got.Score, 0, fmt.Sprintf("case %d", i))
			require.LessOrEqual(t, got.Score, MaxScore, fmt.Sprintf("case %d", i))
			require.Equal(t, GradeFor(got.Score), got.Grade)
		}
	}
}
