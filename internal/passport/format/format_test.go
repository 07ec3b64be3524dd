package format

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInt64(t *testing.T) {
	huge, _ := new(big.Int).SetString("1000000000000000000000000", 10)

	tests := []struct {
		name string
		in   *big.Int
		want int64
	}{
		{name: "nil", in: nil, want: 0},
		{name: "negative", in: big.NewInt(-3), want: 0},
		{name: "small", in: big.NewInt(250), want: 250},
		{name: "saturates", in: huge, want: math.MaxInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Int64(tt.in))
		})
	}
}

func TestUint64Saturates(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	assert.Equal(t, uint64(math.MaxUint64), Uint64(huge))
	assert.Equal(t, uint64(7), Uint64(big.NewInt(7)))
}

func TestUnixTime(t *testing.T) {
	assert.True(t, UnixTime(big.NewInt(0)).IsZero())
	assert.True(t, UnixTime(nil).IsZero())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), UnixTime(big.NewInt(1704067200)))

	assert.Nil(t, OptionalUnixTime(big.NewInt(0)))
	revoked := OptionalUnixTime(big.NewInt(1704067200))
	if assert.NotNil(t, revoked) {
		assert.Equal(t, 2024, revoked.Year())
	}
}

func TestAgeInDays(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 400, AgeInDays(now.AddDate(0, 0, -400), now))
	assert.Equal(t, 0, AgeInDays(now.Add(-23*time.Hour), now))
	assert.Equal(t, 0, AgeInDays(time.Time{}, now))
	assert.Equal(t, 0, AgeInDays(now.Add(time.Hour), now), "future origin")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "developer", NormalizeCategory("  Developer "))
	assert.Equal(t, "github", NormalizePlatform("GitHub"))
	assert.True(t, SameCategory("SOCIAL", "social"))
	assert.False(t, SameCategory("social", "socials"))
}
