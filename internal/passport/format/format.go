// Package format converts raw ledger representations (big integers, unix
// seconds, free-form labels) into typed domain values.
package format

import (
	"math"
	"math/big"
	"strings"
	"time"
)

var (
	maxInt64  = big.NewInt(math.MaxInt64)
	maxUint64 = new(big.Int).SetUint64(math.MaxUint64)
)

// Int64 narrows a ledger integer. Nil and negative values become 0; values
// beyond int64 saturate at math.MaxInt64.
func Int64(v *big.Int) int64 {
	if v == nil || v.Sign() <= 0 {
		return 0
	}
	if v.Cmp(maxInt64) > 0 {
		return math.MaxInt64
	}
	return v.Int64()
}

// Uint64 narrows a ledger integer, saturating at math.MaxUint64.
func Uint64(v *big.Int) uint64 {
	if v == nil || v.Sign() <= 0 {
		return 0
	}
	if v.Cmp(maxUint64) > 0 {
		return math.MaxUint64
	}
	return v.Uint64()
}

// UnixTime converts unix seconds to UTC time. Zero maps to the zero time so
// callers can use IsZero to detect an unset timestamp.
func UnixTime(v *big.Int) time.Time {
	return UnixSeconds(Int64(v))
}

// UnixSeconds is UnixTime for values already narrowed to int64.
func UnixSeconds(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// OptionalUnixTime returns nil for the zero sentinel.
func OptionalUnixTime(v *big.Int) *time.Time {
	t := UnixTime(v)
	if t.IsZero() {
		return nil
	}
	return &t
}

// AgeInDays counts whole days between from and now. Unset or future origins yield 0.
func AgeInDays(from, now time.Time) int {
	if from.IsZero() || now.Before(from) {
		return 0
	}
	return int(now.Sub(from) / (24 * time.Hour))
}

// NormalizeCategory folds a category label for comparison.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// NormalizePlatform folds a platform name for lookups against the category sets.
func NormalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// SameCategory compares two category labels case-insensitively.
func SameCategory(a, b string) bool {
	return NormalizeCategory(a) == NormalizeCategory(b)
}
