package validation

import (
	"fmt"

	dErrors "passport/pkg/domain-errors"
)

// Query limits enforced at the HTTP and CLI boundaries.
const (
	// MaxScanLimit caps the matches one category scan may request. The probe
	// budget grows with it, so it also caps registry calls per scan.
	MaxScanLimit = 100

	// MaxTopCount caps leaderboard top-N reads.
	MaxTopCount = 100

	// MaxHandleLength covers a 0x address or a uint64 identifier with whitespace.
	MaxHandleLength = 128

	MaxPlatformLength = 64
	MaxCategoryLength = 64

	// MaxIdentifierLength is the maximum length of a platform account identifier.
	MaxIdentifierLength = 256

	MaxReferralCodeLength = 64
)

// CheckRange validates that value lies within [min, max].
func CheckRange(fieldName string, value, min, max int) error {
	if value < min || value > max {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s must be between %d and %d", fieldName, min, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}
