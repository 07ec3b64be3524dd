package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "passport/pkg/domain-errors"
)

type ValidationSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationSuite))
}

type probe struct {
	Category string `validate:"notblank"`
	Owner    string `validate:"omitempty,eth_addr"`
	Limit    int    `validate:"min=1,max=100"`
}

func (s *ValidationSuite) TestValidate() {
	s.NoError(Validate(probe{Category: "builder", Limit: 1}))

	err := Validate(probe{Category: "  ", Limit: 1})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	s.Contains(err.Error(), "category must not be blank")

	err = Validate(probe{Category: "x", Owner: "0x12", Limit: 1})
	s.Contains(err.Error(), "owner must be a 0x-prefixed address")

	err = Validate(probe{Category: "x", Limit: 101})
	s.Contains(err.Error(), "limit must be at most 100")
}

func (s *ValidationSuite) TestFieldNamesFollowTags() {
	type tagged struct {
		PageSize int    `query:"page_size" validate:"max=5"`
		Referrer string `json:"referrer_code,omitempty" validate:"required"`
	}

	err := Validate(tagged{PageSize: 9, Referrer: "x"})
	s.Contains(err.Error(), "page_size must be at most 5")

	err = Validate(tagged{})
	s.Contains(err.Error(), "referrer_code is required")
}

func (s *ValidationSuite) TestIsEthAddress() {
	s.True(IsEthAddress("0x1111111111111111111111111111111111111111"))
	s.False(IsEthAddress("0x111"))
	s.False(IsEthAddress("1111111111111111111111111111111111111111"))
	s.False(IsEthAddress(""))
}

func (s *ValidationSuite) TestCheckRange() {
	s.Run("bounds are inclusive", func() {
		s.NoError(CheckRange("limit", 1, 1, MaxScanLimit))
		s.NoError(CheckRange("limit", MaxScanLimit, 1, MaxScanLimit))
	})

	s.Run("max+1 fails", func() {
		err := CheckRange("limit", MaxScanLimit+1, 1, MaxScanLimit)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
		s.Contains(err.Error(), "limit must be between 1 and 100")
	})

	s.Run("below min fails", func() {
		s.Error(CheckRange("count", 0, 1, MaxTopCount))
	})
}

func (s *ValidationSuite) TestCheckStringLength() {
	s.NoError(CheckStringLength("platform", strings.Repeat("a", MaxPlatformLength), MaxPlatformLength))

	err := CheckStringLength("platform", strings.Repeat("a", MaxPlatformLength+1), MaxPlatformLength)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	s.Contains(err.Error(), "platform exceeds max length of 64")
}
