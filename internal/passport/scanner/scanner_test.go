package scanner

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"passport/internal/passport/models"
	"passport/internal/passport/sources"
	"passport/internal/passport/sources/memory"
	"passport/internal/sentinel"
	id "passport/pkg/domain"
)

type ScannerSuite struct {
	suite.Suite
	ctx    context.Context
	ledger *memory.Ledger
}

func TestScannerSuite(t *testing.T) {
	suite.Run(t, new(ScannerSuite))
}

func (s *ScannerSuite) SetupTest() {
	s.ctx = context.Background()
	s.ledger = memory.NewLedger()
}

func (s *ScannerSuite) seed(passportID id.PassportID, category string) {
	s.ledger.AddPassport(models.Passport{
		ID:        passportID,
		Owner:     common.BigToAddress(new(big.Int).SetUint64(uint64(passportID))),
		Category:  category,
		Platforms: []string{"github"},
		Verifications: map[string]models.Verification{
			"github": {Identifier: fmt.Sprintf("user-%d", passportID), Active: true},
		},
	})
}

func (s *ScannerSuite) TestProbeBudget() {
	// Sparse space: one developer every 20 identifiers.
	for i := id.PassportID(20); i <= 400; i += 20 {
		s.seed(i, "developer")
	}

	result, err := Scan(s.ctx, s.ledger, "developer", 5, 1)
	s.Require().NoError(err)

	s.Equal(50, result.Probes)
	s.Equal(50, s.ledger.Calls(sources.OpGetPassport))
	s.Len(result.Matches, 2, "only ids 20 and 40 fall inside the budget")
	s.True(result.BudgetExhausted)
	s.Equal(id.PassportID(51), result.NextID)
}

func (s *ScannerSuite) TestStopsAtLimit() {
	for i := id.PassportID(1); i <= 10; i++ {
		s.seed(i, "Developer")
	}

	result, err := Scan(s.ctx, s.ledger, "developer", 3, 0)
	s.Require().NoError(err)

	s.Len(result.Matches, 3)
	s.Equal(3, result.Probes)
	s.False(result.BudgetExhausted)
	s.Equal(id.PassportID(1), result.StartID, "zero start is normalized to the first identifier")
	s.Equal([]string{"github"}, result.Matches[0].Platforms)
	s.Equal("Developer", result.Matches[0].Category)
}

func (s *ScannerSuite) TestSkipsFailures() {
	s.seed(1, "social")
	s.seed(2, "social")
	s.seed(3, "social")
	s.ledger.FailOn(sources.OpGetPassport, sentinel.ErrUnavailable, "1")
	s.ledger.FailOn(sources.OpGetVerifiedPlatforms, sentinel.ErrUnavailable, "2")

	result, err := Scan(s.ctx, s.ledger, "social", 3, 1)
	s.Require().NoError(err)

	s.Require().Len(result.Matches, 1)
	s.Equal(id.PassportID(3), result.Matches[0].PassportID)
	s.Equal(30, result.Probes)
	s.True(result.BudgetExhausted)
}

func (s *ScannerSuite) TestNonPositiveLimit() {
	s.seed(1, "social")
	for _, limit := range []int{0, -4} {
		result, err := Scan(s.ctx, s.ledger, "social", limit, 1)
		s.Require().NoError(err)
		s.Empty(result.Matches)
		s.Zero(result.Probes)
		s.Zero(s.ledger.Calls(sources.OpGetPassport))
	}
}

func (s *ScannerSuite) TestCancelledContext() {
	s.seed(1, "social")
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	result, err := Scan(ctx, s.ledger, "social", 5, 1)
	s.ErrorIs(err, context.Canceled)
	s.Zero(result.Probes)
}
