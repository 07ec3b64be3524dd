package service

import (
	"context"

	"passport/internal/passport/sources"
	"passport/pkg/testutil"
)

func (s *ServiceSuite) TestConcurrentReads() {
	svc := s.newService()
	s.ledger.FailOn(sources.OpGetPassport, context.DeadlineExceeded, "2")

	result := testutil.RunConcurrent(s.ctx, 30, func(ctx context.Context, idx int) error {
		switch idx % 3 {
		case 0:
			_, err := svc.GetProfile(ctx, builderHandle)
			return err
		case 1:
			_, err := svc.GetPassport(ctx, socialHandle)
			return err
		default:
			_, err := svc.GetVerificationStrength(ctx, newbieHandle)
			return err
		}
	})

	s.Equal(30, result.Total())
	s.Equal(20, result.Succeeded)
	s.Equal(map[sources.ErrorCategory]int{sources.ErrorTimeout: 10}, result.ByCategory)
}
