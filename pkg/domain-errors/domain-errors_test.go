package domainerrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestMessage() {
	s.Equal("no passport for handle", New(CodeNoIdentity, "no passport for handle").Error())
	s.Equal("not_connected", (&Error{Code: CodeNotConnected}).Error())
}

func (s *DomainErrorsSuite) TestIsMatchesByCode() {
	notConnected := New(CodeNotConnected, "connect first")

	s.ErrorIs(fmt.Errorf("get passport: %w", notConnected), New(CodeNotConnected, ""))
	s.NotErrorIs(notConnected, New(CodeNoIdentity, ""))
	s.NotErrorIs(errors.New("not_connected"), New(CodeNotConnected, ""))
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("keeps the code already in the chain", func() {
		inner := New(CodeInvalidHandle, "handle must be an id or address")
		err := Wrap(fmt.Errorf("resolve: %w", inner), CodeInternal, "get profile")

		s.True(HasCode(err, CodeInvalidHandle))
		s.Equal("get profile", err.Error())
	})

	s.Run("classifies a plain cause", func() {
		err := Wrap(context.DeadlineExceeded, CodeTimeout, "registry call abandoned")

		s.True(HasCode(err, CodeTimeout))
		s.ErrorIs(err, context.DeadlineExceeded)
	})
}

func (s *DomainErrorsSuite) TestCodeOf() {
	code, ok := CodeOf(fmt.Errorf("scan: %w", New(CodeRateLimited, "slow down")))
	s.True(ok)
	s.Equal(CodeRateLimited, code)

	_, ok = CodeOf(errors.New("boom"))
	s.False(ok)
	s.False(HasCode(nil, CodeInternal))
}
