package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"passport/internal/passport/sources"
	"passport/internal/passport/sources/memory"
	dErrors "passport/pkg/domain-errors"
)

// stubBinder binds every endpoint to the same in-memory ledger unless the
// endpoint is listed in failing.
type stubBinder struct {
	ledger  *memory.Ledger
	failing map[string]error
	bound   []string
}

func (b *stubBinder) bind(endpoint string) error {
	b.bound = append(b.bound, endpoint)
	return b.failing[endpoint]
}

func (b *stubBinder) BindRegistry(_ context.Context, endpoint string) (sources.IdentityRegistry, error) {
	if err := b.bind(endpoint); err != nil {
		return nil, err
	}
	return b.ledger, nil
}

func (b *stubBinder) BindPlatforms(_ context.Context, endpoint string) (sources.PlatformRegistry, error) {
	if err := b.bind(endpoint); err != nil {
		return nil, err
	}
	return b.ledger, nil
}

func (b *stubBinder) BindArchive(_ context.Context, endpoint string) (sources.Archive, error) {
	if err := b.bind(endpoint); err != nil {
		return nil, err
	}
	return b.ledger, nil
}

func (b *stubBinder) BindRewards(_ context.Context, endpoint string) (sources.Rewards, error) {
	if err := b.bind(endpoint); err != nil {
		return nil, err
	}
	return b.ledger, nil
}

func (b *stubBinder) BindLeaderboard(_ context.Context, endpoint string) (sources.Leaderboard, error) {
	if err := b.bind(endpoint); err != nil {
		return nil, err
	}
	return b.ledger, nil
}

type SessionSuite struct {
	suite.Suite
	ctx    context.Context
	ledger *memory.Ledger
	binder *stubBinder
	now    time.Time
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.ctx = context.Background()
	s.ledger = memory.NewLedger()
	s.binder = &stubBinder{ledger: s.ledger, failing: map[string]error{}}
	s.now = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
}

func (s *SessionSuite) fullConfig() Config {
	return Config{Endpoints: map[sources.SourceKind]string{
		sources.KindRegistry:    "0xregistry",
		sources.KindPlatforms:   "0xplatforms",
		sources.KindArchive:     "0xarchive",
		sources.KindRewards:     "0xrewards",
		sources.KindLeaderboard: "0xleaderboard",
	}}
}

func (s *SessionSuite) TestEstablish() {
	s.Run("binds every configured source", func() {
		sess, err := Establish(s.ctx, s.fullConfig(), s.binder, WithClock(func() time.Time { return s.now }))
		s.Require().NoError(err)
		for _, kind := range sources.AllKinds {
			s.True(sess.Has(kind), kind.String())
		}
		s.Equal(s.now, sess.EstablishedAt())
		s.Len(sess.Bindings(), len(sources.AllKinds))
	})

	s.Run("missing optional endpoints leave sources unbound", func() {
		cfg := Config{Endpoints: map[sources.SourceKind]string{sources.KindRegistry: "0xregistry"}}
		sess, err := Establish(s.ctx, cfg, s.binder)
		s.Require().NoError(err)

		_, ok := sess.Rewards()
		s.False(ok)
		_, ok = sess.Leaderboard()
		s.False(ok)
		for _, b := range sess.Bindings()[1:] {
			s.False(b.Bound)
			s.Equal("not configured", b.Reason)
		}
	})

	s.Run("optional bind failure degrades instead of failing", func() {
		s.binder.failing["0xrewards"] = errors.New("no code at address")
		sess, err := Establish(s.ctx, s.fullConfig(), s.binder)
		s.Require().NoError(err)
		s.False(sess.Has(sources.KindRewards))
		s.True(sess.Has(sources.KindArchive))

		var rewards Binding
		for _, b := range sess.Bindings() {
			if b.Kind == sources.KindRewards {
				rewards = b
			}
		}
		s.Equal("no code at address", rewards.Reason)
		s.Equal("0xrewards", rewards.Endpoint)
	})

	s.Run("registry bind failure is fatal", func() {
		s.binder.failing["0xregistry"] = errors.New("dial tcp: refused")
		_, err := Establish(s.ctx, s.fullConfig(), s.binder)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeSourceUnavailable))
	})

	s.Run("registry endpoint is required", func() {
		_, err := Establish(s.ctx, Config{}, s.binder)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *SessionSuite) TestProvidedSourcesBypassBinder() {
	mirror := memory.NewLedger()
	s.binder.bound = nil

	sess, err := Establish(s.ctx, s.fullConfig(), s.binder, WithLeaderboard(mirror), WithArchive(mirror))
	s.Require().NoError(err)

	lb, ok := sess.Leaderboard()
	s.Require().True(ok)
	s.Same(mirror, lb)
	s.NotContains(s.binder.bound, "0xleaderboard")
	s.NotContains(s.binder.bound, "0xarchive")
}

func (s *SessionSuite) TestNew() {
	sess := New(s.ledger, WithRewards(s.ledger))
	s.True(sess.Has(sources.KindRewards))
	s.False(sess.Has(sources.KindPlatforms))
	s.Equal(s.ledger, sess.Registry())

	s.Panics(func() { New(nil) })
}

func (s *SessionSuite) TestBindingsAreCopied() {
	sess := New(s.ledger)
	b := sess.Bindings()
	b[0].Bound = false
	s.True(sess.Bindings()[0].Bound)
}
