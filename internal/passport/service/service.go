// Package service aggregates passport views across the bound data sources.
//
// Every operation reads the current session once at entry, so a concurrent
// rebind never mixes sources within a call. Failures on the identity registry
// propagate unmodified; failures or absence of any optional source degrade
// that facet to nil (see policy.go).
package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"passport/internal/passport/metrics"
	"passport/internal/passport/session"
	"passport/internal/passport/sources"
	"passport/internal/passport/tracer"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/platform/circuit"
	"passport/pkg/platform/middleware/requesttime"
)

// ErrNotConnected is returned by every operation until a session is bound.
var ErrNotConnected = dErrors.New(dErrors.CodeNotConnected, "no session bound: connect before querying")

// maxConcurrentFetches bounds the per-platform verification fan-out.
const maxConcurrentFetches = 8

// Service is safe for concurrent use.
type Service struct {
	current atomic.Pointer[session.Session]

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	now     func() time.Time

	breakers map[sources.SourceKind]*circuit.Breaker
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithClock sets the fallback clock for strength evaluation. A request time
// carried by the context takes precedence.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithCircuitBreakers guards every optional source with its own breaker.
// While a breaker is open the facet is served as absent without calling the
// source. Only timeouts, outages and contract mismatches trip a breaker.
func WithCircuitBreakers(opts ...circuit.Option) Option {
	return func(s *Service) {
		s.breakers = make(map[sources.SourceKind]*circuit.Breaker, len(sources.OptionalKinds))
		for _, kind := range sources.OptionalKinds {
			s.breakers[kind] = circuit.New(kind.String(), opts...)
		}
	}
}

// WithSession binds sess at construction.
func WithSession(sess *session.Session) Option {
	return func(s *Service) {
		s.current.Store(sess)
	}
}

// New creates an unbound service unless WithSession is given.
func New(opts ...Option) *Service {
	s := &Service{
		logger: slog.Default(),
		tracer: tracer.NewNoop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bind replaces the current session. Calls already in flight finish against
// the session they started with.
func (s *Service) Bind(sess *session.Session) {
	if sess == nil {
		panic("service.Bind: session is required")
	}
	s.current.Store(sess)
}

// Connect establishes a session through binder and binds it.
func (s *Service) Connect(ctx context.Context, cfg session.Config, binder session.Binder, opts ...session.Option) (*session.Session, error) {
	opts = append([]session.Option{session.WithLogger(s.logger)}, opts...)
	sess, err := session.Establish(ctx, cfg, binder, opts...)
	if err != nil {
		return nil, err
	}
	s.Bind(sess)
	s.logger.InfoContext(ctx, "passport session bound", "bindings", len(sess.Bindings()))
	return sess, nil
}

// Connected reports whether a session has been bound.
func (s *Service) Connected() bool {
	return s.current.Load() != nil
}

// clock returns the evaluation time for one call.
func (s *Service) clock(ctx context.Context) time.Time {
	if t, ok := requesttime.FromContext(ctx); ok {
		return t
	}
	return s.now()
}

func (s *Service) session() (*session.Session, error) {
	sess := s.current.Load()
	if sess == nil {
		return nil, ErrNotConnected
	}
	return sess, nil
}

// Health describes the bound session for readiness probes.
type Health struct {
	Connected     bool              `json:"connected"`
	EstablishedAt *time.Time        `json:"established_at,omitempty"`
	Sources       []session.Binding `json:"sources"`
}

func (s *Service) Health() Health {
	sess := s.current.Load()
	if sess == nil {
		return Health{Sources: []session.Binding{}}
	}
	at := sess.EstablishedAt()
	return Health{Connected: true, EstablishedAt: &at, Sources: sess.Bindings()}
}
