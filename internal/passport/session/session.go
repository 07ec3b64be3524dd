// Package session binds the data sources a passport client reads from.
//
// A Session is an immutable value: binding again produces a new Session
// rather than mutating the current one. Only the identity registry is
// mandatory; optional sources that are missing or fail to bind are recorded
// as unbound and every capability check reports them absent.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"passport/internal/passport/sources"
	dErrors "passport/pkg/domain-errors"
)

// Binder resolves an endpoint into a ready-to-use data source.
type Binder interface {
	BindRegistry(ctx context.Context, endpoint string) (sources.IdentityRegistry, error)
	BindPlatforms(ctx context.Context, endpoint string) (sources.PlatformRegistry, error)
	BindArchive(ctx context.Context, endpoint string) (sources.Archive, error)
	BindRewards(ctx context.Context, endpoint string) (sources.Rewards, error)
	BindLeaderboard(ctx context.Context, endpoint string) (sources.Leaderboard, error)
}

// Config names the endpoint of each source. An empty endpoint leaves an
// optional source unbound.
type Config struct {
	Endpoints map[sources.SourceKind]string
}

// Binding reports how one source ended up in the session.
type Binding struct {
	Kind     sources.SourceKind `json:"kind"`
	Endpoint string             `json:"endpoint,omitempty"`
	Bound    bool               `json:"bound"`
	Reason   string             `json:"reason,omitempty"`
}

// Session carries the bound sources. It is safe for unlimited concurrent readers.
type Session struct {
	registry    sources.IdentityRegistry
	platforms   sources.PlatformRegistry
	archive     sources.Archive
	rewards     sources.Rewards
	leaderboard sources.Leaderboard

	bindings      []Binding
	establishedAt time.Time
}

const providedEndpoint = "provided"

type options struct {
	logger      *slog.Logger
	now         func() time.Time
	platforms   sources.PlatformRegistry
	archive     sources.Archive
	rewards     sources.Rewards
	leaderboard sources.Leaderboard
}

// Option configures session construction.
type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock overrides the clock used to stamp EstablishedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithPlatforms binds an already constructed platform registry, bypassing the Binder.
func WithPlatforms(src sources.PlatformRegistry) Option {
	return func(o *options) {
		o.platforms = src
	}
}

// WithArchive binds an already constructed archive, bypassing the Binder.
func WithArchive(src sources.Archive) Option {
	return func(o *options) {
		o.archive = src
	}
}

// WithRewards binds an already constructed rewards source, bypassing the Binder.
func WithRewards(src sources.Rewards) Option {
	return func(o *options) {
		o.rewards = src
	}
}

// WithLeaderboard binds an already constructed leaderboard, bypassing the Binder.
func WithLeaderboard(src sources.Leaderboard) Option {
	return func(o *options) {
		o.leaderboard = src
	}
}

func buildOptions(opts []Option) *options {
	o := &options{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// New builds a session from constructed sources. Optional sources come from
// the With* options; anything not supplied is unbound.
func New(registry sources.IdentityRegistry, opts ...Option) *Session {
	if registry == nil {
		panic("session: identity registry is required")
	}
	o := buildOptions(opts)
	s := &Session{
		registry:      registry,
		platforms:     o.platforms,
		archive:       o.archive,
		rewards:       o.rewards,
		leaderboard:   o.leaderboard,
		establishedAt: o.now(),
	}
	s.bindings = []Binding{{Kind: sources.KindRegistry, Endpoint: providedEndpoint, Bound: true}}
	for _, kind := range sources.OptionalKinds {
		b := Binding{Kind: kind, Bound: s.Has(kind)}
		if b.Bound {
			b.Endpoint = providedEndpoint
		} else {
			b.Reason = "not configured"
		}
		s.bindings = append(s.bindings, b)
	}
	return s
}

// Establish binds every configured source through binder. A registry that
// cannot be bound is an error; optional sources never fail the session.
func Establish(ctx context.Context, cfg Config, binder Binder, opts ...Option) (*Session, error) {
	if binder == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "binder is required")
	}
	o := buildOptions(opts)

	registryEndpoint := cfg.Endpoints[sources.KindRegistry]
	if registryEndpoint == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "identity registry endpoint is required")
	}
	registry, err := binder.BindRegistry(ctx, registryEndpoint)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeSourceUnavailable, fmt.Sprintf("bind identity registry at %s", registryEndpoint))
	}

	s := &Session{
		registry:      registry,
		establishedAt: o.now(),
		bindings:      []Binding{{Kind: sources.KindRegistry, Endpoint: registryEndpoint, Bound: true}},
	}

	s.platforms = bindOptional(ctx, s, o, sources.KindPlatforms, cfg, o.platforms, binder.BindPlatforms)
	s.archive = bindOptional(ctx, s, o, sources.KindArchive, cfg, o.archive, binder.BindArchive)
	s.rewards = bindOptional(ctx, s, o, sources.KindRewards, cfg, o.rewards, binder.BindRewards)
	s.leaderboard = bindOptional(ctx, s, o, sources.KindLeaderboard, cfg, o.leaderboard, binder.BindLeaderboard)

	return s, nil
}

// bindOptional records the outcome on s.bindings and returns the bound source
// or the zero value when unbound.
func bindOptional[T comparable](
	ctx context.Context,
	s *Session,
	o *options,
	kind sources.SourceKind,
	cfg Config,
	provided T,
	bind func(context.Context, string) (T, error),
) T {
	var zero T
	if provided != zero {
		s.bindings = append(s.bindings, Binding{Kind: kind, Endpoint: providedEndpoint, Bound: true})
		return provided
	}

	endpoint := cfg.Endpoints[kind]
	if endpoint == "" {
		s.bindings = append(s.bindings, Binding{Kind: kind, Reason: "not configured"})
		return zero
	}

	src, err := bind(ctx, endpoint)
	if err != nil {
		o.logger.WarnContext(ctx, "optional source unavailable",
			"source", kind.String(),
			"endpoint", endpoint,
			"error", err,
		)
		s.bindings = append(s.bindings, Binding{Kind: kind, Endpoint: endpoint, Reason: err.Error()})
		return zero
	}
	s.bindings = append(s.bindings, Binding{Kind: kind, Endpoint: endpoint, Bound: true})
	return src
}

func (s *Session) Registry() sources.IdentityRegistry { return s.registry }

func (s *Session) Platforms() (sources.PlatformRegistry, bool) {
	return s.platforms, s.platforms != nil
}

func (s *Session) Archive() (sources.Archive, bool) {
	return s.archive, s.archive != nil
}

func (s *Session) Rewards() (sources.Rewards, bool) {
	return s.rewards, s.rewards != nil
}

func (s *Session) Leaderboard() (sources.Leaderboard, bool) {
	return s.leaderboard, s.leaderboard != nil
}

// Has is the capability check performed before every optional call.
func (s *Session) Has(kind sources.SourceKind) bool {
	switch kind {
	case sources.KindRegistry:
		return s.registry != nil
	case sources.KindPlatforms:
		return s.platforms != nil
	case sources.KindArchive:
		return s.archive != nil
	case sources.KindRewards:
		return s.rewards != nil
	case sources.KindLeaderboard:
		return s.leaderboard != nil
	default:
		return false
	}
}

// Bindings returns one entry per source kind, registry first.
func (s *Session) Bindings() []Binding {
	return slices.Clone(s.bindings)
}

func (s *Session) EstablishedAt() time.Time { return s.establishedAt }
