package service

import (
	"context"
	"fmt"
	"time"

	"passport/internal/passport/metrics"
	"passport/internal/passport/resolver"
	"passport/internal/passport/session"
	"passport/internal/passport/sources"
	"passport/internal/passport/tracer"
	id "passport/pkg/domain"
	"passport/pkg/platform/circuit"
)

// call runs one data source call inside a span and records its latency.
// The error is returned exactly as the source classified it.
func call[T any](ctx context.Context, s *Service, kind sources.SourceKind, op string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := s.tracer.Start(ctx, fmt.Sprintf(tracer.SpanSourceCallFmt, kind, op),
		tracer.String(tracer.AttrSource, kind.String()),
		tracer.String(tracer.AttrOp, op),
	)
	start := time.Now()
	v, err := fn(ctx)

	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
	case sources.IsNotFound(err):
		outcome = metrics.OutcomeNotFound
	default:
		outcome = metrics.OutcomeError
	}
	if s.metrics != nil {
		s.metrics.ObserveSourceCall(kind.String(), op, outcome, time.Since(start).Seconds())
	}
	if outcome == metrics.OutcomeError {
		span.End(err)
	} else {
		span.End(nil)
	}
	return v, err
}

// optional applies the availability policy to a call on an optional source.
// An unbound source is never called. A bound source that fails is logged at
// debug level. Both cases yield ok=false and never an error.
func optional[T any](ctx context.Context, s *Service, kind sources.SourceKind, op string, bound bool, fn func(context.Context) (T, error)) (T, bool) {
	var zero T
	if !bound {
		s.recordDegraded(ctx, kind, op, metrics.ReasonUnbound, nil)
		return zero, false
	}
	breaker := s.breakers[kind]
	if breaker != nil && !breaker.Allow() {
		s.recordDegraded(ctx, kind, op, metrics.ReasonCircuitOpen, nil)
		return zero, false
	}
	v, err := call(ctx, s, kind, op, fn)
	if breaker != nil {
		s.observeBreaker(ctx, breaker, err)
	}
	if err != nil {
		s.recordDegraded(ctx, kind, op, metrics.ReasonFailure, err)
		return zero, false
	}
	return v, true
}

// tripsBreaker reports whether err says the source itself is unhealthy.
// A not_found or malformed reply is an answer, not an outage.
func tripsBreaker(err error) bool {
	switch sources.CategoryOf(err) {
	case sources.ErrorTimeout, sources.ErrorSourceOutage, sources.ErrorContractMismatch:
		return true
	default:
		return false
	}
}

func (s *Service) observeBreaker(ctx context.Context, breaker *circuit.Breaker, err error) {
	var change circuit.StateChange
	if err != nil && tripsBreaker(err) {
		change = breaker.RecordFailure()
	} else {
		change = breaker.RecordSuccess()
	}
	switch {
	case change.Opened:
		s.logger.WarnContext(ctx, "optional source circuit opened", "source", breaker.Name())
	case change.Closed:
		s.logger.InfoContext(ctx, "optional source circuit closed", "source", breaker.Name())
	}
}

// mandatory is call for the identity registry, translating not_found into
// ok=false. Any other failure is returned unmodified.
func mandatory[T any](ctx context.Context, s *Service, op string, fn func(context.Context) (T, error)) (T, bool, error) {
	var zero T
	v, err := call(ctx, s, sources.KindRegistry, op, fn)
	if err != nil {
		if sources.IsNotFound(err) {
			return zero, false, nil
		}
		return zero, false, err
	}
	return v, true, nil
}

func (s *Service) recordDegraded(ctx context.Context, kind sources.SourceKind, op, reason string, err error) {
	if s.metrics != nil {
		s.metrics.IncrementDegraded(kind.String(), reason)
	}
	tracer.Event(ctx, tracer.EventFacetDegraded,
		tracer.String(tracer.AttrSource, kind.String()),
		tracer.String(tracer.AttrOp, op),
		tracer.String("reason", reason),
	)
	if err != nil {
		s.logger.DebugContext(ctx, "optional source call failed",
			"source", kind.String(),
			"op", op,
			"category", string(sources.CategoryOf(err)),
			"error", err,
		)
	}
}

// begin is the common prologue: require a session, then parse the handle.
func (s *Service) begin(raw string) (*session.Session, id.Handle, error) {
	sess, err := s.session()
	if err != nil {
		return nil, id.Handle{}, err
	}
	handle, err := id.ParseHandle(raw)
	if err != nil {
		return nil, id.Handle{}, err
	}
	return sess, handle, nil
}

// resolve wraps the resolver in a span. ok=false means the owner holds no passport.
func (s *Service) resolve(ctx context.Context, sess *session.Session, handle id.Handle) (id.PassportID, bool, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanResolve, tracer.String(tracer.AttrHandle, tracer.HashHandle(handle.String())))
	passportID, ok, err := resolver.Resolve(ctx, sess.Registry(), handle)
	span.SetAttributes(tracer.Bool("resolved", ok))
	span.End(err)
	return passportID, ok, err
}

// resolveHandle combines begin and resolve for operations keyed by handle.
func (s *Service) resolveHandle(ctx context.Context, raw string) (*session.Session, id.PassportID, bool, error) {
	sess, handle, err := s.begin(raw)
	if err != nil {
		return nil, 0, false, err
	}
	passportID, ok, err := s.resolve(ctx, sess, handle)
	if err != nil || !ok {
		return sess, 0, false, err
	}
	return sess, passportID, true, nil
}
