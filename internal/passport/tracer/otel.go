package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "passport/aggregator"

// OTel starts spans on an OpenTelemetry tracer.
type OTel struct {
	tracer trace.Tracer
}

// NewOTel traces through the global provider, or through t when given.
func NewOTel(t ...trace.Tracer) *OTel {
	if len(t) > 0 && t[0] != nil {
		return &OTel{tracer: t[0]}
	}
	return &OTel{tracer: otel.Tracer(instrumentationName)}
}

// NewNoop drops every span.
func NewNoop() *OTel {
	return &OTel{tracer: noop.NewTracerProvider().Tracer(instrumentationName)}
}

func (o *OTel) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	ctx, span := o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
}

func (s otelSpan) SetAttributes(attrs ...Attribute) {
	s.span.SetAttributes(attrs...)
}

func (s otelSpan) AddEvent(name string, attrs ...Attribute) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Event annotates the span active in ctx, if any.
func Event(ctx context.Context, name string, attrs ...Attribute) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

var _ Tracer = (*OTel)(nil)
