package tracer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"passport/internal/passport/tracer"
)

func newRecorded(t *testing.T) (*tracer.OTel, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return tracer.NewOTel(provider.Tracer("test")), rec
}

func TestSpanCarriesAttributesAndEvents(t *testing.T) {
	tr, rec := newRecorded(t)

	ctx, span := tr.Start(context.Background(), tracer.SpanScan, tracer.String(tracer.AttrCategory, "builder"))
	tracer.Event(ctx, tracer.EventFacetDegraded, tracer.String(tracer.AttrSource, "leaderboard"))
	span.SetAttributes(tracer.Int(tracer.AttrProbes, 30), tracer.Bool(tracer.AttrExhausted, true))
	span.End(nil)

	ended := rec.Ended()
	require.Len(t, ended, 1)
	got := ended[0]
	assert.Equal(t, tracer.SpanScan, got.Name())
	assert.Contains(t, got.Attributes(), attribute.String(tracer.AttrCategory, "builder"))
	assert.Contains(t, got.Attributes(), attribute.Int(tracer.AttrProbes, 30))
	require.Len(t, got.Events(), 1)
	assert.Equal(t, tracer.EventFacetDegraded, got.Events()[0].Name)
	assert.Equal(t, codes.Unset, got.Status().Code)
}

func TestEndWithErrorMarksSpanFailed(t *testing.T) {
	tr, rec := newRecorded(t)

	_, span := tr.Start(context.Background(), tracer.SpanGetPassport, tracer.Int64(tracer.AttrPassportID, 7))
	span.End(errors.New("registry down"))

	got := rec.Ended()[0]
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "registry down", got.Status().Description)
	require.Len(t, got.Events(), 1, "error is recorded as an exception event")
}

func TestNoopDropsSpans(t *testing.T) {
	ctx := context.Background()
	newCtx, span := tracer.NewNoop().Start(ctx, tracer.SpanGetProfile)
	require.NotNil(t, span)
	span.AddEvent(tracer.EventPlatformOmitted)
	span.End(errors.New("ignored"))

	tracer.Event(ctx, tracer.EventFacetDegraded)
	assert.NotNil(t, newCtx)
}

func TestHashHandle(t *testing.T) {
	assert.Empty(t, tracer.HashHandle(""))
	assert.Len(t, tracer.HashHandle("0x1111111111111111111111111111111111111111"), 16)
	assert.Equal(t, tracer.HashHandle("42"), tracer.HashHandle("42"))
	assert.NotEqual(t, tracer.HashHandle("42"), tracer.HashHandle("43"))
}
