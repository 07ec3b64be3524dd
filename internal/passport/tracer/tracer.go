// Package tracer gives the service one span per composite operation and one
// child span per source call. Attributes are OpenTelemetry key-values so the
// service never converts between attribute models.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"go.opentelemetry.io/otel/attribute"
)

type Attribute = attribute.KeyValue

var (
	String = attribute.String
	Bool   = attribute.Bool
	Int    = attribute.Int
	Int64  = attribute.Int64
)

// Span ends exactly once, marked failed when err is non-nil.
type Span interface {
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer is safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// HashHandle digests a caller handle so traces correlate without recording
// owner addresses.
func HashHandle(handle string) string {
	if handle == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(handle))
	return hex.EncodeToString(sum[:8])
}

const (
	SpanGetPassport   = "passport.get"
	SpanGetProfile    = "passport.profile"
	SpanLeaderboard   = "passport.leaderboard"
	SpanProofHashes   = "passport.proofs"
	SpanStrength      = "passport.strength"
	SpanScan          = "passport.scan"
	SpanResolve       = "passport.resolve"
	SpanSourceCallFmt = "source.%s.%s"
)

const (
	AttrHandle     = "handle_hash"
	AttrPassportID = "passport_id"
	AttrSource     = "source"
	AttrOp         = "op"
	AttrCategory   = "category"
	AttrProbes     = "scan.probes"
	AttrMatches    = "scan.matches"
	AttrExhausted  = "scan.budget_exhausted"
)

const (
	EventFacetDegraded   = "facet.degraded"
	EventPlatformOmitted = "platform.omitted"
)
