// Package tracer is the tracing abstraction used around verification
// provider calls. Production wires the OpenTelemetry adapter; tests use the
// no-op tracer.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span and marks it failed when err is non-nil.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
//
//	ctx, span := t.Start(ctx, tracer.SpanResolve,
//	    tracer.String(tracer.AttrExternalID, tracer.HashIdentifier(externalID)),
//	)
//	defer span.End(nil)
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashIdentifier returns a short SHA-256 prefix so traces can be correlated
// without carrying raw applicant or investor identifiers.
func HashIdentifier(v string) string {
	if v == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:8])
}

// Span names.
const (
	SpanResolve          = "verification.resolve"
	SpanResolveApplicant = "verification.resolve_applicant"
	SpanFindApplicant    = "verification.provider.find_applicant"
	SpanGetStatus        = "verification.provider.get_status"
)

// Attribute keys.
const (
	AttrExternalID   = "external_id"
	AttrApplicantID  = "applicant_id"
	AttrCacheHit     = "cache.hit"
	AttrStatus       = "verification.status"
	AttrReviewStatus = "provider.review_status"
	AttrCircuitOpen  = "circuit.open"
	AttrErrorClass   = "provider.error_category"
)
