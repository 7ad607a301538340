// Package tracer is a small tracing abstraction so service code does not
// depend on OpenTelemetry APIs directly.
//
// Implementations:
//   - NoopTracer for tests
//   - OTelTracer for production
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span is an active trace span.
type Span interface {
	// End completes the span, marking it failed when err is non-nil.
	// Call it exactly once, typically via defer.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a span; pass the returned context to child operations.
	//
	//   ctx, span := t.Start(ctx, tracer.SpanCreateTeacher,
	//       tracer.String(tracer.AttrProvider, ukprn),
	//   )
	//   defer func() { span.End(err) }()
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

func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration records a duration in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashIdentifier returns a short SHA-256 digest of a personal identifier
// (national insurance number, email) so traces can be correlated without the raw value.
func HashIdentifier(value string) string {
	if value == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

// Span names.
const (
	SpanCreateTeacher = "teachers.create"
	SpanUpdateTeacher = "teachers.update"
	SpanSetIttResult  = "teachers.set_itt_result"
	SpanFindTeachers  = "teachers.find"
	SpanLookup        = "referencedata.lookup"
	SpanMatch         = "matching.find_candidate"
	SpanSubmit        = "composer.submit"
)

// Attribute keys.
const (
	AttrTeacherID     = "teacher.id"
	AttrProvider      = "provider.ukprn"
	AttrProgrammeType = "itt.programme_type"
	AttrOutcome       = "itt.outcome"
	AttrNino          = "teacher.nino_hash"
	AttrDuplicate     = "matching.duplicate"
	AttrFailures      = "failures"
	AttrRequests      = "batch.requests"
)
