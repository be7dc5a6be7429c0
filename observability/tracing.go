package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanInit is the name of the span wrapped around a construction attempt.
const SpanInit = "singleton.init"

// SpanManager handles trace span lifecycle for construction attempts.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartInitSpan starts a span for one construction attempt.
	StartInitSpan(ctx context.Context, holder string, attempt int64) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct {
	tracer trace.Tracer
}

// NewSpanManager returns a SpanManager that uses the global OTel tracer provider.
//
// Configure the provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return NewSpanManagerFor(otel.GetTracerProvider())
}

// NewSpanManagerFor returns a SpanManager bound to tp.
func NewSpanManagerFor(tp trace.TracerProvider) SpanManager {
	if tp == nil {
		return NoopSpanManager{}
	}
	return &otelSpanManager{tracer: tp.Tracer(ScopeName)}
}

// StartInitSpan starts a span for one construction attempt.
func (m *otelSpanManager) StartInitSpan(ctx context.Context, holder string, attempt int64) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, SpanInit,
		trace.WithAttributes(
			attribute.String("singleton.holder", holder),
			attribute.Int64("singleton.attempt", attempt),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
