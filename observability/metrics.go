package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ScopeName is the instrumentation scope for meters and tracers.
const ScopeName = "github.com/sghaida/singleton"

// Metric names.
const (
	MetricConstructions       = "singleton.constructions"
	MetricConstructionErrors  = "singleton.construction.errors"
	MetricConstructionLatency = "singleton.construction.latency_ms"
	MetricAccesses            = "singleton.accesses"
)

// Recorder records holder metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
// Implementations must be safe for concurrent use.
type Recorder interface {
	// RecordAccess records a Get call that returned an instance.
	// fast is true when the instance was served without taking the lock.
	RecordAccess(ctx context.Context, holder string, fast bool)

	// RecordConstruction records a construction attempt and its outcome.
	RecordConstruction(ctx context.Context, holder string, duration time.Duration, err error)
}

// otelMetrics implements Recorder using OpenTelemetry.
type otelMetrics struct {
	constructions metric.Int64Counter
	errors        metric.Int64Counter
	latency       metric.Float64Histogram
	accesses      metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the metrics bound to the global meter provider.
// Lazily initializes them on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics(otel.GetMeterProvider())
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics(mp metric.MeterProvider) (*otelMetrics, error) {
	meter := mp.Meter(ScopeName)

	constructions, err := meter.Int64Counter(MetricConstructions,
		metric.WithDescription("Number of successful singleton constructions"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter(MetricConstructionErrors,
		metric.WithDescription("Number of failed singleton construction attempts"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram(MetricConstructionLatency,
		metric.WithDescription("Singleton construction latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	accesses, err := meter.Int64Counter(MetricAccesses,
		metric.WithDescription("Number of singleton accesses by path"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		constructions: constructions,
		errors:        errs,
		latency:       latency,
		accesses:      accesses,
	}, nil
}

// NewMetricsRecorder returns a Recorder that uses the global OTel meter provider.
// If metrics initialization fails, returns a no-op recorder.
//
// Configure the provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() Recorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// NewMetricsRecorderFor returns a Recorder bound to mp instead of the global provider.
func NewMetricsRecorderFor(mp metric.MeterProvider) (Recorder, error) {
	if mp == nil {
		return NoopMetrics{}, nil
	}
	return newOtelMetrics(mp)
}

// RecordAccess records an access.
func (m *otelMetrics) RecordAccess(ctx context.Context, holder string, fast bool) {
	path := "slow"
	if fast {
		path = "fast"
	}
	m.accesses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("holder", holder),
		attribute.String("path", path),
	))
}

// RecordConstruction records a construction attempt.
func (m *otelMetrics) RecordConstruction(ctx context.Context, holder string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("holder", holder))

	m.latency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err != nil {
		m.errors.Add(ctx, 1, attrs)
		return
	}
	m.constructions.Add(ctx, 1, attrs)
}
