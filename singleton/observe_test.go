package singleton_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/sghaida/singleton/observability"
	"github.com/sghaida/singleton/singleton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

//
// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

type observed struct {
	reader   *sdkmetric.ManualReader
	exporter *tracetest.InMemoryExporter
	logs     *bytes.Buffer
	opts     []singleton.Option
}

// newObserved wires a holder's logger, recorder, and span manager to in-memory sinks.
func newObserved(t *testing.T, name string) *observed {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
		_ = tp.Shutdown(context.Background())
	})

	rec, err := observability.NewMetricsRecorderFor(mp)
	require.NoError(t, err)

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return &observed{
		reader:   reader,
		exporter: exporter,
		logs:     logs,
		opts: []singleton.Option{
			singleton.WithName(name),
			singleton.WithLogger(logger),
			singleton.WithRecorder(rec),
			singleton.WithSpans(observability.NewSpanManagerFor(tp)),
		},
	}
}

// sum returns the int64 sum data point for name with exactly attrs, or 0.
func (o *observed) sum(t *testing.T, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, o.reader.Collect(context.Background(), &rm))

	want := attribute.NewSet(attrs...)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			data, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is %T", name, m.Data)
			for _, dp := range data.DataPoints {
				if dp.Attributes.Equals(&want) {
					return dp.Value
				}
			}
		}
	}
	return 0
}

// logRecords decodes the JSON log lines written so far.
func (o *observed) logRecords(t *testing.T) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(o.logs.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

// identifiedTagged exposes an instance ID for log enrichment.
type identifiedTagged struct{ id string }

func (i *identifiedTagged) InstanceID() string { return i.id }

//
// -----------------------------------------------------------------------------
// Guarded + observability
// -----------------------------------------------------------------------------

// TestGuarded_Observed_Success verifies one construction, one span, and fast/slow accesses.
func TestGuarded_Observed_Success(t *testing.T) {
	t.Parallel()

	o := newObserved(t, "cache")
	g := singleton.NewGuarded[identifiedTagged](o.opts...)

	for i := 0; i < 3; i++ {
		g.Get(func() *identifiedTagged { return &identifiedTagged{id: "inst-1"} })
	}

	holder := attribute.String("holder", "cache")
	assert.Equal(t, int64(1), o.sum(t, observability.MetricConstructions, holder))
	assert.Equal(t, int64(0), o.sum(t, observability.MetricConstructionErrors, holder))
	assert.Equal(t, int64(1), o.sum(t, observability.MetricAccesses, holder, attribute.String("path", "slow")))
	assert.Equal(t, int64(2), o.sum(t, observability.MetricAccesses, holder, attribute.String("path", "fast")))

	spans := o.exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, observability.SpanInit, spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)

	recs := o.logRecords(t)
	require.Len(t, recs, 1)
	assert.Equal(t, "singleton constructed", recs[0]["msg"])
	assert.Equal(t, "cache", recs[0]["holder"])
	assert.Equal(t, "inst-1", recs[0]["instance_id"])
}

// TestGuarded_Observed_Failure verifies failed attempts are counted, traced as errors, and logged.
func TestGuarded_Observed_Failure(t *testing.T) {
	t.Parallel()

	o := newObserved(t, "flaky")
	g := singleton.NewGuarded[tagged](o.opts...)

	_, err := g.GetContext(context.Background(), func(context.Context) (*tagged, error) {
		return nil, errors.New("unavailable")
	})
	require.Error(t, err)

	holder := attribute.String("holder", "flaky")
	assert.Equal(t, int64(1), o.sum(t, observability.MetricConstructionErrors, holder))
	assert.Equal(t, int64(0), o.sum(t, observability.MetricConstructions, holder))

	spans := o.exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)

	recs := o.logRecords(t)
	require.Len(t, recs, 1)
	assert.Equal(t, "singleton construction failed", recs[0]["msg"])
	assert.Contains(t, recs[0]["error"], "unavailable")
}

// TestNaive_Observed verifies the naive holder reports its construction and fast accesses.
func TestNaive_Observed(t *testing.T) {
	t.Parallel()

	o := newObserved(t, "plain")
	n := singleton.NewNaive[tagged](o.opts...)

	n.Get(newTagged("a"))
	n.Get(newTagged("b"))

	holder := attribute.String("holder", "plain")
	assert.Equal(t, int64(1), o.sum(t, observability.MetricConstructions, holder))
	assert.Equal(t, int64(1), o.sum(t, observability.MetricAccesses, holder, attribute.String("path", "fast")))
	assert.Empty(t, o.exporter.GetSpans())
}
