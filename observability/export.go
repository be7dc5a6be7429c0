package observability

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// WriteMetrics writes one line per collected data point, sorted, in the form
//
//	singleton.accesses{holder=naive,path=fast} 1
//	singleton.construction.latency_ms{holder=naive} count=1 sum=0.012
//
// Only int64 sums and float64 histograms are rendered; other aggregations
// are skipped.
func WriteMetrics(w io.Writer, rm *metricdata.ResourceMetrics) error {
	if rm == nil {
		return nil
	}
	enc := attribute.DefaultEncoder()

	var lines []string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%s{%s} %d",
						m.Name, dp.Attributes.Encoded(enc), dp.Value))
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%s{%s} count=%d sum=%.3f",
						m.Name, dp.Attributes.Encoded(enc), dp.Count, dp.Sum))
				}
			}
		}
	}
	slices.Sort(lines)

	if len(lines) == 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
