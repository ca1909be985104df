package telemetry

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Counter is a collected Int64 sum, one entry per attribute set.
type Counter struct {
	Name  string
	Attrs string
	Value int64
}

// Snapshot collects every Int64 sum from reader, sorted by name and attributes.
func Snapshot(ctx context.Context, reader *sdkmetric.ManualReader) ([]Counter, error) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return nil, err
	}

	var out []Counter
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				out = append(out, Counter{Name: m.Name, Attrs: dp.Attributes.Encoded(attribute.DefaultEncoder()), Value: dp.Value})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].Attrs < out[j].Attrs
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
