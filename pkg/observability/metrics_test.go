package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/KurtWeston/git-size/pkg/observability"
)

func newTestMeterProvider() (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for i := range rm.ScopeMetrics {
		for j := range rm.ScopeMetrics[i].Metrics {
			if rm.ScopeMetrics[i].Metrics[j].Name == name {
				return &rm.ScopeMetrics[i].Metrics[j]
			}
		}
	}

	return nil
}

func sumValue(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()

	require.NotNil(t, m)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestREDMetrics_RecordRequest(t *testing.T) {
	t.Parallel()

	mp, reader := newTestMeterProvider()

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	red.RecordRequest(ctx, "mcp.gitsize_top", observability.StatusOK, 50*time.Millisecond)
	red.RecordRequest(ctx, "mcp.gitsize_top", observability.StatusError, time.Second)

	rm := collectMetrics(t, reader)

	assert.Equal(t, int64(2), sumValue(t, findMetric(rm, "gitsize.requests.total")))
	assert.Equal(t, int64(1), sumValue(t, findMetric(rm, "gitsize.errors.total")))

	hist := findMetric(rm, "gitsize.request.duration.seconds")
	require.NotNil(t, hist)

	data, ok := hist.Data.(metricdata.Histogram[float64])
	require.True(t, ok)

	var count uint64
	for _, dp := range data.DataPoints {
		count += dp.Count
	}

	assert.Equal(t, uint64(2), count)
}

func TestREDMetrics_TrackInflight(t *testing.T) {
	t.Parallel()

	mp, reader := newTestMeterProvider()

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	done := red.TrackInflight(context.Background(), "mcp.gitsize_stats")
	assert.Equal(t, int64(1), sumValue(t, findMetric(collectMetrics(t, reader), "gitsize.inflight.requests")))

	done()
	assert.Equal(t, int64(0), sumValue(t, findMetric(collectMetrics(t, reader), "gitsize.inflight.requests")))
}

func TestWalkMetrics_RecordWalk(t *testing.T) {
	t.Parallel()

	mp, reader := newTestMeterProvider()

	wm, err := observability.NewWalkMetrics(mp.Meter("test"))
	require.NoError(t, err)

	wm.RecordWalk(context.Background(), observability.WalkStats{Commits: 3, Blobs: 8, Duration: time.Second})
	wm.RecordWalk(context.Background(), observability.WalkStats{Commits: 3, Blobs: 8, Duration: time.Second})

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(6), sumValue(t, findMetric(rm, "gitsize.walk.commits.total")))
	assert.Equal(t, int64(16), sumValue(t, findMetric(rm, "gitsize.walk.blobs.total")))
	assert.NotNil(t, findMetric(rm, "gitsize.walk.duration.seconds"))
}

func TestWalkMetrics_NilReceiver(t *testing.T) {
	t.Parallel()

	var wm *observability.WalkMetrics

	assert.NotPanics(t, func() {
		wm.RecordWalk(context.Background(), observability.WalkStats{Commits: 1})
	})
}
