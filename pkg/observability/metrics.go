package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRequestsTotal    = "gitsize.requests.total"
	metricRequestDuration  = "gitsize.request.duration.seconds"
	metricErrorsTotal      = "gitsize.errors.total"
	metricInflightRequests = "gitsize.inflight.requests"

	metricWalkCommits  = "gitsize.walk.commits.total"
	metricWalkBlobs    = "gitsize.walk.blobs.total"
	metricWalkDuration = "gitsize.walk.duration.seconds"

	attrOp     = "op"
	attrStatus = "status"

	// StatusOK and StatusError are the status values passed to RecordRequest.
	StatusOK    = "ok"
	StatusError = "error"
)

// durationBucketBoundaries spans small repositories answering in tens of
// milliseconds to large histories taking several minutes.
var durationBucketBoundaries = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}

// metricBuilder keeps the first instrument creation error so that a set of
// instruments can be built with one error check.
type metricBuilder struct {
	meter metric.Meter
	err   error
}

func newMetricBuilder(mt metric.Meter) *metricBuilder {
	return &metricBuilder{meter: mt}
}

func (b *metricBuilder) counter(name, desc, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return c
}

func (b *metricBuilder) histogram(name, desc, unit string, bounds ...float64) metric.Float64Histogram {
	opts := []metric.Float64HistogramOption{
		metric.WithDescription(desc),
		metric.WithUnit(unit),
	}

	if len(bounds) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(bounds...))
	}

	h, err := b.meter.Float64Histogram(name, opts...)
	b.setErr(name, err)

	return h
}

func (b *metricBuilder) upDownCounter(name, desc, unit string) metric.Int64UpDownCounter {
	c, err := b.meter.Int64UpDownCounter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return c
}

func (b *metricBuilder) setErr(name string, err error) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}
}

// REDMetrics holds the Rate, Error, Duration instruments for served requests.
type REDMetrics struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorsTotal      metric.Int64Counter
	inflightRequests metric.Int64UpDownCounter
}

// NewREDMetrics creates RED instruments from the given meter.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	b := newMetricBuilder(mt)

	rm := &REDMetrics{
		requestsTotal:    b.counter(metricRequestsTotal, "Total number of requests", "{request}"),
		requestDuration:  b.histogram(metricRequestDuration, "Request duration in seconds", "s", durationBucketBoundaries...),
		errorsTotal:      b.counter(metricErrorsTotal, "Total number of errors", "{error}"),
		inflightRequests: b.upDownCounter(metricInflightRequests, "Number of in-flight requests", "{request}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return rm, nil
}

// RecordRequest records a completed request.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requestsTotal.Add(ctx, 1, attrs)
	rm.requestDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
	}
}

// TrackInflight increments the in-flight gauge and returns its decrement.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightRequests.Add(ctx, 1, attrs)

	return func() {
		rm.inflightRequests.Add(ctx, -1, attrs)
	}
}

// WalkStats describes one completed history walk.
type WalkStats struct {
	Commits  int64
	Blobs    int64
	Duration time.Duration
}

// WalkMetrics holds the instruments describing history walks.
type WalkMetrics struct {
	commits  metric.Int64Counter
	blobs    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewWalkMetrics creates history walk instruments from the given meter.
func NewWalkMetrics(mt metric.Meter) (*WalkMetrics, error) {
	b := newMetricBuilder(mt)

	wm := &WalkMetrics{
		commits:  b.counter(metricWalkCommits, "Commits visited by history walks", "{commit}"),
		blobs:    b.counter(metricWalkBlobs, "Blob observations produced by history walks", "{blob}"),
		duration: b.histogram(metricWalkDuration, "History walk duration in seconds", "s", durationBucketBoundaries...),
	}

	if b.err != nil {
		return nil, b.err
	}

	return wm, nil
}

// RecordWalk records a completed walk. Safe to call on a nil receiver.
func (wm *WalkMetrics) RecordWalk(ctx context.Context, stats WalkStats) {
	if wm == nil {
		return
	}

	wm.commits.Add(ctx, stats.Commits)
	wm.blobs.Add(ctx, stats.Blobs)
	wm.duration.Record(ctx, stats.Duration.Seconds())
}
