package sizes

import (
	"context"
	"log/slog"

	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/KurtWeston/git-size/pkg/gitlib"
	"github.com/KurtWeston/git-size/pkg/observability"
)

// spanPrefix is the prefix of every operation span.
const spanPrefix = "gitsize."

// Options tunes an Analyzer. The zero value is a sequential walk with no
// telemetry on the host filesystem.
type Options struct {
	// Workers is the number of goroutines resolving commit snapshots.
	// Values below 2 select the sequential walk.
	Workers int

	// Logger receives debug-level walk progress.
	Logger *slog.Logger

	// Tracer opens one span per operation.
	Tracer trace.Tracer

	// Metrics records walk counters. Nil disables recording.
	Metrics *observability.WalkMetrics

	// Fs is the filesystem used by CollectStats.
	Fs afero.Fs
}

// Analyzer answers size questions about one repository. Every operation
// re-walks history and keeps no state between calls.
type Analyzer struct {
	repo    *gitlib.Repository
	workers int
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.WalkMetrics
	fs      afero.Fs
}

// New creates an Analyzer over repo.
func New(repo *gitlib.Repository, opts Options) *Analyzer {
	a := &Analyzer{
		repo:    repo,
		workers: max(opts.Workers, 1),
		logger:  opts.Logger,
		tracer:  opts.Tracer,
		metrics: opts.Metrics,
		fs:      opts.Fs,
	}

	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}

	if a.tracer == nil {
		a.tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	if a.fs == nil {
		a.fs = afero.NewOsFs()
	}

	return a
}

// startOp opens the span for an operation. The returned function ends it,
// marking the span failed when err is non-nil.
func (a *Analyzer) startOp(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := a.tracer.Start(ctx, spanPrefix+op, trace.WithAttributes(attrs...))

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()
	}
}
