package sizes

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// LargestFiles reports the largest size each path ever reached, largest
// first. Observations smaller than minSize are ignored, and when extensions
// is non-empty only paths ending in one of them (case-sensitive) count.
// Among equal sizes for the same path the first observation is kept.
func (a *Analyzer) LargestFiles(ctx context.Context, limit int, minSize int64, extensions []string) (files []FileAggregate, err error) {
	ctx, end := a.startOp(ctx, "largest_files",
		attribute.Int("limit", limit),
		attribute.Int64("min_size", minSize),
		attribute.StringSlice("extensions", extensions),
	)
	defer func() { end(err) }()

	index := newOrderedIndex[FileAggregate]()

	for rec, walkErr := range a.WalkAllHistory(ctx) {
		if walkErr != nil {
			return nil, walkErr
		}

		if rec.Size < minSize || !hasAnySuffix(rec.Path, extensions) {
			continue
		}

		best := index.get(rec.Path)
		if best == nil {
			index.add(rec.Path, newFileAggregate(rec))

			continue
		}

		if rec.Size > best.Size {
			*best = newFileAggregate(rec)
		}
	}

	return rankBySize(index.items, limit), nil
}

func hasAnySuffix(path string, suffixes []string) bool {
	if len(suffixes) == 0 {
		return true
	}

	for _, suffix := range suffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}

	return false
}
