package sizes

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// LargeFileCandidates reports every path that reached at least threshold
// bytes in any commit, largest first. The representative for a path is its
// first qualifying observation. The result is never truncated.
func (a *Analyzer) LargeFileCandidates(ctx context.Context, threshold int64) (files []FileAggregate, err error) {
	ctx, end := a.startOp(ctx, "large_file_candidates", attribute.Int64("threshold", threshold))
	defer func() { end(err) }()

	index := newOrderedIndex[FileAggregate]()

	for rec, walkErr := range a.WalkAllHistory(ctx) {
		if walkErr != nil {
			return nil, walkErr
		}

		if rec.Size < threshold || index.get(rec.Path) != nil {
			continue
		}

		index.add(rec.Path, newFileAggregate(rec))
	}

	return rankBySize(index.items, 0), nil
}
