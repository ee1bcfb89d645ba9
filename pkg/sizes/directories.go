package sizes

import (
	"context"
	"path"

	"go.opentelemetry.io/otel/attribute"
)

// LargestDirectories sums the size of every observation into its immediate
// parent directory and reports the heaviest directories first. Files at the
// top level are credited to RootDirectory. A file present in many commits
// is counted once per commit.
func (a *Analyzer) LargestDirectories(ctx context.Context, limit int) (dirs []DirectoryAggregate, err error) {
	ctx, end := a.startOp(ctx, "largest_directories", attribute.Int("limit", limit))
	defer func() { end(err) }()

	index := newOrderedIndex[DirectoryAggregate]()

	for rec, walkErr := range a.WalkAllHistory(ctx) {
		if walkErr != nil {
			return nil, walkErr
		}

		dir := parentDirectory(rec.Path)

		total := index.get(dir)
		if total == nil {
			index.add(dir, DirectoryAggregate{Path: dir, Size: rec.Size})

			continue
		}

		total.Size += rec.Size
	}

	return rankBySize(index.items, limit), nil
}

func parentDirectory(p string) string {
	dir := path.Dir(p)
	if dir == "." {
		return RootDirectory
	}

	return dir
}
