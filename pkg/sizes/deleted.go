package sizes

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/KurtWeston/git-size/pkg/gitlib"
)

// DeletedFiles reports paths that appear somewhere in history but not in
// the snapshot at HEAD, largest first. The size reported for a path is the
// first one observed in walk order. When HEAD has no commits every path in
// history counts as deleted.
func (a *Analyzer) DeletedFiles(ctx context.Context, limit int) (files []FileAggregate, err error) {
	ctx, end := a.startOp(ctx, "deleted_files", attribute.Int("limit", limit))
	defer func() { end(err) }()

	current, err := a.headPaths(ctx)
	if err != nil {
		return nil, err
	}

	index := newOrderedIndex[FileAggregate]()

	for rec, walkErr := range a.WalkAllHistory(ctx) {
		if walkErr != nil {
			return nil, walkErr
		}

		if _, ok := current[rec.Path]; ok || index.get(rec.Path) != nil {
			continue
		}

		index.add(rec.Path, newFileAggregate(rec))
	}

	return rankBySize(index.items, limit), nil
}

// headPaths returns the set of file paths in the snapshot at HEAD.
func (a *Analyzer) headPaths(ctx context.Context) (map[string]struct{}, error) {
	paths := make(map[string]struct{})

	commit, err := a.repo.HeadCommit(ctx)
	if errors.Is(err, gitlib.ErrUnbornHead) {
		return paths, nil
	}

	if err != nil {
		return nil, err
	}
	defer commit.Free()

	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	defer tree.Free()

	err = gitlib.WalkBlobs(ctx, tree, func(path string, _ *gitlib.TreeEntry) error {
		paths[path] = struct{}{}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}
