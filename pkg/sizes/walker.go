package sizes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KurtWeston/git-size/pkg/gitlib"
	"github.com/KurtWeston/git-size/pkg/observability"
)

// windowPerWorker is the number of commits each worker resolves before the
// window is flushed to the consumer in walk order.
const windowPerWorker = 8

// errStopWalk ends a walk early when the consumer stops ranging.
var errStopWalk = errors.New("walk stopped by consumer")

type walkStats struct {
	commits int64
	blobs   int64
}

// WalkAllHistory yields a BlobRecord for every file in the snapshot of every
// commit reachable from any reference or HEAD. Commits come newest first and
// each is visited once; files come in tree order. The sequence is single-use:
// range over it once per analysis. A store or context failure is yielded as
// the final element with a zero record.
func (a *Analyzer) WalkAllHistory(ctx context.Context) iter.Seq2[BlobRecord, error] {
	return func(yield func(BlobRecord, error) bool) {
		err := a.walkHistory(ctx, func(rec BlobRecord) error {
			if !yield(rec, nil) {
				return errStopWalk
			}

			return nil
		})
		if err != nil && !errors.Is(err, errStopWalk) {
			yield(BlobRecord{}, err)
		}
	}
}

// walkHistory pushes every record to visit and stops at the first error.
func (a *Analyzer) walkHistory(ctx context.Context, visit func(BlobRecord) error) error {
	start := time.Now()

	var stats walkStats

	counted := func(rec BlobRecord) error {
		stats.blobs++

		return visit(rec)
	}

	walk, err := a.repo.NewWalk()
	if err != nil {
		return err
	}
	defer walk.Free()

	err = walk.PushAllRefs()
	if err != nil {
		return err
	}

	a.logger.DebugContext(ctx, "history walk started", "workers", a.workers)

	if a.workers > 1 {
		err = a.walkParallel(ctx, walk, counted, &stats)
	} else {
		err = a.walkSequential(ctx, walk, counted, &stats)
	}

	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	a.metrics.RecordWalk(ctx, observability.WalkStats{
		Commits:  stats.commits,
		Blobs:    stats.blobs,
		Duration: elapsed,
	})

	a.logger.DebugContext(ctx, "history walk finished",
		"commits", stats.commits,
		"blobs", stats.blobs,
		"duration", elapsed,
	)

	return nil
}

func (a *Analyzer) walkSequential(
	ctx context.Context, walk *gitlib.RevWalk, visit func(BlobRecord) error, stats *walkStats,
) error {
	resolver := newSnapshotResolver(a.repo)

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("walk history: %w", err)
		}

		hash, err := walk.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		stats.commits++

		err = resolver.each(ctx, hash, visit)
		if err != nil {
			return err
		}
	}
}

// walkParallel resolves windows of commits concurrently, one repository
// handle per worker, then replays each window in walk order so that the
// consumer sees exactly the sequential stream.
func (a *Analyzer) walkParallel(
	ctx context.Context, walk *gitlib.RevWalk, visit func(BlobRecord) error, stats *walkStats,
) error {
	resolvers := make([]*snapshotResolver, a.workers)

	for i := range resolvers {
		handle, err := a.repo.Reopen()
		if err != nil {
			return err
		}
		defer handle.Free()

		resolvers[i] = newSnapshotResolver(handle)
	}

	window := make([]gitlib.Hash, 0, a.workers*windowPerWorker)

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("walk history: %w", err)
		}

		window = window[:0]
		exhausted := false

		for len(window) < cap(window) {
			hash, err := walk.Next()
			if errors.Is(err, io.EOF) {
				exhausted = true

				break
			}

			if err != nil {
				return err
			}

			window = append(window, hash)
		}

		err := flushWindow(ctx, resolvers, window, visit)
		if err != nil {
			return err
		}

		stats.commits += int64(len(window))

		if exhausted {
			return nil
		}
	}
}

func flushWindow(ctx context.Context, resolvers []*snapshotResolver, window []gitlib.Hash, visit func(BlobRecord) error) error {
	snapshots := make([][]BlobRecord, len(window))

	g, gctx := errgroup.WithContext(ctx)

	for w, resolver := range resolvers {
		g.Go(func() error {
			for i := w; i < len(window); i += len(resolvers) {
				recs, err := resolver.collect(gctx, window[i])
				if err != nil {
					return err
				}

				snapshots[i] = recs
			}

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return err
	}

	for _, recs := range snapshots {
		for _, rec := range recs {
			err = visit(rec)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// snapshotResolver flattens commit snapshots into records. Blob sizes are
// memoized by content hash for the lifetime of one walk. A resolver is not
// safe for concurrent use.
type snapshotResolver struct {
	repo  *gitlib.Repository
	sizes map[gitlib.Hash]int64
}

func newSnapshotResolver(repo *gitlib.Repository) *snapshotResolver {
	return &snapshotResolver{repo: repo, sizes: make(map[gitlib.Hash]int64)}
}

func (r *snapshotResolver) each(ctx context.Context, commitHash gitlib.Hash, visit func(BlobRecord) error) error {
	commit, err := r.repo.LookupCommit(ctx, commitHash)
	if err != nil {
		return err
	}
	defer commit.Free()

	tree, err := commit.Tree()
	if err != nil {
		return err
	}
	defer tree.Free()

	return gitlib.WalkBlobs(ctx, tree, func(path string, entry *gitlib.TreeEntry) error {
		blob := entry.Hash()

		size, sizeErr := r.blobSize(blob)
		if sizeErr != nil {
			return fmt.Errorf("%s at %s: %w", path, commitHash.Short(), sizeErr)
		}

		return visit(BlobRecord{Path: path, Size: size, Hash: blob, Commit: commitHash})
	})
}

func (r *snapshotResolver) collect(ctx context.Context, commitHash gitlib.Hash) ([]BlobRecord, error) {
	var recs []BlobRecord

	err := r.each(ctx, commitHash, func(rec BlobRecord) error {
		recs = append(recs, rec)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return recs, nil
}

func (r *snapshotResolver) blobSize(hash gitlib.Hash) (int64, error) {
	if size, ok := r.sizes[hash]; ok {
		return size, nil
	}

	size, err := r.repo.BlobSize(hash)
	if err != nil {
		return 0, err
	}

	r.sizes[hash] = size

	return size, nil
}
