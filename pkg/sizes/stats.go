package sizes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	packSuffix = ".pack"
	gitDirName = ".git"
)

// CollectStats measures pack files, the working tree, commits and local
// branches. It does not descend into commit snapshots.
func (a *Analyzer) CollectStats(ctx context.Context) (stats RepositoryStats, err error) {
	ctx, end := a.startOp(ctx, "stats")
	defer func() { end(err) }()

	stats.PackSize, stats.PackCount, err = packUsage(a.fs, a.repo.PackDir())
	if err != nil {
		return RepositoryStats{}, err
	}

	stats.WorkingTreeSize, err = a.workingTreeSize(ctx)
	if err != nil {
		return RepositoryStats{}, err
	}

	stats.CommitCount, err = a.countCommits(ctx)
	if err != nil {
		return RepositoryStats{}, err
	}

	stats.BranchCount, err = a.repo.BranchCount()
	if err != nil {
		return RepositoryStats{}, err
	}

	a.logger.DebugContext(ctx, "repository stats collected",
		"packs", stats.PackCount,
		"commits", stats.CommitCount,
		"branches", stats.BranchCount,
	)

	return stats, nil
}

// packUsage sums the *.pack files directly inside dir. A missing directory
// reports zero.
func packUsage(fsys afero.Fs, dir string) (total int64, count int, err error) {
	entries, err := afero.ReadDir(fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, 0, nil
	}

	if err != nil {
		return 0, 0, fmt.Errorf("read pack directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.Mode().IsRegular() || !strings.HasSuffix(entry.Name(), packSuffix) {
			continue
		}

		total += entry.Size()
		count++
	}

	return total, count, nil
}

// workingTreeSize sums regular files under the work directory, skipping the
// repository metadata and any nested .git directory. Bare repositories
// report zero.
func (a *Analyzer) workingTreeSize(ctx context.Context) (int64, error) {
	root := a.repo.Workdir()
	if root == "" {
		return 0, nil
	}

	var total int64

	err := afero.Walk(a.fs, root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if info.IsDir() {
			if info.Name() == gitDirName || a.repo.IsInternalPath(path) {
				return filepath.SkipDir
			}

			return nil
		}

		if info.Mode().IsRegular() {
			total += info.Size()
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("measure working tree: %w", err)
	}

	return total, nil
}

func (a *Analyzer) countCommits(ctx context.Context) (int, error) {
	walk, err := a.repo.NewWalk()
	if err != nil {
		return 0, err
	}
	defer walk.Free()

	err = walk.PushAllRefs()
	if err != nil {
		return 0, err
	}

	return walk.Count(ctx)
}
