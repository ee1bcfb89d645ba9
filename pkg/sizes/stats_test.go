package sizes_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KurtWeston/git-size/pkg/gitlib/gitlibtest"
	"github.com/KurtWeston/git-size/pkg/sizes"
)

func TestCollectStatsOnDisk(t *testing.T) {
	t.Parallel()

	tr := gitlibtest.New(t)
	head := tr.Commit(gitlibtest.HeadRef, map[string]string{"a.txt": "a"}, "one")
	tr.Commit(gitlibtest.HeadRef, map[string]string{"a.txt": "b"}, "two")
	tr.Branch("feature", head)
	tr.WriteWorkFile("a.txt", gitlibtest.Content(120, 'a'))
	tr.WriteWorkFile("nested/b.bin", gitlibtest.Content(30, 'b'))

	stats, err := newAnalyzer(t, tr, 1).CollectStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sizes.RepositoryStats{
		PackSize:        0,
		PackCount:       0,
		WorkingTreeSize: 150,
		CommitCount:     2,
		BranchCount:     2,
	}, stats)
}

func TestCollectStatsMemFs(t *testing.T) {
	t.Parallel()

	tr := gitlibtest.New(t)
	tr.Commit(gitlibtest.HeadRef, map[string]string{"a.txt": "a"}, "one")

	repo := tr.Open()
	fs := afero.NewMemMapFs()

	write := func(path string, size int) {
		require.NoError(t, afero.WriteFile(fs, path, []byte(gitlibtest.Content(size, 'x')), 0o644))
	}

	packDir := repo.PackDir()
	write(filepath.Join(packDir, "pack-1.pack"), 4096)
	write(filepath.Join(packDir, "pack-1.idx"), 512)
	write(filepath.Join(packDir, "pack-2.pack"), 1024)
	require.NoError(t, fs.MkdirAll(filepath.Join(packDir, "sub.pack"), 0o755))

	work := repo.Workdir()
	write(filepath.Join(work, "README.md"), 100)
	write(filepath.Join(work, "src", "main.go"), 250)
	write(filepath.Join(work, "vendor", "mod", ".git", "HEAD"), 999)
	write(filepath.Join(repo.GitDir(), "config"), 999)

	analyzer := sizes.New(repo, sizes.Options{Fs: fs})

	stats, err := analyzer.CollectStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5120), stats.PackSize)
	assert.Equal(t, 2, stats.PackCount)
	assert.Equal(t, int64(350), stats.WorkingTreeSize)
	assert.Equal(t, 1, stats.CommitCount)
	assert.Equal(t, 1, stats.BranchCount)
}

func TestCollectStatsEmptyRepository(t *testing.T) {
	t.Parallel()

	tr := gitlibtest.New(t)
	repo := tr.Open()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(repo.Workdir(), 0o755))

	stats, err := sizes.New(repo, sizes.Options{Fs: fs}).CollectStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sizes.RepositoryStats{}, stats)
}
