package gitlib

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/KurtWeston/git-size/pkg/safeconv"
)

// packDirName is the pack directory relative to the git directory.
const packDirName = "objects/pack"

// Repository wraps a libgit2 repository.
type Repository struct {
	repo *git2go.Repository
	odb  *git2go.Odb
	path string
}

// Discover opens the repository containing path, searching ancestor
// directories the way git itself does. It fails with ErrNotARepository when
// no repository is found.
func Discover(path string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotARepository, path, err)
	}

	gitDir, err := git2go.Discover(abs, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotARepository, path)
	}

	return OpenRepository(gitDir)
}

// OpenRepository opens a git repository at the given path without searching
// parent directories.
func OpenRepository(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotARepository, path, err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// Reopen returns an independent handle on the same repository. libgit2
// handles must not be shared across goroutines, so each worker opens its own.
func (r *Repository) Reopen() (*Repository, error) {
	return OpenRepository(r.GitDir())
}

// Path returns the path the repository was opened with.
func (r *Repository) Path() string {
	return r.path
}

// GitDir returns the repository's internal metadata directory.
func (r *Repository) GitDir() string {
	return filepath.Clean(r.repo.Path())
}

// Workdir returns the working tree root, or "" for a bare repository.
func (r *Repository) Workdir() string {
	wd := r.repo.Workdir()
	if wd == "" {
		return ""
	}

	return filepath.Clean(wd)
}

// PackDir returns the directory holding the repository's pack files.
func (r *Repository) PackDir() string {
	return filepath.Join(r.GitDir(), filepath.FromSlash(packDirName))
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.odb != nil {
		r.odb.Free()
		r.odb = nil
	}

	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// HeadCommit returns the commit at the tip of the active reference.
// It returns ErrUnbornHead when HEAD names a branch without commits.
func (r *Repository) HeadCommit(ctx context.Context) (*Commit, error) {
	unborn, err := r.repo.IsHeadUnborn()
	if err != nil {
		return nil, storeReadError("resolve HEAD", err)
	}

	if unborn {
		return nil, ErrUnbornHead
	}

	ref, err := r.repo.Head()
	if err != nil {
		return nil, storeReadError("resolve HEAD", err)
	}
	defer ref.Free()

	return r.LookupCommit(ctx, HashFromOid(ref.Target()))
}

// LookupCommit returns the commit with the given hash.
func (r *Repository) LookupCommit(_ context.Context, hash Hash) (*Commit, error) {
	commit, err := r.repo.LookupCommit(hash.ToOid())
	if err != nil {
		return nil, storeReadError("lookup commit "+hash.String(), err)
	}

	return &Commit{commit: commit, repo: r}, nil
}

// LookupTree returns the tree with the given hash.
func (r *Repository) LookupTree(hash Hash) (*Tree, error) {
	tree, err := r.repo.LookupTree(hash.ToOid())
	if err != nil {
		return nil, storeReadError("lookup tree "+hash.String(), err)
	}

	return &Tree{tree: tree, repo: r}, nil
}

// BlobSize returns the decompressed size of the blob with the given hash.
// Only the object header is read; the content is never inflated.
func (r *Repository) BlobSize(hash Hash) (int64, error) {
	if r.odb == nil {
		odb, err := r.repo.Odb()
		if err != nil {
			return 0, storeReadError("open object database", err)
		}

		r.odb = odb
	}

	size, objType, err := r.odb.ReadHeader(hash.ToOid())
	if err != nil {
		return 0, storeReadError("read blob header "+hash.String(), err)
	}

	if objType != git2go.ObjectBlob {
		return 0, fmt.Errorf("read blob header %s: %w: object is a %s", hash, ErrStoreRead, objType)
	}

	return safeconv.MustUint64ToInt64(size), nil
}

// NewWalk creates a revision walker with no starting points.
func (r *Repository) NewWalk() (*RevWalk, error) {
	walk, err := r.repo.Walk()
	if err != nil {
		return nil, storeReadError("create revwalk", err)
	}

	return &RevWalk{walk: walk, repo: r}, nil
}

// BranchCount returns the number of local branches.
func (r *Repository) BranchCount() (int, error) {
	iter, err := r.repo.NewBranchIterator(git2go.BranchLocal)
	if err != nil {
		return 0, storeReadError("list branches", err)
	}
	defer iter.Free()

	count := 0

	err = iter.ForEach(func(_ *git2go.Branch, _ git2go.BranchType) error {
		count++

		return nil
	})
	if err != nil {
		return 0, storeReadError("list branches", err)
	}

	return count, nil
}

// IsInternalPath reports whether a working-tree path belongs to the
// repository's metadata directory.
func (r *Repository) IsInternalPath(path string) bool {
	gitDir := r.GitDir()
	clean := filepath.Clean(path)

	return clean == gitDir || strings.HasPrefix(clean, gitDir+string(filepath.Separator))
}
