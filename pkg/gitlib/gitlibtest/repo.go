// Package gitlibtest builds throwaway git repositories for tests.
package gitlibtest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/require"

	"github.com/KurtWeston/git-size/pkg/gitlib"
)

// HeadRef names the currently checked-out reference in Commit calls.
const HeadRef = "HEAD"

// Repo is a temporary non-bare repository. Commits are built from explicit
// snapshots, so the working tree is only touched by WriteWorkFile.
type Repo struct {
	t      testing.TB
	Path   string
	native *git2go.Repository
	clock  time.Time
}

// New initializes an empty repository in a temporary directory.
func New(t testing.TB) *Repo {
	t.Helper()

	dir := t.TempDir()

	native, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	t.Cleanup(native.Free)

	return &Repo{
		t:      t,
		Path:   dir,
		native: native,
		clock:  time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Content returns a string of exactly n bytes.
func Content(n int, fill byte) string {
	return strings.Repeat(string(fill), n)
}

// Commit records files as the complete snapshot of a new commit on ref
// (HeadRef or a full reference name such as "refs/heads/feature"). The
// current tip of ref, if any, becomes the parent. Each commit is one minute
// newer than the previous one so that walk order is predictable.
func (r *Repo) Commit(ref string, files map[string]string, message string) gitlib.Hash {
	r.t.Helper()

	index, err := git2go.NewIndex()
	require.NoError(r.t, err)

	defer index.Free()

	for path, content := range files {
		blobID, blobErr := r.native.CreateBlobFromBuffer([]byte(content))
		require.NoError(r.t, blobErr)

		addErr := index.Add(&git2go.IndexEntry{
			Path: path,
			Id:   blobID,
			Mode: git2go.FilemodeBlob,
		})
		require.NoError(r.t, addErr)
	}

	treeID, err := index.WriteTreeTo(r.native)
	require.NoError(r.t, err)

	tree, err := r.native.LookupTree(treeID)
	require.NoError(r.t, err)

	defer tree.Free()

	r.clock = r.clock.Add(time.Minute)
	sig := &git2go.Signature{Name: "Test User", Email: "test@example.com", When: r.clock}

	var parents []*git2go.Commit

	if parent := r.tip(ref); parent != nil {
		parents = append(parents, parent)

		defer parent.Free()
	}

	oid, err := r.native.CreateCommit(ref, sig, sig, message, tree, parents...)
	require.NoError(r.t, err)

	return gitlib.HashFromOid(oid)
}

func (r *Repo) tip(ref string) *git2go.Commit {
	var (
		reference *git2go.Reference
		err       error
	)

	if ref == HeadRef {
		reference, err = r.native.Head()
	} else {
		reference, err = r.native.References.Lookup(ref)
	}

	if err != nil {
		return nil
	}
	defer reference.Free()

	commit, err := r.native.LookupCommit(reference.Target())
	require.NoError(r.t, err)

	return commit
}

// Branch creates a local branch pointing at the given commit.
func (r *Repo) Branch(name string, at gitlib.Hash) {
	r.t.Helper()

	commit, err := r.native.LookupCommit(at.ToOid())
	require.NoError(r.t, err)

	defer commit.Free()

	branch, err := r.native.CreateBranch(name, commit, false)
	require.NoError(r.t, err)

	branch.Free()
}

// Tag creates a lightweight tag pointing at the given commit.
func (r *Repo) Tag(name string, at gitlib.Hash) {
	r.t.Helper()

	commit, err := r.native.LookupCommit(at.ToOid())
	require.NoError(r.t, err)

	defer commit.Free()

	_, err = r.native.Tags.CreateLightweight(name, commit, false)
	require.NoError(r.t, err)
}

// Detach points HEAD directly at a commit.
func (r *Repo) Detach(at gitlib.Hash) {
	r.t.Helper()

	require.NoError(r.t, r.native.SetHeadDetached(at.ToOid()))
}

// WriteWorkFile writes a file into the working tree without staging it.
func (r *Repo) WriteWorkFile(name, content string) {
	r.t.Helper()

	path := filepath.Join(r.Path, filepath.FromSlash(name))
	require.NoError(r.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(r.t, os.WriteFile(path, []byte(content), 0o644))
}

// BlobHash returns the hash git assigns to content.
func (r *Repo) BlobHash(content string) gitlib.Hash {
	r.t.Helper()

	oid, err := r.native.CreateBlobFromBuffer([]byte(content))
	require.NoError(r.t, err)

	return gitlib.HashFromOid(oid)
}

// RemoveObject deletes a loose object from the store, simulating corruption.
func (r *Repo) RemoveObject(hash gitlib.Hash) {
	r.t.Helper()

	hex := hash.String()
	path := filepath.Join(r.native.Path(), "objects", hex[:2], hex[2:])
	require.NoError(r.t, os.Remove(path))
}

// SubtreeHash returns the hash of the directory at dir in a commit's snapshot.
func (r *Repo) SubtreeHash(commit gitlib.Hash, dir string) gitlib.Hash {
	r.t.Helper()

	c, err := r.native.LookupCommit(commit.ToOid())
	require.NoError(r.t, err)

	defer c.Free()

	tree, err := c.Tree()
	require.NoError(r.t, err)

	defer tree.Free()

	entry, err := tree.EntryByPath(dir)
	require.NoError(r.t, err)
	require.Equal(r.t, git2go.ObjectTree, entry.Type)

	return gitlib.HashFromOid(entry.Id)
}

// WriteRef writes a loose reference file pointing at target without checking
// that the object exists. name is a full reference name such as
// "refs/heads/dangling".
func (r *Repo) WriteRef(name string, target gitlib.Hash) {
	r.t.Helper()

	path := filepath.Join(r.native.Path(), filepath.FromSlash(name))
	require.NoError(r.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(r.t, os.WriteFile(path, []byte(target.String()+"\n"), 0o644))
}

// Open returns a gitlib handle on the repository, freed at test cleanup.
func (r *Repo) Open() *gitlib.Repository {
	r.t.Helper()

	repo, err := gitlib.Discover(r.Path)
	require.NoError(r.t, err)

	r.t.Cleanup(repo.Free)

	return repo
}
