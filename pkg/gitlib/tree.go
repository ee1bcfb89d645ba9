package gitlib

import (
	"context"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// Tree wraps a libgit2 tree.
type Tree struct {
	tree *git2go.Tree
	repo *Repository
}

// Hash returns the tree hash.
func (t *Tree) Hash() Hash {
	return HashFromOid(t.tree.Id())
}

// EntryCount returns the number of entries in the tree.
func (t *Tree) EntryCount() uint64 {
	return t.tree.EntryCount()
}

// EntryByIndex returns the tree entry at the given index.
func (t *Tree) EntryByIndex(i uint64) *TreeEntry {
	entry := t.tree.EntryByIndex(i)
	if entry == nil {
		return nil
	}

	return &TreeEntry{entry: entry}
}

// Free releases the tree resources.
func (t *Tree) Free() {
	if t.tree != nil {
		t.tree.Free()
		t.tree = nil
	}
}

// TreeEntry wraps a libgit2 tree entry.
type TreeEntry struct {
	entry *git2go.TreeEntry
}

// Name returns the entry name.
func (e *TreeEntry) Name() string {
	return e.entry.Name
}

// Hash returns the entry object hash.
func (e *TreeEntry) Hash() Hash {
	return HashFromOid(e.entry.Id)
}

// IsBlob reports whether the entry is a file (regular, executable or symlink).
func (e *TreeEntry) IsBlob() bool {
	return e.entry.Type == git2go.ObjectBlob
}

// IsTree reports whether the entry is a subdirectory.
func (e *TreeEntry) IsTree() bool {
	return e.entry.Type == git2go.ObjectTree
}

// WalkBlobs visits every blob under tree in stored (name-sorted) order,
// descending into subdirectories. Paths are slash-separated and relative to
// tree. Submodule entries are skipped. A subtree that cannot be read aborts
// the walk with ErrStoreRead.
func WalkBlobs(ctx context.Context, tree *Tree, cb func(path string, entry *TreeEntry) error) error {
	return walkBlobs(ctx, tree.repo, tree, "", cb)
}

func walkBlobs(ctx context.Context, repo *Repository, tree *Tree, prefix string, cb func(string, *TreeEntry) error) error {
	count := tree.EntryCount()

	for i := range count {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("walk tree: %w", err)
		}

		entry := tree.EntryByIndex(i)
		if entry == nil {
			return fmt.Errorf("walk tree %s: %w: entry %d missing", tree.Hash(), ErrStoreRead, i)
		}

		err := visitEntry(ctx, repo, entry, prefix, cb)
		if err != nil {
			return err
		}
	}

	return nil
}

// visitEntry calls cb for blobs and recurses into subtrees.
func visitEntry(ctx context.Context, repo *Repository, entry *TreeEntry, prefix string, cb func(string, *TreeEntry) error) error {
	path := entry.Name()
	if prefix != "" {
		path = prefix + "/" + path
	}

	if entry.IsBlob() {
		return cb(path, entry)
	}

	if !entry.IsTree() {
		return nil
	}

	subtree, err := repo.LookupTree(entry.Hash())
	if err != nil {
		return fmt.Errorf("walk %s: %w", path, err)
	}
	defer subtree.Free()

	return walkBlobs(ctx, repo, subtree, path, cb)
}
