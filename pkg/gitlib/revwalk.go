package gitlib

import (
	"context"
	"errors"
	"fmt"
	"io"

	git2go "github.com/libgit2/git2go/v34"
)

// RevWalk wraps a libgit2 revision walker.
type RevWalk struct {
	walk *git2go.RevWalk
	repo *Repository
}

// PushAllRefs seeds the walk with every reference under refs/ plus HEAD, and
// selects a stable newest-first topological order. References whose target
// peels to a non-commit (for example a tag on a blob) are skipped, while a
// reference whose target object is missing fails with ErrStoreRead.
// Each reachable commit is produced exactly once no matter how many
// references reach it.
func (w *RevWalk) PushAllRefs() error {
	iter, err := w.repo.repo.NewReferenceIterator()
	if err != nil {
		return storeReadError("list references", err)
	}
	defer iter.Free()

	for {
		ref, nextErr := iter.Next()
		if git2go.IsErrorCode(nextErr, git2go.ErrorCodeIterOver) {
			break
		}

		if nextErr != nil {
			return storeReadError("list references", nextErr)
		}

		err = w.pushReference(ref)
		ref.Free()

		if err != nil {
			return err
		}
	}

	unborn, err := w.repo.repo.IsHeadUnborn()
	if err != nil {
		return storeReadError("resolve HEAD", err)
	}

	// A detached HEAD is not covered by refs/.
	if !unborn {
		err = w.walk.PushHead()
		if err != nil {
			return storeReadError("push HEAD to revwalk", err)
		}
	}

	w.walk.Sorting(git2go.SortTime | git2go.SortTopological)

	return nil
}

// pushReference pushes the commit a reference ultimately points at.
func (w *RevWalk) pushReference(ref *git2go.Reference) error {
	name := ref.Name()

	resolved, err := ref.Resolve()
	if err != nil {
		return storeReadError("resolve reference "+name, err)
	}
	defer resolved.Free()

	target := resolved.Target()
	if target == nil {
		return fmt.Errorf("resolve reference %s: %w: no target", name, ErrStoreRead)
	}

	obj, err := w.repo.repo.Lookup(target)
	if err != nil {
		return storeReadError("read target of "+name, err)
	}
	defer obj.Free()

	peeled, err := obj.Peel(git2go.ObjectCommit)
	if git2go.IsErrorCode(err, git2go.ErrorCodeInvalidSpec) || git2go.IsErrorCode(err, git2go.ErrorCodePeel) {
		return nil
	}

	if err != nil {
		return storeReadError("peel "+name, err)
	}
	defer peeled.Free()

	return w.Push(HashFromOid(peeled.Id()))
}

// Push adds a commit to start walking from.
func (w *RevWalk) Push(hash Hash) error {
	err := w.walk.Push(hash.ToOid())
	if err != nil {
		return storeReadError("push to revwalk", err)
	}

	return nil
}

// Next returns the next commit hash in the walk, or io.EOF when the walk is
// exhausted.
func (w *RevWalk) Next() (Hash, error) {
	oid := new(git2go.Oid)

	err := w.walk.Next(oid)
	if git2go.IsErrorCode(err, git2go.ErrorCodeIterOver) {
		return Hash{}, io.EOF
	}

	if err != nil {
		return Hash{}, storeReadError("revwalk next", err)
	}

	return HashFromOid(oid), nil
}

// Count drains the walk and returns the number of commits it produced.
func (w *RevWalk) Count(ctx context.Context) (int, error) {
	count := 0

	for {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("count commits: %w", err)
		}

		_, err := w.Next()
		if errors.Is(err, io.EOF) {
			return count, nil
		}

		if err != nil {
			return 0, err
		}

		count++
	}
}

// Free releases the walker resources.
func (w *RevWalk) Free() {
	if w.walk != nil {
		w.walk.Free()
		w.walk = nil
	}
}
