package gitlib

import (
	"errors"
	"fmt"
)

var (
	// ErrNotARepository is returned when neither the given path nor any of its
	// ancestors is a git repository.
	ErrNotARepository = errors.New("not a git repository")

	// ErrStoreRead is returned when the object graph cannot be read: a broken
	// reference, a missing object, or a corrupt tree.
	ErrStoreRead = errors.New("object store read failed")

	// ErrUnbornHead is returned when HEAD points at a branch with no commits.
	ErrUnbornHead = errors.New("HEAD has no commits")
)

// storeReadError wraps a libgit2 failure so that callers can match it with
// errors.Is(err, ErrStoreRead) while keeping the original cause in the chain.
func storeReadError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreRead, err)
}
