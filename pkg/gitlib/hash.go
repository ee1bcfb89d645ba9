// Package gitlib provides read-only access to a git object store using libgit2.
package gitlib

import (
	"encoding/hex"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

const (
	// HashSize is the size of a SHA-1 hash in bytes.
	HashSize = 20
	// HashHexSize is the size of a hex-encoded SHA-1 hash.
	HashHexSize = 40
	// ShortHexSize is the length of the abbreviated hash shown to users.
	ShortHexSize = 8
)

// Hash represents a git object hash (SHA-1).
type Hash [HashSize]byte

// ParseHash decodes a full 40-character hex hash.
func ParseHash(hexStr string) (Hash, error) {
	var h Hash

	if len(hexStr) != HashHexSize {
		return h, fmt.Errorf("parse hash %q: want %d hex characters", hexStr, HashHexSize)
	}

	_, err := hex.Decode(h[:], []byte(hexStr))
	if err != nil {
		return Hash{}, fmt.Errorf("parse hash %q: %w", hexStr, err)
	}

	return h, nil
}

// HashFromOid converts a libgit2 Oid to Hash.
func HashFromOid(oid *git2go.Oid) Hash {
	var h Hash
	if oid != nil {
		copy(h[:], oid[:])
	}

	return h
}

// String returns the full hex representation of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the abbreviated hex form used as a display token.
func (h Hash) Short() string {
	return h.String()[:ShortHexSize]
}

// IsZero reports whether the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// ToOid converts Hash back to a libgit2 Oid.
func (h Hash) ToOid() *git2go.Oid {
	oid := new(git2go.Oid)
	copy(oid[:], h[:])

	return oid
}
