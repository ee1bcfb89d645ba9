// Package sizes walks the complete history of a repository and folds every
// observed blob into size reports: largest files, heaviest directories,
// deleted files that still occupy history, and large-file-storage candidates.
package sizes

import "github.com/KurtWeston/git-size/pkg/gitlib"

// RootDirectory is the directory name reported for files at the repository root.
const RootDirectory = "(root)"

// BlobRecord is one observation of a file at one commit.
type BlobRecord struct {
	// Path is slash-separated and relative to the repository root.
	Path string
	// Size is the decompressed blob length in bytes.
	Size int64
	// Hash identifies the blob content.
	Hash gitlib.Hash
	// Commit identifies the commit whose snapshot contained the blob.
	Commit gitlib.Hash
}

// FileAggregate is the representative observation chosen for a path.
type FileAggregate struct {
	Path   string
	Size   int64
	Hash   gitlib.Hash
	Commit gitlib.Hash
}

// DirectoryAggregate is the summed size of every observation under a directory.
type DirectoryAggregate struct {
	Path string
	Size int64
}

// RepositoryStats summarizes the physical footprint of a repository.
type RepositoryStats struct {
	PackSize        int64
	PackCount       int
	WorkingTreeSize int64
	CommitCount     int
	BranchCount     int
}

func newFileAggregate(rec BlobRecord) FileAggregate {
	return FileAggregate{Path: rec.Path, Size: rec.Size, Hash: rec.Hash, Commit: rec.Commit}
}
