package report

import (
	"path"

	"github.com/dustin/go-humanize"
	"github.com/src-d/enry/v2"

	"github.com/KurtWeston/git-size/pkg/sizes"
)

const (
	kindVendored = "vendored"
	kindUnknown  = "-"
)

// FileRecord is the serialized form of a sizes.FileAggregate. Hashes are
// abbreviated to 8 hex characters.
type FileRecord struct {
	Path      string `json:"path"       yaml:"path"`
	Size      int64  `json:"size"       yaml:"size"`
	SizeHuman string `json:"size_human" yaml:"size_human"`
	SHA       string `json:"sha"        yaml:"sha"`
	Commit    string `json:"commit"     yaml:"commit"`
	Kind      string `json:"kind"       yaml:"kind"`
}

// DirectoryRecord is the serialized form of a sizes.DirectoryAggregate.
type DirectoryRecord struct {
	Path      string `json:"path"       yaml:"path"`
	Size      int64  `json:"size"       yaml:"size"`
	SizeHuman string `json:"size_human" yaml:"size_human"`
}

// StatsRecord is the serialized form of sizes.RepositoryStats.
type StatsRecord struct {
	PackFiles            int    `json:"pack_files"              yaml:"pack_files"`
	PackSize             int64  `json:"pack_size"               yaml:"pack_size"`
	PackSizeHuman        string `json:"pack_size_human"         yaml:"pack_size_human"`
	WorkingTreeSize      int64  `json:"working_tree_size"       yaml:"working_tree_size"`
	WorkingTreeSizeHuman string `json:"working_tree_size_human" yaml:"working_tree_size_human"`
	Commits              int    `json:"commits"                 yaml:"commits"`
	Branches             int    `json:"branches"                yaml:"branches"`
}

// NewFileRecords converts files, keeping their order. The result is never nil.
func NewFileRecords(files []sizes.FileAggregate) []FileRecord {
	out := make([]FileRecord, 0, len(files))

	for _, f := range files {
		out = append(out, FileRecord{
			Path:      f.Path,
			Size:      f.Size,
			SizeHuman: HumanSize(f.Size),
			SHA:       f.Hash.Short(),
			Commit:    f.Commit.Short(),
			Kind:      Kind(f.Path),
		})
	}

	return out
}

// NewDirectoryRecords converts dirs, keeping their order. The result is never nil.
func NewDirectoryRecords(dirs []sizes.DirectoryAggregate) []DirectoryRecord {
	out := make([]DirectoryRecord, 0, len(dirs))

	for _, d := range dirs {
		out = append(out, DirectoryRecord{Path: d.Path, Size: d.Size, SizeHuman: HumanSize(d.Size)})
	}

	return out
}

// NewStatsRecord converts stats.
func NewStatsRecord(stats sizes.RepositoryStats) StatsRecord {
	return StatsRecord{
		PackFiles:            stats.PackCount,
		PackSize:             stats.PackSize,
		PackSizeHuman:        HumanSize(stats.PackSize),
		WorkingTreeSize:      stats.WorkingTreeSize,
		WorkingTreeSizeHuman: HumanSize(stats.WorkingTreeSize),
		Commits:              stats.CommitCount,
		Branches:             stats.BranchCount,
	}
}

// HumanSize formats a byte count with binary units ("1.5 KiB").
func HumanSize(size int64) string {
	if size < 0 {
		return "-" + humanize.IBytes(uint64(-size))
	}

	return humanize.IBytes(uint64(size))
}

// Kind classifies a path by language, or marks it as vendored. Paths that
// match no language report "-".
func Kind(p string) string {
	if enry.IsVendor(p) {
		return kindVendored
	}

	if lang := enry.GetLanguage(path.Base(p), nil); lang != "" {
		return lang
	}

	return kindUnknown
}

func totalFileSize(files []sizes.FileAggregate) int64 {
	var total int64
	for _, f := range files {
		total += f.Size
	}

	return total
}

func totalDirectorySize(dirs []sizes.DirectoryAggregate) int64 {
	var total int64
	for _, d := range dirs {
		total += d.Size
	}

	return total
}

// count formats an integer with thousands separators.
func count(n int) string {
	return humanize.Comma(int64(n))
}
