package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/KurtWeston/git-size/pkg/gitlib"
	"github.com/KurtWeston/git-size/pkg/report"
	"github.com/KurtWeston/git-size/pkg/sizes"
)

func mustHash(t *testing.T, s string) gitlib.Hash {
	t.Helper()

	h, err := gitlib.ParseHash(s)
	require.NoError(t, err)

	return h
}

func sampleFiles(t *testing.T) []sizes.FileAggregate {
	t.Helper()

	return []sizes.FileAggregate{
		{
			Path:   "cmd/main.go",
			Size:   2048,
			Hash:   mustHash(t, "0123456789abcdef0123456789abcdef01234567"),
			Commit: mustHash(t, "fedcba9876543210fedcba9876543210fedcba98"),
		},
		{
			Path:   "scripts/build.py",
			Size:   800,
			Hash:   mustHash(t, "89abcdef0123456789abcdef0123456789abcdef"),
			Commit: mustHash(t, "fedcba9876543210fedcba9876543210fedcba98"),
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want report.Format
	}{
		{"", report.FormatTable},
		{"table", report.FormatTable},
		{"JSON", report.FormatJSON},
		{" yaml ", report.FormatYAML},
		{"Plot", report.FormatPlot},
	}

	for _, tt := range tests {
		got, err := report.ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := report.ParseFormat("xml")
	require.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestHumanSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0 B", report.HumanSize(0))
	assert.Equal(t, "800 B", report.HumanSize(800))
	assert.Equal(t, "2.0 KiB", report.HumanSize(2048))
	assert.Equal(t, "100 MiB", report.HumanSize(100*1024*1024))
}

func TestKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Go", report.Kind("cmd/main.go"))
	assert.Equal(t, "Python", report.Kind("scripts/build.py"))
	assert.Equal(t, "vendored", report.Kind("vendor/github.com/x/y.go"))
	assert.Equal(t, "vendored", report.Kind("node_modules/left-pad/index.js"))
}

func TestLFSTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Git LFS Candidates (>100 MiB)", report.LFSTitle(100*1024*1024))
}

func TestRenderer_FilesTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.NewRenderer(&buf, report.FormatTable).Files(report.TitleLargestFiles, sampleFiles(t)))

	out := buf.String()
	assert.Contains(t, out, report.TitleLargestFiles)
	assert.Contains(t, out, "cmd/main.go")
	assert.Contains(t, out, "Go")
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "01234567")
	assert.Contains(t, out, "Total: 2 items")
	assert.Less(t, strings.Index(out, "cmd/main.go"), strings.Index(out, "scripts/build.py"))
}

func TestRenderer_DirectoriesTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	dirs := []sizes.DirectoryAggregate{{Path: sizes.RootDirectory, Size: 3800}, {Path: "sub", Size: 1500}}
	require.NoError(t, report.NewRenderer(&buf, "").Directories(report.TitleLargestDirectories, dirs))

	out := buf.String()
	assert.Contains(t, out, report.TitleLargestDirectories)
	assert.Contains(t, out, "(root)")
	assert.Contains(t, out, "sub")
	assert.Contains(t, out, "Total: 2 items")
}

func TestRenderer_FilesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.NewRenderer(&buf, report.FormatJSON).Files(report.TitleLargestFiles, sampleFiles(t)))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "cmd/main.go", got[0]["path"])
	assert.InDelta(t, 2048, got[0]["size"], 0)
	assert.Equal(t, "2.0 KiB", got[0]["size_human"])
	assert.Equal(t, "01234567", got[0]["sha"])
	assert.Equal(t, "fedcba98", got[0]["commit"])
	assert.Equal(t, "Go", got[0]["kind"])
}

func TestRenderer_EmptyJSONIsArray(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.NewRenderer(&buf, report.FormatJSON).Files(report.TitleDeletedFiles, nil))
	assert.JSONEq(t, "[]", buf.String())

	buf.Reset()
	require.NoError(t, report.NewRenderer(&buf, report.FormatJSON).Directories(report.TitleLargestDirectories, nil))
	assert.JSONEq(t, "[]", buf.String())
}

func TestRenderer_DirectoriesYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	dirs := []sizes.DirectoryAggregate{{Path: "assets", Size: 1024}}
	require.NoError(t, report.NewRenderer(&buf, report.FormatYAML).Directories(report.TitleLargestDirectories, dirs))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "assets", got[0]["path"])
	assert.Equal(t, 1024, got[0]["size"])
	assert.Equal(t, "1.0 KiB", got[0]["size_human"])
}

func TestRenderer_Plot(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.NewRenderer(&buf, report.FormatPlot).Files(report.TitleLargestFiles, sampleFiles(t)))

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, report.TitleLargestFiles)
	assert.Contains(t, out, "main.go")
}

func TestRenderer_Stats(t *testing.T) {
	t.Parallel()

	stats := sizes.RepositoryStats{
		PackSize:        5120,
		PackCount:       2,
		WorkingTreeSize: 350,
		CommitCount:     1234,
		BranchCount:     3,
	}

	var buf bytes.Buffer

	require.NoError(t, report.NewRenderer(&buf, report.FormatTable).Stats(stats))

	out := buf.String()
	assert.Contains(t, out, "Repository Statistics")
	assert.Contains(t, out, "5.0 KiB")
	assert.Contains(t, out, "350 B")
	assert.Contains(t, out, "1,234")

	buf.Reset()
	require.NoError(t, report.NewRenderer(&buf, report.FormatJSON).Stats(stats))
	assert.JSONEq(t, `{
		"pack_files": 2,
		"pack_size": 5120,
		"pack_size_human": "5.0 KiB",
		"working_tree_size": 350,
		"working_tree_size_human": "350 B",
		"commits": 1234,
		"branches": 3
	}`, buf.String())

	buf.Reset()
	require.ErrorIs(t, report.NewRenderer(&buf, report.FormatPlot).Stats(stats), report.ErrPlotUnsupported)
}
