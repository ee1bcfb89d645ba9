package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/KurtWeston/git-size/pkg/sizes"
)

// Report titles.
const (
	TitleLargestFiles       = "Top Largest Files"
	TitleLargestDirectories = "Largest Directories"
	TitleDeletedFiles       = "Deleted Files in History"
	titleStats              = "Repository Statistics"
)

// ErrPlotUnsupported is returned when a report has no chart rendering.
var ErrPlotUnsupported = errors.New("plot output is not available for this report")

// LFSTitle names the large-file-storage report for the given threshold.
func LFSTitle(threshold int64) string {
	return fmt.Sprintf("Git LFS Candidates (>%s)", HumanSize(threshold))
}

// Renderer writes reports to w in a single format.
type Renderer struct {
	w      io.Writer
	format Format
}

// NewRenderer creates a Renderer. An empty format selects FormatTable.
func NewRenderer(w io.Writer, format Format) *Renderer {
	if format == "" {
		format = FormatTable
	}

	return &Renderer{w: w, format: format}
}

// Files renders a ranked file list.
func (r *Renderer) Files(title string, files []sizes.FileAggregate) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(NewFileRecords(files))
	case FormatYAML:
		return r.writeYAML(NewFileRecords(files))
	case FormatPlot:
		labels, values := fileSeries(files)

		return renderBarChart(r.w, title, labels, values)
	case FormatTable:
		return r.writeString(fileTable(title, files))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, r.format)
	}
}

// Directories renders a ranked directory list.
func (r *Renderer) Directories(title string, dirs []sizes.DirectoryAggregate) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(NewDirectoryRecords(dirs))
	case FormatYAML:
		return r.writeYAML(NewDirectoryRecords(dirs))
	case FormatPlot:
		labels, values := directorySeries(dirs)

		return renderBarChart(r.w, title, labels, values)
	case FormatTable:
		return r.writeString(directoryTable(title, dirs))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, r.format)
	}
}

// Stats renders repository statistics.
func (r *Renderer) Stats(stats sizes.RepositoryStats) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(NewStatsRecord(stats))
	case FormatYAML:
		return r.writeYAML(NewStatsRecord(stats))
	case FormatPlot:
		return ErrPlotUnsupported
	case FormatTable:
		return r.writeStats(stats)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, r.format)
	}
}

func (r *Renderer) writeStats(stats sizes.RepositoryStats) error {
	heading := color.New(color.FgCyan, color.Bold)

	_, err := heading.Fprintln(r.w, titleStats)
	if err != nil {
		return fmt.Errorf("write stats: %w", err)
	}

	lines := []struct {
		label string
		value string
	}{
		{"Pack files", count(stats.PackCount)},
		{"Pack size", HumanSize(stats.PackSize)},
		{"Working directory", HumanSize(stats.WorkingTreeSize)},
		{"Total commits", count(stats.CommitCount)},
		{"Branches", count(stats.BranchCount)},
	}

	for _, line := range lines {
		_, err = fmt.Fprintf(r.w, "  %-18s %s\n", line.label+":", line.value)
		if err != nil {
			return fmt.Errorf("write stats: %w", err)
		}
	}

	return nil
}

func (r *Renderer) writeJSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

func (r *Renderer) writeYAML(v any) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return nil
}

func (r *Renderer) writeString(s string) error {
	_, err := io.WriteString(r.w, s)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.Style().Title.Align = text.AlignLeft
	tbl.Style().Title.Format = text.FormatDefault
	tbl.SetTitle(title)

	return tbl
}

func fileTable(title string, files []sizes.FileAggregate) string {
	tbl := newTable(title)
	tbl.AppendHeader(table.Row{"File Path", "Kind", "Size", "SHA"})
	tbl.SetColumnConfigs([]table.ColumnConfig{{Name: "Size", Align: text.AlignRight}})

	for _, f := range files {
		tbl.AppendRow(table.Row{f.Path, Kind(f.Path), HumanSize(f.Size), f.Hash.Short()})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d items", len(files)), "", HumanSize(totalFileSize(files)), ""})

	return tbl.Render() + "\n"
}

func directoryTable(title string, dirs []sizes.DirectoryAggregate) string {
	tbl := newTable(title)
	tbl.AppendHeader(table.Row{"Directory", "Total Size"})
	tbl.SetColumnConfigs([]table.ColumnConfig{{Name: "Total Size", Align: text.AlignRight}})

	for _, d := range dirs {
		tbl.AppendRow(table.Row{d.Path, HumanSize(d.Size)})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d items", len(dirs)), HumanSize(totalDirectorySize(dirs))})

	return tbl.Render() + "\n"
}
