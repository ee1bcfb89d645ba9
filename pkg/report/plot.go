package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/KurtWeston/git-size/pkg/sizes"
)

const (
	chartWidth   = "1200px"
	chartHeight  = "600px"
	xAxisRotate  = 45
	seriesName   = "Size (bytes)"
	barColor     = "#5470c6"
	emptyMessage = "No data"
)

func fileSeries(files []sizes.FileAggregate) ([]string, []int64) {
	labels := make([]string, 0, len(files))
	values := make([]int64, 0, len(files))

	for _, f := range files {
		labels = append(labels, f.Path)
		values = append(values, f.Size)
	}

	return labels, values
}

func directorySeries(dirs []sizes.DirectoryAggregate) ([]string, []int64) {
	labels := make([]string, 0, len(dirs))
	values := make([]int64, 0, len(dirs))

	for _, d := range dirs {
		labels = append(labels, d.Path)
		values = append(values, d.Size)
	}

	return labels, values
}

// renderBarChart writes a standalone HTML page with one bar per label.
func renderBarChart(w io.Writer, title string, labels []string, values []int64) error {
	bar := charts.NewBar()

	subtitle := fmt.Sprintf("%d items", len(labels))
	if len(labels) == 0 {
		subtitle = emptyMessage
	}

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "slider", Start: 0, End: 100},
			opts.DataZoom{Type: "inside"},
		),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: seriesName}),
	)

	data := make([]opts.BarData, 0, len(values))
	for i, v := range values {
		data = append(data, opts.BarData{Name: labels[i], Value: v})
	}

	bar.SetXAxis(labels).AddSeries(seriesName, data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: barColor}),
	)

	err := bar.Render(w)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}
