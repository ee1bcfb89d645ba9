// Package report renders size reports as terminal tables, JSON, YAML or a
// standalone HTML bar chart.
package report

import (
	"errors"
	"fmt"
	"strings"
)

// Format selects a renderer.
type Format string

// Supported formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatPlot  Format = "plot"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists every supported format in help-text order.
func Formats() []Format {
	return []Format{FormatTable, FormatJSON, FormatYAML, FormatPlot}
}

// ParseFormat resolves a format name case-insensitively. The empty string
// selects FormatTable.
func ParseFormat(name string) (Format, error) {
	normalized := Format(strings.ToLower(strings.TrimSpace(name)))
	if normalized == "" {
		return FormatTable, nil
	}

	for _, f := range Formats() {
		if f == normalized {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %q (want one of table, json, yaml, plot)", ErrUnknownFormat, name)
}
