// Package units provides binary size multipliers (1024-based) and parsing of
// user-supplied size thresholds.
package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Binary size multipliers.
const (
	KiB = 1024
	MiB = 1024 * KiB
	GiB = 1024 * MiB
)

// ErrInvalidSize is returned when a size string cannot be parsed.
var ErrInvalidSize = errors.New("invalid size")

// ParseSize parses a size threshold. A bare number is a count of MiB
// ("5" and "0.5" are 5 MiB and 512 KiB). Anything else is read by
// humanize.ParseBytes, so "100MB", "1.5GiB" and "512 KiB" all work.
func ParseSize(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidSize)
	}

	if mib, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if mib < 0 || math.IsNaN(mib) || mib*MiB >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
		}

		return int64(mib * MiB), nil
	}

	n, err := humanize.ParseBytes(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidSize, s, err)
	}

	if n > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidSize, s)
	}

	return int64(n), nil
}
