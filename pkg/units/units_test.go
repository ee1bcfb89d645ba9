package units_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KurtWeston/git-size/pkg/units"
)

func TestBinarySizeConstants(t *testing.T) {
	t.Parallel()

	assert.EqualValues(t, 1024, units.KiB)
	assert.EqualValues(t, 1024*1024, units.MiB)
	assert.EqualValues(t, 1024*1024*1024, units.GiB)
}

func TestParseSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"5", 5 * units.MiB},
		{"0.5", 512 * units.KiB},
		{" 100 ", 100 * units.MiB},
		{"100MiB", 100 * units.MiB},
		{"100MB", 100_000_000},
		{"1.5GiB", 3 * units.GiB / 2},
		{"512 KiB", 512 * units.KiB},
		{"42B", 42},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := units.ParseSize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSizeInvalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "-1", "lots", "12XB", "NaN", "Inf"} {
		_, err := units.ParseSize(in)
		require.ErrorIs(t, err, units.ErrInvalidSize, in)
	}
}

func TestParseSizeOverflow(t *testing.T) {
	t.Parallel()

	// 8796093022208 MiB is exactly 2^63 bytes.
	for _, in := range []string{"8796093022208", "8796093022207.9999999", "1e300", "16EiB"} {
		got, err := units.ParseSize(in)
		require.ErrorIs(t, err, units.ErrInvalidSize, in)
		assert.Zero(t, got, in)
	}

	got, err := units.ParseSize("8796093022207")
	require.NoError(t, err)
	assert.Positive(t, got)
	assert.Equal(t, int64(8796093022207)*units.MiB, got)
}
