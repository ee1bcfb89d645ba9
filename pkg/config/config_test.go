package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KurtWeston/git-size/pkg/config"
	"github.com/KurtWeston/git-size/pkg/observability"
	"github.com/KurtWeston/git-size/pkg/report"
	"github.com/KurtWeston/git-size/pkg/units"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "git-size.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultTopLimit, cfg.Top.Limit)
	assert.Equal(t, config.DefaultTopMinSize, cfg.Top.MinSize)
	assert.Empty(t, cfg.Top.Extensions)
	assert.Equal(t, config.DefaultDirsLimit, cfg.Dirs.Limit)
	assert.Equal(t, config.DefaultDeletedLimit, cfg.Deleted.Limit)
	assert.Equal(t, config.DefaultLFSThreshold, cfg.LFS.Threshold)
	assert.Equal(t, config.DefaultOutputFormat, cfg.Output.Format)
	assert.Equal(t, config.DefaultWalkWorkers, cfg.Walk.Workers)
	assert.Equal(t, config.DefaultLogLevel, cfg.Log.Level)

	threshold, err := cfg.LFSThreshold()
	require.NoError(t, err)
	assert.Equal(t, int64(100*units.MiB), threshold)
}

func TestDefault_MatchesEmptyFile(t *testing.T) {
	t.Parallel()

	loaded, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	def := config.Default()
	require.NoError(t, def.Validate())

	assert.Empty(t, loaded.Top.Extensions)
	loaded.Top.Extensions = def.Top.Extensions
	assert.Equal(t, def, loaded)
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
top:
  limit: 5
  min_size: 2MiB
  extensions: [".bin", ".iso"]
dirs:
  limit: 3
lfs:
  threshold: "50"
output:
  format: json
walk:
  workers: 4
log:
  level: debug
  json: true
telemetry:
  otlp_endpoint: localhost:4317
  otlp_headers: "x-token=abc"
  sample_ratio: 0.25
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Top.Limit)
	assert.Equal(t, []string{".bin", ".iso"}, cfg.Top.Extensions)
	assert.Equal(t, 3, cfg.Dirs.Limit)
	assert.Equal(t, config.DefaultDeletedLimit, cfg.Deleted.Limit)
	assert.Equal(t, 4, cfg.Walk.Workers)

	minSize, err := cfg.MinSize()
	require.NoError(t, err)
	assert.Equal(t, int64(2*units.MiB), minSize)

	threshold, err := cfg.LFSThreshold()
	require.NoError(t, err)
	assert.Equal(t, int64(50*units.MiB), threshold)

	format, err := report.ParseFormat(cfg.Output.Format)
	require.NoError(t, err)
	assert.Equal(t, report.FormatJSON, format)

	obs := cfg.Observability(observability.ModeMCP, "v1.0.0")
	assert.Equal(t, observability.ModeMCP, obs.Mode)
	assert.Equal(t, "v1.0.0", obs.ServiceVersion)
	assert.Equal(t, slog.LevelDebug, obs.LogLevel)
	assert.True(t, obs.LogJSON)
	assert.Equal(t, "localhost:4317", obs.OTLPEndpoint)
	assert.Equal(t, map[string]string{"x-token": "abc"}, obs.OTLPHeaders)
	assert.InDelta(t, 0.25, obs.SampleRatio, 1e-9)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("GITSIZE_TOP_LIMIT", "7")
	t.Setenv("GITSIZE_LFS_THRESHOLD", "1GiB")

	cfg, err := config.LoadConfig(writeConfig(t, "top:\n  limit: 3\n"))
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Top.Limit)

	threshold, err := cfg.LFSThreshold()
	require.NoError(t, err)
	assert.Equal(t, int64(units.GiB), threshold)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "top: [unclosed"))
	require.ErrorContains(t, err, "read config")
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want error
	}{
		{"negative top limit", "top:\n  limit: -1\n", config.ErrInvalidLimit},
		{"negative dirs limit", "dirs:\n  limit: -2\n", config.ErrInvalidLimit},
		{"negative workers", "walk:\n  workers: -1\n", config.ErrInvalidWorkers},
		{"bad min size", "top:\n  min_size: huge\n", units.ErrInvalidSize},
		{"bad threshold", "lfs:\n  threshold: \"-5\"\n", units.ErrInvalidSize},
		{"bad format", "output:\n  format: xml\n", report.ErrUnknownFormat},
		{"bad level", "log:\n  level: loud\n", observability.ErrUnknownLogLevel},
		{"bad ratio", "telemetry:\n  sample_ratio: 1.5\n", config.ErrInvalidSampleRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.body))
			require.ErrorIs(t, err, tt.want)
		})
	}
}
