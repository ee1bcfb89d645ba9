package config

import (
	"errors"
	"fmt"

	"github.com/KurtWeston/git-size/pkg/observability"
	"github.com/KurtWeston/git-size/pkg/report"
	"github.com/KurtWeston/git-size/pkg/units"
)

// Config is the top-level git-size configuration.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Top       TopConfig       `mapstructure:"top"`
	Dirs      LimitConfig     `mapstructure:"dirs"`
	Deleted   LimitConfig     `mapstructure:"deleted"`
	LFS       LFSConfig       `mapstructure:"lfs"`
	Output    OutputConfig    `mapstructure:"output"`
	Walk      WalkConfig      `mapstructure:"walk"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// TopConfig holds largest-files settings.
type TopConfig struct {
	Limit      int      `mapstructure:"limit"`
	MinSize    string   `mapstructure:"min_size"`
	Extensions []string `mapstructure:"extensions"`
}

// LimitConfig holds the result limit of a report.
type LimitConfig struct {
	Limit int `mapstructure:"limit"`
}

// LFSConfig holds large-file-storage candidate settings.
type LFSConfig struct {
	Threshold string `mapstructure:"threshold"`
}

// OutputConfig selects the report renderer.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// WalkConfig tunes the history walk.
type WalkConfig struct {
	Workers int `mapstructure:"workers"`
}

// LogConfig controls the slog logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig controls OpenTelemetry export.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// maxSampleRatio is the upper bound of telemetry.sample_ratio.
const maxSampleRatio = 1.0

// Sentinel errors for configuration validation.
var (
	// ErrInvalidLimit indicates a negative report limit.
	ErrInvalidLimit = errors.New("limit must be non-negative")
	// ErrInvalidWorkers indicates a negative walk.workers.
	ErrInvalidWorkers = errors.New("walk.workers must be non-negative")
	// ErrInvalidSampleRatio indicates telemetry.sample_ratio outside [0, 1].
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	err := c.validateReports()
	if err != nil {
		return err
	}

	if c.Walk.Workers < 0 {
		return ErrInvalidWorkers
	}

	if _, err = report.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}

	if _, err = observability.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > maxSampleRatio {
		return ErrInvalidSampleRatio
	}

	return nil
}

func (c *Config) validateReports() error {
	switch {
	case c.Top.Limit < 0:
		return fmt.Errorf("top.limit: %w", ErrInvalidLimit)
	case c.Dirs.Limit < 0:
		return fmt.Errorf("dirs.limit: %w", ErrInvalidLimit)
	case c.Deleted.Limit < 0:
		return fmt.Errorf("deleted.limit: %w", ErrInvalidLimit)
	}

	if _, err := c.MinSize(); err != nil {
		return fmt.Errorf("top.min_size: %w", err)
	}

	if _, err := c.LFSThreshold(); err != nil {
		return fmt.Errorf("lfs.threshold: %w", err)
	}

	return nil
}

// MinSize returns top.min_size in bytes.
func (c *Config) MinSize() (int64, error) {
	return units.ParseSize(c.Top.MinSize)
}

// LFSThreshold returns lfs.threshold in bytes.
func (c *Config) LFSThreshold() (int64, error) {
	return units.ParseSize(c.LFS.Threshold)
}

// Observability translates the log and telemetry sections for the given
// launch mode.
func (c *Config) Observability(mode observability.AppMode, serviceVersion string) observability.Config {
	cfg := observability.DefaultConfig()
	cfg.Mode = mode
	cfg.ServiceVersion = serviceVersion
	cfg.LogJSON = c.Log.JSON
	cfg.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	cfg.OTLPInsecure = c.Telemetry.OTLPInsecure
	cfg.SampleRatio = c.Telemetry.SampleRatio

	if level, err := observability.ParseLevel(c.Log.Level); err == nil {
		cfg.LogLevel = level
	}

	return cfg
}
