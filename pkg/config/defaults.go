// Package config loads git-size settings from .git-size.yaml, GITSIZE_*
// environment variables and built-in defaults.
package config

// Report defaults.
const (
	DefaultTopLimit     = 20
	DefaultTopMinSize   = "0"
	DefaultDirsLimit    = 15
	DefaultDeletedLimit = 20
	DefaultLFSThreshold = "100MiB"
)

// Output and walk defaults.
const (
	DefaultOutputFormat = "table"
	DefaultWalkWorkers  = 1
)

// Logging and telemetry defaults.
const (
	DefaultLogLevel             = "info"
	DefaultLogJSON              = false
	DefaultTelemetryEndpoint    = ""
	DefaultTelemetryInsecure    = false
	DefaultTelemetrySampleRatio = 0.0
)

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	return &Config{
		Top: TopConfig{
			Limit:      DefaultTopLimit,
			MinSize:    DefaultTopMinSize,
			Extensions: []string{},
		},
		Dirs:    LimitConfig{Limit: DefaultDirsLimit},
		Deleted: LimitConfig{Limit: DefaultDeletedLimit},
		LFS:     LFSConfig{Threshold: DefaultLFSThreshold},
		Output:  OutputConfig{Format: DefaultOutputFormat},
		Walk:    WalkConfig{Workers: DefaultWalkWorkers},
		Log:     LogConfig{Level: DefaultLogLevel, JSON: DefaultLogJSON},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: DefaultTelemetryEndpoint,
			OTLPInsecure: DefaultTelemetryInsecure,
			SampleRatio:  DefaultTelemetrySampleRatio,
		},
	}
}
