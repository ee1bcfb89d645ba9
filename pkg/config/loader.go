package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName      = ".git-size"
	configType      = "yaml"
	envPrefix       = "GITSIZE"
	envKeySeparator = "_"
)

// LoadConfig loads configuration from file, env vars, and defaults.
// A non-empty configPath names the file explicitly and must exist. Otherwise
// .git-size.yaml is searched in the working directory and $HOME, and a
// missing file leaves the defaults in place.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	readErr := v.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := v.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("top.limit", DefaultTopLimit)
	v.SetDefault("top.min_size", DefaultTopMinSize)
	v.SetDefault("top.extensions", []string{})

	v.SetDefault("dirs.limit", DefaultDirsLimit)
	v.SetDefault("deleted.limit", DefaultDeletedLimit)
	v.SetDefault("lfs.threshold", DefaultLFSThreshold)

	v.SetDefault("output.format", DefaultOutputFormat)
	v.SetDefault("walk.workers", DefaultWalkWorkers)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	v.SetDefault("telemetry.otlp_endpoint", DefaultTelemetryEndpoint)
	v.SetDefault("telemetry.otlp_headers", "")
	v.SetDefault("telemetry.otlp_insecure", DefaultTelemetryInsecure)
	v.SetDefault("telemetry.sample_ratio", DefaultTelemetrySampleRatio)
}
