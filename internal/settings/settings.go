// Package settings loads the command settings from an optional YAML file
// and ISCX_ environment variables, with explicit overrides on top.
package settings

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "ISCX_"

// Keys used in the config file, in the environment (upper-cased, after the
// prefix) and in override maps.
const (
	KeyInput       = "input"
	KeyOutputDir   = "output_dir"
	KeyFormat      = "format"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
	KeyWorkers     = "workers"
	KeyMetricsFile = "metrics_file"
	KeyHealthPort  = "healthcheck_port"
	KeyWatch       = "watch"
	KeyDebounce    = "debounce"
	KeyCheck       = "check"
)

// Settings is the merged view of every configuration source.
type Settings struct {
	Input       []string      `koanf:"input"`
	OutputDir   string        `koanf:"output_dir"`
	Format      string        `koanf:"format"`
	LogLevel    string        `koanf:"log_level"`
	LogFormat   string        `koanf:"log_format"`
	Workers     int           `koanf:"workers"`
	MetricsFile string        `koanf:"metrics_file"`
	HealthPort  int           `koanf:"healthcheck_port"`
	Watch       bool          `koanf:"watch"`
	Debounce    time.Duration `koanf:"debounce"`
	Check       bool          `koanf:"check"`
}

// Defaults returns the values used when no source sets a key.
func Defaults() map[string]any {
	return map[string]any{
		KeyFormat:    "json",
		KeyLogLevel:  "info",
		KeyLogFormat: "text",
		KeyWorkers:   4,
		KeyDebounce:  200 * time.Millisecond,
	}
}

// Load merges, from lowest to highest precedence: Defaults, the YAML file at
// path (skipped when path is empty), ISCX_ environment variables and
// overrides. A missing file named explicitly is an error.
func Load(path string, overrides map[string]any) (Settings, error) {
	k := koanf.New(".")

	if err := set(k, Defaults()); err != nil {
		return Settings{}, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Settings{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.ProviderWithValue(EnvPrefix, "__", envKey), nil); err != nil {
		return Settings{}, fmt.Errorf("load environment: %w", err)
	}
	if err := set(k, overrides); err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

func set(k *koanf.Koanf, values map[string]any) error {
	for key, v := range values {
		if err := k.Set(key, v); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

// envKey maps ISCX_OUTPUT_DIR to output_dir. ISCX_INPUT holds a
// comma-separated list of paths.
func envKey(key, value string) (string, any) {
	name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if name == KeyInput {
		var paths []string
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		return name, paths
	}
	return name, value
}
