package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/specialistvlad/isctransform/document"
	"github.com/specialistvlad/isctransform/internal/settings"
	"github.com/specialistvlad/isctransform/internal/watch"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Input     []string // .hcl files or directories
	OutputDir string   // empty writes to stdout
	Format    document.Format

	LogFormat string
	LogLevel  string
	Workers   int

	MetricsFile     string
	HealthcheckPort int

	Watch         bool
	Debounce      time.Duration
	Check         bool
	ListFunctions bool
}

// NewConfig validates merged settings and turns them into a Config.
func NewConfig(s settings.Settings) (*Config, error) {
	format, err := document.ParseFormat(s.Format)
	if err != nil {
		return nil, err
	}

	logFormat := strings.ToLower(s.LogFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", s.LogFormat)
	}
	logLevel := strings.ToLower(s.LogLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", s.LogLevel)
	}

	if s.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	if s.HealthPort < 0 || s.HealthPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", s.HealthPort)
	}
	if s.Watch && s.Check {
		return nil, errors.New("watch and check cannot be combined")
	}
	debounce := s.Debounce
	if debounce <= 0 {
		debounce = watch.DefaultDebounce
	}

	return &Config{
		Input:           append([]string(nil), s.Input...),
		OutputDir:       s.OutputDir,
		Format:          format,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		Workers:         s.Workers,
		MetricsFile:     s.MetricsFile,
		HealthcheckPort: s.HealthPort,
		Watch:           s.Watch,
		Debounce:        debounce,
		Check:           s.Check,
	}, nil
}
