package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/isctransform/internal/ctxlog"
	"github.com/specialistvlad/isctransform/internal/functions"
	"github.com/specialistvlad/isctransform/internal/hclload"
	"github.com/specialistvlad/isctransform/internal/metrics"
	"github.com/specialistvlad/isctransform/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	loader   *hclload.Loader
	metrics  *metrics.Recorder
}

// NewApp is the constructor for the main application. Documents go to outW
// and logs to logW. It registers modules, or every core module when none
// are given, and panics when the resulting registry is inconsistent, which
// is a programming error.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.New(modules...)
	logger.Debug("Function modules registered.", "modules", len(modules), "functions", len(reg.Names()))

	if err := reg.Validate(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		loader:   hclload.NewLoader(reg, functions.Scalar()),
		metrics:  metrics.New(),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Metrics returns the application's build metrics.
func (a *App) Metrics() *metrics.Recorder {
	return a.metrics
}
