package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/isctransform/internal/ctxlog"
	"github.com/specialistvlad/isctransform/internal/hclload"
	"github.com/specialistvlad/isctransform/internal/watch"
)

// Run executes the main application logic based on the App's configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.ListFunctions {
		return a.ListFunctions(a.outW)
	}

	if a.config.HealthcheckPort > 0 {
		stop := a.startHealthcheckServer(ctx, a.config.HealthcheckPort)
		defer stop()
	}

	if !a.config.Watch {
		return a.Build(ctx)
	}
	return a.watch(ctx)
}

// watch builds once and then again after every change of the input files,
// until ctx is done. Build failures are logged and do not stop the loop.
func (a *App) watch(ctx context.Context) error {
	rebuild := func(ctx context.Context) {
		if err := a.Build(ctx); err != nil {
			a.logger.Error("Build failed.", "error", err)
		}
	}

	w, err := watch.New(a.config.Input, rebuild,
		watch.WithDebounce(a.config.Debounce),
		watch.WithExtension(hclload.FileExtension),
	)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	rebuild(ctx)
	a.logger.Info("Watching for changes.", "input", a.config.Input, "debounce", a.config.Debounce)
	return w.Run(ctx)
}
