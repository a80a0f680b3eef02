package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/isctransform/document"
	"github.com/specialistvlad/isctransform/internal/ctxlog"
	"github.com/specialistvlad/isctransform/internal/hclload"
	"github.com/specialistvlad/isctransform/internal/output"
)

// Build loads the input files, assembles one document per transform block
// and writes them. In check mode nothing is written. Every failing transform
// is reported, not only the first one.
func (a *App) Build(ctx context.Context) (err error) {
	logger := ctxlog.FromContext(ctx)
	started := time.Now()
	defer func() {
		a.metrics.BuildFinished(started, err)
		if a.config.MetricsFile == "" {
			return
		}
		if werr := a.metrics.WriteFile(a.config.MetricsFile); werr != nil {
			logger.Error("Failed to write metrics file.", "path", a.config.MetricsFile, "error", werr)
		}
	}()

	logger.Debug("Loading transform files...", "input", a.config.Input)
	cfg, err := a.loader.Load(ctx, a.config.Input...)
	if err != nil {
		return fmt.Errorf("failed to load transforms: %w", err)
	}
	logger.Debug("Transform files loaded.", "files", len(cfg.Files), "transforms", len(cfg.Transforms))

	docs, err := a.assemble(ctx, cfg)
	if err != nil {
		return err
	}

	if a.config.Check {
		logger.Info("Configuration is valid.", "documents", len(docs))
		return nil
	}

	w, err := output.New(a.config.OutputDir, a.config.Format, a.outW)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := w.Write(doc); err != nil {
			return err
		}
		logger.Debug("Document written.", "name", doc.Name())
	}
	logger.Info("Build finished.", "documents", len(docs), "duration", time.Since(started))
	return nil
}

// assemble builds the documents of cfg in parallel, bounded by the worker
// count. The result keeps the order of the transform blocks.
func (a *App) assemble(ctx context.Context, cfg *hclload.Config) ([]*document.Document, error) {
	logger := ctxlog.FromContext(ctx)
	docs := make([]*document.Document, len(cfg.Transforms))
	errs := make([]error, len(cfg.Transforms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Workers)
	for i, t := range cfg.Transforms {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := cfg.Document(t)
			if err != nil {
				a.metrics.DocumentFailed()
				errs[i] = fmt.Errorf("transform %q: %w", t.Name, err)
				logger.Debug("Transform failed.", "name", t.Name, "file", t.File, "error", err)
				return nil
			}
			a.metrics.DocumentBuilt(doc.Root())
			docs[i] = doc
			logger.Debug("Document assembled.", "name", t.Name, "shape", doc.Root().Shape())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return docs, nil
}
