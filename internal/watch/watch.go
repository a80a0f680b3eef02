// Package watch re-runs a build when transform files change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/specialistvlad/isctransform/internal/ctxlog"
)

// DefaultDebounce is the quiet period after the last change before the
// callback runs.
const DefaultDebounce = 200 * time.Millisecond

// Callback is called once per burst of changes.
type Callback func(ctx context.Context)

// Watcher watches files and directory trees. A directory matches every file
// with the configured extension below it; a file matches only itself.
type Watcher struct {
	fsw       *fsnotify.Watcher
	callback  Callback
	debounce  time.Duration
	extension string

	roots []string
	files map[string]bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithExtension restricts directory matches to files ending in ext.
func WithExtension(ext string) Option {
	return func(w *Watcher) {
		w.extension = ext
	}
}

// New starts watching paths. Changes are only reported once Run is called.
func New(paths []string, callback Callback, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		callback: callback,
		debounce: DefaultDebounce,
		files:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, path := range paths {
		if err := w.add(path); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	if !info.IsDir() {
		w.files[abs] = true
		return w.fsw.Add(filepath.Dir(abs))
	}
	w.roots = append(w.roots, abs)
	_, err = w.addTree(abs)
	return err
}

// addTree watches dir and every non-hidden directory below it. It reports
// whether the tree already holds a file the watcher reacts to.
func (w *Watcher) addTree(dir string) (bool, error) {
	found := false
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			found = found || w.matches(path)
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
	return found, err
}

// matches reports whether a file inside a watched tree is one the watcher
// reacts to.
func (w *Watcher) matches(name string) bool {
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}
	return w.extension == "" || strings.HasSuffix(name, w.extension)
}

// Run delivers debounced changes to the callback until ctx is done. The
// callback runs on the watch goroutine, so builds never overlap.
func (w *Watcher) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("File watcher stopped.")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.handle(ctx, event) {
				continue
			}
			logger.Debug("Transform file changed.", "path", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			w.callback(ctx)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("File watcher error.", "error", err)
		}
	}
}

// handle reports whether event should trigger the callback. New directories
// inside a watched tree are added to the watch list and trigger it when they
// arrive with matching files, e.g. after a move into the tree.
func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(event.Name)
	if w.files[name] {
		return true
	}
	if !w.inTree(name) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			if strings.HasPrefix(filepath.Base(name), ".") {
				return false
			}
			found, err := w.addTree(name)
			if err != nil {
				ctxlog.FromContext(ctx).Warn("Cannot watch new directory.", "path", name, "error", err)
			}
			return found
		}
	}
	return w.matches(name)
}

func (w *Watcher) inTree(name string) bool {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, name)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
