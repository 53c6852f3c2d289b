// Package watch reruns a build when its input files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is used when Run gets a non-positive debounce.
const DefaultDebounce = 300 * time.Millisecond

var ErrNoPaths = errors.New("no paths to watch")

type options struct {
	logger *zap.Logger
}

// Option configures Run.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Run calls fn once the files in paths have been quiet for debounce after a
// change. Parent directories are watched so editors that replace files on
// save are seen. A failing fn is logged and watching continues. Run returns
// nil when ctx is cancelled.
func Run(ctx context.Context, paths []string, debounce time.Duration, fn func(context.Context) error, opts ...Option) error {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if len(paths) == 0 {
		return ErrNoPaths
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		o.logger.Debug("watching directory", zap.String("dir", dir))
	}

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
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(ev.Name)] || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			o.logger.Debug("change detected", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			o.logger.Warn("watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			if err := fn(ctx); err != nil {
				o.logger.Error("rebuild failed", zap.Error(err))
			}
		}
	}
}
