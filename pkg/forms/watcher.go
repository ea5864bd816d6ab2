package forms

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultReloadDelay batches bursts of file events (editors often write a
// file in several steps) into one reload.
const DefaultReloadDelay = 250 * time.Millisecond

// Watcher reloads a directory of definitions into a registry whenever a
// definition file changes.
type Watcher struct {
	dir      string
	registry *Registry
	pinned   []string
	delay    time.Duration
	logger   *zap.Logger
	onReload func(*Registry)
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithReloadDelay overrides DefaultReloadDelay.
func WithReloadDelay(delay time.Duration) WatchOption {
	return func(w *Watcher) {
		if delay > 0 {
			w.delay = delay
		}
	}
}

// WithWatchLogger attaches a logger.
func WithWatchLogger(logger *zap.Logger) WatchOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithPinned keeps the named forms across reloads unless a file redefines
// them.
func WithPinned(ids ...string) WatchOption {
	return func(w *Watcher) {
		w.pinned = append(w.pinned, ids...)
	}
}

// OnReload is called after every successful reload.
func OnReload(fn func(*Registry)) WatchOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher constructs a watcher for dir feeding registry.
func NewWatcher(dir string, registry *Registry, options ...WatchOption) (*Watcher, error) {
	if dir == "" {
		return nil, errors.New("forms: watch directory is required")
	}
	if registry == nil {
		return nil, errors.New("forms: registry is required")
	}
	w := &Watcher{
		dir:      dir,
		registry: registry,
		delay:    DefaultReloadDelay,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	return w, nil
}

// Reload parses the directory and swaps the registry contents. A directory
// that fails to parse leaves the registry untouched.
func (w *Watcher) Reload() error {
	next, err := LoadFS(os.DirFS(w.dir))
	if err != nil {
		return err
	}
	w.registry.Replace(next, w.pinned...)
	w.logger.Info("form definitions reloaded", zap.String("dir", w.dir), zap.Int("forms", w.registry.Len()))
	if w.onReload != nil {
		w.onReload(w.registry)
	}
	return nil
}

// Run watches the directory until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("forms: create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("forms: watch %s: %w", w.dir, err)
	}
	w.logger.Debug("watching form definitions", zap.String("dir", w.dir))

	timer := time.NewTimer(w.delay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !isDefinitionFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("form definition changed",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()))
			timer.Reset(w.delay)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("form watcher error", zap.Error(err))

		case <-timer.C:
			if err := w.Reload(); err != nil {
				w.logger.Warn("form definitions reload failed", zap.Error(err))
			}
		}
	}
}
