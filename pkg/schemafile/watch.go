package schemafile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-formstudio/pkg/schema"
)

// DefaultDebounce is how long Watch waits for writes to settle before
// reloading.
const DefaultDebounce = 150 * time.Millisecond

// ReloadFunc receives each successfully reloaded store.
type ReloadFunc func(*schema.Store)

// WatchOption customises Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	logger   *slog.Logger
	debounce time.Duration
	store    []schema.StoreOption
}

// WithWatchLogger sets the logger used for reload diagnostics.
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(cfg *watchConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatchOption {
	return func(cfg *watchConfig) {
		if d >= 0 {
			cfg.debounce = d
		}
	}
}

// WithStoreOptions forwards options to every reloaded store.
func WithStoreOptions(options ...schema.StoreOption) WatchOption {
	return func(cfg *watchConfig) {
		cfg.store = append(cfg.store, options...)
	}
}

// Watch reloads path whenever it changes and hands each new store to fn. The
// parent directory is watched so editors that save by rename are picked up.
// Parse failures are logged and the previous store stays current. Watch
// blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, fn ReloadFunc, options ...WatchOption) error {
	if fn == nil {
		return fmt.Errorf("schemafile: reload callback is required")
	}
	cfg := watchConfig{logger: slog.Default(), debounce: DefaultDebounce}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("schemafile: resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("schemafile: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("schemafile: watch %s: %w", path, err)
	}
	cfg.logger.Info("watching form document", "path", abs)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			cfg.logger.Debug("form document changed", "path", abs, "op", event.Op.String())
			timer.Reset(cfg.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cfg.logger.Warn("watcher error", "path", abs, "error", err)
		case <-timer.C:
			store, err := Load(abs, cfg.store...)
			if err != nil {
				cfg.logger.Error("reload form document", "path", abs, "error", err)
				continue
			}
			cfg.logger.Info("reloaded form document", "path", abs, "fields", store.Len())
			fn(store)
		}
	}
}
