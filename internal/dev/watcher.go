package dev

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the directories to watch, recursively.
	Paths []string

	// Ignore are base-name patterns to skip (globs).
	Ignore []string

	// Debounce is the quiet period before a change callback fires.
	// Default 100ms.
	Debounce time.Duration
}

// DefaultIgnore contains default patterns to skip.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"*_test.go",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher monitors directories for changes via fsnotify and invokes a
// debounced callback.
type Watcher struct {
	config   WatcherConfig
	logger   zerolog.Logger
	onChange func(path string)

	mu       sync.Mutex
	debounce *time.Timer
}

// NewWatcher creates a file watcher.
func NewWatcher(config WatcherConfig, logger zerolog.Logger) *Watcher {
	if config.Debounce == 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}
	return &Watcher{config: config, logger: logger}
}

// OnChange sets the callback for file changes.
func (w *Watcher) OnChange(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, root := range w.config.Paths {
		if err := w.addRecursive(watcher, root); err != nil {
			w.logger.Warn().Err(err).Str("path", root).Msg("watch failed")
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if w.ignored(event.Name) {
				continue
			}
			// New directories join the watch set.
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = w.addRecursive(watcher, event.Name)
				}
			}
			w.trigger(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

// trigger schedules the callback after the debounce window.
func (w *Watcher) trigger(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.onChange == nil {
		return
	}
	if w.debounce != nil {
		w.debounce.Stop()
	}
	fn := w.onChange
	w.debounce = time.AfterFunc(w.config.Debounce, func() { fn(path) })
}

func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.config.Ignore {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if !strings.ContainsAny(pattern, "*?[") && strings.Contains(path, string(filepath.Separator)+pattern+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
