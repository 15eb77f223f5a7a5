package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/askdocs-ai/askdocs-cli/internal/logger"
)

// DefaultDebounce batches bursts of filesystem events into one rebuild.
// Editors commonly write a temp file and rename it, which fires several
// events for a single save.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a corpus directory tree and invokes a callback once
// per debounced batch of relevant changes.
type Watcher struct {
	dir        string
	debounce   time.Duration
	extensions map[string]bool
}

// NewWatcher creates a watcher for the loader's directory with the same
// extension filter.
func NewWatcher(loader *Loader, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dir:        loader.dir,
		debounce:   debounce,
		extensions: loader.extensions,
	}
}

// Run blocks watching the directory tree until ctx is cancelled, calling
// onChange after each quiet period that follows a relevant event. New
// subdirectories are picked up as they appear.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("Watching %s for changes", w.dir)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.ignore(event) {
				continue
			}
			logger.Debug("Corpus change: %s %s", event.Op, event.Name)
			// A new directory must be watched before files land in it.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addWatchDirs(watcher, event.Name)
				}
			}
			if !pending {
				timer.Reset(w.debounce)
				pending = true
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		case <-timer.C:
			pending = false
			onChange(ctx)
		}
	}
}

// ignore filters events that cannot affect the index: irrelevant ops,
// hidden files, and extensions the loader does not read. Directory
// creations pass through so new subtrees get watched and rescanned.
func (w *Watcher) ignore(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return true
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return true
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return false
		}
	}
	return !w.extensions[strings.ToLower(filepath.Ext(name))]
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(filepath.Base(path), ".") {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}
