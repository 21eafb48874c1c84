// Package watch re-runs work when input files change on disk.
package watch

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Files calls fn with the path of every changed file in paths, after a burst
// of events has been quiet for debounce. The parent directories are watched
// rather than the files because editors often replace a file instead of
// writing it. Files blocks until ctx is done. Empty paths are ignored.
func Files(ctx context.Context, paths []string, debounce time.Duration, logger *log.Logger, fn func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	names := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch: %s: %w", p, err)
		}
		names[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch: add %s: %w", dir, err)
		}
		if logger != nil {
			logger.Debug("watching", "dir", dir)
		}
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if !names[name] || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			pending[name] = true
			timer.Reset(debounce)
		case <-timer.C:
			for _, p := range slices.Sorted(maps.Keys(pending)) {
				if logger != nil {
					logger.Info("changed", "file", p)
				}
				fn(p)
			}
			clear(pending)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if logger != nil {
				logger.Warn("watch error", "err", err)
			}
		}
	}
}
