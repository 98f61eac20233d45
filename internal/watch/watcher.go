package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/inkweld/inkweld/internal/logfields"
)

// Run performs an initial build, arms a recursive filesystem watch on the
// project root, and dispatches change events into the coordinator until the
// context is cancelled. Watch failures never crash the loop.
func (c *Coordinator) Run(ctx context.Context) error {
	c.mu.Lock()
	c.ctx = ctx
	root := c.builder.ProjectRoot()
	c.mu.Unlock()

	// Initial build. A failure is logged, not fatal: the watch loop keeps
	// running so the first successful save produces an artifact.
	c.mu.Lock()
	c.state = StateRebuilding
	c.mu.Unlock()
	c.runBuild(ctx)
	c.onRebuildDone()

	watcher, err := c.setupWatcher(root)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.cancelPendingLocked()
			c.mu.Unlock()
			c.inFlight.Wait()
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			c.handleEvent(watcher, ev)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(werr))
		}
	}
}

// handleEvent filters one filesystem event and feeds it to the state machine.
// New directories are added to the watch on Create. Excluded paths (the
// artifact output among them) never reach onChange: a rebuild writing its own
// artifact inside the project root must not count as a source change.
func (c *Coordinator) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event) {
	if c.isExcluded(ev.Name) || shouldIgnorePath(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = c.addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("file change detected", logfields.File(ev.Name), "op", ev.Op.String())
	c.onChange(ev.Name)
}

func (c *Coordinator) setupWatcher(root string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := c.addDirsRecursive(watcher, root); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

func (c *Coordinator) addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if c.isExcluded(path) {
			return filepath.SkipDir
		}
		if path != root && strings.HasPrefix(filepath.Base(path), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("watch add failed", "dir", path, logfields.Error(err))
		}
		return nil
	})
}

// isExcluded reports whether path is one of the configured exclude paths or
// lives under one.
func (c *Coordinator) isExcluded(path string) bool {
	clean := filepath.Clean(path)
	for _, ex := range c.exclude {
		if clean == ex || strings.HasPrefix(clean, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// shouldIgnorePath returns true for paths that must never trigger rebuilds:
// hidden files, editor temp/swap files, and OS metadata files.
func shouldIgnorePath(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}
