// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MKhiriev/go-tree-mirror/internal/logger"
)

// WatchWorker notifies target when something changes below rootDir.
// Bursts of events closer than debounce apart produce one notification.
type WatchWorker struct {
	rootDir  string
	debounce time.Duration
	target   Notifier
	skip     map[string]struct{}

	logger *logger.Logger
}

func NewWatchWorker(rootDir string, debounce time.Duration, target Notifier, logger *logger.Logger, skip ...string) *WatchWorker {
	w := &WatchWorker{
		rootDir:  filepath.Clean(rootDir),
		debounce: debounce,
		target:   target,
		skip:     make(map[string]struct{}, len(skip)),
		logger:   logger,
	}
	for _, name := range skip {
		w.skip[name] = struct{}{}
	}

	return w
}

func (w *WatchWorker) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	if err = w.addTree(watcher, w.rootDir); err != nil {
		return err
	}

	// stopped timer; armed by the first event of a burst
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("watch worker stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.skipped(event.Name) {
				continue
			}
			// new directories are not covered by the existing watches
			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if err = w.addTree(watcher, event.Name); err != nil {
						w.logger.Err(err).Str("func", "WatchWorker.Run").Str("path", event.Name).Msg("failed to watch new directory")
					}
				}
			}
			timer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Err(err).Str("func", "WatchWorker.Run").Msg("watcher error")

		case <-timer.C:
			w.target.Notify()
		}
	}
}

func (w *WatchWorker) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.skipped(path) {
			return filepath.SkipDir
		}
		if err = watcher.Add(path); err != nil {
			return fmt.Errorf("adding directory %q to watcher: %w", path, err)
		}
		return nil
	})
}

func (w *WatchWorker) skipped(path string) bool {
	_, ok := w.skip[filepath.Base(path)]
	return ok
}
