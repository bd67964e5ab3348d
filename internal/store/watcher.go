package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is called after the database files were written to.
type ChangeCallback func()

const watchDebounce = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the directory holding the SQLite
// database and calls cb, debounced, whenever the database or its WAL file is
// written. This picks up inserts made by other processes (such as the CLI)
// while a server is running. Watch blocks until ctx is cancelled and returns
// immediately for non-SQLite stores.
func (s *Store) Watch(ctx context.Context, logger *slog.Logger, cb ChangeCallback) error {
	if s.path == "" || cb == nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return err
	}

	base := filepath.Base(s.path)
	watched := map[string]struct{}{
		base:          {},
		base + "-wal": {},
	}

	logger.Info("watcher: started", slog.String("path", s.path))

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(watchDebounce)
			debounceCh = debounce.C
		} else {
			debounce.Reset(watchDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			logger.Debug("watcher: database changed", slog.String("path", s.path))
			cb()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if _, ok := watched[filepath.Base(ev.Name)]; !ok {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
