package dataset

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of write events for the same save.
const watchDebounce = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the store's data directory and
// reloads calendars as their files change until ctx is cancelled. After a
// change the resolver cache is invalidated so the next update picks the new
// content up without waiting for the refresh interval.
func Watch(ctx context.Context, store *Store, resolver *Resolver, log *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(store.Dir()); err != nil {
		return err
	}

	log.Info("watcher: started", slog.String("dir", store.Dir()))

	// One pending-reload set, flushed on a debounce timer.
	pending := map[string]fsnotify.Op{}
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	scheduleFlush := func() {
		if flushTimer == nil {
			flushTimer = time.NewTimer(watchDebounce)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(watchDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			log.Info("watcher: stopped")
			return nil

		case <-flushCh:
			changed := false
			for base, op := range pending {
				if op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					if store.RemoveFile(base) {
						log.Info("watcher: dataset removed", slog.String("file", base))
						changed = true
					}
					continue
				}
				if store.ReloadFile(base) {
					log.Info("watcher: dataset reloaded", slog.String("file", base))
					changed = true
				}
			}
			pending = map[string]fsnotify.Op{}
			if changed && resolver != nil {
				resolver.Invalidate()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			base := filepath.Base(ev.Name)
			pending[base] |= ev.Op
			scheduleFlush()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher: error", slog.String("error", err.Error()))
		}
	}
}
