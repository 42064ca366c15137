package dataset

import (
	"log/slog"
	"sync"
	"time"
)

// Resolver caches the entries active "today" across all loaded categories.
// The cache is rebuilt wholesale when the calendar date changes or the
// refresh interval has elapsed; otherwise Resolve is an idempotent no-op
// returning the cached map.
type Resolver struct {
	store         *Store
	refreshEvery  time.Duration
	log           *slog.Logger

	mu          sync.Mutex
	day         time.Time // midnight of the cached date, zero when unset
	items       map[string]Entry
	lastRefresh time.Time
}

// NewResolver creates a resolver over the given store.
func NewResolver(store *Store, refreshEvery time.Duration, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{store: store, refreshEvery: refreshEvery, log: log}
}

// SetRefreshInterval changes how often the cache is rebuilt within a day.
func (r *Resolver) SetRefreshInterval(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshEvery = d
}

// Resolve returns the entries active on the calendar date of now. Categories
// whose calendar lacks today's key are absent from the result.
func (r *Resolver) Resolve(now time.Time) map[string]Entry {
	today := midnight(now)

	r.mu.Lock()
	defer r.mu.Unlock()

	fresh := !r.lastRefresh.IsZero() && now.Sub(r.lastRefresh) < r.refreshEvery
	if r.items != nil && r.day.Equal(today) && fresh {
		return r.items
	}

	if !r.day.Equal(today) {
		r.log.Info("new day detected", slog.String("date", today.Format("2006-01-02")))
	}

	r.day = today
	r.lastRefresh = now
	r.items = r.resolveDay(now.YearDay())
	return r.items
}

// Current returns the cached items without triggering a refresh. It returns
// an empty map before the first Resolve.
func (r *Resolver) Current() map[string]Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.items == nil {
		return map[string]Entry{}
	}
	return r.items
}

// Date returns the cached calendar date, zero before the first Resolve.
func (r *Resolver) Date() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.day
}

// Invalidate forces the next Resolve to rebuild, regardless of date or
// interval. The watcher calls this after a calendar file changes on disk.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastRefresh = time.Time{}
	r.items = nil
}

// Shutdown drops the cached items.
func (r *Resolver) Shutdown() {
	r.Invalidate()
}

func (r *Resolver) resolveDay(dayOfYear int) map[string]Entry {
	items := map[string]Entry{}
	for _, name := range r.store.Categories() {
		e, ok := r.store.EntryFor(name, dayOfYear)
		if !ok {
			r.log.Warn("no entry for today",
				slog.String("category", name),
				slog.Int("day", dayOfYear))
			continue
		}
		items[name] = e
		r.log.Info("resolved item",
			slog.String("category", name),
			slog.Int("day", dayOfYear),
			slog.String("title", e.DisplayTitle()))
	}
	return items
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
