// Package ofday ties the daily-content subsystem together: it refreshes the
// resolved items, advances the rotation scheduler, and renders one frame per
// display tick. It also carries the live configuration so the management API
// can flip categories and intervals while the display keeps running.
package ofday

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/config"
	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/dataset"
	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/render"
	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/rotation"
)

// Status is the snapshot exposed to the management API.
type Status struct {
	CurrentDate       string   `json:"current_date"`
	CategoriesLoaded  int      `json:"categories_loaded"`
	EnabledCategories []string `json:"enabled_categories"`
}

// Engine is the daily-content renderer. The host calls Update and Display
// periodically; everything else happens inside those calls. Engine methods
// are safe to call concurrently with the management API.
type Engine struct {
	mu       sync.Mutex
	cfg      *config.Config
	cfgPath  string
	store    *dataset.Store
	resolver *dataset.Resolver
	canvas   render.Canvas
	rend     *render.Renderer
	log      *slog.Logger

	state   rotation.State
	started bool
}

// New creates an engine. cfgPath may be empty when config changes need not
// be persisted (tests, read-only hosts).
func New(cfg *config.Config, cfgPath string, store *dataset.Store, resolver *dataset.Resolver, canvas render.Canvas, rend *render.Renderer, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		cfg:      cfg,
		cfgPath:  cfgPath,
		store:    store,
		resolver: resolver,
		canvas:   canvas,
		rend:     rend,
		log:      log,
	}
}

// Update refreshes the resolved items when the date rolled over or the
// refresh interval elapsed. Cheap to call every tick.
func (e *Engine) Update(now time.Time) {
	e.resolver.Resolve(now)
}

// Display advances the rotation scheduler and renders one frame. With no
// eligible categories it renders the "No Data" placeholder and leaves the
// rotation state untouched. Render failures are contained into an "Error"
// placeholder frame; Display never panics.
func (e *Engine) Display(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		e.state = rotation.NewState(now)
		e.started = true
	}

	items := e.resolver.Current()
	eligible := e.eligibleLocked(items)
	if len(eligible) == 0 {
		e.rend.NoData()
		e.present()
		return
	}

	e.state = rotation.Advance(e.state, now, len(eligible),
		e.cfg.DisplayRotateEvery(), e.cfg.SubtitleRotateEvery())

	name := eligible[e.state.CategoryIndex]
	e.renderFrame(items[name])
	e.present()
}

func (e *Engine) renderFrame(entry dataset.Entry) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Error("render failure", slog.Any("panic", rec))
			e.rend.ErrorFrame()
		}
	}()

	switch e.state.Mode {
	case rotation.ModeContent:
		e.rend.ContentView(entry.DisplayTitle(), entry.DisplayBody())
	default:
		e.rend.TitleView(entry.DisplayTitle(), entry.DisplaySubtitle())
	}
}

func (e *Engine) present() {
	if err := e.canvas.Display(); err != nil {
		e.log.Error("present failed", slog.String("error", err.Error()))
	}
}

// eligibleLocked returns the categories to rotate through: category order,
// filtered to enabled categories that resolved an entry today. A category
// missing from the config counts as enabled.
func (e *Engine) eligibleLocked(items map[string]dataset.Entry) []string {
	var out []string
	for _, name := range e.cfg.CategoryOrder {
		if _, ok := items[name]; !ok {
			continue
		}
		if cc, ok := e.cfg.Categories[name]; ok && !cc.Enabled {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Status reports the current date and category bookkeeping.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	date := ""
	if d := e.resolver.Date(); !d.IsZero() {
		date = d.Format("2006-01-02")
	}

	var enabled []string
	for _, name := range e.cfg.CategoryOrder {
		if cc, ok := e.cfg.Categories[name]; ok && !cc.Enabled {
			continue
		}
		enabled = append(enabled, name)
	}

	return Status{
		CurrentDate:       date,
		CategoriesLoaded:  len(e.resolver.Current()),
		EnabledCategories: enabled,
	}
}

// Shutdown releases cached datasets and resolved items.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resolver.Shutdown()
	e.store.Clear()
	e.log.Info("engine shut down")
}

// Config returns a copy of the live configuration.
func (e *Engine) Config() config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := *e.cfg
	cp.Categories = copyCategories(e.cfg.Categories)
	cp.CategoryOrder = append([]string(nil), e.cfg.CategoryOrder...)
	return cp
}

// ToggleCategory flips a category's enabled flag, persists the config and
// loads or drops its calendar accordingly. It returns the new flag.
func (e *Engine) ToggleCategory(name string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cc, ok := e.cfg.Categories[name]
	if !ok {
		return false, fmt.Errorf("unknown category %q", name)
	}
	cc.Enabled = !cc.Enabled
	e.cfg.Categories[name] = cc

	if cc.Enabled {
		e.store.Reload(name, cc.DataFile)
	} else {
		e.store.Remove(name)
	}
	e.resolver.Invalidate()

	if err := e.saveLocked(); err != nil {
		return cc.Enabled, err
	}
	return cc.Enabled, nil
}

// SetCategory registers or updates a category, appending it to the rotation
// order if new, persists the config and loads its calendar.
func (e *Engine) SetCategory(name string, cc config.CategoryConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.cfg.Categories[name]; !exists {
		e.cfg.CategoryOrder = append(e.cfg.CategoryOrder, name)
	}
	e.cfg.Categories[name] = cc

	if cc.Enabled {
		e.store.Reload(name, cc.DataFile)
	}
	e.resolver.Invalidate()
	return e.saveLocked()
}

// RemoveCategory deregisters a category, drops it from the rotation order
// and from the store, and persists the config.
func (e *Engine) RemoveCategory(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.cfg.Categories, name)
	order := e.cfg.CategoryOrder[:0:0]
	for _, n := range e.cfg.CategoryOrder {
		if n != name {
			order = append(order, n)
		}
	}
	e.cfg.CategoryOrder = order

	e.store.Remove(name)
	e.resolver.Invalidate()
	return e.saveLocked()
}

// SetIntervals updates the rotation and refresh intervals (seconds; zero
// keeps the current value) and persists the config.
func (e *Engine) SetIntervals(display, subtitle, update float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if display > 0 {
		e.cfg.DisplayRotateInterval = display
	}
	if subtitle > 0 {
		e.cfg.SubtitleRotateInterval = subtitle
	}
	if update > 0 {
		e.cfg.UpdateInterval = update
	}
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	e.resolver.SetRefreshInterval(e.cfg.UpdateEvery())
	return e.saveLocked()
}

func (e *Engine) saveLocked() error {
	if e.cfgPath == "" {
		return nil
	}
	if err := e.cfg.Save(e.cfgPath); err != nil {
		e.log.Error("config save failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func copyCategories(in map[string]config.CategoryConfig) map[string]config.CategoryConfig {
	out := make(map[string]config.CategoryConfig, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
