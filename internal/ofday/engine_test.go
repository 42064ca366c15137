package ofday

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/config"
	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/dataset"
	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/render"
)

// 2025-04-10 is day 100 of the year.
var testNow = time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	eng    *Engine
	canvas *render.ImageCanvas
	cfg    *config.Config
	dir    string
}

func newFixture(t *testing.T, calendars map[string]string) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	cfg := config.Default()
	cfg.DataDir = dir
	cfg.Categories = map[string]config.CategoryConfig{}
	names := make([]string, 0, len(calendars))
	for name := range calendars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		file := name + ".json"
		if err := os.WriteFile(filepath.Join(dir, file), []byte(calendars[name]), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg.Categories[name] = config.CategoryConfig{Enabled: true, DataFile: file}
		cfg.CategoryOrder = append(cfg.CategoryOrder, name)
	}

	store := dataset.NewStore(dir, log)
	store.LoadAll(cfg.Categories)
	resolver := dataset.NewResolver(store, cfg.UpdateEvery(), log)

	canvas := render.NewImage(cfg.Display.Width, cfg.Display.Height)
	f := render.DefaultFont()
	rend := render.NewRenderer(canvas, f, f, render.DefaultPalette())

	return &fixture{
		eng:    New(cfg, "", store, resolver, canvas, rend, log),
		canvas: canvas,
		cfg:    cfg,
		dir:    dir,
	}
}

func (f *fixture) frame() []byte {
	return append([]byte(nil), f.canvas.RGBA.Pix...)
}

func TestDisplayNoData(t *testing.T) {
	f := newFixture(t, nil)

	f.eng.Update(testNow)
	f.eng.Display(testNow)
	if f.canvas.Presented() != 1 {
		t.Fatalf("Presented = %d, want 1", f.canvas.Presented())
	}
	first := f.frame()

	lit := false
	for _, b := range first {
		if b != 0 && b != 0xFF {
			lit = true
			break
		}
	}
	if !lit {
		t.Fatal("placeholder frame is blank")
	}

	// With nothing to rotate, later ticks keep showing the same placeholder.
	f.eng.Display(testNow.Add(time.Hour))
	if !bytes.Equal(first, f.frame()) {
		t.Fatal("placeholder frame changed across ticks")
	}
	if f.canvas.Presented() != 2 {
		t.Fatalf("Presented = %d, want one per tick", f.canvas.Presented())
	}
}

func TestDisplayRotatesCategories(t *testing.T) {
	f := newFixture(t, map[string]string{
		"words":   `{"100": {"word": "alpha"}}`,
		"flowers": `{"100": {"title": "Rose"}}`,
	})
	f.cfg.DisplayRotateInterval = 20
	f.cfg.SubtitleRotateInterval = 100000

	f.eng.Update(testNow)
	f.eng.Display(testNow)
	first := f.frame()

	f.eng.Display(testNow.Add(25 * time.Second))
	second := f.frame()
	if bytes.Equal(first, second) {
		t.Fatal("frame unchanged after the category interval elapsed")
	}

	// Two categories: the next switch wraps back to the first frame.
	f.eng.Display(testNow.Add(50 * time.Second))
	if !bytes.Equal(first, f.frame()) {
		t.Fatal("rotation did not wrap around to the first category")
	}
}

func TestDisplayTogglesTitleAndContent(t *testing.T) {
	f := newFixture(t, map[string]string{
		"words": `{"100": {"word": "alpha", "definition": "the first letter"}}`,
	})
	f.cfg.DisplayRotateInterval = 100000
	f.cfg.SubtitleRotateInterval = 10

	f.eng.Update(testNow)
	f.eng.Display(testNow)
	title := f.frame()

	f.eng.Display(testNow.Add(10 * time.Second))
	content := f.frame()
	if bytes.Equal(title, content) {
		t.Fatal("content frame identical to title frame")
	}

	f.eng.Display(testNow.Add(20 * time.Second))
	if !bytes.Equal(title, f.frame()) {
		t.Fatal("mode did not toggle back to the title view")
	}
}

func TestDisplaySkipsDisabledCategories(t *testing.T) {
	f := newFixture(t, map[string]string{
		"words":   `{"100": {"word": "alpha"}}`,
		"flowers": `{"100": {"title": "Rose"}}`,
	})
	f.cfg.DisplayRotateInterval = 20
	f.cfg.SubtitleRotateInterval = 100000

	f.eng.Update(testNow)
	f.eng.Display(testNow)

	// Disabling one category pins the rotation to the remaining entry.
	if _, err := f.eng.ToggleCategory("flowers"); err != nil {
		t.Fatal(err)
	}
	f.eng.Update(testNow.Add(time.Second))

	f.eng.Display(testNow.Add(25 * time.Second))
	pinned := f.frame()
	f.eng.Display(testNow.Add(50 * time.Second))
	if !bytes.Equal(pinned, f.frame()) {
		t.Fatal("rotation left the only enabled category")
	}
}

func TestStatusReportsState(t *testing.T) {
	f := newFixture(t, map[string]string{
		"words": `{"100": {"word": "alpha"}}`,
	})

	st := f.eng.Status()
	if st.CurrentDate != "" {
		t.Fatalf("CurrentDate before first update = %q", st.CurrentDate)
	}

	f.eng.Update(testNow)
	st = f.eng.Status()
	if st.CurrentDate != "2025-04-10" {
		t.Errorf("CurrentDate = %q", st.CurrentDate)
	}
	if st.CategoriesLoaded != 1 {
		t.Errorf("CategoriesLoaded = %d", st.CategoriesLoaded)
	}
	if len(st.EnabledCategories) != 1 || st.EnabledCategories[0] != "words" {
		t.Errorf("EnabledCategories = %v", st.EnabledCategories)
	}
}

func TestSetIntervalsValidatesAndPersists(t *testing.T) {
	f := newFixture(t, nil)
	path := filepath.Join(f.dir, "config.yaml")
	f.eng.cfgPath = path

	if err := f.eng.SetIntervals(45, 0, 0); err != nil {
		t.Fatal(err)
	}
	got := config.Default()
	if err := config.Load(path, got); err != nil {
		t.Fatal(err)
	}
	if got.DisplayRotateInterval != 45 {
		t.Errorf("persisted DisplayRotateInterval = %v", got.DisplayRotateInterval)
	}
	if got.SubtitleRotateInterval != 10 {
		t.Errorf("zero interval overwrote the current value: %v", got.SubtitleRotateInterval)
	}
}

func TestRemoveCategoryDropsOrder(t *testing.T) {
	f := newFixture(t, map[string]string{
		"words":   `{"100": {"word": "alpha"}}`,
		"flowers": `{"100": {"title": "Rose"}}`,
	})

	if err := f.eng.RemoveCategory("words"); err != nil {
		t.Fatal(err)
	}
	cfg := f.eng.Config()
	if _, ok := cfg.Categories["words"]; ok {
		t.Fatal("category still configured after removal")
	}
	if len(cfg.CategoryOrder) != 1 || cfg.CategoryOrder[0] != "flowers" {
		t.Fatalf("CategoryOrder = %v", cfg.CategoryOrder)
	}
}
