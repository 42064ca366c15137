package dataset

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/config"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWatchReloadsChangedCalendar(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "words.json", `{"1": {"word": "alpha"}}`)

	s := NewStore(dir, testLogger())
	s.LoadAll(map[string]config.CategoryConfig{
		"word_of_the_day": {Enabled: true, DataFile: "words.json"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, s, nil, testLogger()) }()

	// Give the watcher a moment to register before touching the file.
	time.Sleep(100 * time.Millisecond)

	writeFile(t, dir, "words.json", `{"1": {"word": "beta"}}`)
	waitFor(t, func() bool {
		e, _ := s.EntryFor("word_of_the_day", 1)
		return e.DisplayTitle() == "beta"
	})

	// Non-calendar files are ignored.
	writeFile(t, dir, "notes.txt", "scratch")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestWatchDropsRemovedCalendar(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "words.json", `{"1": {"word": "alpha"}}`)

	s := NewStore(dir, testLogger())
	s.LoadAll(map[string]config.CategoryConfig{
		"word_of_the_day": {Enabled: true, DataFile: "words.json"},
	})
	r := NewResolver(s, time.Hour, testLogger())
	r.Resolve(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, s, r, testLogger()) }()

	time.Sleep(100 * time.Millisecond)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return s.Len() == 0 })

	// The resolver cache was invalidated along with the store.
	if items := r.Resolve(time.Date(2025, 1, 1, 9, 0, 1, 0, time.UTC)); len(items) != 0 {
		t.Fatalf("stale resolver items after removal: %+v", items)
	}
}
