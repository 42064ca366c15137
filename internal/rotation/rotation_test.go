package rotation

import (
	"testing"
	"time"
)

var epoch = time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

func at(sec int) time.Time { return epoch.Add(time.Duration(sec) * time.Second) }

func TestAdvance_CategoryCycle(t *testing.T) {
	const (
		categoryEvery = 20 * time.Second
		modeEvery     = time.Hour
	)
	s := NewState(at(0))
	if s.CategoryIndex != 0 {
		t.Fatalf("initial index = %d, want 0", s.CategoryIndex)
	}

	// Late ticks still advance one step per tick.
	s = Advance(s, at(25), 3, categoryEvery, modeEvery)
	if s.CategoryIndex != 1 {
		t.Fatalf("after t=25: index = %d, want 1", s.CategoryIndex)
	}
	s = Advance(s, at(46), 3, categoryEvery, modeEvery)
	if s.CategoryIndex != 2 {
		t.Fatalf("after t=46: index = %d, want 2", s.CategoryIndex)
	}
	s = Advance(s, at(70), 3, categoryEvery, modeEvery)
	if s.CategoryIndex != 0 {
		t.Fatalf("after t=70: index = %d, want wraparound to 0", s.CategoryIndex)
	}
}

func TestAdvance_FairRotation(t *testing.T) {
	const n = 4
	s := NewState(at(0))
	seen := make(map[int]int)
	for i := 1; i <= 4*n; i++ {
		s = Advance(s, at(i*10), n, 10*time.Second, time.Hour)
		seen[s.CategoryIndex]++
	}
	for idx := 0; idx < n; idx++ {
		if seen[idx] != 4 {
			t.Errorf("index %d shown %d times, want 4", idx, seen[idx])
		}
	}
}

func TestAdvance_ModeToggles(t *testing.T) {
	const (
		categoryEvery = time.Hour
		modeEvery     = 10 * time.Second
	)
	s := NewState(at(0))

	want := []Mode{ModeContent, ModeTitle, ModeContent, ModeTitle}
	for i, m := range want {
		s = Advance(s, at((i+1)*10), 2, categoryEvery, modeEvery)
		if s.Mode != m {
			t.Fatalf("tick %d: mode = %v, want %v", i+1, s.Mode, m)
		}
		if s.CategoryIndex != 0 {
			t.Fatalf("tick %d: mode toggle moved the category to %d", i+1, s.CategoryIndex)
		}
	}
}

func TestAdvance_ElapsedShortOfIntervalHolds(t *testing.T) {
	s := NewState(at(0))
	next := Advance(s, at(9), 3, 20*time.Second, 10*time.Second)
	if next != s {
		t.Fatalf("state changed before either interval elapsed: %+v", next)
	}
}

func TestAdvance_CategorySwitchResetsMode(t *testing.T) {
	const (
		categoryEvery = 20 * time.Second
		modeEvery     = 10 * time.Second
	)
	s := NewState(at(0))
	s = Advance(s, at(10), 3, categoryEvery, modeEvery)
	if s.Mode != ModeContent {
		t.Fatalf("mode = %v, want content", s.Mode)
	}

	// The category timer fires first and re-anchors the mode timer, so the
	// new category always opens on its title view.
	s = Advance(s, at(20), 3, categoryEvery, modeEvery)
	if s.CategoryIndex != 1 {
		t.Fatalf("index = %d, want 1", s.CategoryIndex)
	}
	if s.Mode != ModeTitle {
		t.Fatalf("mode = %v, want title after category switch", s.Mode)
	}
	if !s.LastModeSwitch.Equal(at(20)) {
		t.Fatalf("mode timer not re-anchored: %v", s.LastModeSwitch)
	}

	// The re-anchored mode timer needs a full interval again.
	s = Advance(s, at(25), 3, categoryEvery, modeEvery)
	if s.Mode != ModeTitle {
		t.Fatalf("mode toggled %v early after re-anchor", s.Mode)
	}
}

func TestAdvance_LevelTriggered(t *testing.T) {
	// A single tick after many missed intervals advances one step, not many.
	s := NewState(at(0))
	s = Advance(s, at(500), 5, 10*time.Second, time.Hour)
	if s.CategoryIndex != 1 {
		t.Fatalf("index = %d, want exactly one step", s.CategoryIndex)
	}
}

func TestAdvance_ClampsStaleIndex(t *testing.T) {
	s := NewState(at(0))
	s.CategoryIndex = 5
	s = Advance(s, at(1), 3, time.Hour, time.Hour)
	if s.CategoryIndex != 2 {
		t.Fatalf("index = %d, want stale value folded into range", s.CategoryIndex)
	}
}

func TestAdvance_NoCategoriesLeavesStateAlone(t *testing.T) {
	s := NewState(at(0))
	s.CategoryIndex = 7
	s.Mode = ModeContent
	if got := Advance(s, at(1000), 0, time.Second, time.Second); got != s {
		t.Fatalf("state changed with no eligible categories: %+v", got)
	}
}

func TestModeString(t *testing.T) {
	if ModeTitle.String() != "title" || ModeContent.String() != "content" {
		t.Fatal("unexpected mode names")
	}
}
