// Package rotation holds the display scheduler's state machine: which
// category is on screen and whether the title or the content view shows.
// Timers are level-triggered: each tick compares elapsed time against the
// interval and advances at most one step per timer, no matter how many
// intervals actually passed.
package rotation

import "time"

// Mode selects which view of the current category is on screen.
type Mode uint8

const (
	ModeTitle Mode = iota
	ModeContent
)

// String returns the mode name for logs.
func (m Mode) String() string {
	if m == ModeContent {
		return "content"
	}
	return "title"
}

// State is the scheduler's whole mutable state. It is a value; Advance
// returns the successor state rather than mutating in place.
type State struct {
	CategoryIndex      int
	Mode               Mode
	LastCategorySwitch time.Time
	LastModeSwitch     time.Time
}

// NewState returns the initial state with both timers anchored at now.
func NewState(now time.Time) State {
	return State{
		Mode:               ModeTitle,
		LastCategorySwitch: now,
		LastModeSwitch:     now,
	}
}

// Advance applies one tick at now against n eligible categories. The
// category timer is evaluated first; its firing resets the mode to title
// and re-anchors both timers. The mode timer is then evaluated against the
// possibly re-anchored timestamp. With n <= 0 the state is returned
// untouched.
func Advance(s State, now time.Time, n int, categoryEvery, modeEvery time.Duration) State {
	if n <= 0 {
		return s
	}

	// The eligible list can shrink between ticks; keep the index in range
	// rather than faulting on a stale value.
	if s.CategoryIndex >= n || s.CategoryIndex < 0 {
		s.CategoryIndex = ((s.CategoryIndex % n) + n) % n
	}

	if now.Sub(s.LastCategorySwitch) >= categoryEvery {
		s.CategoryIndex = (s.CategoryIndex + 1) % n
		s.Mode = ModeTitle
		s.LastCategorySwitch = now
		s.LastModeSwitch = now
	}

	if now.Sub(s.LastModeSwitch) >= modeEvery {
		if s.Mode == ModeTitle {
			s.Mode = ModeContent
		} else {
			s.Mode = ModeTitle
		}
		s.LastModeSwitch = now
	}

	return s
}
