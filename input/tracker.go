// Package input tracks which keys are held between frames. Viewers push
// key-down and key-up events in; scene systems read the result.
package input

import (
	"maps"
	"slices"
)

// Tracker records the pressed state of named keys. Names are stored as
// given, so "W" and "w" are different keys. Keys that were never seen read as
// released. There is no debouncing or repeat suppression, and the last event
// for a key wins.
type Tracker struct {
	state map[string]bool
}

// NewTracker returns a tracker with every key released.
func NewTracker() *Tracker {
	return &Tracker{state: make(map[string]bool)}
}

// KeyDown marks key as pressed.
func (t *Tracker) KeyDown(key string) {
	if t.state == nil {
		t.state = make(map[string]bool)
	}
	t.state[key] = true
}

// KeyUp marks key as released.
func (t *Tracker) KeyUp(key string) {
	if t.state == nil {
		t.state = make(map[string]bool)
	}
	t.state[key] = false
}

// Pressed reports whether key is currently held.
func (t *Tracker) Pressed(key string) bool {
	return t.state[key]
}

// Held returns the pressed keys in sorted order.
func (t *Tracker) Held() []string {
	held := make([]string, 0, len(t.state))
	for _, key := range slices.Sorted(maps.Keys(t.state)) {
		if t.state[key] {
			held = append(held, key)
		}
	}
	return held
}

// Reset releases every key. Viewers call it when the window loses focus and
// key-up events may never arrive.
func (t *Tracker) Reset() {
	clear(t.state)
}
