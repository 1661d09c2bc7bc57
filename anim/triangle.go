package anim

// Triangle ramps Value between Floor and Ceiling by Step, reversing direction
// whenever it reaches a bound. Value is clamped so it never leaves the range,
// even when Step does not divide the range evenly.
type Triangle struct {
	Value   float32
	Floor   float32
	Ceiling float32
	Step    float32
	Rising  bool
}

// Advance moves the oscillator one frame.
func (t *Triangle) Advance() {
	t.AdvanceBy(1)
}

// AdvanceBy moves the oscillator scale frames' worth of Step. A bound that is
// reached reverses direction for the next call; the overshoot is discarded.
func (t *Triangle) AdvanceBy(scale float32) {
	delta := t.Step * scale
	if t.Rising {
		t.Value += delta
		if t.Value >= t.Ceiling {
			t.Value = t.Ceiling
			t.Rising = false
		}
	} else {
		t.Value -= delta
		if t.Value <= t.Floor {
			t.Value = t.Floor
			t.Rising = true
		}
	}
}
