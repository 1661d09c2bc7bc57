// Package anim holds the periodic primitives scene systems animate with: a
// wrapping phase accumulator, a bouncing triangle oscillator, and the signals
// derived from them.
package anim

import "github.com/chewxy/math32"

// Phase is a normalised angle in [0,1) that advances by Speed each frame.
// One full turn of the phase is one period of every signal derived from it.
type Phase struct {
	Value float32
	Speed float32
}

// NewPhase returns a phase starting at start (wrapped into [0,1)).
func NewPhase(start, speed float32) Phase {
	return Phase{Value: wrap(start), Speed: speed}
}

// Advance moves the phase forward by one frame.
func (p *Phase) Advance() {
	p.AdvanceBy(1)
}

// AdvanceBy moves the phase forward by scale frames. Fractional scales are
// used when animation is tied to elapsed time rather than frame count.
func (p *Phase) AdvanceBy(scale float32) {
	p.Value = wrap(p.Value + p.Speed*scale)
}

// Angle returns the phase in radians.
func (p Phase) Angle() float32 {
	return p.Value * 2 * math32.Pi
}

// Sin returns sin(2π·phase).
func (p Phase) Sin() float32 {
	return math32.Sin(p.Angle())
}

// Cos returns cos(2π·phase).
func (p Phase) Cos() float32 {
	return math32.Cos(p.Angle())
}

func wrap(v float32) float32 {
	v = math32.Mod(v, 1)
	if v < 0 {
		v++
	}
	// v+1 can round up to exactly 1 for tiny negative inputs.
	if v >= 1 {
		v = 0
	}
	return v
}
