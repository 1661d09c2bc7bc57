package anim

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

// circularDistance measures how far apart two phases are, treating 0 and 1 as
// the same point.
func circularDistance(a, b float32) float32 {
	d := math32.Abs(a - b)
	return math32.Min(d, 1-d)
}

func TestPhaseAdvanceMatchesClosedForm(t *testing.T) {
	tests := []struct {
		name  string
		start float32
		speed float32
	}{
		{"spin", 0.3, 0.01},
		{"orbit", 0, 0.005},
		{"bob", 0, 0.006},
		{"fast", 0.9, 0.37},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPhase(tt.start, tt.speed)
			for n := 0; n <= 1000; n++ {
				want := math32.Mod(tt.start+float32(n)*tt.speed, 1)
				assert.LessOrEqual(t, circularDistance(p.Value, want), float32(1e-3), "frame %d", n)
				assert.GreaterOrEqual(t, p.Value, float32(0))
				assert.Less(t, p.Value, float32(1))
				p.Advance()
			}
		})
	}
}

func TestPhaseWrapsIntoUnitRange(t *testing.T) {
	assert.InDelta(t, 0.25, NewPhase(1.25, 0).Value, 1e-6)
	assert.InDelta(t, 0.75, NewPhase(-0.25, 0).Value, 1e-6)
	assert.Equal(t, float32(0), NewPhase(1, 0).Value)

	p := NewPhase(0.5, -0.2)
	p.Advance()
	p.Advance()
	p.Advance()
	assert.InDelta(t, 0.9, p.Value, 1e-5)
}

func TestPhaseAdvanceBy(t *testing.T) {
	p := NewPhase(0, 0.01)
	p.AdvanceBy(2.5)
	assert.InDelta(t, 0.025, p.Value, 1e-6)

	p.AdvanceBy(0)
	assert.InDelta(t, 0.025, p.Value, 1e-6)
}

func TestPhaseTrig(t *testing.T) {
	p := NewPhase(0.25, 0)
	assert.InDelta(t, math32.Pi/2, p.Angle(), 1e-6)
	assert.InDelta(t, 1, p.Sin(), 1e-6)
	assert.InDelta(t, 0, p.Cos(), 1e-6)
}
