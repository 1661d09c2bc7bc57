package anim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriangleStaysInBounds(t *testing.T) {
	tests := []struct {
		name string
		tri  Triangle
	}{
		{"rising from start", Triangle{Value: 3, Floor: 0.1, Ceiling: 4, Step: 0.1, Rising: true}},
		{"falling from start", Triangle{Value: 3, Floor: 0.1, Ceiling: 4, Step: 0.1}},
		{"uneven step", Triangle{Value: 1, Floor: 0, Ceiling: 1, Step: 0.3}},
		{"step larger than range", Triangle{Value: 0.5, Floor: 0, Ceiling: 1, Step: 5, Rising: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tri := tt.tri
			for range 500 {
				tri.Advance()
				require.GreaterOrEqual(t, tri.Value, tri.Floor)
				require.LessOrEqual(t, tri.Value, tri.Ceiling)
			}
		})
	}
}

func TestTriangleReversesAtBounds(t *testing.T) {
	tri := Triangle{Value: 3.85, Floor: 0.1, Ceiling: 4, Step: 0.1, Rising: true}

	tri.Advance()
	assert.InDelta(t, 3.95, tri.Value, 1e-5)
	assert.True(t, tri.Rising)

	tri.Advance()
	assert.Equal(t, float32(4), tri.Value, "overshoot is clamped to the ceiling")
	assert.False(t, tri.Rising)

	tri.Advance()
	assert.InDelta(t, 3.9, tri.Value, 1e-5)
	assert.False(t, tri.Rising)

	low := Triangle{Value: 0.15, Floor: 0.1, Ceiling: 4, Step: 0.1}
	low.Advance()
	assert.Equal(t, float32(0.1), low.Value)
	assert.True(t, low.Rising)
	low.Advance()
	assert.InDelta(t, 0.2, low.Value, 1e-5)
}

func TestTriangleOppositePhases(t *testing.T) {
	red := Triangle{Value: 3, Floor: 0.1, Ceiling: 4, Step: 0.1, Rising: true}
	blue := Triangle{Value: 3, Floor: 0.1, Ceiling: 4, Step: 0.1}

	for range 5 {
		red.Advance()
		blue.Advance()
	}
	assert.InDelta(t, 3.5, red.Value, 1e-4)
	assert.InDelta(t, 2.5, blue.Value, 1e-4)
}

func TestTriangleAdvanceBy(t *testing.T) {
	tri := Triangle{Value: 1, Floor: 0, Ceiling: 2, Step: 0.1, Rising: true}
	tri.AdvanceBy(3)
	assert.InDelta(t, 1.3, tri.Value, 1e-5)
}
