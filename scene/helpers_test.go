package scene

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stagekit/audio"
	"github.com/plus3/stagekit/config"
	"github.com/plus3/stagekit/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingAudio hands out Silent players and remembers them.
type recordingAudio struct {
	players []*audio.Silent
}

func (r *recordingAudio) open(path string, loop bool) (audio.Player, error) {
	p, err := audio.NewSilent(path, loop)
	if err != nil {
		return nil, err
	}
	r.players = append(r.players, p.(*audio.Silent))
	return p, nil
}

// brokenPlayer fails every Play.
type brokenPlayer struct {
	attempts int
}

var errNoDevice = errors.New("no audio device")

func (p *brokenPlayer) Play() error     { p.attempts++; return errNoDevice }
func (p *brokenPlayer) Stop()           {}
func (p *brokenPlayer) IsPlaying() bool { return false }
func (p *brokenPlayer) Close() error    { return nil }

func loadPreset(t *testing.T, name string, opts ...Option) *Scene {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	s, err := Load(name, config.Default(), opts...)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

func component[T any](t *testing.T, s *Scene, role string) *T {
	t.Helper()
	id, ok := s.Handle().Entity(role)
	require.True(t, ok, "role %q", role)
	c := ecs.ReadComponent[T](s.Storage(), id)
	require.NotNil(t, c, "role %q has no %T", role, *new(T))
	return c
}

func assertVec3(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], delta, "component %d: want %v got %v", i, want, got)
	}
}

func countNamed(s *Scene) int {
	n := 0
	for range ecs.NewView[struct{ *Name }](s.Storage()).Values() {
		n++
	}
	return n
}
