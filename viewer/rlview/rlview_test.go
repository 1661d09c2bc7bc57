package rlview

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stagekit/audio"
	"github.com/plus3/stagekit/config"
	"github.com/plus3/stagekit/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToVector3MirrorsZ(t *testing.T) {
	assert.Equal(t, rl.NewVector3(1, 2, -3), toVector3(mgl32.Vec3{1, 2, 3}))
}

func TestAxisAngle(t *testing.T) {
	axis, angle := axisAngle(mgl32.QuatIdent())
	assert.Equal(t, float32(0), angle)
	assert.Equal(t, rl.NewVector3(0, 1, 0), axis)

	// Spinning about Z is unchanged by the mirror.
	axis, angle = axisAngle(mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{0, 0, 1}))
	assert.InDelta(t, 90, angle, 1e-3)
	assert.InDelta(t, 1, axis.Z, 1e-5)

	// Turning about Y reverses direction.
	axis, angle = axisAngle(mgl32.QuatRotate(math32.Pi/3, mgl32.Vec3{0, 1, 0}))
	assert.InDelta(t, 60, angle, 1e-3)
	assert.InDelta(t, -1, axis.Y, 1e-5)

	_, angle = axisAngle(mgl32.Quat{})
	assert.Equal(t, float32(0), angle)
}

func TestAxisAngleMatchesMirroredRotation(t *testing.T) {
	q := mgl32.QuatRotate(0.7, mgl32.Vec3{1, 2, 3}.Normalize())
	v := mgl32.Vec3{0.3, -1, 2}

	want := q.Rotate(v)
	want[2] = -want[2]

	axis, angle := axisAngle(q)
	m := mgl32.QuatRotate(mgl32.DegToRad(angle), mgl32.Vec3{axis.X, axis.Y, axis.Z})
	got := m.Rotate(mgl32.Vec3{v.X(), v.Y(), -v.Z()})

	assert.True(t, want.ApproxEqualThreshold(got, 1e-4), "want %v got %v", want, got)
}

func TestToColorClamps(t *testing.T) {
	assert.Equal(t, rl.NewColor(255, 128, 0, 255), toColor(scene.Color{R: 4, G: 0.5, B: -2}, 255))
}

func TestCameraFor(t *testing.T) {
	cam := scene.Camera{Alpha: -math32.Pi / 2, Beta: math32.Pi / 2, Radius: 10}
	c := cameraFor(cam, fovy)
	// Behind the origin in scene space is in front of it in raylib space.
	assert.InDelta(t, 10, c.Position.Z, 1e-4)
	assert.InDelta(t, 0, c.Position.Y, 1e-4)
	assert.Equal(t, rl.NewVector3(0, 1, 0), c.Up)
	assert.Equal(t, rl.CameraPerspective, c.Projection)
}

func TestKeyCode(t *testing.T) {
	for name, want := range map[string]int32{
		"w":       rl.KeyW,
		"W":       rl.KeyW,
		"a":       rl.KeyA,
		"z":       rl.KeyZ,
		"7":       rl.KeySeven,
		"ArrowUp": rl.KeyUp,
		" ":       rl.KeySpace,
	} {
		got, ok := KeyCode(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := KeyCode("hyper")
	assert.False(t, ok)
}

func TestWatchSplitsUnknownKeys(t *testing.T) {
	keys, unknown := watch([]string{"W", "hyper", "arrowleft"})
	assert.Equal(t, []watchedKey{{name: "w", code: rl.KeyW}, {name: "arrowleft", code: rl.KeyLeft}}, keys)
	assert.Equal(t, []string{"hyper"}, unknown)
}

func TestBoundKeys(t *testing.T) {
	s, err := scene.Load("start", config.Default(), scene.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "d", "s", "w"}, boundKeys(s.Storage()))

	s, err = scene.Load("orbit", config.Default(), scene.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	assert.Empty(t, boundKeys(s.Storage()))
}

func TestSpotFactor(t *testing.T) {
	light := mgl32.Vec3{0, 10, 0}
	down := mgl32.Vec3{0, -1, 0}

	assert.InDelta(t, 1, spotFactor(mgl32.Vec3{}, light, down, math32.Pi/3, 2), 1e-6)
	assert.Equal(t, float32(0), spotFactor(mgl32.Vec3{20, 0, 0}, light, down, math32.Pi/3, 2))

	// 20 degrees off axis, inside a 60 degree cone.
	off := mgl32.Vec3{10 * math32.Tan(mgl32.DegToRad(20)), 0, 0}
	cos := math32.Cos(mgl32.DegToRad(20))
	assert.InDelta(t, cos*cos, spotFactor(off, light, down, math32.Pi/3, 2), 1e-4)
}

func TestIlluminate(t *testing.T) {
	white := scene.White
	dark := illuminate(mgl32.Vec3{}, white, nil)
	assert.InDelta(t, baseAmbient, dark.R, 1e-6)

	lights := []lightSample{
		{Light: scene.Light{Kind: scene.LightHemispheric, Intensity: 0.3, Diffuse: scene.White}},
		{Position: mgl32.Vec3{0, 10, 0}, Light: scene.Light{
			Kind: scene.LightSpot, Direction: mgl32.Vec3{0, -1, 0}, Angle: math32.Pi / 3, Exponent: 2,
			Intensity: 2, Diffuse: scene.Color{R: 1},
		}},
	}
	lit := illuminate(mgl32.Vec3{}, white, lights)
	assert.InDelta(t, baseAmbient+0.3+2, lit.R, 1e-5)
	assert.InDelta(t, baseAmbient+0.3, lit.G, 1e-5)

	outside := illuminate(mgl32.Vec3{50, 0, 0}, white, lights)
	assert.InDelta(t, baseAmbient+0.3, outside.R, 1e-5)

	tinted := illuminate(mgl32.Vec3{}, scene.Color{B: 1}, lights)
	assert.Equal(t, float32(0), tinted.R)
}

func TestStreamsOpenRejectsBeforeLoading(t *testing.T) {
	var streams Streams
	dir := t.TempDir()

	_, err := streams.Open("", true)
	assert.ErrorIs(t, err, audio.ErrNoSource)

	_, err = streams.Open(filepath.Join(dir, "missing.ogg"), true)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	midi := filepath.Join(dir, "tune.wav")
	header := append([]byte("MThd\x00\x00\x00\x06"), make([]byte, 64)...)
	require.NoError(t, os.WriteFile(midi, header, 0o644))
	_, err = streams.Open(midi, true)
	assert.ErrorIs(t, err, ErrUndecodable)

	streams.Close()
}

func TestStreamsForgetClosedStreams(t *testing.T) {
	var streams Streams
	first := &stream{owner: &streams}
	second := &stream{owner: &streams}
	streams.open = []*stream{first, second}

	assert.True(t, streams.forget(second))
	assert.Equal(t, []*stream{first}, streams.open)
	assert.False(t, streams.forget(second))

	streams.open = nil
	assert.NoError(t, first.Close(), "a stream already unloaded by Streams.Close is left alone")
}

func TestSkyFacesPointInward(t *testing.T) {
	center := mgl32.Vec3{0, 2, 0}
	seen := make(map[mgl32.Vec3]bool)
	for _, face := range skyFaces {
		pos, rot := face.placement(center, 150)
		assertVec3(t, center.Add(face.dir.Mul(75)), pos)

		normal := rot.Rotate(mgl32.Vec3{0, 1, 0})
		assertVec3(t, face.dir.Mul(-1), normal)
		seen[face.dir] = true
	}
	assert.Len(t, seen, 6)
	assert.Equal(t, "_px.jpg", skyFaces[0].suffix)
}

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d: want %v got %v", i, want, got)
	}
}
