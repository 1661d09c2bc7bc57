package ebview

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/stagekit/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectionRoundTrip(t *testing.T) {
	p := Projection{CenterX: 2, CenterZ: -3, Zoom: 20, Width: 800, Height: 600}

	x, y := p.ToScreen(mgl32.Vec3{2, 7, -3})
	assert.InDelta(t, 400, x, 1e-4)
	assert.InDelta(t, 300, y, 1e-4)

	// +Z is up the screen.
	_, upY := p.ToScreen(mgl32.Vec3{2, 0, -2})
	assert.Less(t, upY, y)

	wx, wz := p.ToWorld(123, 456)
	x, y = p.ToScreen(mgl32.Vec3{wx, 0, wz})
	assert.InDelta(t, 123, x, 1e-3)
	assert.InDelta(t, 456, y, 1e-3)
}

func TestProjectionZoomAtKeepsCursorPoint(t *testing.T) {
	p := Projection{Zoom: 20, Width: 800, Height: 600}
	beforeX, beforeZ := p.ToWorld(600, 100)

	p.ZoomAt(600, 100, 2)
	assert.InDelta(t, 40, p.Zoom, 1e-4)
	afterX, afterZ := p.ToWorld(600, 100)
	assert.InDelta(t, beforeX, afterX, 1e-4)
	assert.InDelta(t, beforeZ, afterZ, 1e-4)

	p.ZoomAt(0, 0, 1000)
	assert.Equal(t, float32(maxZoom), p.Zoom)
	p.ZoomAt(0, 0, 0.0001)
	assert.Equal(t, float32(minZoom), p.Zoom)
}

func TestFitZoom(t *testing.T) {
	assert.InDelta(t, 24, fitZoom(20, 800, 600), 1e-4)
	assert.Equal(t, float32(maxZoom), fitZoom(0.1, 800, 600))
}

func TestSpotPool(t *testing.T) {
	hit, radius, ok := spotPool(mgl32.Vec3{5, 20, 10}, mgl32.Vec3{-1, -2, -1}, math32.Pi/3)
	require.True(t, ok)
	assert.InDelta(t, -5, hit.X(), 1e-3)
	assert.InDelta(t, 0, hit.Y(), 1e-6)
	assert.InDelta(t, 0, hit.Z(), 1e-3)

	dist := mgl32.Vec3{10, 20, 10}.Len()
	assert.InDelta(t, dist*math32.Tan(math32.Pi/6), radius, 1e-3)

	_, _, ok = spotPool(mgl32.Vec3{0, 20, 0}, mgl32.Vec3{0, 1, 0}, 1)
	assert.False(t, ok, "light pointing up")
	_, _, ok = spotPool(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, -1, 0}, 1)
	assert.False(t, ok, "light below ground")
}

func TestFootprintFollowsRotation(t *testing.T) {
	size := mgl32.Vec3{2, 2, 2}
	square := footprint(mgl32.QuatIdent(), size)
	assert.Equal(t, mgl32.Vec3{-1, 0, -1}, square[0])
	assert.Equal(t, mgl32.Vec3{1, 0, 1}, square[2])

	turned := footprint(mgl32.QuatRotate(math32.Pi/4, mgl32.Vec3{0, 1, 0}), size)
	for _, c := range turned {
		assert.InDelta(t, math32.Sqrt(2), c.Len(), 1e-4)
		assert.InDelta(t, 0, c.Y(), 1e-6)
	}
	assert.InDelta(t, 0, turned[0].Z(), 1e-4)
}

func TestShadeClampsChannels(t *testing.T) {
	c := shade(scene.Color{R: 2, G: 0.5, B: -1}, 1, 200)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(128), c.G)
	assert.Equal(t, uint8(0), c.B)
	assert.Equal(t, uint8(200), c.A)

	dim := shade(scene.White, 0.5, 255)
	assert.Equal(t, uint8(128), dim.R)
}

func TestAmbientLevel(t *testing.T) {
	items := []drawItem{
		{Light: &scene.Light{Kind: scene.LightHemispheric, Intensity: 0.3}},
		{Light: &scene.Light{Kind: scene.LightSpot, Intensity: 4}},
		{Mesh: &scene.Mesh{Kind: scene.MeshBox}},
	}
	assert.InDelta(t, 0.65, ambientLevel(items), 1e-6)

	items[1].Light.Kind = scene.LightHemispheric
	assert.Equal(t, float32(1), ambientLevel(items))
}

func TestDrawLayers(t *testing.T) {
	ground := drawItem{Mesh: &scene.Mesh{Kind: scene.MeshGround}}
	sky := drawItem{Skybox: &scene.Skybox{Size: 150}}
	box := drawItem{Mesh: &scene.Mesh{Kind: scene.MeshBox}}
	light := drawItem{Light: &scene.Light{}}
	cam := drawItem{Camera: &scene.Camera{}}

	assert.Equal(t, layerGround, ground.layer())
	assert.Equal(t, layerGround, sky.layer())
	assert.Equal(t, layerMesh, box.layer())
	assert.Equal(t, layerLight, light.layer())
	assert.Equal(t, layerCamera, cam.layer())
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, "w", KeyName(ebiten.KeyW, false))
	assert.Equal(t, "W", KeyName(ebiten.KeyW, true))
	assert.Equal(t, "d", KeyName(ebiten.KeyD, false))
	assert.Equal(t, "ArrowUp", KeyName(ebiten.KeyArrowUp, false))
}

type recordingSink struct {
	events []string
}

func (r *recordingSink) KeyDown(key string) { r.events = append(r.events, "+"+key) }
func (r *recordingSink) KeyUp(key string)   { r.events = append(r.events, "-"+key) }

func TestKeyReaderForwardsReleasesFirst(t *testing.T) {
	k := keyReader{
		pressed:  []ebiten.Key{ebiten.KeyW, ebiten.KeyA},
		released: []ebiten.Key{ebiten.KeyW},
	}
	var sink recordingSink
	k.forward(&sink)
	assert.Equal(t, []string{"-w", "-W", "+w", "+a"}, sink.events)
}

func TestKeyReaderShift(t *testing.T) {
	k := keyReader{pressed: []ebiten.Key{ebiten.KeyW}, shift: true}
	var sink recordingSink
	k.forward(&sink)
	assert.Equal(t, []string{"+W"}, sink.events)
}

func TestIntensityHistoryOrdersOldestFirst(t *testing.T) {
	h := newIntensityHistory()
	for i := range historyFrames + 3 {
		h.record("light", float32(i))
		h.advance()
	}
	samples := h.ordered("light")
	require.Len(t, samples, historyFrames)
	assert.Equal(t, float32(3), samples[0])
	assert.Equal(t, float32(historyFrames+2), samples[len(samples)-1])
	assert.Equal(t, []string{"light"}, h.roles)
}
