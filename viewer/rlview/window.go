// Package rlview renders scenes in 3D with raylib. It owns the window and
// audio device, turns raylib key state into scene key events, and plays
// scene music through raylib music streams.
package rlview

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/plus3/stagekit/audio"
	"github.com/plus3/stagekit/ecs"
	"github.com/plus3/stagekit/input"
	"github.com/plus3/stagekit/scene"
)

// fovy matches the default arc-rotate camera's 0.8 rad field of view.
const fovy = 45.8

const orbitSensitivity = 0.01

var (
	skyTop    = rl.NewColor(70, 110, 170, 255)
	skyBottom = rl.NewColor(190, 210, 230, 255)
	void      = rl.NewColor(20, 22, 28, 255)
)

type Options struct {
	Title         string
	Width, Height int
	FPS           int
	// Audio opens the audio device and plays music through raylib. When
	// false, scenes get silent players.
	Audio  bool
	Volume float32
	Logger *slog.Logger
}

type drawItem struct {
	Name      *scene.Name
	Transform *scene.Transform
	Mesh      *scene.Mesh     `ecs:"optional"`
	Material  *scene.Material `ecs:"optional"`
	Light     *scene.Light    `ecs:"optional"`
	Skybox    *scene.Skybox   `ecs:"optional"`
}

// Window is an open raylib window. Only one may exist per process.
type Window struct {
	logger  *slog.Logger
	streams *Streams

	models   map[string]rl.Model
	textures map[string]rl.Texture2D
	skies    map[string][]skyPlane
	camera   rl.Camera3D

	view    *ecs.View[drawItem]
	lights  []lightSample
	keys    []watchedKey
	focused bool
}

// Open creates the window and, if enabled, the audio device.
func Open(opts Options) *Window {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	rl.SetTargetFPS(int32(opts.FPS))

	w := &Window{
		logger:   opts.Logger,
		models:   make(map[string]rl.Model),
		textures: make(map[string]rl.Texture2D),
		skies:    make(map[string][]skyPlane),
		focused:  true,
	}
	if opts.Audio {
		rl.InitAudioDevice()
		rl.SetMasterVolume(opts.Volume)
		w.streams = &Streams{}
	}
	return w
}

// Audio returns the factory scenes shown in this window should open sounds
// with.
func (w *Window) Audio() audio.Factory {
	if w.streams == nil {
		return audio.NewSilent
	}
	return w.streams.Open
}

// Run shows s until the window is closed, then disposes it.
func (w *Window) Run(s *scene.Scene) {
	defer s.Dispose()

	w.view = ecs.NewView[drawItem](s.Storage())
	var unknown []string
	w.keys, unknown = watch(boundKeys(s.Storage()))
	if len(unknown) > 0 {
		w.logger.Warn("keys not available in raylib", "keys", unknown)
	}
	w.logger.Info("window opened", "scene", s.Name(), "keys", len(w.keys))

	last := rl.GetTime()
	for !rl.WindowShouldClose() {
		now := rl.GetTime()
		dt := now - last
		last = now

		w.poll(s)
		w.control(s)
		if w.streams != nil {
			w.streams.Update()
		}
		s.Frame(dt, func(*ecs.UpdateFrame) { w.draw(s) })
	}
}

// Close releases GPU and audio resources and closes the window. Call it
// after Run has returned.
func (w *Window) Close() {
	for _, m := range w.models {
		rl.UnloadModel(m)
	}
	for _, planes := range w.skies {
		for _, p := range planes {
			rl.UnloadModel(p.model)
		}
	}
	for _, t := range w.textures {
		if t.ID != 0 {
			rl.UnloadTexture(t)
		}
	}
	if w.streams != nil {
		w.streams.Close()
		rl.CloseAudioDevice()
	}
	rl.CloseWindow()
}

func (w *Window) poll(s *scene.Scene) {
	// Releases are missed while unfocused, so drop every held key.
	if !rl.IsWindowFocused() {
		if w.focused {
			s.Input().Reset()
		}
		w.focused = false
		return
	}
	w.focused = true

	shift := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	for _, k := range w.keys {
		if rl.IsKeyReleased(k.code) {
			for _, name := range input.ReleaseNames(k.name) {
				s.KeyUp(name)
			}
		}
		if rl.IsKeyPressed(k.code) {
			s.KeyDown(input.KeyName(k.name, shift))
		}
	}
}

func (w *Window) control(s *scene.Scene) {
	cam, ok := s.Camera()
	if !ok || !cam.UserControl {
		return
	}
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		cam.Orbit(d.X*orbitSensitivity, -d.Y*orbitSensitivity)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.Zoom(max(1-wheel*0.1, 0.1))
	}
}

func (w *Window) draw(s *scene.Scene) {
	if cam, ok := s.Camera(); ok {
		w.camera = cameraFor(*cam, fovy)
	}

	w.lights = w.lights[:0]
	var sky *drawItem
	for item := range w.view.Values() {
		if item.Light != nil {
			w.lights = append(w.lights, lightSample{Position: item.Transform.Position, Light: *item.Light})
		}
		if item.Skybox != nil && sky == nil {
			sky = &item
		}
	}

	var planes []skyPlane
	rl.BeginDrawing()
	rl.ClearBackground(void)
	if sky != nil {
		if planes = w.skybox(*sky.Skybox); planes == nil {
			rl.DrawRectangleGradientV(0, 0, int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()), skyTop, skyBottom)
		}
	}

	rl.BeginMode3D(w.camera)
	if planes != nil {
		drawSkybox(planes, sky.Transform.Position, sky.Skybox.Size)
	}
	for item := range w.view.Values() {
		switch {
		case item.Skybox != nil:
			// Drawn first.
		case item.Mesh != nil:
			w.drawMesh(item)
		case item.Light != nil:
			drawLight(item)
		}
	}
	rl.EndMode3D()

	rl.DrawFPS(10, 10)
	status := fmt.Sprintf("%s  frame %d", s.Name(), s.Frames())
	if held := s.Input().Held(); len(held) > 0 {
		status += "  held: " + strings.Join(held, " ")
	}
	rl.DrawText(status, 10, 36, 20, rl.RayWhite)
	rl.EndDrawing()
}

func (w *Window) drawMesh(item drawItem) {
	t := item.Transform
	diffuse := scene.White
	if item.Material != nil {
		diffuse = item.Material.Diffuse
	}
	tint := toColor(illuminate(t.Position, diffuse, w.lights), 255)

	model := w.model(item.Name.Role, *item.Mesh, item.Material)
	axis, angle := axisAngle(t.Rotation)
	rl.DrawModelEx(model, toVector3(t.Position), axis, angle, rl.NewVector3(t.Scale.X(), t.Scale.Y(), t.Scale.Z()), tint)
}

func drawLight(item drawItem) {
	l := item.Light
	if l.Kind == scene.LightHemispheric {
		return
	}
	pos := item.Transform.Position
	col := toColor(l.Diffuse, 255)
	rl.DrawSphere(toVector3(pos), 0.25, col)
	if l.Kind == scene.LightSpot && l.Direction.Len() > 0 {
		rl.DrawLine3D(toVector3(pos), toVector3(pos.Add(l.Direction.Normalize().Mul(2+l.Intensity))), col)
	}
}

// model builds role's mesh on first use. Meshes are not rebuilt when their
// size changes.
func (w *Window) model(role string, mesh scene.Mesh, material *scene.Material) rl.Model {
	if m, ok := w.models[role]; ok {
		return m
	}

	var gen rl.Mesh
	size := mesh.Size
	switch mesh.Kind {
	case scene.MeshSphere:
		rings := max(mesh.Segments, 8)
		gen = rl.GenMeshSphere(size.X()/2, rings, rings)
	case scene.MeshGround:
		gen = rl.GenMeshPlane(size.X(), size.Z(), 1, 1)
	default:
		gen = rl.GenMeshCube(size.X(), size.Y(), size.Z())
	}
	m := rl.LoadModelFromMesh(gen)
	if material != nil && material.Texture != "" {
		if tex, ok := w.texture(material.Texture); ok && m.Materials != nil && m.Materials.Maps != nil {
			m.Materials.Maps.Texture = tex
		}
	}
	w.models[role] = m
	return m
}

func (w *Window) texture(path string) (rl.Texture2D, bool) {
	if tex, ok := w.textures[path]; ok {
		return tex, tex.ID != 0
	}
	var tex rl.Texture2D
	if _, err := os.Stat(path); err != nil {
		w.logger.Warn("texture unavailable", "path", path, "err", err)
	} else {
		tex = rl.LoadTexture(path)
	}
	w.textures[path] = tex
	return tex, tex.ID != 0
}

// boundKeys lists every key a controlled entity in storage listens to.
func boundKeys(storage *ecs.Storage) []string {
	var keys []string
	for c := range ecs.NewView[struct{ *scene.Controlled }](storage).Values() {
		keys = append(keys, c.Keys.Keys()...)
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}
