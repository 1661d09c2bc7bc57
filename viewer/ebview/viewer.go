// Package ebview is a top-down scene inspector built on ebiten. It draws a
// plan view of a running scene, forwards keyboard events to it, and hosts
// Dear ImGui panels for scene state, system timings, and entity editing.
package ebview

import (
	"log/slog"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/stagekit/ecs"
	"github.com/plus3/stagekit/ecs/debugui"
	debugebiten "github.com/plus3/stagekit/ecs/debugui/ebiten"
	"github.com/plus3/stagekit/scene"
)

type Options struct {
	Title         string
	Width, Height int
	TPS           int
	Logger        *slog.Logger
}

// Viewer is an ebiten.Game running one scene.
type Viewer struct {
	scene   *scene.Scene
	backend *debugebiten.Backend
	logger  *slog.Logger

	// The viewer's own world holds panels, the projection, and mouse state.
	ui          *ecs.Storage
	uiScheduler *ecs.Scheduler
	projection  *ecs.Singleton[Projection]
	capture     *ecs.Singleton[debugui.InputCapture]
	camera      *ecs.Singleton[SceneCamera]

	renderer  *Renderer
	panel     *scenePanel
	inspector *debugui.Inspector
	keys      keyReader
	focused   bool
	dt        float64

	mu      sync.Mutex
	pending *scene.Scene
	closed  bool
}

// New opens the window and prepares s for display. s should be built with
// an audio factory that suits the viewer, such as Music.Open.
func New(s *scene.Scene, opts Options) *Viewer {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.TPS > 0 {
		ebiten.SetTPS(opts.TPS)
	}

	backend := debugebiten.NewBackend(opts.Title, opts.Width, opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	registry := ecs.NewComponentRegistry()
	debugui.RegisterComponents(registry)
	ui := ecs.NewStorage(registry)

	v := &Viewer{
		scene:   s,
		backend: backend,
		logger:  opts.Logger,
		ui:      ui,
		focused: true,
	}
	v.projection = ecs.NewSingleton(ui, Projection{
		Zoom:   fitZoom(groundExtent(s.Storage()), opts.Width, opts.Height),
		Width:  opts.Width,
		Height: opts.Height,
	})
	v.capture = ecs.NewSingleton(ui, debugui.InputCapture{})
	ecs.NewSingleton(ui, pointer{})
	v.camera = ecs.NewSingleton(ui, SceneCamera{Scene: s})

	v.attach(s)
	v.spawnPanels()

	v.uiScheduler = ecs.NewScheduler(ui)
	v.uiScheduler.Register(&ViewControlSystem{})
	v.uiScheduler.Register(&debugui.PanelSystem{})
	return v
}

// attach points everything that reads scene state at s.
func (v *Viewer) attach(s *scene.Scene) {
	storage := s.Storage()
	v.scene = s
	v.camera.Get().Scene = s
	v.renderer = NewRenderer(storage, v.projection.Get())
	v.panel = newScenePanel(s)
	v.inspector = &debugui.Inspector{
		Label: func(id ecs.EntityId) string {
			if name := ecs.ReadComponent[scene.Name](storage, id); name != nil {
				return name.Role
			}
			return ""
		},
	}
}

// Panels go through v on every frame so they follow a reloaded scene.
func (v *Viewer) spawnPanels() {
	stats := debugui.NewStatsPanel(historyFrames)

	v.ui.Spawn(debugui.Panel{Title: "Scene", Render: func() {
		v.panel.Render()
	}})
	v.ui.Spawn(debugui.Panel{Title: "Stats", Render: func() {
		stats.Render(v.scene.Scheduler(), v.scene.Storage(), v.dt)
	}})
	v.ui.Spawn(debugui.Panel{Title: "Entities", Render: func() {
		v.inspector.Render(v.scene.Storage())
	}})
}

// Reload replaces the running scene with s at the start of the next frame
// and disposes the old one. A nil s cancels a reload that has not been
// shown yet. Once Run has returned, s is disposed straight away. It may be
// called from any goroutine.
func (v *Viewer) Reload(s *scene.Scene) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		if s != nil {
			s.Dispose()
		}
		return
	}
	if v.pending != nil {
		v.pending.Dispose()
	}
	v.pending = s
}

func (v *Viewer) swap() {
	v.mu.Lock()
	next := v.pending
	v.pending = nil
	v.mu.Unlock()
	if next == nil {
		return
	}

	v.scene.Dispose()
	v.attach(next)
	v.logger.Info("scene reloaded", "scene", next.Name())
}

// Run blocks until the window closes, then disposes the scene and any
// reload that never got shown.
func (v *Viewer) Run() error {
	v.logger.Info("viewer started", "scene", v.scene.Name())
	err := ebiten.RunGame(v)
	v.shutdown()
	return err
}

// shutdown disposes every scene the viewer holds and refuses later reloads.
func (v *Viewer) shutdown() {
	v.mu.Lock()
	v.closed = true
	pending := v.pending
	v.pending = nil
	v.mu.Unlock()

	if pending != nil {
		pending.Dispose()
	}
	v.scene.Dispose()
}

func (v *Viewer) Update() error {
	capture := v.capture.Get()
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || (ebiten.IsKeyPressed(ebiten.KeyQ) && !capture.Keyboard) {
		return ebiten.Termination
	}

	// Key-up events are lost while unfocused, so nothing may stay held.
	focused := ebiten.IsFocused()
	if v.focused && !focused {
		v.scene.Input().Reset()
	}
	v.focused = focused

	v.swap()
	v.dt = 1.0 / float64(ebiten.TPS())
	v.keys.poll()
	v.backend.Frame(func() {
		v.uiScheduler.Once(v.dt)
		if !capture.Keyboard {
			v.keys.forward(v.scene)
		}
		v.scene.Frame(v.dt, v.renderer.Render)
		v.panel.sample()
	})
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	if canvas := v.renderer.Canvas(); canvas != nil {
		screen.DrawImage(canvas, nil)
	}
	v.backend.DrawOver(screen)
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.backend.Layout(outsideWidth, outsideHeight)
	proj := v.projection.Get()
	proj.Width, proj.Height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// groundExtent is the widest ground in the scene, or 10 if there is none.
func groundExtent(storage *ecs.Storage) float32 {
	extent := float32(0)
	for mesh := range ecs.NewView[struct{ *scene.Mesh }](storage).Values() {
		if mesh.Kind == scene.MeshGround {
			extent = max(extent, mesh.Size.X(), mesh.Size.Z())
		}
	}
	if extent == 0 {
		return 10
	}
	return extent
}

// fitZoom fits extent world units into 80% of the smaller screen side.
func fitZoom(extent float32, width, height int) float32 {
	side := float32(min(width, height))
	return min(max(side*0.8/extent, minZoom), maxZoom)
}
