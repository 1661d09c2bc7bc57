// Package scene builds and drives small demonstration scenes: placed meshes,
// lights and cameras, background music, keyboard movement, and a fixed set
// of per-frame animations run by an ECS scheduler.
package scene

import (
	"log/slog"

	"github.com/plus3/stagekit/ecs"
	"github.com/plus3/stagekit/input"
)

// Scene is a built world plus the systems that animate it. It is driven from
// a single goroutine: viewers call Frame from their render loop, headless
// runs call Tick.
type Scene struct {
	name      string
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	handle    Handle
	input     *input.Tracker
	logger    *slog.Logger

	disposers []func()
	disposed  bool
}

func newScene(name string, storage *ecs.Storage, handle Handle, logger *slog.Logger) *Scene {
	return &Scene{
		name:      name,
		storage:   storage,
		scheduler: ecs.NewScheduler(storage),
		handle:    handle,
		input:     input.NewTracker(),
		logger:    logger,
	}
}

func (s *Scene) Name() string {
	return s.name
}

// Handle returns the named entities created by the builder.
func (s *Scene) Handle() Handle {
	return s.handle
}

func (s *Scene) Storage() *ecs.Storage {
	return s.storage
}

func (s *Scene) Scheduler() *ecs.Scheduler {
	return s.scheduler
}

// Input returns the tracker key events are recorded in.
func (s *Scene) Input() *input.Tracker {
	return s.input
}

func (s *Scene) Logger() *slog.Logger {
	return s.logger
}

// KeyDown records key as held.
func (s *Scene) KeyDown(key string) {
	s.input.KeyDown(key)
}

// KeyUp records key as released.
func (s *Scene) KeyUp(key string) {
	s.input.KeyUp(key)
}

// Tick runs one frame with no render step.
func (s *Scene) Tick(dt float64) {
	s.Frame(dt, nil)
}

// Frame runs the before-render systems, render, then the after-render
// systems. It does nothing once the scene is disposed.
func (s *Scene) Frame(dt float64, render func(frame *ecs.UpdateFrame)) {
	if s.disposed {
		return
	}
	s.scheduler.Step(dt, render)
}

// Frames returns the number of frames run so far.
func (s *Scene) Frames() uint64 {
	return s.scheduler.Frames()
}

// Camera returns the active camera, or false if the scene has none.
func (s *Scene) Camera() (*Camera, bool) {
	var active *ActiveCamera
	s.storage.ReadSingleton(&active)
	return activeCamera(s.storage, active)
}

// OnDispose registers fn to run when the scene is disposed. Hooks run in
// registration order. Registering after disposal runs fn immediately.
func (s *Scene) OnDispose(fn func()) {
	if s.disposed {
		fn()
		return
	}
	s.disposers = append(s.disposers, fn)
}

// Dispose runs the dispose hooks. Only the first call has any effect.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	for _, fn := range s.disposers {
		fn()
	}
	s.disposers = nil
	s.input.Reset()
	s.logger.Info("scene disposed", "scene", s.name, "frames", s.scheduler.Frames())
}

// Disposed reports whether Dispose has run.
func (s *Scene) Disposed() bool {
	return s.disposed
}
