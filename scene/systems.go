package scene

import (
	"log/slog"

	"github.com/plus3/stagekit/anim"
	"github.com/plus3/stagekit/ecs"
	"github.com/plus3/stagekit/input"
)

// MovementSystem translates Controlled entities while their keys are held.
type MovementSystem struct {
	Movers ecs.Query[struct {
		*Transform
		*Controlled
	}]
	Input  ecs.Singleton[input.Tracker]
	Timing ecs.Singleton[Timing]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	tracker := s.Input.Get()
	if tracker == nil {
		return
	}
	scale := frameScale(&s.Timing, frame)

	for mover := range s.Movers.Values() {
		dx, dz := mover.Keys.Delta(tracker, mover.Step*scale)
		mover.Position[0] += dx
		mover.Position[2] += dz
	}
}

// MusicSystem keeps looping sounds playing and starts autoplay sounds once.
type MusicSystem struct {
	Sounds ecs.Query[struct {
		Name  *Name
		Sound *Sound
	}]
	Logger *slog.Logger
}

func (s *MusicSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Sounds.Values() {
		sound := item.Sound
		if sound.Player == nil || sound.err != nil || sound.Player.IsPlaying() {
			continue
		}
		if !sound.Loop && (!sound.Autoplay || sound.started) {
			continue
		}
		if err := sound.Player.Play(); err != nil {
			// A failed start is not retried every frame.
			sound.err = err
			if s.Logger != nil {
				s.Logger.Error("sound failed to start", "role", item.Name.Role, "path", sound.Path, "error", err)
			}
			continue
		}
		sound.started = true
	}
}

// FaceCameraSystem turns FaceCamera entities towards the active camera. It
// does nothing while the scene has no camera.
type FaceCameraSystem struct {
	Facers ecs.Query[struct {
		*Transform
		*FaceCamera
	}]
	Active ecs.Singleton[ActiveCamera]
}

func (s *FaceCameraSystem) Execute(frame *ecs.UpdateFrame) {
	cam, ok := activeCamera(frame.Storage, s.Active.Get())
	if !ok {
		return
	}
	eye := cam.Position()
	for facer := range s.Facers.Values() {
		facer.Rotation = anim.Facing(facer.Position, eye)
	}
}

// PulseSystem advances each pulsing light's triangle wave and copies it to
// the light's intensity.
type PulseSystem struct {
	Lights ecs.Query[struct {
		*Light
		*Pulse
	}]
	Timing ecs.Singleton[Timing]
}

func (s *PulseSystem) Execute(frame *ecs.UpdateFrame) {
	scale := frameScale(&s.Timing, frame)
	for light := range s.Lights.Values() {
		light.Wave.AdvanceBy(scale)
		light.Intensity = light.Wave.Value
	}
}

// SpinSystem sets each spinning entity's rotation from its phase, then
// advances the phase.
type SpinSystem struct {
	Spinners ecs.Query[struct {
		*Transform
		*Spin
	}]
	Timing ecs.Singleton[Timing]
}

func (s *SpinSystem) Execute(frame *ecs.UpdateFrame) {
	scale := frameScale(&s.Timing, frame)
	for spinner := range s.Spinners.Values() {
		spinner.Rotation = anim.Spin(spinner.Axis, spinner.Spin.Phase)
		spinner.Spin.Phase.AdvanceBy(scale)
	}
}

// OrbitSystem places orbiting entities on their ellipse and, for lights,
// sets intensity from the same phase before advancing it.
type OrbitSystem struct {
	Orbiters ecs.Query[struct {
		Transform *Transform
		Orbit     *Orbit
		Light     *Light `ecs:"optional"`
	}]
	Timing ecs.Singleton[Timing]
}

func (s *OrbitSystem) Execute(frame *ecs.UpdateFrame) {
	scale := frameScale(&s.Timing, frame)
	for item := range s.Orbiters.Values() {
		orbit := item.Orbit
		item.Transform.Position = anim.Ellipse(orbit.Center, orbit.RadiusX, orbit.RadiusZ, orbit.Phase)
		if item.Light != nil {
			item.Light.Intensity = orbit.Amplitude * orbit.Phase.Sin()
		}
		orbit.Phase.AdvanceBy(scale)
	}
}

// BobSystem sets each bobbing entity's height from its phase, then advances
// the phase.
type BobSystem struct {
	Bobbers ecs.Query[struct {
		*Transform
		*Bob
	}]
	Timing ecs.Singleton[Timing]
}

func (s *BobSystem) Execute(frame *ecs.UpdateFrame) {
	scale := frameScale(&s.Timing, frame)
	for bobber := range s.Bobbers.Values() {
		bobber.Position[1] = anim.Wave(bobber.Base, bobber.Range, bobber.Bob.Phase)
		bobber.Bob.Phase.AdvanceBy(scale)
	}
}

func frameScale(timing *ecs.Singleton[Timing], frame *ecs.UpdateFrame) float32 {
	t := timing.Get()
	if t == nil {
		return 1
	}
	return t.Scale(frame.DeltaTime)
}

// activeCamera resolves the active camera's component, if there is one.
func activeCamera(storage *ecs.Storage, active *ActiveCamera) (*Camera, bool) {
	if active == nil {
		return nil, false
	}
	id, ok := storage.ResolveEntityRef(active.Ref)
	if !ok {
		return nil, false
	}
	cam := ecs.ReadComponent[Camera](storage, id)
	return cam, cam != nil
}
