package ebview

import (
	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/stagekit/ecs"
	"github.com/plus3/stagekit/ecs/debugui"
	"github.com/plus3/stagekit/scene"
)

// pointer is the drag state carried between ticks.
type pointer struct {
	panning, orbiting bool
	lastX, lastY      int
}

// SceneCamera points at the scene camera the mouse may orbit.
type SceneCamera struct {
	Scene *scene.Scene
}

// ViewControlSystem pans the plan with the left mouse button, zooms with the
// wheel, and orbits the scene's camera with the right button when the camera
// allows user control. It does nothing while ImGui owns the mouse.
type ViewControlSystem struct {
	Projection ecs.Singleton[Projection]
	Pointer    ecs.Singleton[pointer]
	Capture    ecs.Singleton[debugui.InputCapture]
	Camera     ecs.Singleton[SceneCamera]
}

const orbitSensitivity = 0.01

func (s *ViewControlSystem) Execute(frame *ecs.UpdateFrame) {
	proj := s.Projection.Get()
	ptr := s.Pointer.Get()
	if capture := s.Capture.Get(); capture != nil && capture.Mouse {
		ptr.panning, ptr.orbiting = false, false
		return
	}

	mx, my := ebiten.CursorPosition()
	dx, dy := float32(mx-ptr.lastX), float32(my-ptr.lastY)
	ptr.lastX, ptr.lastY = mx, my

	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if left && ptr.panning {
		proj.CenterX -= dx / proj.Zoom
		proj.CenterZ += dy / proj.Zoom
	}
	ptr.panning = left

	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	if right && ptr.orbiting {
		if ref := s.Camera.Get(); ref != nil && ref.Scene != nil {
			if cam, ok := ref.Scene.Camera(); ok && cam.UserControl {
				cam.Orbit(-dx*orbitSensitivity, -dy*orbitSensitivity)
			}
		}
	}
	ptr.orbiting = right

	if _, wheel := ebiten.Wheel(); wheel != 0 {
		proj.ZoomAt(float32(mx), float32(my), math32.Pow(1.15, float32(wheel)))
	}
}
