// Package debugui draws Dear ImGui panels from an ECS world. Panels are
// ordinary entities; PanelSystem queues their render functions so they run
// after the frame's systems, inside the backend's ImGui frame.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stagekit/ecs"
)

// Panel is a component holding an ImGui render function.
type Panel struct {
	Title  string
	Render func()
}

// InputCapture is a singleton reporting whether ImGui wants the mouse or
// keyboard this frame. Viewers check it before forwarding input to a scene.
type InputCapture struct {
	Mouse    bool
	Keyboard bool
}

// PanelSystem refreshes InputCapture and defers every Panel's Render.
type PanelSystem struct {
	Panels  ecs.Query[struct{ *Panel }]
	Capture ecs.Singleton[InputCapture]
}

func (s *PanelSystem) Execute(frame *ecs.UpdateFrame) {
	if capture := s.Capture.Get(); capture != nil {
		io := imgui.CurrentIO()
		capture.Mouse = io.WantCaptureMouse()
		capture.Keyboard = io.WantCaptureKeyboard()
	}

	for panel := range s.Panels.Values() {
		if panel.Render != nil {
			frame.Commands.Defer(panel.Render)
		}
	}
}

// RegisterComponents registers the debugui component types with registry.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Panel](registry)
	ecs.RegisterComponent[InputCapture](registry)
}
