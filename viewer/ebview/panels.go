package ebview

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"
	"github.com/plus3/stagekit/ecs"
	"github.com/plus3/stagekit/scene"
)

const historyFrames = 240

// intensityHistory keeps a ring of recent light intensities per role.
type intensityHistory struct {
	roles   []string
	samples map[string][]float32
	offset  int
	plot    []float32
}

func newIntensityHistory() *intensityHistory {
	return &intensityHistory{samples: make(map[string][]float32)}
}

func (h *intensityHistory) record(role string, intensity float32) {
	ring, ok := h.samples[role]
	if !ok {
		ring = make([]float32, historyFrames)
		h.samples[role] = ring
		h.roles = append(h.roles, role)
	}
	ring[h.offset] = intensity
}

func (h *intensityHistory) advance() {
	h.offset = (h.offset + 1) % historyFrames
}

// ordered returns role's samples oldest first. The slice is reused.
func (h *intensityHistory) ordered(role string) []float32 {
	ring := h.samples[role]
	h.plot = append(h.plot[:0], ring[h.offset:]...)
	h.plot = append(h.plot, ring[:h.offset]...)
	return h.plot
}

type lightRow struct {
	Name  *scene.Name
	Light *scene.Light
}

type soundRow struct {
	Name  *scene.Name
	Sound *scene.Sound
}

// scenePanel shows what the scene is doing this frame: held keys, light
// intensities, and music state.
type scenePanel struct {
	scene   *scene.Scene
	lights  *ecs.View[lightRow]
	sounds  *ecs.View[soundRow]
	history *intensityHistory
}

func newScenePanel(s *scene.Scene) *scenePanel {
	return &scenePanel{
		scene:   s,
		lights:  ecs.NewView[lightRow](s.Storage()),
		sounds:  ecs.NewView[soundRow](s.Storage()),
		history: newIntensityHistory(),
	}
}

// sample records the frame's light intensities. Called once per scene frame.
func (p *scenePanel) sample() {
	for row := range p.lights.Values() {
		p.history.record(row.Name.Role, row.Light.Intensity)
	}
	p.history.advance()
}

func (p *scenePanel) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(360, 420), imgui.CondOnce)
	if !imgui.BeginV("Scene", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	s := p.scene
	imgui.Text(fmt.Sprintf("%s  frame %d", s.Name(), s.Frames()))
	held := s.Input().Held()
	if len(held) == 0 {
		imgui.TextDisabled("no keys held")
	} else {
		imgui.Text("held: " + strings.Join(held, " "))
	}
	if imgui.Button("Release keys") {
		s.Input().Reset()
	}

	if imgui.CollapsingHeaderTreeNodeFlagsV("Lights", imgui.TreeNodeFlagsDefaultOpen) {
		for row := range p.lights.Values() {
			imgui.Text(fmt.Sprintf("%-8s %-11s %6.2f", row.Name.Role, row.Light.Kind, row.Light.Intensity))
		}
		if len(p.history.roles) > 0 && implot.BeginPlotV("Intensity", imgui.NewVec2(-1, 180), 0) {
			implot.SetupAxesV("Frame", "Intensity", 0, implot.AxisFlagsAutoFit)
			for _, role := range p.history.roles {
				samples := p.history.ordered(role)
				implot.PlotLineFloatPtrInt(role, &samples[0], int32(len(samples)))
			}
			implot.EndPlot()
		}
	}

	if imgui.CollapsingHeaderTreeNodeFlagsV("Music", imgui.TreeNodeFlagsDefaultOpen) {
		for row := range p.sounds.Values() {
			p.renderSound(row)
		}
	}
}

func (p *scenePanel) renderSound(row soundRow) {
	sound := row.Sound
	state := "stopped"
	if sound.Player != nil && sound.Player.IsPlaying() {
		state = "playing"
	}
	imgui.Text(fmt.Sprintf("%s: %s (%s)", row.Name.Role, sound.Path, state))
	if err := sound.Err(); err != nil {
		imgui.TextColored(imgui.NewVec4(1, 0.4, 0.4, 1), err.Error())
	}
	if sound.Player == nil || sound.Loop {
		// Looping tracks are restarted by the scene whenever they stop.
		return
	}
	imgui.SameLine()
	if sound.Player.IsPlaying() {
		if imgui.Button("Stop##" + row.Name.Role) {
			sound.Player.Stop()
		}
	} else if imgui.Button("Play##" + row.Name.Role) {
		if err := sound.Player.Play(); err != nil {
			p.scene.Logger().Warn("play failed", "role", row.Name.Role, "err", err)
		}
	}
}
