package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stagekit/ecs"
)

// StatsPanel shows frame timing, per-system timings, and storage contents.
type StatsPanel struct {
	frames *frameHistory
}

// NewStatsPanel keeps the last historyFrames frame times for the graph.
func NewStatsPanel(historyFrames int) *StatsPanel {
	return &StatsPanel{frames: newFrameHistory(historyFrames)}
}

// Render draws the panel. dt is the last frame's duration in seconds.
func (p *StatsPanel) Render(scheduler *ecs.Scheduler, storage *ecs.Storage, dt float64) {
	if !imgui.BeginV("Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	p.frames.add(float32(dt * 1000))
	avg := p.frames.average()
	imgui.Text(fmt.Sprintf("Frame: %.2f ms (%s)", avg, fps(avg)))
	imgui.PlotLinesFloatPtr("##frametime", &p.frames.samples[0], int32(len(p.frames.samples)))

	sched := scheduler.GetStats()
	imgui.Text(fmt.Sprintf("Frames: %d  Systems: %d", sched.Frames, sched.SystemCount))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("systems", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("System")
		imgui.TableSetupColumn("Stage")
		imgui.TableSetupColumn("Avg")
		imgui.TableSetupColumn("Max")
		imgui.TableHeadersRow()
		for _, sys := range sched.Systems {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(sys.Name)
			imgui.TableNextColumn()
			imgui.Text(sys.Stage.String())
			imgui.TableNextColumn()
			imgui.Text(shortDuration(sys.AvgDuration))
			imgui.TableNextColumn()
			imgui.Text(shortDuration(sys.MaxDuration))
		}
		imgui.EndTable()
	}

	world := storage.CollectStats()
	if imgui.TreeNodeStr(fmt.Sprintf("Storage: %d entities, %d archetypes", world.TotalEntityCount, world.ArchetypeCount)) {
		for _, arch := range world.ArchetypeBreakdown {
			imgui.BulletText(fmt.Sprintf("#%d x%d %v", arch.ID, arch.EntityCount, arch.ComponentTypes))
		}
		for _, name := range world.SingletonTypes {
			imgui.BulletText("singleton " + name)
		}
		imgui.TreePop()
	}
}

type frameHistory struct {
	samples []float32
	next    int
	filled  int
}

func newFrameHistory(n int) *frameHistory {
	return &frameHistory{samples: make([]float32, max(n, 1))}
}

func (h *frameHistory) add(ms float32) {
	h.samples[h.next] = ms
	h.next = (h.next + 1) % len(h.samples)
	h.filled = min(h.filled+1, len(h.samples))
}

// average is over recorded samples only, so the first frames are not
// dragged towards zero by the empty ring.
func (h *frameHistory) average() float32 {
	if h.filled == 0 {
		return 0
	}
	var sum float32
	for _, ms := range h.samples[:h.filled] {
		sum += ms
	}
	return sum / float32(h.filled)
}

func fps(frameMs float32) string {
	if frameMs <= 0 {
		return "- fps"
	}
	return fmt.Sprintf("%.0f fps", 1000/frameMs)
}

func shortDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fµs", float64(d.Nanoseconds())/1e3)
	default:
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	}
}
