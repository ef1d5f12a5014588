package debugdraw

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/rigid/sim"
	"github.com/plus3/rigid/world"
)

// StatsPanel is a Dear ImGui window summarizing the world and the
// scheduler: body counts, a frame-time history plot, and a per-system
// timing table.
type StatsPanel struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

// NewStatsPanel creates a panel keeping the given number of frame-time
// samples for the history plot.
func NewStatsPanel(historyFrames int) *StatsPanel {
	return &StatsPanel{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
}

// Render draws the panel. Call between the ImGui backend's BeginFrame and
// EndFrame, once per frame.
func (p *StatsPanel) Render(w *world.World, scheduler *sim.Scheduler, deltaTime float32) {
	if !imgui.BeginV("Simulation Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	p.frameHistory[p.frameIndex] = deltaTime * 1000.0
	p.frameIndex = (p.frameIndex + 1) % p.historyFrames

	stats := w.CollectStats()

	imgui.Text(fmt.Sprintf("Bodies: %d (%d simulated, %d frozen)",
		stats.Bodies, stats.Simulated, stats.Frozen))
	imgui.Text(fmt.Sprintf("Accelerators: %d", stats.Accelerators))
	imgui.Text(fmt.Sprintf("Applied Moments: %d", stats.Moments))

	var avgFrameTime float32
	for _, ft := range p.frameHistory {
		avgFrameTime += ft
	}
	avgFrameTime /= float32(p.historyFrames)

	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &p.frameHistory[0], int32(len(p.frameHistory)))

	if imgui.TreeNodeStr("System Timings") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemTimings", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range scheduler.Stats().Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}
