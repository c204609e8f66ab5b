package ui

import (
	"fmt"
	"sort"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dooders/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Prey      int
	Predators int
	GrownFood int
	TotalFood int
	Tick      int
	Seed      int64
	Speed     int
	FPS       int32
	Paused    bool
	Running   bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// populationSection describes the population readout.
func (h *HUD) populationSection() SectionDescriptor {
	t := h.renderer.Theme
	data := func(d any) HUDData { return d.(HUDData) }
	return SectionDescriptor{
		ID:    "population",
		Title: "Population",
		Fields: []FieldDescriptor{
			{ID: "prey", Label: "Sheep", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(data(d).Prey) }},
			{ID: "predators", Label: "Wolves", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(data(d).Predators) }},
			{
				ID: "grass", Label: "Grass", Widget: WidgetBar, Color: t.FoodGrown,
				Visible: func(d any) bool { return data(d).TotalFood > 0 },
				Getter:  func(d any) float32 { return float32(data(d).GrownFood) },
			},
		},
	}
}

// Draw renders the HUD at the top left of the screen.
func (h *HUD) Draw(x, y, width int32, data HUDData) int32 {
	r := h.renderer
	rl.DrawText(data.Title, x, y, 20, rl.White)
	y += 25

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d | Seed: %d", data.Tick, data.Speed, data.FPS, data.Seed),
		x, y, 14, rl.LightGray,
	)
	y += 20

	section := h.populationSection()
	// Bar range follows the number of patches.
	for i := range section.Fields {
		if section.Fields[i].ID == "grass" {
			section.Fields[i].Range = FieldRange{Min: 0, Max: float32(data.TotalFood)}
		}
	}
	y = r.DrawSection(x, y, section, data, width)

	status, color := "Running", rl.Green
	switch {
	case !data.Running:
		status, color = "EXTINCT", rl.Red
	case data.Paused:
		status, color = "PAUSED", rl.Yellow
	}
	rl.DrawText(status, x, y, 16, color)
	return y + 22
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase tick timings.
type PerfPanel struct {
	renderer *Renderer
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel() *PerfPanel {
	return &PerfPanel{renderer: NewRenderer()}
}

// Draw renders the performance panel at (x, y).
func (p *PerfPanel) Draw(x, y int32, stats telemetry.PerfStats) {
	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Avg: %s | %.0f ticks/s", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond),
		x, y, 14, rl.Yellow,
	)
	y += 16

	for _, name := range SortedPhases(stats) {
		pct := stats.PhasePct[name]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-14s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// SortedPhases returns phase names ordered by descending average time, then name.
func SortedPhases(stats telemetry.PerfStats) []string {
	names := make([]string, 0, len(stats.PhaseAvg))
	for name := range stats.PhaseAvg {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := stats.PhaseAvg[names[i]], stats.PhaseAvg[names[j]]
		if a != b {
			return a > b
		}
		return names[i] < names[j]
	})
	return names
}
