package ui

import (
	"context"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dooders/config"
	"github.com/pthm-cable/dooders/model"
	"github.com/pthm-cable/dooders/telemetry"
)

const (
	sidebarWidth = 330
	chartHeight  = 200
	maxSpeed     = 10
	controlsTop  = 170
)

// ViewerOptions configures a Viewer.
type ViewerOptions struct {
	Model model.Options

	// MaxTicks closes the window once the model reaches this tick (0 = never).
	MaxTicks int

	// OnRunEnd is called with each finished model: before a reset and when the window closes.
	OnRunEnd func(*model.Model)
}

// Viewer runs the model in a raylib window with live parameter controls.
type Viewer struct {
	cfg   *config.Config
	opts  ViewerOptions
	model *model.Model

	paused   bool
	speed    int
	overlays *OverlayRegistry

	hud       *HUD
	inspector *Inspector
	perfView  *PerfPanel
	canvas    *GridCanvas
	chart     *LineChart
	controls  *ControlsPanel
}

// NewViewer builds the first model from cfg. The window is opened by Run.
func NewViewer(cfg *config.Config, opts ViewerOptions) (*Viewer, error) {
	m, err := model.New(cfg, opts.Model)
	if err != nil {
		return nil, err
	}
	theme := DefaultTheme()
	return &Viewer{
		cfg:       m.Config().Clone(),
		opts:      opts,
		model:     m,
		speed:     1,
		overlays:  NewOverlayRegistry(),
		hud:       NewHUD(),
		inspector: NewInspector(0, 0, 220),
		perfView:  NewPerfPanel(),
		canvas:    NewGridCanvas(sidebarWidth+10, 10, int32(m.Config().Screen.CellSize)),
		chart: NewLineChart(0, 0, 0, 0,
			ChartSeries{Name: telemetry.SeriesPrey, Color: theme.PreyColor},
			ChartSeries{Name: telemetry.SeriesPredators, Color: theme.PredatorColor},
			ChartSeries{Name: telemetry.SeriesFood, Color: theme.FoodGrown},
		),
	}, nil
}

// Model returns the model currently displayed.
func (v *Viewer) Model() *model.Model {
	return v.model
}

// Run opens the window and loops until it is closed, ctx is cancelled or MaxTicks is reached.
func (v *Viewer) Run(ctx context.Context) error {
	screen := v.cfg.Screen
	rl.InitWindow(int32(screen.Width), int32(screen.Height), "Wolf Sheep Predation")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(screen.TargetFPS))

	v.controls = NewControlsPanel(10, controlsTop, sidebarWidth-20, v.cfg)

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			break
		}
		v.handleInput()
		v.update()
		v.draw()

		if v.opts.MaxTicks > 0 && v.model.Tick() >= v.opts.MaxTicks {
			slog.Info("max ticks reached", "tick", v.model.Tick())
			break
		}
	}

	v.endRun()
	return ctx.Err()
}

func (v *Viewer) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}
	if rl.IsKeyPressed(rl.KeyRight) && v.paused {
		v.model.Step()
	}
	if rl.IsKeyPressed(rl.KeyComma) && v.speed > 1 {
		v.speed--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && v.speed < maxSpeed {
		v.speed++
	}
	v.overlays.PollKeys()
	if rl.IsKeyPressed(rl.KeyR) {
		v.reset()
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		v.inspector.Clear()
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		mouse := rl.GetMousePosition()
		if x, y, ok := v.canvas.CellAt(mouse.X, mouse.Y, v.cfg.World.Width, v.cfg.World.Height); ok {
			v.inspector.Select(x, y)
		}
	}
}

func (v *Viewer) update() {
	v.model.RecordFrame()
	if v.paused {
		return
	}
	n := stepsThisFrame(v.speed, v.model.Tick(), v.opts.MaxTicks)
	for i := 0; i < n && v.model.Running(); i++ {
		v.model.Step()
	}
}

// stepsThisFrame limits a frame's steps so the run never passes maxTicks (0 = no limit).
func stepsThisFrame(speed, tick, maxTicks int) int {
	if maxTicks <= 0 {
		return speed
	}
	return max(0, min(speed, maxTicks-tick))
}

// reset replaces the model with one built from the slider values.
// Invalid slider combinations keep the current model running.
func (v *Viewer) reset() {
	draft := v.controls.Draft()
	m, err := model.New(draft, v.opts.Model.Rerun())
	if err != nil {
		slog.Warn("reset rejected", "error", err)
		return
	}
	v.endRun()
	v.model = m
	v.cfg = m.Config().Clone()
	v.inspector.Clear()
	slog.Info("model reset",
		"width", v.cfg.World.Width,
		"height", v.cfg.World.Height,
		"prey", v.cfg.Population.InitialPrey,
		"predators", v.cfg.Population.InitialPredator,
	)
}

func (v *Viewer) endRun() {
	if v.opts.OnRunEnd != nil {
		v.opts.OnRunEnd(v.model)
	}
}

func (v *Viewer) draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(rl.Color{R: 15, G: 15, B: 18, A: 255})

	sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	w, h := v.cfg.World.Width, v.cfg.World.Height

	areaW := sw - sidebarWidth - 20
	areaH := sh - chartHeight - 30
	v.canvas.SetCellSize(FitCellSize(w, h, areaW, areaH, int32(v.cfg.Screen.CellSize)))
	v.canvas.Draw(v.model, w, h, v.overlays)

	if v.overlays.IsEnabled(OverlayChart) {
		_, gridH := v.canvas.Bounds(w, h)
		v.chart.SetBounds(sidebarWidth+10, 20+gridH, areaW, chartHeight)
		v.chart.Draw(v.model.Datacollector())
	}

	pop := v.model.Population()
	v.hud.Draw(10, 10, sidebarWidth-20, HUDData{
		Title:     "Wolf Sheep Predation",
		Prey:      pop.Prey,
		Predators: pop.Predators,
		GrownFood: pop.GrownFood,
		TotalFood: pop.TotalFood,
		Tick:      v.model.Tick(),
		Seed:      v.model.Seed(),
		Speed:     v.speed,
		FPS:       rl.GetFPS(),
		Paused:    v.paused,
		Running:   v.model.Running(),
	})

	switch v.controls.Draw(v.paused) {
	case ActionReset:
		v.reset()
	case ActionTogglePause:
		v.paused = !v.paused
	case ActionStep:
		v.model.Step()
	}

	v.inspector.SetPosition(sw-230, 10)
	v.inspector.Draw(v.model)

	if v.overlays.IsEnabled(OverlayPerf) {
		v.perfView.Draw(10, controlsTop+v.controls.Height()+10, v.model.Perf())
	}

	v.hud.DrawControls(sh, "SPACE pause | RIGHT step | < > speed | R reset | click inspect | "+v.overlays.Legend())
}
