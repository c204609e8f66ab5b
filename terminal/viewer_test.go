package terminal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/dooders/components"
	"github.com/pthm-cable/dooders/config"
	"github.com/pthm-cable/dooders/model"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(60, 10)
	t.Cleanup(screen.Fini)
	return screen
}

func smallModel(t *testing.T) *model.Model {
	t.Helper()
	cfg := config.Default()
	cfg.World.Width, cfg.World.Height = 3, 2
	cfg.Population.InitialPrey = 0
	cfg.Population.InitialPredator = 0
	cfg.Reproduction.PreyChance = 0
	cfg.Reproduction.PredatorChance = 0
	cfg.Food.Enabled = false
	m, err := model.New(cfg, model.Options{Seed: 1})
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}
	return m
}

func rowText(screen tcell.SimulationScreen, y, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		name string
		cell model.CellView
		want rune
	}{
		{"empty", model.CellView{}, GlyphEmpty},
		{"eaten grass", model.CellView{HasFood: true}, GlyphEmpty},
		{"grown grass", model.CellView{HasFood: true, FoodGrown: true}, GlyphGrass},
		{"prey on grass", model.CellView{Prey: 2, HasFood: true, FoodGrown: true}, GlyphPrey},
		{"predator over prey", model.CellView{Prey: 1, Predators: 1}, GlyphPredator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := Glyph(tt.cell); got != tt.want {
				t.Errorf("Glyph = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDrawPlacesRowZeroAtBottom(t *testing.T) {
	screen := newScreen(t)
	m := smallModel(t)
	if _, err := m.Spawn(components.KindPredator, 0, 0, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Spawn(components.KindPrey, 2, 1, 10); err != nil {
		t.Fatal(err)
	}

	v := New(screen, m, time.Hour, 0)
	v.Draw()

	if got := rowText(screen, 0, 3); got != "..s" {
		t.Errorf("top row = %q, want %q", got, "..s")
	}
	if got := rowText(screen, 1, 3); got != "W.." {
		t.Errorf("bottom row = %q, want %q", got, "W..")
	}
	if got := rowText(screen, 2, 6); got != "tick 0" {
		t.Errorf("status row starts %q, want %q", got, "tick 0")
	}
}

func TestHandleEvent(t *testing.T) {
	screen := newScreen(t)
	m := smallModel(t)
	m.Spawn(components.KindPrey, 0, 0, 5)
	v := New(screen, m, time.Hour, 0)

	if !v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)) {
		t.Fatal("space should not quit")
	}
	if !v.Paused() {
		t.Fatal("space should pause")
	}
	if !strings.Contains(v.Status(), "[paused]") {
		t.Errorf("status %q should mention pause", v.Status())
	}

	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone))
	if m.Tick() != 1 {
		t.Errorf("tick after single step = %d, want 1", m.Tick())
	}

	if v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("q should quit")
	}
	if v.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("escape should quit")
	}
}

func TestRunStopsAtMaxTicks(t *testing.T) {
	screen := newScreen(t)
	m := smallModel(t)
	m.Spawn(components.KindPrey, 0, 0, 5)
	m.Spawn(components.KindPrey, 1, 1, 5)

	v := New(screen, m, time.Millisecond, 3)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := v.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m.Tick() != 3 {
		t.Errorf("tick = %d, want 3", m.Tick())
	}
}

func TestRunHonoursContext(t *testing.T) {
	screen := newScreen(t)
	m := smallModel(t)
	v := New(screen, m, time.Hour, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := v.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
	if m.Tick() != 0 {
		t.Errorf("cancelled run should not step, tick = %d", m.Tick())
	}
}

func TestNonPositiveIntervalFallsBack(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		screen := newScreen(t)
		m := smallModel(t)
		m.Spawn(components.KindPrey, 0, 0, 5)
		v := New(screen, m, interval, 1)
		if v.interval != DefaultInterval {
			t.Errorf("interval %v: got %v, want %v", interval, v.interval, DefaultInterval)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := v.Run(ctx); err != nil {
			t.Errorf("interval %v: Run = %v", interval, err)
		}
		cancel()
		if m.Tick() != 1 {
			t.Errorf("interval %v: tick = %d, want 1", interval, m.Tick())
		}
	}
}
