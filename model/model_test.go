package model

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pthm-cable/dooders/components"
	"github.com/pthm-cable/dooders/config"
	"github.com/pthm-cable/dooders/telemetry"
)

// cellConfig returns a 1x1 world with no initial animals and no reproduction.
func cellConfig(mod func(*config.Config)) *config.Config {
	cfg := config.Default()
	cfg.World.Width, cfg.World.Height = 1, 1
	cfg.Population.InitialPrey = 0
	cfg.Population.InitialPredator = 0
	cfg.Reproduction.PreyChance = 0
	cfg.Reproduction.PredatorChance = 0
	if mod != nil {
		mod(cfg)
	}
	return cfg
}

func mustNew(t *testing.T, cfg *config.Config, opts Options) *Model {
	t.Helper()
	m, err := New(cfg, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func mustSpawn(t *testing.T, m *Model, kind components.Kind, energy float64) *handle {
	t.Helper()
	a, err := m.Spawn(kind, 0, 0, energy)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	switch v := a.(type) {
	case *Prey:
		return &v.handle
	case *Predator:
		return &v.handle
	}
	t.Fatalf("unexpected agent type %T", a)
	return nil
}

func onlyFood(t *testing.T, m *Model) *Food {
	t.Helper()
	agents := m.Agents(components.KindFood)
	if len(agents) != 1 {
		t.Fatalf("food patches = %d, want 1", len(agents))
	}
	return agents[0].(*Food)
}

func TestNewSeedsDefaults(t *testing.T) {
	m := mustNew(t, nil, Options{Seed: 1})

	if got := m.Count(components.KindPrey); got != 100 {
		t.Errorf("prey = %d, want 100", got)
	}
	if got := m.Count(components.KindPredator); got != 50 {
		t.Errorf("predators = %d, want 50", got)
	}
	if got := m.Count(components.KindFood); got != 0 {
		t.Errorf("food = %d, want 0 with food disabled", got)
	}
	if m.Tick() != 0 {
		t.Errorf("Tick() = %d, want 0", m.Tick())
	}
	if m.Datacollector().Len() != 1 {
		t.Errorf("samples after init = %d, want 1", m.Datacollector().Len())
	}

	for _, a := range m.Agents(components.KindPrey) {
		e := a.(*Prey).Energy()
		if e < 0 || e >= 8 {
			t.Fatalf("initial prey energy %v outside [0, 8)", e)
		}
	}
}

func TestNewSeedsFoodInEveryCell(t *testing.T) {
	cfg := config.Default()
	cfg.Food.Enabled = true
	m := mustNew(t, cfg, Options{Seed: 3})

	if got := m.Count(components.KindFood); got != 400 {
		t.Fatalf("food = %d, want one per cell (400)", got)
	}
	grown := m.GrownFood()
	if grown == 0 || grown == 400 {
		t.Errorf("grown food = %d, want a mix", grown)
	}
	for _, a := range m.Agents(components.KindFood) {
		f := a.(*Food)
		if f.FullyGrown() && f.Countdown() != cfg.Food.RegrowthTime {
			t.Fatalf("grown patch countdown = %d, want %d", f.Countdown(), cfg.Food.RegrowthTime)
		}
		if !f.FullyGrown() && (f.Countdown() < 0 || f.Countdown() >= cfg.Food.RegrowthTime) {
			t.Fatalf("growing patch countdown %d out of range", f.Countdown())
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Reproduction.PredatorChance = -0.1
	if _, err := New(cfg, Options{}); err == nil {
		t.Error("expected error for negative reproduction chance")
	}
}

func TestSameSeedSameRun(t *testing.T) {
	run := func(seed int64) [][]float64 {
		cfg := config.Default()
		cfg.Food.Enabled = true
		m := mustNew(t, cfg, Options{Seed: seed})
		for i := 0; i < 60; i++ {
			m.Step()
		}
		var out [][]float64
		for _, name := range m.Datacollector().Names() {
			s, _ := m.Datacollector().Series(name)
			out = append(out, s)
		}
		return out
	}

	a, b := run(99), run(99)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different series")
	}
	if reflect.DeepEqual(a, run(100)) {
		t.Error("different seeds produced identical series")
	}
}

func TestPredatorEatsPrey(t *testing.T) {
	m := mustNew(t, cellConfig(nil), Options{Seed: 1})
	wolf := mustSpawn(t, m, components.KindPredator, 5)
	mustSpawn(t, m, components.KindPrey, 3)

	var kills []telemetry.Event
	m.onEvent = func(e telemetry.Event) {
		if e.Type == telemetry.EventKill {
			kills = append(kills, e)
		}
	}

	m.Step()

	if got := m.Count(components.KindPrey); got != 0 {
		t.Errorf("prey = %d, want 0", got)
	}
	if got := m.Count(components.KindPredator); got != 1 {
		t.Errorf("predators = %d, want 1", got)
	}
	if got := wolf.Energy(); got != 24 {
		t.Errorf("predator energy = %v, want 24 (5 - 1 + 20)", got)
	}
	if len(kills) != 1 || kills[0].EntityID != wolf.ID() {
		t.Errorf("kill events = %+v", kills)
	}
	if got := len(m.Grid().CellContents(components.Position{})); got != 1 {
		t.Error("eaten prey still on the grid")
	}
}

func TestSpawnDelay(t *testing.T) {
	cfg := cellConfig(func(c *config.Config) { c.Reproduction.PredatorChance = 1 })
	m := mustNew(t, cfg, Options{Seed: 1})
	mustSpawn(t, m, components.KindPredator, 5)

	m.Step()

	wolves := m.Agents(components.KindPredator)
	if len(wolves) != 2 {
		t.Fatalf("predators = %d, want 2", len(wolves))
	}
	for _, w := range wolves {
		if got := w.(*Predator).Energy(); got != 2 {
			t.Errorf("predator %d energy = %v, want 2 (one halving)", w.ID(), got)
		}
	}
}

func TestPreyStarves(t *testing.T) {
	cfg := cellConfig(func(c *config.Config) { c.Food.Enabled = true })
	var deaths []telemetry.Event
	m := mustNew(t, cfg, Options{Seed: 1, OnEvent: func(e telemetry.Event) {
		if e.Type == telemetry.EventDeath {
			deaths = append(deaths, e)
		}
	}})

	patch := m.growthMap.Get(onlyFood(t, m).entity)
	patch.FullyGrown, patch.Countdown = false, 3
	sheep := mustSpawn(t, m, components.KindPrey, 0)

	m.Step()

	if got := m.Count(components.KindPrey); got != 0 {
		t.Fatalf("prey = %d, want 0", got)
	}
	if sheep.Alive() {
		t.Error("starved prey still in the world")
	}
	if len(deaths) != 1 || deaths[0].Amount != -1 || deaths[0].Kind != components.KindPrey {
		t.Fatalf("death events = %+v, want one prey death at energy -1", deaths)
	}
	if deaths[0].Tick != 1 {
		t.Errorf("death tick = %d, want 1", deaths[0].Tick)
	}
}

func TestPreyGrazes(t *testing.T) {
	cfg := cellConfig(func(c *config.Config) { c.Food.Enabled = true })
	m := mustNew(t, cfg, Options{Seed: 1})

	food := onlyFood(t, m)
	patch := m.growthMap.Get(food.entity)
	patch.FullyGrown, patch.Countdown = true, cfg.Food.RegrowthTime
	sheep := mustSpawn(t, m, components.KindPrey, 0)

	m.Step()

	if got := sheep.Energy(); got != 3 {
		t.Errorf("prey energy = %v, want 3 (0 - 1 + 4)", got)
	}
	if food.FullyGrown() {
		t.Error("eaten patch still fully grown")
	}
	if m.GrownFood() != 0 {
		t.Errorf("grown food = %d, want 0", m.GrownFood())
	}
}

func TestFoodRegrowth(t *testing.T) {
	tests := []struct {
		countdown int
		steps     int
	}{
		{0, 1},
		{3, 4},
	}
	for _, tt := range tests {
		cfg := cellConfig(func(c *config.Config) {
			c.Food.Enabled = true
			c.Food.RegrowthTime = 7
		})
		m := mustNew(t, cfg, Options{Seed: 1})
		food := onlyFood(t, m)
		patch := m.growthMap.Get(food.entity)
		patch.FullyGrown, patch.Countdown = false, tt.countdown

		for i := 1; i < tt.steps; i++ {
			m.Step()
			if food.FullyGrown() {
				t.Fatalf("countdown %d: grown after %d steps, want %d", tt.countdown, i, tt.steps)
			}
		}
		m.Step()
		if !food.FullyGrown() {
			t.Fatalf("countdown %d: not grown after %d steps", tt.countdown, tt.steps)
		}
		if food.Countdown() != 7 {
			t.Errorf("countdown after regrowth = %d, want 7", food.Countdown())
		}
	}
}

func TestGridAndScheduleStayInSync(t *testing.T) {
	cfg := config.Default()
	cfg.Food.Enabled = true
	m := mustNew(t, cfg, Options{Seed: 5})

	for tick := 0; tick < 80; tick++ {
		m.Step()

		onGrid := 0
		m.Grid().Cells(func(pos components.Position) {
			onGrid += len(m.Grid().CellContents(pos))
		})
		if onGrid != m.schedule.Len() {
			t.Fatalf("tick %d: %d entities on grid, %d scheduled", m.Tick(), onGrid, m.schedule.Len())
		}
		for _, k := range components.Kinds {
			for _, a := range m.Agents(k) {
				var h *handle
				switch v := a.(type) {
				case *Prey:
					h = &v.handle
				case *Predator:
					h = &v.handle
				case *Food:
					h = &v.handle
				}
				found := false
				for _, e := range m.Grid().CellContents(h.Position()) {
					if e == h.Entity() {
						found = true
						break
					}
				}
				if !found {
					t.Fatalf("tick %d: agent %d not in its cell", m.Tick(), a.ID())
				}
			}
		}
	}
}

func TestDatacollectorSamplesEveryTick(t *testing.T) {
	m := mustNew(t, nil, Options{Seed: 2})
	for i := 0; i < 5; i++ {
		m.Step()
	}

	dc := m.Datacollector()
	if dc.Len() != 6 {
		t.Fatalf("samples = %d, want 6", dc.Len())
	}
	for i, s := range dc.Samples() {
		if s.Tick != i {
			t.Errorf("sample %d has tick %d", i, s.Tick)
		}
	}
	wolves, _ := dc.Series(telemetry.SeriesPredators)
	if int(wolves[5]) != m.Count(components.KindPredator) {
		t.Errorf("last predator sample %v != count %d", wolves[5], m.Count(components.KindPredator))
	}
	food, _ := dc.Series(telemetry.SeriesFood)
	if food[5] != 0 {
		t.Errorf("food series = %v with food disabled", food[5])
	}
}

func TestRunStopsWhenExtinct(t *testing.T) {
	m := mustNew(t, cellConfig(nil), Options{Seed: 1})
	if err := m.Run(context.Background(), 10); err != nil {
		t.Fatal(err)
	}
	if m.Running() {
		t.Error("empty model still running")
	}
	if m.Tick() != 1 {
		t.Errorf("Tick() = %d, want 1", m.Tick())
	}
}

func TestRunHonoursContext(t *testing.T) {
	m := mustNew(t, nil, Options{Seed: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Run(ctx, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	if m.Tick() != 0 {
		t.Errorf("Tick() = %d, want 0", m.Tick())
	}
}

func TestStatsCallback(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry.StatsWindow = 10
	var windows []telemetry.WindowStats
	m := mustNew(t, cfg, Options{Seed: 4, StatsCallback: func(s telemetry.WindowStats) {
		windows = append(windows, s)
	}})
	for i := 0; i < 25; i++ {
		m.Step()
	}
	if len(windows) != 2 {
		t.Fatalf("windows = %d, want 2", len(windows))
	}
	if windows[1].WindowEndTick != 20 {
		t.Errorf("second window ends at %d, want 20", windows[1].WindowEndTick)
	}
}

func TestSpawnRejectsFood(t *testing.T) {
	m := mustNew(t, cellConfig(nil), Options{})
	if _, err := m.Spawn(components.KindFood, 0, 0, 0); err == nil {
		t.Error("expected error spawning food")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	m := mustNew(t, cellConfig(nil), Options{})
	a, _ := m.Spawn(components.KindPrey, 0, 0, 1)
	m.Remove(a)
	m.Remove(a)
	if m.Count(components.KindPrey) != 0 || !m.Grid().IsCellEmpty(components.Position{}) {
		t.Error("agent not fully removed")
	}
}

func TestCellView(t *testing.T) {
	cfg := cellConfig(func(c *config.Config) { c.Food.Enabled = true })
	m := mustNew(t, cfg, Options{})
	m.Spawn(components.KindPredator, 0, 0, 7)
	m.Spawn(components.KindPredator, 0, 0, 9)
	m.Spawn(components.KindPrey, 0, 0, 1)

	v := m.Cell(3, -2)
	if v.Prey != 1 || v.Predators != 2 || !v.HasFood {
		t.Errorf("cell = %+v", v)
	}
	if v.MaxPredatorEnergy != 9 {
		t.Errorf("max predator energy = %v, want 9", v.MaxPredatorEnergy)
	}
}

func TestOccupants(t *testing.T) {
	cfg := cellConfig(func(c *config.Config) { c.Food.Enabled = true })
	m := mustNew(t, cfg, Options{})
	m.Spawn(components.KindPredator, 0, 0, 7)
	m.Spawn(components.KindPrey, 0, 0, 3)

	got := m.Occupants(0, 0)
	if len(got) != 3 {
		t.Fatalf("occupants = %+v, want 3", got)
	}
	if got[0].Kind != components.KindFood {
		t.Errorf("first occupant = %s, want food", got[0].Kind)
	}
	if got[1].Kind != components.KindPredator || got[1].Energy != 7 {
		t.Errorf("second occupant = %+v", got[1])
	}
	if got[2].Kind != components.KindPrey || got[2].Energy != 3 {
		t.Errorf("third occupant = %+v", got[2])
	}
}

func TestRerunKeepsOutputWithFirstRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Seed: 5, Output: om}

	first := mustNew(t, config.Default(), opts)
	first.Step()
	first.Step()

	rerun := opts.Rerun()
	if rerun.Output != nil {
		t.Fatal("Rerun kept the output manager")
	}
	if rerun.Seed != opts.Seed {
		t.Errorf("Rerun seed = %d, want %d", rerun.Seed, opts.Seed)
	}
	if opts.Output != om {
		t.Error("Rerun modified the receiver")
	}

	second := mustNew(t, config.Default(), rerun)
	for i := 0; i < 3; i++ {
		second.Step()
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "series.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// header plus ticks 0, 1 and 2 of the first run
	if len(lines) != 4 {
		t.Errorf("series.csv has %d lines, want 4:\n%s", len(lines), data)
	}
}
