// Package model implements the wolf-sheep predator-prey simulation.
//
// Agent state lives in an ECS world; the scheduler holds lightweight agent handles
// and the grid indexes entities by cell. Spawning and removal always update all three.
package model

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/dooders/components"
	"github.com/pthm-cable/dooders/config"
	"github.com/pthm-cable/dooders/schedule"
	"github.com/pthm-cable/dooders/space"
	"github.com/pthm-cable/dooders/telemetry"
)

// Options configures a Model beyond its parameters.
type Options struct {
	Seed int64

	// OnEvent receives every birth, death, kill, graze and regrowth as it happens.
	OnEvent func(telemetry.Event)

	// StatsCallback is called with each flushed telemetry window.
	StatsCallback func(telemetry.WindowStats)

	// LogStats logs windows, perf and bookmarks through slog.
	LogStats bool

	// Output receives series, telemetry, perf and bookmark CSV rows. May be nil.
	Output *telemetry.OutputManager
}

// Rerun returns the options for a follow-up run built in the same session.
// Output is dropped so the CSV files describe only the first run.
func (o Options) Rerun() Options {
	o.Output = nil
	return o
}

// Model holds the complete simulation state.
type Model struct {
	cfg  *config.Config
	seed int64
	rng  *rand.Rand

	world *ecs.World

	// Entity mappers, one per archetype
	animalMapper *ecs.Map3[components.Position, components.Organism, components.Energy]
	foodMapper   *ecs.Map3[components.Position, components.Organism, components.Growth]
	animalFilter *ecs.Filter2[components.Organism, components.Energy]

	// Individual component mappers for lookups
	posMap    *ecs.Map[components.Position]
	orgMap    *ecs.Map[components.Organism]
	energyMap *ecs.Map[components.Energy]
	growthMap *ecs.Map[components.Growth]

	grid     *space.Grid
	schedule *schedule.Scheduler
	agents   map[ecs.Entity]schedule.Agent

	// Telemetry
	datacollector    *telemetry.DataCollector
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	onEvent          func(telemetry.Event)
	statsCallback    func(telemetry.WindowStats)
	logStats         bool

	nextID  uint64
	running bool
}

// New builds a model from cfg, seeds the initial population and takes the tick-0 sample.
// A nil cfg uses the embedded defaults.
func New(cfg *config.Config, opts Options) (*Model, error) {
	if cfg == nil {
		cfg = config.Default()
	} else {
		cfg = cfg.Clone()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))

	m := &Model{
		cfg:   cfg,
		seed:  opts.Seed,
		rng:   rng,
		world: world,

		animalMapper: ecs.NewMap3[components.Position, components.Organism, components.Energy](world),
		foodMapper:   ecs.NewMap3[components.Position, components.Organism, components.Growth](world),
		animalFilter: ecs.NewFilter2[components.Organism, components.Energy](world),

		posMap:    ecs.NewMap[components.Position](world),
		orgMap:    ecs.NewMap[components.Organism](world),
		energyMap: ecs.NewMap[components.Energy](world),
		growthMap: ecs.NewMap[components.Growth](world),

		grid:     space.NewGrid(cfg.World.Width, cfg.World.Height),
		schedule: schedule.New(rng, cfg.Derived.Order...),
		agents:   make(map[ecs.Entity]schedule.Agent),

		datacollector:    telemetry.NewDataCollector(),
		collector:        telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		outputManager:    opts.Output,
		onEvent:          opts.OnEvent,
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,

		nextID:  1,
		running: true,
	}

	m.schedule.OnKind(func(k components.Kind) {
		m.perfCollector.StartPhase(telemetry.PhaseKind(k))
	})
	m.registerReporters()
	m.seedPopulation()
	m.collect()

	return m, nil
}

// Step advances the model by one tick: every agent is activated once, then the series are sampled.
func (m *Model) Step() {
	m.perfCollector.StartTick()

	m.schedule.Step()

	m.perfCollector.StartPhase(telemetry.PhaseCollect)
	m.collect()

	m.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	m.flushTelemetry()

	m.perfCollector.EndTick()

	if m.running && m.Count(components.KindPrey) == 0 && m.Count(components.KindPredator) == 0 {
		m.running = false
		slog.Info("all animals extinct", "tick", m.Tick())
	}
}

// Run steps the model up to n times. It stops early when ctx is cancelled or the model stops running.
func (m *Model) Run(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !m.running {
			return nil
		}
		m.Step()
	}
	return nil
}

// Tick returns the number of completed steps.
func (m *Model) Tick() int {
	return m.schedule.Steps()
}

// Running reports whether any animal is still alive.
func (m *Model) Running() bool {
	return m.running
}

// Seed returns the seed the random source was created with.
func (m *Model) Seed() int64 {
	return m.seed
}

// Config returns the model's parameters. Callers must not modify it.
func (m *Model) Config() *config.Config {
	return m.cfg
}

// Count returns the number of live agents of kind k.
func (m *Model) Count(k components.Kind) int {
	return m.schedule.TypeCount(k)
}

// GrownFood returns the number of fully grown food patches.
func (m *Model) GrownFood() int {
	return m.schedule.TypeCount(components.KindFood, func(a schedule.Agent) bool {
		f, ok := a.(*Food)
		return ok && f.FullyGrown()
	})
}

// Population takes a census of the current state.
func (m *Model) Population() telemetry.Populations {
	return telemetry.Populations{
		Prey:      m.Count(components.KindPrey),
		Predators: m.Count(components.KindPredator),
		GrownFood: m.GrownFood(),
		TotalFood: m.Count(components.KindFood),
	}
}

// Agents returns the live agents of kind k in the order they were added.
func (m *Model) Agents(k components.Kind) []schedule.Agent {
	return m.schedule.Agents(k)
}

// Grid returns the spatial index.
func (m *Model) Grid() *space.Grid {
	return m.grid
}

// Datacollector returns the per-tick population series.
func (m *Model) Datacollector() *telemetry.DataCollector {
	return m.datacollector
}

// Perf returns timing stats over the rolling perf window.
func (m *Model) Perf() telemetry.PerfStats {
	return m.perfCollector.Stats()
}

// RecordFrame marks a rendered frame for FPS reporting.
func (m *Model) RecordFrame() {
	m.perfCollector.RecordFrame()
}
