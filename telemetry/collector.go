package telemetry

import "github.com/pthm-cable/dooders/components"

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int

	// Current window tracking
	windowStartTick int

	// Event counters for current window
	preyBirths   int
	predBirths   int
	preyDeaths   int
	predDeaths   int
	kills        int
	grazes       int
	regrowths    int
	energyGained float64
}

// NewCollector creates a new stats collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: windowTicks}
}

// Record folds an event into the current window.
func (c *Collector) Record(e Event) {
	switch e.Type {
	case EventBirth:
		c.RecordBirth(e.Kind)
	case EventDeath:
		c.RecordDeath(e.Kind)
	case EventKill:
		c.RecordKill(e.Amount)
	case EventGraze:
		c.RecordGraze(e.Amount)
	case EventRegrow:
		c.regrowths++
	}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(kind components.Kind) {
	switch kind {
	case components.KindPrey:
		c.preyBirths++
	case components.KindPredator:
		c.predBirths++
	}
}

// RecordDeath records a death. Prey eaten by predators count here too.
func (c *Collector) RecordDeath(kind components.Kind) {
	switch kind {
	case components.KindPrey:
		c.preyDeaths++
	case components.KindPredator:
		c.predDeaths++
	}
}

// RecordKill records a predator eating a prey.
func (c *Collector) RecordKill(gain float64) {
	c.kills++
	c.preyDeaths++
	c.energyGained += gain
}

// RecordGraze records a prey eating a grown patch.
func (c *Collector) RecordGraze(gain float64) {
	c.grazes++
	c.energyGained += gain
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Populations holds the census taken at the end of a window.
type Populations struct {
	Prey      int
	Predators int
	GrownFood int
	TotalFood int
}

// Flush produces a WindowStats and resets counters for the next window.
// preyEnergies and predEnergies are the energies of every live animal at currentTick.
func (c *Collector) Flush(currentTick int, pop Populations, preyEnergies, predEnergies []float64) WindowStats {
	ticks := currentTick - c.windowStartTick

	var killsPerPred, grazesPerPrey float64
	if pop.Predators > 0 && ticks > 0 {
		killsPerPred = float64(c.kills) / float64(pop.Predators) / float64(ticks)
	}
	if pop.Prey > 0 && ticks > 0 {
		grazesPerPrey = float64(c.grazes) / float64(pop.Prey) / float64(ticks)
	}
	var grownFraction float64
	if pop.TotalFood > 0 {
		grownFraction = float64(pop.GrownFood) / float64(pop.TotalFood)
	}

	prey := ComputeEnergyStats(preyEnergies)
	pred := ComputeEnergyStats(predEnergies)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		PreyCount: pop.Prey,
		PredCount: pop.Predators,
		GrownFood: pop.GrownFood,

		PreyBirths: c.preyBirths,
		PredBirths: c.predBirths,
		PreyDeaths: c.preyDeaths,
		PredDeaths: c.predDeaths,

		Kills:         c.kills,
		Grazes:        c.grazes,
		Regrowths:     c.regrowths,
		KillsPerPred:  killsPerPred,
		GrazesPerPrey: grazesPerPrey,
		GrownFraction: grownFraction,
		EnergyGained:  c.energyGained,

		PreyEnergyMean: prey.Mean,
		PreyEnergyStd:  prey.Std,
		PreyEnergyP10:  prey.P10,
		PreyEnergyP50:  prey.P50,
		PreyEnergyP90:  prey.P90,

		PredEnergyMean: pred.Mean,
		PredEnergyStd:  pred.Std,
		PredEnergyP10:  pred.P10,
		PredEnergyP50:  pred.P50,
		PredEnergyP90:  pred.P90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.preyBirths = 0
	c.predBirths = 0
	c.preyDeaths = 0
	c.predDeaths = 0
	c.kills = 0
	c.grazes = 0
	c.regrowths = 0
	c.energyGained = 0

	return stats
}
