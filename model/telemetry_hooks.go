package model

import (
	"log/slog"

	"github.com/pthm-cable/dooders/components"
	"github.com/pthm-cable/dooders/telemetry"
)

// registerReporters wires the standard population series to scheduler counts.
func (m *Model) registerReporters() {
	reporters := []struct {
		name string
		fn   telemetry.Reporter
	}{
		{telemetry.SeriesPredators, func() float64 { return float64(m.Count(components.KindPredator)) }},
		{telemetry.SeriesPrey, func() float64 { return float64(m.Count(components.KindPrey)) }},
		{telemetry.SeriesFood, func() float64 { return float64(m.GrownFood()) }},
	}
	for _, r := range reporters {
		if err := m.datacollector.AddReporter(r.name, r.fn); err != nil {
			// Names are fixed above; a clash is a programming error.
			panic(err)
		}
	}
}

// collect samples the series and writes the row if output is enabled.
func (m *Model) collect() {
	sample := m.datacollector.Collect(m.Tick())
	if m.outputManager != nil {
		if err := m.outputManager.WriteSeries(m.datacollector.Record(sample)); err != nil {
			slog.Error("failed to write series", "error", err)
		}
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (m *Model) flushTelemetry() {
	tick := m.Tick()
	if !m.collector.ShouldFlush(tick) {
		return
	}

	preyEnergies, predEnergies := m.sampleEnergies()
	stats := m.collector.Flush(tick, m.Population(), preyEnergies, predEnergies)
	perfStats := m.perfCollector.Stats()

	if m.statsCallback != nil {
		m.statsCallback(stats)
	}

	if m.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if m.outputManager != nil {
		if err := m.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := m.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range m.bookmarkDetector.Check(stats) {
		if m.logStats {
			bm.LogBookmark()
		}
		if m.outputManager != nil {
			if err := m.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// sampleEnergies collects the energy of every live animal by kind.
func (m *Model) sampleEnergies() (prey, predators []float64) {
	query := m.animalFilter.Query()
	for query.Next() {
		org, energy := query.Get()
		switch org.Kind {
		case components.KindPrey:
			prey = append(prey, energy.Value)
		case components.KindPredator:
			predators = append(predators, energy.Value)
		}
	}
	return prey, predators
}
