package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int `csv:"-"`
	WindowEndTick   int `csv:"window_end"`

	// Population counts at window end
	PreyCount int `csv:"prey"`
	PredCount int `csv:"pred"`
	GrownFood int `csv:"grown_food"`

	// Events during window
	PreyBirths int `csv:"prey_births"`
	PredBirths int `csv:"pred_births"`
	PreyDeaths int `csv:"prey_deaths"`
	PredDeaths int `csv:"pred_deaths"`

	// Feeding
	Kills         int     `csv:"kills"`
	Grazes        int     `csv:"grazes"`
	Regrowths     int     `csv:"regrowths"`
	KillsPerPred  float64 `csv:"kills_per_pred_tick"`
	GrazesPerPrey float64 `csv:"grazes_per_prey_tick"`
	GrownFraction float64 `csv:"grown_fraction"`
	EnergyGained  float64 `csv:"energy_gained"`

	// Energy distribution (sampled at window end)
	PreyEnergyMean float64 `csv:"prey_energy_mean"`
	PreyEnergyStd  float64 `csv:"prey_energy_std"`
	PreyEnergyP10  float64 `csv:"prey_energy_p10"`
	PreyEnergyP50  float64 `csv:"prey_energy_p50"`
	PreyEnergyP90  float64 `csv:"prey_energy_p90"`

	PredEnergyMean float64 `csv:"pred_energy_mean"`
	PredEnergyStd  float64 `csv:"pred_energy_std"`
	PredEnergyP10  float64 `csv:"pred_energy_p10"`
	PredEnergyP50  float64 `csv:"pred_energy_p50"`
	PredEnergyP90  float64 `csv:"pred_energy_p90"`
}

// EnergyStats summarizes an energy distribution.
type EnergyStats struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Quantile returns the empirical p-quantile of a sorted slice.
// p is clamped to [0, 1]. Returns 0 if the slice is empty.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeEnergyStats calculates mean, standard deviation and quantiles from energy values.
func ComputeEnergyStats(values []float64) EnergyStats {
	n := len(values)
	if n == 0 {
		return EnergyStats{}
	}

	var es EnergyStats
	if n == 1 {
		es.Mean = values[0]
	} else {
		es.Mean, es.Std = stat.MeanStdDev(values, nil)
	}

	// Sort for quantiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	es.P10 = Quantile(sorted, 0.10)
	es.P50 = Quantile(sorted, 0.50)
	es.P90 = Quantile(sorted, 0.90)
	return es
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Int("prey", s.PreyCount),
		slog.Int("pred", s.PredCount),
		slog.Int("grown_food", s.GrownFood),
		slog.Int("prey_births", s.PreyBirths),
		slog.Int("pred_births", s.PredBirths),
		slog.Int("prey_deaths", s.PreyDeaths),
		slog.Int("pred_deaths", s.PredDeaths),
		slog.Int("kills", s.Kills),
		slog.Int("grazes", s.Grazes),
		slog.Int("regrowths", s.Regrowths),
		slog.Float64("kills_per_pred_tick", s.KillsPerPred),
		slog.Float64("grazes_per_prey_tick", s.GrazesPerPrey),
		slog.Float64("grown_fraction", s.GrownFraction),
		slog.Float64("energy_gained", s.EnergyGained),
		slog.Float64("prey_energy_mean", s.PreyEnergyMean),
		slog.Float64("prey_energy_std", s.PreyEnergyStd),
		slog.Float64("prey_energy_p50", s.PreyEnergyP50),
		slog.Float64("pred_energy_mean", s.PredEnergyMean),
		slog.Float64("pred_energy_std", s.PredEnergyStd),
		slog.Float64("pred_energy_p50", s.PredEnergyP50),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"prey", s.PreyCount,
		"pred", s.PredCount,
		"grown_food", s.GrownFood,
		"prey_births", s.PreyBirths,
		"pred_births", s.PredBirths,
		"prey_deaths", s.PreyDeaths,
		"pred_deaths", s.PredDeaths,
		"kills", s.Kills,
		"grazes", s.Grazes,
		"kills_per_pred_tick", s.KillsPerPred,
		"grown_fraction", s.GrownFraction,
		"prey_energy_mean", s.PreyEnergyMean,
		"prey_energy_p10", s.PreyEnergyP10,
		"prey_energy_p90", s.PreyEnergyP90,
		"pred_energy_mean", s.PredEnergyMean,
		"pred_energy_p10", s.PredEnergyP10,
		"pred_energy_p90", s.PredEnergyP90,
	)
}
