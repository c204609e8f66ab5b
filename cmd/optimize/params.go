package main

import (
	"math"

	"github.com/pthm-cable/dooders/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name, also the CSV column
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // rounded when applied
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "prey_reproduce", Path: "reproduction.prey_chance", Min: 0.01, Max: 0.20, Default: 0.04},
			{Name: "predator_reproduce", Path: "reproduction.predator_chance", Min: 0.01, Max: 0.20, Default: 0.05},
			{Name: "prey_gain_from_food", Path: "energy.prey_gain_from_food", Min: 1, Max: 20, Default: 4},
			{Name: "predator_gain_from_food", Path: "energy.predator_gain_from_food", Min: 5, Max: 50, Default: 20},
			{Name: "food_regrowth_time", Path: "food.regrowth_time", Min: 5, Max: 60, Default: 30, Integer: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds and integer parameters are whole.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Min(math.Max(v[i], spec.Min), spec.Max)
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Grass is switched on: prey gain and regrowth have no effect without it.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	// Order must match Specs order
	cfg.Reproduction.PreyChance = clamped[0]
	cfg.Reproduction.PredatorChance = clamped[1]
	cfg.Energy.PreyGainFromFood = clamped[2]
	cfg.Energy.PredatorGainFromFood = clamped[3]
	cfg.Food.RegrowthTime = int(clamped[4])
	cfg.Food.Enabled = true
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Reproduction.PreyChance,
		cfg.Reproduction.PredatorChance,
		cfg.Energy.PreyGainFromFood,
		cfg.Energy.PredatorGainFromFood,
		float64(cfg.Food.RegrowthTime),
	}
}
