package ui

import (
	"math"

	"github.com/pthm-cable/dooders/config"
)

// Params returns the adjustable model parameters in panel order.
func Params() []ParamDescriptor {
	return []ParamDescriptor{
		{
			ID: "width", Label: "Width", Min: 5, Max: 100, Integer: true,
			Get: func(c *config.Config) float32 { return float32(c.World.Width) },
			Set: func(c *config.Config, v float64) { c.World.Width = int(v) },
		},
		{
			ID: "height", Label: "Height", Min: 5, Max: 100, Integer: true,
			Get: func(c *config.Config) float32 { return float32(c.World.Height) },
			Set: func(c *config.Config, v float64) { c.World.Height = int(v) },
		},
		{
			ID: "initial_prey", Label: "Initial prey", Min: 0, Max: 300, Integer: true,
			Get: func(c *config.Config) float32 { return float32(c.Population.InitialPrey) },
			Set: func(c *config.Config, v float64) { c.Population.InitialPrey = int(v) },
		},
		{
			ID: "initial_predator", Label: "Initial wolves", Min: 0, Max: 300, Integer: true,
			Get: func(c *config.Config) float32 { return float32(c.Population.InitialPredator) },
			Set: func(c *config.Config, v float64) { c.Population.InitialPredator = int(v) },
		},
		{
			ID: "prey_chance", Label: "Prey repro", Min: 0, Max: 1,
			Get: func(c *config.Config) float32 { return float32(c.Reproduction.PreyChance) },
			Set: func(c *config.Config, v float64) { c.Reproduction.PreyChance = v },
		},
		{
			ID: "predator_chance", Label: "Wolf repro", Min: 0, Max: 1,
			Get: func(c *config.Config) float32 { return float32(c.Reproduction.PredatorChance) },
			Set: func(c *config.Config, v float64) { c.Reproduction.PredatorChance = v },
		},
		{
			ID: "prey_gain", Label: "Prey gain", Min: 1, Max: 50, Integer: true,
			Get: func(c *config.Config) float32 { return float32(c.Energy.PreyGainFromFood) },
			Set: func(c *config.Config, v float64) { c.Energy.PreyGainFromFood = v },
		},
		{
			ID: "predator_gain", Label: "Wolf gain", Min: 1, Max: 50, Integer: true,
			Get: func(c *config.Config) float32 { return float32(c.Energy.PredatorGainFromFood) },
			Set: func(c *config.Config, v float64) { c.Energy.PredatorGainFromFood = v },
		},
		{
			ID: "food", Label: "Grass", Toggle: true,
			Get: func(c *config.Config) float32 { return boolValue(c.Food.Enabled) },
			Set: func(c *config.Config, v float64) { c.Food.Enabled = v != 0 },
		},
		{
			ID: "regrowth", Label: "Regrowth", Min: 1, Max: 100, Integer: true,
			Get: func(c *config.Config) float32 { return float32(c.Food.RegrowthTime) },
			Set: func(c *config.Config, v float64) { c.Food.RegrowthTime = int(v) },
		},
		{
			ID: "moore", Label: "Moore moves", Toggle: true,
			Get: func(c *config.Config) float32 { return boolValue(c.Movement.Moore) },
			Set: func(c *config.Config, v float64) { c.Movement.Moore = v != 0 },
		},
	}
}

// Apply clamps v to the parameter's range, rounds it and stores it in cfg.
// Fractional parameters keep four decimals so float32 slider noise stays out of the config.
func (p ParamDescriptor) Apply(cfg *config.Config, v float32) {
	if p.Toggle {
		p.Set(cfg, float64(boolValue(v != 0)))
		return
	}
	if v < p.Min {
		v = p.Min
	}
	if v > p.Max {
		v = p.Max
	}
	x := float64(v)
	if p.Integer {
		x = math.Round(x)
	} else {
		x = math.Round(x*1e4) / 1e4
	}
	p.Set(cfg, x)
}

func boolValue(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
