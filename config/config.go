// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/dooders/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World        WorldConfig        `yaml:"world"`
	Population   PopulationConfig   `yaml:"population"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Energy       EnergyConfig       `yaml:"energy"`
	Food         FoodConfig         `yaml:"food"`
	Movement     MovementConfig     `yaml:"movement"`
	Schedule     ScheduleConfig     `yaml:"schedule"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Screen       ScreenConfig       `yaml:"screen"`
	History      HistoryConfig      `yaml:"history"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds grid dimensions. The grid always wraps on both axes.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PopulationConfig holds initial population sizes.
type PopulationConfig struct {
	InitialPrey     int `yaml:"initial_prey"`
	InitialPredator int `yaml:"initial_predator"`
}

// ReproductionConfig holds per-tick reproduction probabilities.
type ReproductionConfig struct {
	PreyChance     float64 `yaml:"prey_chance"`     // probability a prey reproduces each tick
	PredatorChance float64 `yaml:"predator_chance"` // probability a predator reproduces each tick
}

// EnergyConfig holds energy gained from eating.
type EnergyConfig struct {
	PreyGainFromFood     float64 `yaml:"prey_gain_from_food"`     // per fully grown food patch
	PredatorGainFromFood float64 `yaml:"predator_gain_from_food"` // per prey eaten
}

// FoodConfig toggles the food/energy mechanics for prey.
type FoodConfig struct {
	Enabled      bool `yaml:"enabled"`
	RegrowthTime int  `yaml:"regrowth_time"` // ticks for an eaten patch to regrow
}

// MovementConfig selects the random-walk neighbourhood.
type MovementConfig struct {
	Moore bool `yaml:"moore"` // 8 neighbours when true, 4 otherwise
}

// ScheduleConfig pins the cross-kind activation order.
type ScheduleConfig struct {
	Order []string `yaml:"order"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // ticks per stats window
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
	PerfWindow          int `yaml:"perf_window"`
}

// ScreenConfig holds display settings for the graphical viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	CellSize  int `yaml:"cell_size"`
}

// HistoryConfig selects the run-history backend.
type HistoryConfig struct {
	Backend string `yaml:"backend"` // "memory" or "sqlite"
	Path    string `yaml:"path"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Order []components.Kind // parsed Schedule.Order
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Parse decodes a YAML document over the embedded defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and recomputes derived values.
// Every problem is reported, not just the first.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.World.Width < 1 || c.World.Height < 1 {
		fail("world size must be positive, got %dx%d", c.World.Width, c.World.Height)
	}
	if c.Population.InitialPrey < 0 {
		fail("population.initial_prey must be >= 0, got %d", c.Population.InitialPrey)
	}
	if c.Population.InitialPredator < 0 {
		fail("population.initial_predator must be >= 0, got %d", c.Population.InitialPredator)
	}
	if !isProbability(c.Reproduction.PreyChance) {
		fail("reproduction.prey_chance must be in [0,1], got %g", c.Reproduction.PreyChance)
	}
	if !isProbability(c.Reproduction.PredatorChance) {
		fail("reproduction.predator_chance must be in [0,1], got %g", c.Reproduction.PredatorChance)
	}
	if c.Energy.PreyGainFromFood < 0 {
		fail("energy.prey_gain_from_food must be >= 0, got %g", c.Energy.PreyGainFromFood)
	}
	if c.Energy.PredatorGainFromFood < 0 {
		fail("energy.predator_gain_from_food must be >= 0, got %g", c.Energy.PredatorGainFromFood)
	}
	if c.Food.RegrowthTime < 1 {
		fail("food.regrowth_time must be >= 1, got %d", c.Food.RegrowthTime)
	}
	if c.Telemetry.StatsWindow < 1 {
		fail("telemetry.stats_window must be >= 1, got %d", c.Telemetry.StatsWindow)
	}
	switch c.History.Backend {
	case "", "memory", "sqlite":
	default:
		fail("history.backend must be memory or sqlite, got %q", c.History.Backend)
	}

	c.Derived.Order = c.Derived.Order[:0]
	seen := make(map[components.Kind]bool)
	for _, name := range c.Schedule.Order {
		k, err := components.ParseKind(name)
		if err != nil {
			fail("schedule.order: %w", err)
			continue
		}
		if seen[k] {
			fail("schedule.order: %s listed twice", name)
			continue
		}
		seen[k] = true
		c.Derived.Order = append(c.Derived.Order, k)
	}

	return errors.Join(errs...)
}

func isProbability(p float64) bool {
	return p >= 0 && p <= 1
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Schedule.Order = append([]string(nil), c.Schedule.Order...)
	out.Derived.Order = append([]components.Kind(nil), c.Derived.Order...)
	return &out
}

// YAML encodes the configuration.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
