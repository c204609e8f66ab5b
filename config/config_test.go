package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pthm-cable/dooders/components"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.World.Width != 20 || cfg.World.Height != 20 {
		t.Errorf("world = %dx%d, want 20x20", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Population.InitialPrey != 100 || cfg.Population.InitialPredator != 50 {
		t.Errorf("population = %d/%d, want 100/50", cfg.Population.InitialPrey, cfg.Population.InitialPredator)
	}
	if cfg.Reproduction.PreyChance != 0.04 || cfg.Reproduction.PredatorChance != 0.05 {
		t.Errorf("reproduction = %g/%g, want 0.04/0.05", cfg.Reproduction.PreyChance, cfg.Reproduction.PredatorChance)
	}
	if cfg.Energy.PreyGainFromFood != 4 || cfg.Energy.PredatorGainFromFood != 20 {
		t.Errorf("gains = %g/%g, want 4/20", cfg.Energy.PreyGainFromFood, cfg.Energy.PredatorGainFromFood)
	}
	if cfg.Food.Enabled {
		t.Error("food should be disabled by default")
	}
	if cfg.Food.RegrowthTime != 30 {
		t.Errorf("regrowth = %d, want 30", cfg.Food.RegrowthTime)
	}
	if !cfg.Movement.Moore {
		t.Error("moore neighbourhood should be the default")
	}
	if cfg.History.Backend != "sqlite" || cfg.History.Path != "runs.db" {
		t.Errorf("history = %s:%s, want sqlite:runs.db", cfg.History.Backend, cfg.History.Path)
	}

	want := []components.Kind{components.KindPrey, components.KindPredator, components.KindFood}
	if !reflect.DeepEqual(cfg.Derived.Order, want) {
		t.Errorf("Derived.Order = %v, want %v", cfg.Derived.Order, want)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	doc := "world:\n  width: 7\nfood:\n  enabled: true\nschedule:\n  order: [predator, prey]\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.Width != 7 {
		t.Errorf("width = %d, want 7", cfg.World.Width)
	}
	if cfg.World.Height != 20 {
		t.Errorf("height = %d, want default 20", cfg.World.Height)
	}
	if !cfg.Food.Enabled {
		t.Error("food.enabled override lost")
	}
	want := []components.Kind{components.KindPredator, components.KindPrey}
	if !reflect.DeepEqual(cfg.Derived.Order, want) {
		t.Errorf("Derived.Order = %v, want %v", cfg.Derived.Order, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.World.Width = 0
	cfg.Reproduction.PreyChance = 1.5
	cfg.Food.RegrowthTime = 0
	cfg.Schedule.Order = []string{"prey", "wolf", "prey"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"world size", "prey_chance", "regrowth_time", "wolf", "listed twice"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestParseRejectsBadBackend(t *testing.T) {
	if _, err := Parse([]byte("history:\n  backend: postgres\n")); err == nil {
		t.Error("expected error for unknown history backend")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Population.InitialPrey = 3
	cfg.Schedule.Order = []string{"food", "prey", "predator"}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Population.InitialPrey != 3 {
		t.Errorf("initial_prey = %d, want 3", got.Population.InitialPrey)
	}
	if got.Derived.Order[0] != components.KindFood {
		t.Errorf("first kind = %v, want food", got.Derived.Order[0])
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := Default()
	c := cfg.Clone()
	c.Schedule.Order[0] = "food"
	c.Derived.Order[0] = components.KindFood
	if cfg.Schedule.Order[0] != "prey" || cfg.Derived.Order[0] != components.KindPrey {
		t.Error("Clone shares slices with the original")
	}
}
