package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/dooders/config"
)

func TestClampAndApply(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	pv.ApplyToConfig(cfg, []float64{-1, 0.5, 100, 10, 17.6})

	if cfg.Reproduction.PreyChance != 0.01 {
		t.Errorf("prey chance = %v, want clamped to 0.01", cfg.Reproduction.PreyChance)
	}
	if cfg.Reproduction.PredatorChance != 0.20 {
		t.Errorf("predator chance = %v, want clamped to 0.20", cfg.Reproduction.PredatorChance)
	}
	if cfg.Energy.PreyGainFromFood != 20 {
		t.Errorf("prey gain = %v, want clamped to 20", cfg.Energy.PreyGainFromFood)
	}
	if cfg.Food.RegrowthTime != 18 {
		t.Errorf("regrowth = %d, want rounded to 18", cfg.Food.RegrowthTime)
	}
	if !cfg.Food.Enabled {
		t.Error("optimized configs should enable grass")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("applied config invalid: %v", err)
	}

	got := pv.ExtractFromConfig(cfg)
	want := pv.Clamp([]float64{-1, 0.5, 100, 10, 17.6})
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("extract[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if d := back[i] - def[i]; d > 1e-9 || d < -1e-9 {
			t.Errorf("%s: round trip %v -> %v", pv.Specs[i].Name, def[i], back[i])
		}
	}
}

func TestComputeFitnessPrefersQuality(t *testing.T) {
	plain := computeFitness(100, 0)
	good := computeFitness(100, 1)
	if plain != -100 {
		t.Errorf("fitness without quality = %v, want -100", plain)
	}
	if good >= plain {
		t.Errorf("quality should lower fitness: %v vs %v", good, plain)
	}
	if computeFitness(0, 1) != 0 {
		t.Error("no coexistence should score 0 regardless of quality")
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	base := config.Default()
	base.World.Width, base.World.Height = 10, 10
	base.Population.InitialPrey = 30
	base.Population.InitialPredator = 10

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 30, []int64{1, 2}, base)
	x := pv.DefaultVector()

	a := fe.Evaluate(x)
	b := fe.Evaluate(x)
	if a != b {
		t.Errorf("same parameters and seeds gave %v then %v", a, b)
	}
	if a > 0 {
		t.Errorf("fitness = %v, should never be positive", a)
	}
	if c := fe.LastCoexistence(); c < 0 || c > 30 {
		t.Errorf("coexistence = %v, want within [0, 30]", c)
	}
}

func TestEvalLogWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	l := &evalLog{file: f}
	for i := 1; i <= 2; i++ {
		if err := l.Write(newEvalRow(i, -10, 10, 0.5, NewParamVector().DefaultVector())); err != nil {
			t.Fatal(err)
		}
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "eval,fitness,coexistence_ticks") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Count(string(data), "eval,") != 1 {
		t.Error("header written more than once")
	}
}
