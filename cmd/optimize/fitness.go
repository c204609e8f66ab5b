package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/dooders/config"
	"github.com/pthm-cable/dooders/model"
	"github.com/pthm-cable/dooders/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
	lastTicks   float64 // mean coexistence from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastCoexistence returns the mean coexistence ticks from the most recent evaluation.
func (fe *FitnessEvaluator) LastCoexistence() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastTicks
}

// runResult holds the results from a single simulation run.
type runResult struct {
	coexistTicks int                     // ticks with both species alive
	prey, pred   []float64               // per-tick population series
	windowStats  []telemetry.WindowStats // collected via StatsCallback each window
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	ticks   int
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative coexistence ticks scaled by up to 20% for quality.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	// Models share nothing, so seeds run in parallel.
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r, err := fe.runSimulation(cfg, s)
			if err != nil {
				// Invalid parameters score as an immediate collapse.
				return
			}
			quality := computeQuality(r)
			results[idx] = seedResult{
				fitness: computeFitness(r.coexistTicks, quality),
				quality: quality,
				ticks:   r.coexistTicks,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality, totalTicks float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		totalTicks += float64(r.ticks)
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastTicks = totalTicks / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation runs one model until either species dies out or maxTicks is reached.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) (*runResult, error) {
	result := &runResult{}
	m, err := model.New(cfg, model.Options{
		Seed: seed,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, err
	}

	for m.Tick() < fe.maxTicks {
		m.Step()
		pop := m.Population()
		if pop.Prey == 0 || pop.Predators == 0 {
			break
		}
	}

	dc := m.Datacollector()
	result.prey, _ = dc.Series(telemetry.SeriesPrey)
	result.pred, _ = dc.Series(telemetry.SeriesPredators)
	// The tick-0 sample is not a survived tick.
	result.coexistTicks = max(0, telemetry.Coexistence(result.prey, result.pred)-1)
	return result, nil
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(coexistTicks × (1.0 + 0.2 × quality))
func computeFitness(coexistTicks int, quality float64) float64 {
	return -(float64(coexistTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.35
	qualityWeightStability = 0.40
	qualityWeightHunting   = 0.25

	qualityWarmupTicks = 50 // skip the transient after seeding
	qualityMinPop      = 3  // exclude windows where either species < this
	targetPreyPerPred  = 3.0
)

// computeQuality computes ecosystem quality ∈ [0, 1] from a run.
func computeQuality(r *runResult) float64 {
	if r.coexistTicks <= qualityWarmupTicks {
		return 0
	}

	// Population stability over the coexistence period.
	end := r.coexistTicks + 1
	prey := telemetry.Summarize(r.prey[qualityWarmupTicks:end])
	pred := telemetry.Summarize(r.pred[qualityWarmupTicks:end])
	stabilityScore := math.Exp(-(prey.CV*prey.CV + pred.CV*pred.CV))

	// Prey:predator ratio near the target.
	ratioScore := 0.0
	if pred.Mean > 0 && prey.Mean > 0 {
		logErr := math.Log(prey.Mean / pred.Mean / targetPreyPerPred)
		ratioScore = math.Exp(-logErr * logErr)
	}

	// Hunting activity per window.
	var huntSum float64
	var huntCount int
	for _, w := range r.windowStats {
		if w.PreyCount < qualityMinPop || w.PredCount < qualityMinPop {
			continue
		}
		huntSum += 1.0 - math.Exp(-w.KillsPerPred*10)
		huntCount++
	}
	huntScore := 0.0
	if huntCount > 0 {
		huntScore = huntSum / float64(huntCount)
	}

	quality := qualityWeightRatio*ratioScore +
		qualityWeightStability*stabilityScore +
		qualityWeightHunting*huntScore

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
