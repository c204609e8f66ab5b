// Package history persists simulation runs and their sampled population series.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/dooders/telemetry"
)

// Run describes one simulation run.
type Run struct {
	ID        string
	Seed      int64
	StartedAt time.Time
	Ticks     int    // last tick recorded
	Config    string // effective configuration as YAML
}

// Point is one sampled value of a named series.
type Point struct {
	Tick   int     `db:"tick"`
	Series string  `db:"series"`
	Value  float64 `db:"value"`
}

// NewRun creates a run record with a fresh ID.
func NewRun(seed int64, configYAML string) Run {
	return Run{
		ID:        uuid.NewString(),
		Seed:      seed,
		StartedAt: time.Now().UTC(),
		Config:    configYAML,
	}
}

// Store persists runs and their series.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context) ([]Run, error)
	AppendSamples(ctx context.Context, runID string, names []string, samples []telemetry.Sample) error
	GetSamples(ctx context.Context, runID string) ([]Point, bool, error)
}

// Flatten turns samples into points, one per series per tick.
func Flatten(names []string, samples []telemetry.Sample) []Point {
	out := make([]Point, 0, len(names)*len(samples))
	for _, s := range samples {
		for i, name := range names {
			if i >= len(s.Values) {
				break
			}
			out = append(out, Point{Tick: s.Tick, Series: name, Value: s.Values[i]})
		}
	}
	return out
}

// Series extracts the values of one series from points, in tick order.
func Series(points []Point, name string) []float64 {
	var out []float64
	for _, p := range points {
		if p.Series == name {
			out = append(out, p.Value)
		}
	}
	return out
}

func errUnknownRun(id string) error {
	return fmt.Errorf("unknown run %q", id)
}
