package history

import (
	"context"
	"fmt"

	"github.com/pthm-cable/dooders/model"
)

// SaveModel stores m's configuration and every collected sample as a new run.
func SaveModel(ctx context.Context, store Store, m *model.Model) (Run, error) {
	cfgYAML, err := m.Config().YAML()
	if err != nil {
		return Run{}, err
	}
	run := NewRun(m.Seed(), string(cfgYAML))
	run.Ticks = m.Tick()

	if err := store.SaveRun(ctx, run); err != nil {
		return Run{}, fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	dc := m.Datacollector()
	if err := store.AppendSamples(ctx, run.ID, dc.Names(), dc.Samples()); err != nil {
		return Run{}, fmt.Errorf("saving samples for run %s: %w", run.ID, err)
	}
	return run, nil
}
