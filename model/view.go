package model

import "github.com/pthm-cable/dooders/components"

// CellView summarizes one grid cell for display.
type CellView struct {
	Prey      int
	Predators int
	HasFood   bool
	FoodGrown bool
	// MaxPredatorEnergy is the highest energy among the cell's predators.
	MaxPredatorEnergy float64
}

// Cell returns what occupies the cell at (x, y). Coordinates wrap.
func (m *Model) Cell(x, y int) CellView {
	var v CellView
	pos := m.grid.Wrap(x, y)
	for _, e := range m.grid.CellContents(pos) {
		switch m.orgMap.Get(e).Kind {
		case components.KindPrey:
			v.Prey++
		case components.KindPredator:
			energy := m.energyMap.Get(e).Value
			if v.Predators == 0 || energy > v.MaxPredatorEnergy {
				v.MaxPredatorEnergy = energy
			}
			v.Predators++
		case components.KindFood:
			v.HasFood = true
			v.FoodGrown = m.growthMap.Get(e).FullyGrown
		}
	}
	return v
}

// AgentView describes one agent for inspection.
type AgentView struct {
	ID     uint64
	Kind   components.Kind
	Energy float64 // animals only

	// Food only
	FullyGrown bool
	Countdown  int
}

// Occupants lists the agents in the cell at (x, y) in placement order. Coordinates wrap.
func (m *Model) Occupants(x, y int) []AgentView {
	pos := m.grid.Wrap(x, y)
	entities := m.grid.CellContents(pos)
	out := make([]AgentView, 0, len(entities))
	for _, e := range entities {
		org := m.orgMap.Get(e)
		v := AgentView{ID: org.ID, Kind: org.Kind}
		if org.Kind == components.KindFood {
			g := m.growthMap.Get(e)
			v.FullyGrown, v.Countdown = g.FullyGrown, g.Countdown
		} else {
			v.Energy = m.energyMap.Get(e).Value
		}
		out = append(out, v)
	}
	return out
}
