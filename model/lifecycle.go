package model

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/dooders/components"
	"github.com/pthm-cable/dooders/schedule"
	"github.com/pthm-cable/dooders/telemetry"
)

// seedPopulation creates the starting prey, predators and food patches.
// The order of random draws is part of the model's reproducibility.
func (m *Model) seedPopulation() {
	cfg := m.cfg
	w, h := m.grid.Width(), m.grid.Height()

	for i := 0; i < cfg.Population.InitialPrey; i++ {
		x := m.rng.Intn(w)
		y := m.rng.Intn(h)
		energy := m.initialEnergy(cfg.Energy.PreyGainFromFood)
		m.spawnAnimal(components.KindPrey, components.Position{X: x, Y: y}, energy, 0)
	}

	for i := 0; i < cfg.Population.InitialPredator; i++ {
		x := m.rng.Intn(w)
		y := m.rng.Intn(h)
		energy := m.initialEnergy(cfg.Energy.PredatorGainFromFood)
		m.spawnAnimal(components.KindPredator, components.Position{X: x, Y: y}, energy, 0)
	}

	if cfg.Food.Enabled {
		m.grid.Cells(func(pos components.Position) {
			grown := m.rng.Intn(2) == 0
			countdown := cfg.Food.RegrowthTime
			if !grown {
				countdown = m.rng.Intn(cfg.Food.RegrowthTime)
			}
			m.spawnFood(pos, grown, countdown)
		})
	}

	slog.Debug("population seeded",
		"seed", m.seed,
		"prey", m.Count(components.KindPrey),
		"predators", m.Count(components.KindPredator),
		"food", m.Count(components.KindFood),
	)
}

// initialEnergy draws a starting energy uniformly from [0, 2*gain).
func (m *Model) initialEnergy(gain float64) float64 {
	n := int(2 * gain)
	if n <= 0 {
		return 0
	}
	return float64(m.rng.Intn(n))
}

// spawnAnimal creates a prey or predator, places it and schedules it.
// parentID is zero for the initial population, which reports no birth.
func (m *Model) spawnAnimal(kind components.Kind, pos components.Position, energy float64, parentID uint64) schedule.Agent {
	id := m.nextID
	m.nextID++

	pos = m.grid.Wrap(pos.X, pos.Y)
	org := components.Organism{ID: id, Kind: kind}
	en := components.Energy{Value: energy}
	entity := m.animalMapper.NewEntity(&pos, &org, &en)

	var agent schedule.Agent
	h := handle{m: m, entity: entity, id: id}
	if kind == components.KindPredator {
		agent = &Predator{h}
	} else {
		agent = &Prey{h}
	}

	m.register(entity, pos, agent)
	if parentID != 0 {
		m.emit(telemetry.NewBirthEvent(m.now(), id, parentID, kind, energy))
	}
	return agent
}

// spawnFood creates a food patch at pos.
func (m *Model) spawnFood(pos components.Position, grown bool, countdown int) *Food {
	id := m.nextID
	m.nextID++

	org := components.Organism{ID: id, Kind: components.KindFood}
	growth := components.Growth{FullyGrown: grown, Countdown: countdown}
	entity := m.foodMapper.NewEntity(&pos, &org, &growth)

	f := &Food{handle{m: m, entity: entity, id: id}}
	m.register(entity, pos, f)
	return f
}

func (m *Model) register(entity ecs.Entity, pos components.Position, agent schedule.Agent) {
	m.grid.Place(entity, pos)
	m.schedule.Add(agent)
	m.agents[entity] = agent
}

// remove takes an agent out of the grid, the scheduler and the world.
// Removing an agent twice does nothing.
func (m *Model) remove(agent schedule.Agent) {
	h, ok := agent.(interface{ Entity() ecs.Entity })
	if !ok {
		return
	}
	entity := h.Entity()
	if !m.world.Alive(entity) {
		return
	}
	m.grid.Remove(entity, *m.posMap.Get(entity))
	m.schedule.Remove(agent)
	delete(m.agents, entity)
	m.world.RemoveEntity(entity)
}

// randomMove moves the entity to a uniformly chosen neighbouring cell and returns it.
func (m *Model) randomMove(entity ecs.Entity) components.Position {
	pos := m.posMap.Get(entity)
	options := m.grid.Neighborhood(*pos, m.cfg.Movement.Moore)
	next := options[m.rng.Intn(len(options))]
	*pos = m.grid.Move(entity, *pos, next)
	return *pos
}

// foodAt returns the food patch in the cell, if any.
func (m *Model) foodAt(pos components.Position) (ecs.Entity, bool) {
	for _, e := range m.grid.CellContents(pos) {
		if m.growthMap.Has(e) {
			return e, true
		}
	}
	return ecs.Entity{}, false
}

// animalsAt returns the animals of kind k in the cell, in placement order.
func (m *Model) animalsAt(pos components.Position, k components.Kind) []ecs.Entity {
	var out []ecs.Entity
	for _, e := range m.grid.CellContents(pos) {
		if m.orgMap.Get(e).Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// now is the tick currently being computed.
func (m *Model) now() int {
	return m.schedule.Steps() + 1
}

func (m *Model) emit(e telemetry.Event) {
	m.collector.Record(e)
	if m.onEvent != nil {
		m.onEvent(e)
	}
}

// Spawn adds a prey or predator at (x, y) with the given energy.
// The new agent is first activated on the next tick.
func (m *Model) Spawn(kind components.Kind, x, y int, energy float64) (schedule.Agent, error) {
	switch kind {
	case components.KindPrey, components.KindPredator:
	default:
		return nil, fmt.Errorf("cannot spawn %s", kind)
	}
	return m.spawnAnimal(kind, components.Position{X: x, Y: y}, energy, 0), nil
}

// Remove takes an agent out of the simulation. Removing an absent agent does nothing.
func (m *Model) Remove(agent schedule.Agent) {
	m.remove(agent)
}
