package model

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/dooders/components"
	"github.com/pthm-cable/dooders/telemetry"
)

// handle is the scheduler-facing side of an entity.
type handle struct {
	m      *Model
	entity ecs.Entity
	id     uint64
}

// ID returns the agent's unique ID.
func (h *handle) ID() uint64 { return h.id }

// Entity returns the backing ECS entity.
func (h *handle) Entity() ecs.Entity { return h.entity }

// Alive reports whether the agent has not been removed.
func (h *handle) Alive() bool { return h.m.world.Alive(h.entity) }

// Position returns the agent's cell.
func (h *handle) Position() components.Position {
	return *h.m.posMap.Get(h.entity)
}

// Energy returns an animal's current energy.
func (h *handle) Energy() float64 {
	return h.m.energyMap.Get(h.entity).Value
}

// Prey is a sheep: it walks, grazes when food is on, reproduces and gets eaten.
type Prey struct{ handle }

// Kind implements schedule.Agent.
func (p *Prey) Kind() components.Kind { return components.KindPrey }

// Step moves, grazes, starves and reproduces.
func (p *Prey) Step() {
	m := p.m
	pos := m.randomMove(p.entity)

	if m.cfg.Food.Enabled {
		energy := m.energyMap.Get(p.entity)
		energy.Value--

		if patch, ok := m.foodAt(pos); ok {
			growth := m.growthMap.Get(patch)
			if growth.FullyGrown {
				growth.FullyGrown = false
				energy.Value += m.cfg.Energy.PreyGainFromFood
				m.emit(telemetry.NewGrazeEvent(m.now(), p.id, m.orgMap.Get(patch).ID, m.cfg.Energy.PreyGainFromFood))
			}
		}

		if energy.Value < 0 {
			m.emit(telemetry.NewDeathEvent(m.now(), p.id, components.KindPrey, energy.Value))
			m.remove(p)
			return
		}
	}

	if m.rng.Float64() < m.cfg.Reproduction.PreyChance {
		energy := m.energyMap.Get(p.entity)
		if m.cfg.Food.Enabled {
			energy.Value /= 2
		}
		m.spawnAnimal(components.KindPrey, pos, energy.Value, p.id)
	}
}

// Predator is a wolf: it walks, eats prey in its cell, starves and reproduces.
type Predator struct{ handle }

// Kind implements schedule.Agent.
func (w *Predator) Kind() components.Kind { return components.KindPredator }

// Step moves, hunts, starves and reproduces.
func (w *Predator) Step() {
	m := w.m
	pos := m.randomMove(w.entity)
	m.energyMap.Get(w.entity).Value--

	if prey := m.animalsAt(pos, components.KindPrey); len(prey) > 0 {
		victim := m.agents[prey[m.rng.Intn(len(prey))]]
		gain := m.cfg.Energy.PredatorGainFromFood
		m.emit(telemetry.NewKillEvent(m.now(), w.id, victim.ID(), gain))
		// Removal may relocate components, so energy is looked up again below.
		m.remove(victim)
		m.energyMap.Get(w.entity).Value += gain
	}

	energy := m.energyMap.Get(w.entity)
	if energy.Value < 0 {
		m.emit(telemetry.NewDeathEvent(m.now(), w.id, components.KindPredator, energy.Value))
		m.remove(w)
		return
	}
	if m.rng.Float64() < m.cfg.Reproduction.PredatorChance {
		energy.Value /= 2
		m.spawnAnimal(components.KindPredator, pos, energy.Value, w.id)
	}
}

// Food is a grass patch that regrows a fixed number of ticks after being eaten.
type Food struct{ handle }

// Kind implements schedule.Agent.
func (f *Food) Kind() components.Kind { return components.KindFood }

// FullyGrown reports whether the patch can be eaten.
func (f *Food) FullyGrown() bool {
	return f.m.growthMap.Get(f.entity).FullyGrown
}

// Countdown returns the ticks left until the patch regrows.
func (f *Food) Countdown() int {
	return f.m.growthMap.Get(f.entity).Countdown
}

// Step counts down and regrows.
func (f *Food) Step() {
	m := f.m
	growth := m.growthMap.Get(f.entity)
	if growth.FullyGrown {
		return
	}
	if growth.Countdown <= 0 {
		growth.FullyGrown = true
		growth.Countdown = m.cfg.Food.RegrowthTime
		m.emit(telemetry.NewRegrowEvent(m.now(), f.id))
		return
	}
	growth.Countdown--
}
