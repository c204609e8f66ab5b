// Package telemetry provides population series, windowed ecosystem stats, bookmarks and CSV output.
package telemetry

import "github.com/pthm-cable/dooders/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventBirth EventType = iota
	EventDeath
	EventKill
	EventGraze
	EventRegrow
)

func (t EventType) String() string {
	switch t {
	case EventBirth:
		return "birth"
	case EventDeath:
		return "death"
	case EventKill:
		return "kill"
	case EventGraze:
		return "graze"
	case EventRegrow:
		return "regrow"
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType
	Tick     int
	EntityID uint64
	Kind     components.Kind

	// Optional fields depending on event type
	TargetID uint64  // parent for births, victim for kills
	Amount   float64 // energy gained, or final energy for deaths
}

// NewBirthEvent creates a birth event.
func NewBirthEvent(tick int, childID, parentID uint64, kind components.Kind, energy float64) Event {
	return Event{
		Type:     EventBirth,
		Tick:     tick,
		EntityID: childID,
		Kind:     kind,
		TargetID: parentID,
		Amount:   energy,
	}
}

// NewDeathEvent creates a starvation death event carrying the energy the agent died with.
func NewDeathEvent(tick int, entityID uint64, kind components.Kind, energy float64) Event {
	return Event{
		Type:     EventDeath,
		Tick:     tick,
		EntityID: entityID,
		Kind:     kind,
		Amount:   energy,
	}
}

// NewKillEvent creates a kill event (predator ate a prey).
func NewKillEvent(tick int, predatorID, preyID uint64, gain float64) Event {
	return Event{
		Type:     EventKill,
		Tick:     tick,
		EntityID: predatorID,
		Kind:     components.KindPredator,
		TargetID: preyID,
		Amount:   gain,
	}
}

// NewGrazeEvent creates a grazing event (prey ate a grown patch).
func NewGrazeEvent(tick int, preyID, foodID uint64, gain float64) Event {
	return Event{
		Type:     EventGraze,
		Tick:     tick,
		EntityID: preyID,
		Kind:     components.KindPrey,
		TargetID: foodID,
		Amount:   gain,
	}
}

// NewRegrowEvent creates a regrowth event for a food patch.
func NewRegrowEvent(tick int, foodID uint64) Event {
	return Event{
		Type:     EventRegrow,
		Tick:     tick,
		EntityID: foodID,
		Kind:     components.KindFood,
	}
}
