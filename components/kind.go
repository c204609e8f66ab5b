// Package components defines ECS components for the simulation.
package components

import "fmt"

// Kind identifies the behavioural category of an agent.
type Kind uint8

const (
	KindPrey Kind = iota
	KindPredator
	KindFood
)

// Kinds lists every agent kind in declaration order.
var Kinds = []Kind{KindPrey, KindPredator, KindFood}

// String returns the lower-case kind name used in config and logs.
func (k Kind) String() string {
	switch k {
	case KindPrey:
		return "prey"
	case KindPredator:
		return "predator"
	case KindFood:
		return "food"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind converts a config name back into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "prey":
		return KindPrey, nil
	case "predator":
		return KindPredator, nil
	case "food":
		return KindFood, nil
	}
	return 0, fmt.Errorf("unknown agent kind %q", s)
}
