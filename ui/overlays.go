package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayGridLines    OverlayID = "grid_lines"
	OverlayEnergyLabels OverlayID = "energy_labels"
	OverlayFoodOnly     OverlayID = "food_only"
	OverlayAnimalsOnly  OverlayID = "animals_only"
	OverlayChart        OverlayID = "chart"
	OverlayPerf         OverlayID = "perf"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID   // Unique identifier
	Name      string      // Display name
	Key       int32       // Keyboard key to toggle (0 = no key)
	KeyLabel  string      // Key label for display (e.g., "G")
	Category  string      // Grouping (e.g., "grid", "panels")
	Default   bool        // Enabled when the registry is created
	Exclusive []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID: OverlayGridLines, Name: "Grid Lines",
		Key: rl.KeyG, KeyLabel: "G", Category: "grid", Default: true,
	})
	r.Register(OverlayDescriptor{
		ID: OverlayEnergyLabels, Name: "Wolf Energy",
		Key: rl.KeyE, KeyLabel: "E", Category: "grid", Default: true,
	})
	r.Register(OverlayDescriptor{
		ID: OverlayFoodOnly, Name: "Grass Only",
		Key: rl.KeyF, KeyLabel: "F", Category: "grid",
		Exclusive: []OverlayID{OverlayAnimalsOnly},
	})
	r.Register(OverlayDescriptor{
		ID: OverlayAnimalsOnly, Name: "Animals Only",
		Key: rl.KeyA, KeyLabel: "A", Category: "grid",
		Exclusive: []OverlayID{OverlayFoodOnly},
	})
	r.Register(OverlayDescriptor{
		ID: OverlayChart, Name: "Population Chart",
		Key: rl.KeyC, KeyLabel: "C", Category: "panels", Default: true,
	})
	r.Register(OverlayDescriptor{
		ID: OverlayPerf, Name: "Tick Performance",
		Key: rl.KeyP, KeyLabel: "P", Category: "panels",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	newState := !r.enabled[id]
	r.SetEnabled(id, newState)
	return newState
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled

	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// PollKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) PollKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}

// Legend returns "G grid lines"-style key hints for the controls line.
func (r *OverlayRegistry) Legend() string {
	var s string
	for _, desc := range r.All() {
		if desc.KeyLabel == "" {
			continue
		}
		if s != "" {
			s += " | "
		}
		s += desc.KeyLabel + " " + desc.Name
	}
	return s
}
