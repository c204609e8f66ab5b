// Package ui renders the simulation in a raylib window.
// Panels are built from field and parameter descriptors so a layout lives
// next to the values it shows instead of being hard-coded in draw calls.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dooders/config"
)

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text with format string
	WidgetBar                           // Progress bar over Range
	WidgetColorSwatch                   // Color preview square
	WidgetSection                       // Section header
	WidgetSpacer                        // Vertical spacing
)

// FieldRange defines the value range for bar widgets.
type FieldRange struct {
	Min float32
	Max float32
}

// DefaultRange returns a [0, 1] range.
func DefaultRange() FieldRange {
	return FieldRange{Min: 0, Max: 1}
}

// Normalize maps v into [0, 1] over the range, clamping at the ends.
func (r FieldRange) Normalize(v float32) float32 {
	if r.Max <= r.Min {
		return 0
	}
	n := (v - r.Min) / (r.Max - r.Min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	ID         string            // Unique identifier for the field
	Label      string            // Display label
	Widget     WidgetType        // How to render
	Format     string            // Printf format for numeric text (e.g., "%.2f")
	Range      FieldRange        // Value range for bars
	Color      rl.Color          // Swatch color or bar fill override
	Visible    func(any) bool    // Optional visibility check (nil = always visible)
	Getter     func(any) float32 // Value extractor (for numeric fields)
	TextGetter func(any) string  // Value extractor (for text fields)
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	ID      string
	Title   string
	Fields  []FieldDescriptor
	Visible func(any) bool
}

// ParamDescriptor binds a slider or checkbox to one model parameter.
type ParamDescriptor struct {
	ID      string
	Label   string
	Min     float32
	Max     float32
	Integer bool // round slider values to whole numbers
	Toggle  bool // render as a checkbox; Get/Set use 0 and 1
	Get     func(*config.Config) float32
	Set     func(*config.Config, float64)
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	BarBg         rl.Color
	BarFill       rl.Color

	// Grid and chart colors
	GridBg        rl.Color
	GridLine      rl.Color
	FoodGrown     rl.Color
	FoodEaten     rl.Color
	PreyColor     rl.Color
	PredatorColor rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:   rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader: rl.Yellow,
		LabelColor:    rl.LightGray,
		ValueColor:    rl.LightGray,
		BarBg:         rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:       rl.Color{R: 100, G: 150, B: 200, A: 255},

		GridBg:        rl.Color{R: 30, G: 30, B: 30, A: 255},
		GridLine:      rl.Color{R: 45, G: 45, B: 45, A: 255},
		FoodGrown:     rl.Color{R: 0, G: 170, B: 0, A: 255},
		FoodEaten:     rl.Color{R: 110, G: 80, B: 40, A: 255},
		PreyColor:     rl.Color{R: 170, G: 170, B: 170, A: 255},
		PredatorColor: rl.Color{R: 220, G: 50, B: 50, A: 255},

		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
