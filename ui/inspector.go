package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dooders/components"
	"github.com/pthm-cable/dooders/model"
)

// OccupantSource is the part of the model the inspector reads.
type OccupantSource interface {
	Occupants(x, y int) []model.AgentView
}

// Inspector shows the agents in a selected grid cell.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32

	selected bool
	cellX    int
	cellY    int
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Select marks the cell at (x, y) for inspection.
func (ins *Inspector) Select(x, y int) {
	ins.selected = true
	ins.cellX, ins.cellY = x, y
}

// Clear removes the selection.
func (ins *Inspector) Clear() {
	ins.selected = false
}

// Selected returns the selected cell, if any.
func (ins *Inspector) Selected() (x, y int, ok bool) {
	return ins.cellX, ins.cellY, ins.selected
}

// maxRows bounds the listed occupants; crowded cells show a remainder line.
const maxRows = 12

// Draw renders the panel for the selected cell. It draws nothing without a selection.
func (ins *Inspector) Draw(src OccupantSource) {
	if !ins.selected {
		return
	}
	r := ins.renderer
	padding := r.Theme.Padding
	occupants := src.Occupants(ins.cellX, ins.cellY)

	rows := len(occupants)
	if rows > maxRows {
		rows = maxRows + 1
	}
	if rows == 0 {
		rows = 1
	}
	height := padding*2 + r.Theme.LineHeight + 2 + int32(rows)*r.Theme.LineHeight
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	x := ins.x + padding
	y := r.DrawSectionHeader(x, ins.y+padding, fmt.Sprintf("Cell (%d, %d)", ins.cellX, ins.cellY))

	if len(occupants) == 0 {
		r.DrawLabelValue(x, y, "Empty", "-")
		return
	}
	for i, a := range occupants {
		if i == maxRows {
			rl.DrawText(fmt.Sprintf("... %d more", len(occupants)-maxRows), x, y, r.Theme.FontSize, r.Theme.LabelColor)
			break
		}
		y = r.DrawLabelValue(x, y, a.Kind.String(), fmt.Sprintf("#%d %s", a.ID, describe(a)))
	}
}

func describe(a model.AgentView) string {
	if a.Kind == components.KindFood {
		if a.FullyGrown {
			return "grown"
		}
		return fmt.Sprintf("regrows in %d", a.Countdown+1)
	}
	return fmt.Sprintf("energy %.0f", a.Energy)
}
