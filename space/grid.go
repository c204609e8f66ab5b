// Package space provides the toroidal multi-occupancy grid agents live on.
package space

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/dooders/components"
)

// Grid is a width x height toroidal grid. Each cell holds any number of entities
// in placement order.
type Grid struct {
	width  int
	height int
	cells  [][]ecs.Entity // flat grid of entity lists, index = x*height + y
}

// NewGrid creates an empty grid.
func NewGrid(width, height int) *Grid {
	cells := make([][]ecs.Entity, width*height)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 4)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  cells,
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Wrap maps any coordinate onto the torus.
func (g *Grid) Wrap(x, y int) components.Position {
	return components.Position{X: mod(x, g.width), Y: mod(y, g.height)}
}

// Place puts e in the cell at pos.
func (g *Grid) Place(e ecs.Entity, pos components.Position) {
	pos = g.Wrap(pos.X, pos.Y)
	idx := g.index(pos)
	g.cells[idx] = append(g.cells[idx], e)
}

// Remove takes e out of the cell at pos. Returns false if it was not there.
func (g *Grid) Remove(e ecs.Entity, pos components.Position) bool {
	pos = g.Wrap(pos.X, pos.Y)
	idx := g.index(pos)
	cell := g.cells[idx]
	for i, other := range cell {
		if other == e {
			// Keep placement order so cell scans stay deterministic.
			g.cells[idx] = append(cell[:i], cell[i+1:]...)
			return true
		}
	}
	return false
}

// Move relocates e from one cell to another and returns the wrapped destination.
func (g *Grid) Move(e ecs.Entity, from, to components.Position) components.Position {
	g.Remove(e, from)
	to = g.Wrap(to.X, to.Y)
	g.Place(e, to)
	return to
}

// CellContents returns the entities in the given cells, in cell order then placement order.
// The result is a fresh slice and stays valid while the grid changes.
func (g *Grid) CellContents(cells ...components.Position) []ecs.Entity {
	var out []ecs.Entity
	for _, pos := range cells {
		pos = g.Wrap(pos.X, pos.Y)
		out = append(out, g.cells[g.index(pos)]...)
	}
	return out
}

// IsCellEmpty reports whether no entity occupies pos.
func (g *Grid) IsCellEmpty(pos components.Position) bool {
	pos = g.Wrap(pos.X, pos.Y)
	return len(g.cells[g.index(pos)]) == 0
}

// Neighborhood returns the distinct cells adjacent to pos, excluding pos itself.
// Moore includes diagonals (8 cells), otherwise von Neumann (4 cells). On small
// grids wrapped duplicates are dropped.
func (g *Grid) Neighborhood(pos components.Position, moore bool) []components.Position {
	out := make([]components.Position, 0, 8)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if !moore && dx != 0 && dy != 0 {
				continue
			}
			p := g.Wrap(pos.X+dx, pos.Y+dy)
			if p == pos && (g.width > 1 || g.height > 1) {
				continue
			}
			if containsPos(out, p) {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// Cells calls fn for every cell in column-major order (x outer, y inner).
func (g *Grid) Cells(fn func(pos components.Position)) {
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			fn(components.Position{X: x, Y: y})
		}
	}
}

// Len returns the total number of placed entities.
func (g *Grid) Len() int {
	n := 0
	for _, c := range g.cells {
		n += len(c)
	}
	return n
}

func (g *Grid) index(pos components.Position) int {
	return pos.X*g.height + pos.Y
}

// mod returns positive modulo (Go's % can return negative).
func mod(a, b int) int {
	return ((a % b) + b) % b
}

func containsPos(ps []components.Position, p components.Position) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}
