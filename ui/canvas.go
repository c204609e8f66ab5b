package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dooders/model"
)

// CellSource is the part of the model the canvas reads.
type CellSource interface {
	Cell(x, y int) model.CellView
}

// GridCanvas draws one square per grid cell.
type GridCanvas struct {
	renderer *Renderer
	x, y     int32
	cellSize int32
}

// NewGridCanvas creates a canvas with its top-left corner at (x, y).
func NewGridCanvas(x, y, cellSize int32) *GridCanvas {
	return &GridCanvas{renderer: NewRenderer(), x: x, y: y, cellSize: cellSize}
}

// FitCellSize returns the largest cell size, at most maxSize, that fits a
// width x height grid into availW x availH pixels. It is never below 2.
func FitCellSize(width, height int, availW, availH, maxSize int32) int32 {
	if width <= 0 || height <= 0 {
		return maxSize
	}
	size := availW / int32(width)
	if s := availH / int32(height); s < size {
		size = s
	}
	if size > maxSize {
		size = maxSize
	}
	if size < 2 {
		size = 2
	}
	return size
}

// SetCellSize changes the cell size, e.g. after the grid was resized.
func (g *GridCanvas) SetCellSize(size int32) {
	g.cellSize = size
}

// Bounds returns the pixel size of a width x height grid.
func (g *GridCanvas) Bounds(width, height int) (int32, int32) {
	return int32(width) * g.cellSize, int32(height) * g.cellSize
}

// CellAt converts a screen point into grid coordinates for a width x height grid.
func (g *GridCanvas) CellAt(px, py float32, width, height int) (x, y int, ok bool) {
	w, h := g.Bounds(width, height)
	lx, ly := px-float32(g.x), py-float32(g.y)
	if lx < 0 || ly < 0 || lx >= float32(w) || ly >= float32(h) {
		return 0, 0, false
	}
	x = int(lx) / int(g.cellSize)
	y = height - 1 - int(ly)/int(g.cellSize)
	return x, y, true
}

// Draw renders every cell. Row 0 is drawn at the bottom.
func (g *GridCanvas) Draw(src CellSource, width, height int, overlays *OverlayRegistry) {
	t := g.renderer.Theme
	w, h := g.Bounds(width, height)
	rl.DrawRectangle(g.x, g.y, w, h, t.GridBg)

	showFood := !overlays.IsEnabled(OverlayAnimalsOnly)
	showAnimals := !overlays.IsEnabled(OverlayFoodOnly)
	labels := overlays.IsEnabled(OverlayEnergyLabels)
	lines := overlays.IsEnabled(OverlayGridLines)

	cs := g.cellSize
	for cx := 0; cx < width; cx++ {
		for cy := 0; cy < height; cy++ {
			px := g.x + int32(cx)*cs
			py := g.y + int32(height-1-cy)*cs
			cell := src.Cell(cx, cy)

			if showFood && cell.HasFood {
				color := t.FoodEaten
				if cell.FoodGrown {
					color = t.FoodGrown
				}
				rl.DrawRectangle(px, py, cs, cs, color)
			}

			if showAnimals {
				switch {
				case cell.Predators > 0:
					rl.DrawCircle(px+cs/2, py+cs/2, float32(cs)*0.4, t.PredatorColor)
					if labels && cs >= 14 {
						label := fmt.Sprintf("%.0f", cell.MaxPredatorEnergy)
						tw := rl.MeasureText(label, cs/2)
						rl.DrawText(label, px+(cs-tw)/2, py+cs/4, cs/2, rl.White)
					}
				case cell.Prey > 0:
					rl.DrawCircle(px+cs/2, py+cs/2, float32(cs)*0.3, t.PreyColor)
				}
			}

			if lines && cs >= 8 {
				rl.DrawRectangleLines(px, py, cs, cs, t.GridLine)
			}
		}
	}
}
