package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/dooders/telemetry"
)

// ChartSeries names one collected series and its line color.
type ChartSeries struct {
	Name  string
	Color rl.Color
}

// LineChart plots the data collector's series over time.
type LineChart struct {
	renderer      *Renderer
	x, y          int32
	width, height int32
	series        []ChartSeries
}

// NewLineChart creates a chart for the given series.
func NewLineChart(x, y, width, height int32, series ...ChartSeries) *LineChart {
	return &LineChart{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		height:   height,
		series:   series,
	}
}

// SetBounds moves and resizes the chart.
func (c *LineChart) SetBounds(x, y, width, height int32) {
	c.x, c.y, c.width, c.height = x, y, width, height
}

// Draw renders every series found in dc on a shared y axis.
func (c *LineChart) Draw(dc *telemetry.DataCollector) {
	r := c.renderer
	r.DrawPanel(c.x, c.y, c.width, c.height)

	pad := r.Theme.Padding
	plotX := c.x + pad + 30
	plotY := c.y + pad + r.Theme.LineHeight
	plotW := c.width - 2*pad - 30
	plotH := c.height - 2*pad - r.Theme.LineHeight

	data := make([][]float64, len(c.series))
	var top float64
	for i, s := range c.series {
		values, ok := dc.Series(s.Name)
		if !ok || len(values) == 0 {
			continue
		}
		data[i] = values
		if m := floats.Max(values); m > top {
			top = m
		}
	}
	if top <= 0 {
		top = 1
	}

	rl.DrawLine(plotX, plotY+plotH, plotX+plotW, plotY+plotH, r.Theme.PanelBorder)
	rl.DrawLine(plotX, plotY, plotX, plotY+plotH, r.Theme.PanelBorder)
	rl.DrawText(formatAxis(top), c.x+pad, plotY, 10, r.Theme.LabelColor)
	rl.DrawText("0", c.x+pad, plotY+plotH-10, 10, r.Theme.LabelColor)

	lx := c.x + pad
	for i, s := range c.series {
		points := ChartPoints(data[i], top, plotX, plotY, plotW, plotH)
		for j := 1; j < len(points); j++ {
			rl.DrawLineV(points[j-1], points[j], s.Color)
		}
		rl.DrawRectangle(lx, c.y+pad, 10, 10, s.Color)
		rl.DrawText(s.Name, lx+14, c.y+pad, r.Theme.FontSize, r.Theme.LabelColor)
		lx += 14 + rl.MeasureText(s.Name, r.Theme.FontSize) + 16
	}
}

// ChartPoints maps values onto a plot area of w x h pixels at (x, y).
// The whole history is squeezed into the width; top maps to the upper edge.
func ChartPoints(values []float64, top float64, x, y, w, h int32) []rl.Vector2 {
	n := len(values)
	if n == 0 || top <= 0 {
		return nil
	}
	points := make([]rl.Vector2, n)
	for i, v := range values {
		fx := float32(0)
		if n > 1 {
			fx = float32(i) / float32(n-1)
		}
		fy := float32(v / top)
		if fy > 1 {
			fy = 1
		}
		if fy < 0 {
			fy = 0
		}
		points[i] = rl.Vector2{
			X: float32(x) + fx*float32(w),
			Y: float32(y+h) - fy*float32(h),
		}
	}
	return points
}

func formatAxis(v float64) string {
	return fmt.Sprintf("%.0f", v)
}
