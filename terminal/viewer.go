// Package terminal renders the simulation as text in a tcell screen.
package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/dooders/model"
)

// Glyphs used for each cell, strongest occupant first.
const (
	GlyphPredator = 'W'
	GlyphPrey     = 's'
	GlyphGrass    = '"'
	GlyphEmpty    = '.'
)

var (
	stylePredator = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	stylePrey     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleGrass    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleEmpty    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Glyph returns the character and style for one cell.
// Predators hide prey, and animals hide grass.
func Glyph(c model.CellView) (rune, tcell.Style) {
	switch {
	case c.Predators > 0:
		return GlyphPredator, stylePredator
	case c.Prey > 0:
		return GlyphPrey, stylePrey
	case c.HasFood && c.FoodGrown:
		return GlyphGrass, styleGrass
	default:
		return GlyphEmpty, styleEmpty
	}
}

// DefaultInterval is used when New is given a non-positive interval.
const DefaultInterval = 100 * time.Millisecond

// Viewer steps a model and redraws it on a terminal screen.
type Viewer struct {
	screen   tcell.Screen
	model    *model.Model
	interval time.Duration
	maxTicks int
	paused   bool
}

// New creates a viewer. The screen must already be initialised; the caller owns it.
// interval is the time between steps; maxTicks stops the run (0 = never).
func New(screen tcell.Screen, m *model.Model, interval time.Duration, maxTicks int) *Viewer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Viewer{
		screen:   screen,
		model:    m,
		interval: interval,
		maxTicks: maxTicks,
	}
}

// Paused reports whether stepping is suspended.
func (v *Viewer) Paused() bool {
	return v.paused
}

// Draw renders the grid with row 0 at the bottom and a status line below it.
func (v *Viewer) Draw() {
	v.screen.Clear()
	grid := v.model.Grid()
	w, h := grid.Width(), grid.Height()

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			r, style := Glyph(v.model.Cell(x, y))
			v.screen.SetContent(x, h-1-y, r, nil, style)
		}
	}

	v.drawText(0, h, styleStatus, v.Status())
	v.drawText(0, h+1, styleEmpty, "space pause | n step | q quit")
	v.screen.Show()
}

// Status returns the one-line population summary.
func (v *Viewer) Status() string {
	pop := v.model.Population()
	s := fmt.Sprintf("tick %d  sheep %d  wolves %d  grass %d", v.model.Tick(), pop.Prey, pop.Predators, pop.GrownFood)
	switch {
	case !v.model.Running():
		s += "  [extinct]"
	case v.paused:
		s += "  [paused]"
	}
	return s
}

func (v *Viewer) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range text {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

// HandleEvent applies one input event. It returns false when the viewer should quit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				v.paused = !v.paused
			case 'n':
				if v.paused {
					v.model.Step()
				}
			}
		}
		v.Draw()
	case *tcell.EventResize:
		v.screen.Sync()
		v.Draw()
	}
	return true
}

// Run steps and redraws until the user quits, ctx is cancelled or maxTicks is reached.
func (v *Viewer) Run(ctx context.Context) error {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !v.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			if v.paused || !v.model.Running() {
				continue
			}
			v.model.Step()
			v.Draw()
			if v.maxTicks > 0 && v.model.Tick() >= v.maxTicks {
				return nil
			}
		}
	}
}
