package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dooders/config"
)

// Action is a button press reported by the controls panel.
type Action int

const (
	ActionNone Action = iota
	ActionReset
	ActionTogglePause
	ActionStep
)

// ControlsPanel renders parameter sliders and the run buttons.
// Slider edits go to a draft config that only takes effect on reset.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	params   []ParamDescriptor
	draft    *config.Config
}

// NewControlsPanel creates a panel editing a copy of cfg.
func NewControlsPanel(x, y, width int32, cfg *config.Config) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		params:   Params(),
		draft:    cfg.Clone(),
	}
}

// Draft returns the edited parameters.
func (c *ControlsPanel) Draft() *config.Config {
	return c.draft
}

// Height returns the panel height for the current parameter list.
func (c *ControlsPanel) Height() int32 {
	r := c.renderer
	rows := int32(len(c.params))
	return r.Theme.Padding*2 + r.Theme.LineHeight + 8 + rows*24 + 40
}

// Draw renders the panel and returns the button pressed this frame, if any.
func (c *ControlsPanel) Draw(paused bool) Action {
	r := c.renderer
	padding := r.Theme.Padding

	r.DrawPanel(c.x, c.y, c.width, c.Height())

	y := c.y + padding
	y = r.DrawSectionHeader(c.x+padding, y, "Parameters")
	y += 6

	sliderX := float32(c.x + padding + r.Theme.LabelWidth)
	sliderW := float32(c.width - r.Theme.LabelWidth - padding*2 - 40)

	for _, p := range c.params {
		rl.DrawText(p.Label, c.x+padding, y+3, r.Theme.FontSize, r.Theme.LabelColor)
		current := p.Get(c.draft)

		if p.Toggle {
			checked := gui.CheckBox(rl.Rectangle{X: sliderX, Y: float32(y), Width: 16, Height: 16}, "", current != 0)
			p.Apply(c.draft, boolValue(checked))
		} else {
			v := gui.SliderBar(
				rl.Rectangle{X: sliderX, Y: float32(y), Width: sliderW, Height: 16},
				"", formatParam(p, current),
				current, p.Min, p.Max,
			)
			p.Apply(c.draft, v)
		}
		y += 24
	}

	y += 6
	buttonW := float32(c.width-padding*4) / 3
	bx := float32(c.x + padding)

	action := ActionNone
	if gui.Button(rl.Rectangle{X: bx, Y: float32(y), Width: buttonW, Height: 26}, "Reset") {
		action = ActionReset
	}
	pauseLabel := "Pause"
	if paused {
		pauseLabel = "Run"
	}
	if gui.Button(rl.Rectangle{X: bx + buttonW + float32(padding), Y: float32(y), Width: buttonW, Height: 26}, pauseLabel) {
		action = ActionTogglePause
	}
	if gui.Button(rl.Rectangle{X: bx + 2*(buttonW+float32(padding)), Y: float32(y), Width: buttonW, Height: 26}, "Step") {
		action = ActionStep
	}
	return action
}

func formatParam(p ParamDescriptor, v float32) string {
	if p.Integer {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
