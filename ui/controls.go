package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsState is the driver state shown by the controls panel.
type ControlsState struct {
	Paused            bool
	StepsPerUpdate    int
	MaxStepsPerUpdate int
}

// ControlsAction reports what the user changed this frame.
type ControlsAction struct {
	TogglePause    bool
	Step           bool
	ResetView      bool
	StepsPerUpdate int
}

// ControlsPanel renders the left-side controls panel with run controls and
// overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32 // height of the last drawn frame
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Contains reports whether a screen point lies over the panel.
func (c *ControlsPanel) Contains(p rl.Vector2) bool {
	return rl.CheckCollisionPointRec(p, rl.Rectangle{
		X: float32(c.x), Y: float32(c.y), Width: float32(c.width), Height: float32(c.height),
	})
}

// Draw renders the panel and returns the user's actions.
func (c *ControlsPanel) Draw(state ControlsState, overlays *OverlayRegistry) ControlsAction {
	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	toggles := 0
	for _, cat := range categories {
		toggles += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	c.height = padding*2 + 2*lineHeight + 3*(lineHeight+12) + int32(toggles)*(lineHeight+4)
	r.DrawPanel(c.x, c.y, c.width, c.height)

	x := float32(c.x + padding)
	y := c.y + padding
	inner := float32(c.width - 2*padding)

	y = r.DrawSectionHeader(c.x+padding, y, "Controls")

	action := ControlsAction{StepsPerUpdate: state.StepsPerUpdate}

	// Run controls
	half := (inner - 6) / 2
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: float32(lineHeight + 6)}, toggleText(state.Paused, "Resume", "Pause")) {
		action.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 6, Y: float32(y), Width: half, Height: float32(lineHeight + 6)}, "Step") {
		action.Step = true
	}
	y += lineHeight + 12

	rl.DrawText(fmt.Sprintf("Steps/frame: %d", state.StepsPerUpdate), c.x+padding, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += lineHeight
	steps := gui.SliderBar(
		rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: float32(lineHeight)},
		"", "",
		float32(state.StepsPerUpdate), 1, float32(state.MaxStepsPerUpdate),
	)
	action.StepsPerUpdate = int(steps + 0.5)
	y += lineHeight + 12

	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: float32(lineHeight + 6)}, "Reset View [Home]") {
		action.ResetView = true
	}
	y += lineHeight + 12

	// Overlay toggles grouped by category
	for _, cat := range categories {
		y = r.DrawSectionHeader(c.x+padding, y, categoryLabel(cat))
		for _, desc := range overlays.ByCategory(cat) {
			label := fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
			bounds := rl.Rectangle{X: x, Y: float32(y), Width: float32(lineHeight - 2), Height: float32(lineHeight - 2)}
			enabled := overlays.IsEnabled(desc.ID)
			if checked := gui.CheckBox(bounds, label, enabled); checked != enabled {
				overlays.SetEnabled(desc.ID, checked)
			}
			y += lineHeight + 4
		}
	}

	return action
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Display"
	case "debug":
		return "Debug"
	case "panels":
		return "Panels"
	default:
		return cat
	}
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
