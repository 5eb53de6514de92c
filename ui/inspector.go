package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shallows/components"
)

// particleView is the inspected particle's state, extracted from a snapshot.
type particleView struct {
	id       int
	attr     components.Attribute
	pos, vel r2.Vec
	height   float64
	density  float64
	interp   float64
	color    rl.Color
}

// Inspector renders the selected particle's state.
type Inspector struct {
	renderer   *Renderer
	x, y       int32
	width      int32
	phaseNames []string
	selected   int
	sections   []SectionDescriptor
}

// NewInspector creates a new inspector panel. phaseNames label the fraction bars.
func NewInspector(x, y, width int32, phaseNames []string) *Inspector {
	ins := &Inspector{
		renderer:   NewRenderer(),
		x:          x,
		y:          y,
		width:      width,
		phaseNames: phaseNames,
		selected:   -1,
	}
	ins.sections = particleSections()
	return ins
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Select marks a particle for inspection; -1 clears the selection.
func (ins *Inspector) Select(id int) {
	ins.selected = id
}

// Selected returns the inspected particle id, or -1.
func (ins *Inspector) Selected() int {
	return ins.selected
}

// particleSections describes the fixed part of the panel.
func particleSections() []SectionDescriptor {
	get := func(f func(v *particleView) float64) func(any) float64 {
		return func(d any) float64 { return f(d.(*particleView)) }
	}
	isFluid := func(d any) bool { return d.(*particleView).attr == components.AttrFluid }

	return []SectionDescriptor{
		{
			Title: "Kinematics",
			Fields: []FieldDescriptor{
				{Label: "x", Widget: WidgetText, Format: "%.4f", Getter: get(func(v *particleView) float64 { return v.pos.X })},
				{Label: "y", Widget: WidgetText, Format: "%.4f", Getter: get(func(v *particleView) float64 { return v.pos.Y })},
				{Label: "vx", Widget: WidgetCenteredBar, Range: FieldRange{Min: -1, Max: 1}, Getter: get(func(v *particleView) float64 { return v.vel.X })},
				{Label: "vy", Widget: WidgetCenteredBar, Range: FieldRange{Min: -1, Max: 1}, Getter: get(func(v *particleView) float64 { return v.vel.Y })},
				{Label: "speed", Widget: WidgetText, Format: "%.4f", Getter: get(func(v *particleView) float64 { return r2.Norm(v.vel) })},
			},
		},
		{
			Title: "Surface",
			Fields: []FieldDescriptor{
				{Label: "height", Widget: WidgetText, Format: "%.4f", Getter: get(func(v *particleView) float64 { return v.height })},
				{Label: "density", Widget: WidgetText, Format: "%.2f", Getter: get(func(v *particleView) float64 { return v.density })},
				{Label: "interp", Widget: WidgetText, Format: "%.2f", Getter: get(func(v *particleView) float64 { return v.interp })},
				{Label: "ratio", Widget: WidgetBar, Range: FieldRange{Min: 0, Max: 2}, Visible: isFluid, Getter: get(func(v *particleView) float64 {
					if v.density == 0 {
						return 0
					}
					return v.interp / v.density
				})},
				{Label: "color", Widget: WidgetColorSwatch, ColorGetter: func(d any) rl.Color { return d.(*particleView).color }},
			},
		},
	}
}

// fractionSection builds one bar per phase for the selected particle.
func (ins *Inspector) fractionSection(frac []float64) SectionDescriptor {
	sd := SectionDescriptor{Title: "Phase Fractions"}
	for k, name := range ins.phaseNames {
		f := frac[k]
		sd.Fields = append(sd.Fields, FieldDescriptor{
			Label:  name,
			Widget: WidgetBar,
			Range:  DefaultRange(),
			Getter: func(any) float64 { return f },
		})
	}
	return sd
}

// Draw renders the inspector panel for the selected particle of snap.
// Nothing is drawn without a valid selection.
func (ins *Inspector) Draw(snap *components.Snapshot) {
	if ins.selected < 0 || ins.selected >= snap.Len() {
		return
	}
	i := ins.selected

	c := snap.Color[i]
	view := &particleView{
		id:      i,
		attr:    snap.Attr[i],
		pos:     snap.Pos[i],
		vel:     snap.Vel[i],
		height:  snap.Height[i],
		density: snap.Density[i],
		interp:  snap.InterpDensity[i],
		color:   rl.Color{R: uint8(255 * clamp01(c.X)), G: uint8(255 * clamp01(c.Y)), B: uint8(255 * clamp01(c.Z)), A: 255},
	}

	sections := ins.sections
	if snap.NumPhases == len(ins.phaseNames) {
		sections = append(sections[:len(sections):len(sections)], ins.fractionSection(snap.Fraction(i)))
	}

	r := ins.renderer
	padding := r.Theme.Padding
	height := padding*2 + r.Theme.LineHeight + 6
	for _, sd := range sections {
		height += r.SectionHeight(sd, view)
	}
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	x := ins.x + padding
	y := ins.y + padding
	rl.DrawText(fmt.Sprintf("Particle #%d (%s)", view.id, view.attr), x, y, r.Theme.HeaderFontSize, rl.White)
	y += r.Theme.LineHeight + 6

	contentWidth := ins.width - padding*2
	for _, sd := range sections {
		y = r.DrawSection(x, y, sd, view, contentWidth)
	}
}

// DrawSelection outlines the selected particle.
func (ins *Inspector) DrawSelection(snap *components.Snapshot, toScreen func(r2.Vec) (float32, float32), radius float32) {
	if ins.selected < 0 || ins.selected >= snap.Len() {
		return
	}
	x, y := toScreen(snap.Pos[ins.selected])
	rl.DrawCircleLines(int32(x), int32(y), radius+3, rl.Yellow)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
