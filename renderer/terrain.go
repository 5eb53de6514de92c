package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shallows/camera"
	"github.com/pthm-cable/shallows/systems"
)

// terrainDivisions is the number of terrain cells per axis.
const terrainDivisions = 48

var (
	lowGround  = r3.Vec{X: 0.16, Y: 0.13, Z: 0.1}
	highGround = r3.Vec{X: 0.45, Y: 0.4, Z: 0.3}
)

// TerrainRenderer draws the terrain as a grid of cells shaded by elevation.
// The terrain is static, so cell colors are computed once.
type TerrainRenderer struct {
	min, max r2.Vec
	cells    []rl.Color // row-major, one per sample
}

// NewTerrainRenderer samples field over [min, max).
func NewTerrainRenderer(field systems.HeightField, min, max r2.Vec) *TerrainRenderer {
	heights := systems.SampleTerrainGrid(field, min, max, terrainDivisions)
	lo, hi := floats.Min(heights), floats.Max(heights)
	span := hi - lo
	if span <= 0 {
		span = 1
	}

	cells := make([]rl.Color, len(heights))
	for i, h := range heights {
		t := (h - lo) / span
		cells[i] = colorOf(r3.Add(r3.Scale(1-t, lowGround), r3.Scale(t, highGround)), 1)
	}

	return &TerrainRenderer{min: min, max: max, cells: cells}
}

// Draw renders the terrain cells.
func (r *TerrainRenderer) Draw(cam *camera.Camera) {
	step := r2.Scale(1/float64(terrainDivisions), r2.Sub(r.max, r.min))
	size := rl.Vector2{X: cam.Length(step.X) + 1, Y: cam.Length(step.Y) + 1}
	for z := 0; z < terrainDivisions; z++ {
		for x := 0; x < terrainDivisions; x++ {
			// Screen y is flipped, so the top-left corner is the cell's max y
			corner := r2.Vec{X: r.min.X + float64(x)*step.X, Y: r.min.Y + float64(z+1)*step.Y}
			x0, y0 := cam.WorldToScreen(corner)
			rl.DrawRectangleV(rl.Vector2{X: x0, Y: y0}, size, r.cells[z*terrainDivisions+x])
		}
	}
}
