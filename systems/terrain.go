package systems

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// HeightField maps a horizontal position to terrain elevation.
// Implementations must be side-effect free and safe for concurrent use.
type HeightField interface {
	Height(p r2.Vec) float64
}

// HeightFunc adapts a plain function to HeightField.
type HeightFunc func(p r2.Vec) float64

// Height calls f(p).
func (f HeightFunc) Height(p r2.Vec) float64 {
	return f(p)
}

// Flat is a constant-elevation terrain.
type Flat struct {
	Level float64
}

// Height returns the constant level.
func (t Flat) Height(r2.Vec) float64 {
	return t.Level
}

// Slope is a planar terrain: Level + Gradient·p.
type Slope struct {
	Level    float64
	Gradient r2.Vec
}

// Height returns the plane elevation at p.
func (t Slope) Height(p r2.Vec) float64 {
	return t.Level + r2.Dot(t.Gradient, p)
}

// slopeProbe is the half-width of the central difference used for terrain slope.
const slopeProbe = 0.01

// TerrainSlope estimates ∇H at p by central differences at ±0.01.
func TerrainSlope(field HeightField, p r2.Vec) r2.Vec {
	dx := r2.Vec{X: slopeProbe}
	dy := r2.Vec{Y: slopeProbe}
	return r2.Vec{
		X: (field.Height(r2.Add(p, dx)) - field.Height(r2.Sub(p, dx))) / (2 * slopeProbe),
		Y: (field.Height(r2.Add(p, dy)) - field.Height(r2.Sub(p, dy))) / (2 * slopeProbe),
	}
}

// SampleTerrainGrid samples field on a div×div lattice spanning [min, max).
// Row-major, heights[z*div+x].
func SampleTerrainGrid(field HeightField, min, max r2.Vec, div int) []float64 {
	if div < 1 {
		return nil
	}
	step := r2.Scale(1/float64(div), r2.Sub(max, min))
	heights := make([]float64, div*div)
	for z := 0; z < div; z++ {
		for x := 0; x < div; x++ {
			p := r2.Vec{X: min.X + float64(x)*step.X, Y: min.Y + float64(z)*step.Y}
			heights[z*div+x] = field.Height(p)
		}
	}
	return heights
}
