package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shallows/camera"
	"github.com/pthm-cable/shallows/components"
)

var (
	boundaryColor = rl.Color{R: 90, G: 90, B: 100, A: 255}
	velocityColor = rl.Color{R: 255, G: 255, B: 255, A: 160}
)

// ParticleRenderer draws fluid particles shaded by surface height.
type ParticleRenderer struct {
	radius    float64 // world units
	minHeight float64 // height drawn darkest
	maxHeight float64 // height drawn brightest

	ShowBoundary bool
	HeightTint   bool
}

// NewParticleRenderer creates a renderer that draws particles of the given
// world radius, mapping heights in [minHeight, maxHeight] to brightness.
func NewParticleRenderer(radius, minHeight, maxHeight float64) *ParticleRenderer {
	if maxHeight <= minHeight {
		maxHeight = minHeight + 1
	}
	return &ParticleRenderer{
		radius:       radius,
		minHeight:    minHeight,
		maxHeight:    maxHeight,
		ShowBoundary: true,
		HeightTint:   true,
	}
}

// Radius returns the drawn particle radius in world units.
func (r *ParticleRenderer) Radius() float64 {
	return r.radius
}

// Draw renders a snapshot. Boundary particles are the prefix [0, NumBoundary).
func (r *ParticleRenderer) Draw(snap *components.Snapshot, cam *camera.Camera) {
	size := r.screenRadius(cam)

	if r.ShowBoundary {
		for i := 0; i < snap.NumBoundary; i++ {
			if !cam.IsVisible(snap.Pos[i], r.radius) {
				continue
			}
			x, y := cam.WorldToScreen(snap.Pos[i])
			rl.DrawCircleV(rl.Vector2{X: x, Y: y}, size*0.6, boundaryColor)
		}
	}

	for i := snap.NumBoundary; i < snap.Len(); i++ {
		if !cam.IsVisible(snap.Pos[i], r.radius) {
			continue
		}
		shade := 1.0
		if r.HeightTint {
			// Higher water is brighter
			t := (snap.Height[i] - r.minHeight) / (r.maxHeight - r.minHeight)
			shade = 0.5 + 0.5*clamp01(t)
		}

		x, y := cam.WorldToScreen(snap.Pos[i])
		rl.DrawCircleV(rl.Vector2{X: x, Y: y}, size, colorOf(snap.Color[i], shade))
	}
}

// DrawVelocities draws a line per fluid particle along its velocity,
// scaled so that a speed of one covers scale world units.
func (r *ParticleRenderer) DrawVelocities(snap *components.Snapshot, cam *camera.Camera, scale float64) {
	for i := snap.NumBoundary; i < snap.Len(); i++ {
		if !cam.IsVisible(snap.Pos[i], r.radius) {
			continue
		}
		x0, y0 := cam.WorldToScreen(snap.Pos[i])
		x1, y1 := cam.WorldToScreen(r2.Add(snap.Pos[i], r2.Scale(scale, snap.Vel[i])))
		rl.DrawLineV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, velocityColor)
	}
}

func (r *ParticleRenderer) screenRadius(cam *camera.Camera) float32 {
	size := cam.Length(r.radius)
	if size < 1 {
		size = 1
	}
	return size
}

func clamp01(t float64) float64 {
	if !(t > 0) {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
