// Package camera provides a 2D camera for viewing the simulation rectangle.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// fitMargin leaves a border around the world at zoom 1.
const fitMargin = 0.95

// Camera controls the viewport into the simulation world.
// World y points up; screen y points down.
type Camera struct {
	// Center is the camera center in world coordinates
	Center r2.Vec

	// Zoom level relative to fitting the whole world (1.0 = fit)
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// World bounds; the camera center is kept inside them
	WorldMin, WorldMax r2.Vec

	// Zoom constraints
	MinZoom, MaxZoom float64

	// fit is the pixels per world unit at zoom 1
	fit float64
}

// New creates a camera centered on the world, zoomed to fit it in the viewport.
func New(viewportW, viewportH float64, worldMin, worldMax r2.Vec) *Camera {
	c := &Camera{
		Zoom:     1.0,
		WorldMin: worldMin,
		WorldMax: worldMax,
		MinZoom:  0.5,
		MaxZoom:  16.0,
	}
	c.Resize(viewportW, viewportH)
	c.Reset()
	return c
}

// Scale returns pixels per world unit at the current zoom.
func (c *Camera) Scale() float64 {
	return c.fit * c.Zoom
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(p r2.Vec) (sx, sy float32) {
	d := r2.Scale(c.Scale(), r2.Sub(p, c.Center))
	return float32(c.ViewportW/2 + d.X), float32(c.ViewportH/2 - d.Y)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) r2.Vec {
	s := c.Scale()
	return r2.Vec{
		X: c.Center.X + (float64(sx)-c.ViewportW/2)/s,
		Y: c.Center.Y - (float64(sy)-c.ViewportH/2)/s,
	}
}

// Length converts a world distance to pixels.
func (c *Camera) Length(d float64) float32 {
	return float32(d * c.Scale())
}

// IsVisible returns true if a circle at p with given radius could be
// visible on screen (conservative check for culling).
func (c *Camera) IsVisible(p r2.Vec, radius float64) bool {
	min, max := c.VisibleWorldBounds()
	return p.X+radius >= min.X && p.X-radius <= max.X &&
		p.Y+radius >= min.Y && p.Y-radius <= max.Y
}

// Resize updates viewport dimensions and the fit scale.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	size := r2.Sub(c.WorldMax, c.WorldMin)
	c.fit = fitMargin * math.Min(viewportW/size.X, viewportH/size.Y)
}

// Pan moves the camera by the given delta in screen pixels.
// Positive dy moves the view down the screen.
func (c *Camera) Pan(dx, dy float64) {
	s := c.Scale()
	c.Center.X = clamp(c.Center.X+dx/s, c.WorldMin.X, c.WorldMax.X)
	c.Center.Y = clamp(c.Center.Y-dy/s, c.WorldMin.Y, c.WorldMax.Y)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the world center at zoom 1.
func (c *Camera) Reset() {
	c.Center = r2.Scale(0.5, r2.Add(c.WorldMin, c.WorldMax))
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (min, max r2.Vec) {
	s := c.Scale()
	half := r2.Vec{X: c.ViewportW / (2 * s), Y: c.ViewportH / (2 * s)}
	return r2.Sub(c.Center, half), r2.Add(c.Center, half)
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
