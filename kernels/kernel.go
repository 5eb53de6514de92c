// Package kernels provides 2D smoothing kernels with compact support and
// the SPH summation operators built on them.
package kernels

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Kind selects a kernel family.
type Kind uint8

const (
	// Density is the poly6-style kernel, smooth at r=0.
	Density Kind = iota
	// Pressure is the spiky kernel, sharp near r=0.
	Pressure
	// Viscosity is the viscosity kernel with a positive Laplacian.
	Viscosity
)

// String returns the kernel family name.
func (k Kind) String() string {
	switch k {
	case Density:
		return "density"
	case Pressure:
		return "pressure"
	case Viscosity:
		return "viscosity"
	default:
		return "unknown"
	}
}

// outside reports whether r lies outside the support [0, h].
func outside(r, h float64) bool {
	return r < 0 || r > h
}

// Value returns W(r, h).
// Singular forms return 0 at r == 0.
func (k Kind) Value(r, h float64) float64 {
	if outside(r, h) {
		return 0
	}
	switch k {
	case Density:
		d := h*h - r*r
		return 4 / (math.Pi * pow8(h)) * d * d * d
	case Pressure:
		d := h - r
		return 10 / (math.Pi * pow5(h)) * d * d * d
	case Viscosity:
		if r == 0 {
			return 0
		}
		coef := 10 / (3 * math.Pi * h * h)
		return coef * (-r*r*r/(2*h*h*h) + r*r/(h*h) + h/(2*r) - 1)
	}
	return 0
}

// Gradient returns ∇W for displacement rij = ri - rj with |rij| = r.
// The pressure and viscosity gradients return the zero vector at r == 0,
// where the direction is undefined.
func (k Kind) Gradient(rij r2.Vec, r, h float64) r2.Vec {
	if outside(r, h) {
		return r2.Vec{}
	}
	switch k {
	case Density:
		d := h*h - r*r
		return r2.Scale(-24/(math.Pi*pow8(h))*d*d, rij)
	case Pressure:
		if r == 0 {
			return r2.Vec{}
		}
		d := h - r
		return r2.Scale(-30/(math.Pi*pow5(h))*d*d/r, rij)
	case Viscosity:
		if r == 0 {
			return r2.Vec{}
		}
		coef := 10 / (3 * math.Pi * h * h * h * h)
		return r2.Scale(coef*(-3*r/(2*h)+2-h*h*h/(2*r*r*r)), rij)
	}
	return r2.Vec{}
}

// Laplacian returns ∇²W(r, h).
// The pressure Laplacian returns 0 at r == 0.
func (k Kind) Laplacian(r, h float64) float64 {
	if outside(r, h) {
		return 0
	}
	switch k {
	case Density:
		d := h*h - r*r
		return -24 / (math.Pi * pow8(h)) * (3*d*d - 4*r*r*d)
	case Pressure:
		if r == 0 {
			return 0
		}
		d := h - r
		return -60 / (math.Pi * pow5(h)) * (d*d/r - d)
	case Viscosity:
		return 20 / (3 * math.Pi * pow5(h)) * (h - r)
	}
	return 0
}

func pow5(h float64) float64 {
	h2 := h * h
	return h2 * h2 * h
}

func pow8(h float64) float64 {
	h2 := h * h
	h4 := h2 * h2
	return h4 * h4
}
