package components

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// fractionTolerance is the allowed deviation of a fraction sum from 1.
const fractionTolerance = 1e-9

// Particles is a structure-of-arrays particle store.
// All slices are parallel-indexed by particle id. Boundary particles
// occupy the prefix [0, NumBoundary) and fluid particles the suffix.
type Particles struct {
	Pos []r2.Vec
	Vel []r2.Vec
	Acc []r2.Vec

	Mass          []float64
	Viscosity     []float64
	Density       []float64 // Intrinsic mixture density
	InterpDensity []float64 // SPH-reconstructed density
	Height        []float64

	Color []r3.Vec
	Attr  []Attribute

	// Fractions is a flat n*numPhases array; use Fraction(i) for a row view.
	Fractions []float64

	numPhases   int
	numBoundary int
}

// NewParticles creates an empty store for the given number of phases.
// capacity is a hint for preallocation.
func NewParticles(numPhases, capacity int) *Particles {
	return &Particles{
		Pos:           make([]r2.Vec, 0, capacity),
		Vel:           make([]r2.Vec, 0, capacity),
		Acc:           make([]r2.Vec, 0, capacity),
		Mass:          make([]float64, 0, capacity),
		Viscosity:     make([]float64, 0, capacity),
		Density:       make([]float64, 0, capacity),
		InterpDensity: make([]float64, 0, capacity),
		Height:        make([]float64, 0, capacity),
		Color:         make([]r3.Vec, 0, capacity),
		Attr:          make([]Attribute, 0, capacity),
		Fractions:     make([]float64, 0, capacity*numPhases),
		numPhases:     numPhases,
	}
}

// Add appends a particle and returns its id.
// Fractions are normalized to sum to 1. Boundary particles cannot be
// added once any fluid particle exists.
func (p *Particles) Add(pos, vel r2.Vec, height float64, frac []float64, attr Attribute) (int, error) {
	if attr == AttrBoundary && p.Len() > p.numBoundary {
		return 0, ErrAttributeOrder
	}
	if len(frac) != p.numPhases {
		return 0, fmt.Errorf("%w: got %d fractions, want %d", ErrInvalidFractions, len(frac), p.numPhases)
	}
	for _, f := range frac {
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidFractions, frac)
		}
	}
	sum := floats.Sum(frac)
	if sum <= 0 {
		return 0, fmt.Errorf("%w: fractions sum to zero", ErrInvalidFractions)
	}

	id := p.Len()
	p.Pos = append(p.Pos, pos)
	p.Vel = append(p.Vel, vel)
	p.Acc = append(p.Acc, r2.Vec{})
	p.Mass = append(p.Mass, 0)
	p.Viscosity = append(p.Viscosity, 0)
	p.Density = append(p.Density, 0)
	p.InterpDensity = append(p.InterpDensity, 0)
	p.Height = append(p.Height, height)
	p.Color = append(p.Color, r3.Vec{})
	p.Attr = append(p.Attr, attr)

	start := len(p.Fractions)
	p.Fractions = append(p.Fractions, frac...)
	if math.Abs(sum-1) > fractionTolerance {
		floats.Scale(1/sum, p.Fractions[start:])
	}

	if attr == AttrBoundary {
		p.numBoundary++
	}
	return id, nil
}

// Len returns the total number of particles.
func (p *Particles) Len() int {
	return len(p.Pos)
}

// NumPhases returns the length of each fraction vector.
func (p *Particles) NumPhases() int {
	return p.numPhases
}

// Count returns the number of particles with the given attribute.
func (p *Particles) Count(attr Attribute) int {
	if attr == AttrBoundary {
		return p.numBoundary
	}
	return p.Len() - p.numBoundary
}

// Range returns the [start, end) id range of the given attribute.
func (p *Particles) Range(attr Attribute) (start, end int) {
	if attr == AttrBoundary {
		return 0, p.numBoundary
	}
	return p.numBoundary, p.Len()
}

// Fraction returns the phase fraction row of particle i.
func (p *Particles) Fraction(i int) []float64 {
	off := i * p.numPhases
	return p.Fractions[off : off+p.numPhases : off+p.numPhases]
}

// MaxFractionError returns the largest |sum(fractions)-1| over all particles.
func (p *Particles) MaxFractionError() float64 {
	var worst float64
	for i := 0; i < p.Len(); i++ {
		if e := math.Abs(floats.Sum(p.Fraction(i)) - 1); e > worst {
			worst = e
		}
	}
	return worst
}
