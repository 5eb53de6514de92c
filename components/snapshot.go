package components

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Snapshot is a copy of the particle state needed by renderers and writers.
type Snapshot struct {
	Step    int64
	SimTime float64

	Pos           []r2.Vec
	Vel           []r2.Vec
	Height        []float64
	Density       []float64
	InterpDensity []float64
	Color         []r3.Vec
	Attr          []Attribute
	Fractions     []float64 // Flat Len()*NumPhases

	NumPhases   int
	NumBoundary int
}

// Len returns the number of particles in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.Pos)
}

// Fraction returns the phase fractions of particle i.
func (s *Snapshot) Fraction(i int) []float64 {
	return s.Fractions[i*s.NumPhases : (i+1)*s.NumPhases]
}

// Nearest returns the particle closest to p within maxDist, or -1.
func (s *Snapshot) Nearest(p r2.Vec, maxDist float64) int {
	best := -1
	bestSq := maxDist * maxDist
	for i, q := range s.Pos {
		d := r2.Sub(q, p)
		if dsq := r2.Dot(d, d); dsq <= bestSq {
			best, bestSq = i, dsq
		}
	}
	return best
}

// CopyInto fills dst with the current state, reusing its buffers.
func (p *Particles) CopyInto(dst *Snapshot) {
	dst.Pos = append(dst.Pos[:0], p.Pos...)
	dst.Vel = append(dst.Vel[:0], p.Vel...)
	dst.Height = append(dst.Height[:0], p.Height...)
	dst.Density = append(dst.Density[:0], p.Density...)
	dst.InterpDensity = append(dst.InterpDensity[:0], p.InterpDensity...)
	dst.Color = append(dst.Color[:0], p.Color...)
	dst.Attr = append(dst.Attr[:0], p.Attr...)
	dst.Fractions = append(dst.Fractions[:0], p.Fractions...)
	dst.NumPhases = p.numPhases
	dst.NumBoundary = p.numBoundary
}
