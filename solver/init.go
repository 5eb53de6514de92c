package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shallows/components"
)

// BoundaryFrames returns the positions of layers concentric rectangular
// frames around [min, max]. Frame l sits (2l+1)·pr outside the interior edge
// and its particles are spaced about 2·pr apart.
func BoundaryFrames(min, max r2.Vec, pr float64, layers int) []r2.Vec {
	var out []r2.Vec
	for l := 0; l < layers; l++ {
		length := r2.Add(r2.Sub(max, min), r2.Vec{X: 4 * float64(l) * pr, Y: 4 * float64(l) * pr})
		nx := int(math.Ceil(length.X/(2*pr))) + 2
		ny := int(math.Ceil(length.Y/(2*pr))) + 2
		dx := (length.X + 2*pr) / float64(nx-1)
		dy := (length.Y + 2*pr) / float64(ny-1)

		offset := float64(2*l+1) * pr
		lo := r2.Vec{X: min.X - offset, Y: min.Y - offset}
		hi := r2.Vec{X: max.X + offset, Y: max.Y + offset}

		// Bottom and top rows, corners included
		for i := 0; i < nx; i++ {
			out = append(out,
				r2.Vec{X: lo.X + float64(i)*dx, Y: lo.Y},
				r2.Vec{X: hi.X - float64(i)*dx, Y: hi.Y},
			)
		}
		// Left and right columns between the corners
		for j := 1; j < ny-1; j++ {
			out = append(out,
				r2.Vec{X: lo.X, Y: lo.Y + float64(j)*dy},
				r2.Vec{X: hi.X, Y: hi.Y - float64(j)*dy},
			)
		}
	}
	return out
}

// FluidLattice returns a square lattice of spacing 2·pr centered in [min, max].
// Every point lies at least pr inside the rectangle.
func FluidLattice(min, max r2.Vec, pr float64) []r2.Vec {
	size := r2.Sub(max, min)
	nx := int(math.Floor(size.X / (2 * pr)))
	ny := int(math.Floor(size.Y / (2 * pr)))
	if nx <= 0 || ny <= 0 {
		return nil
	}
	center := r2.Add(min, r2.Scale(0.5, size))
	start := r2.Vec{
		X: center.X - float64(nx)*pr + pr,
		Y: center.Y - float64(ny)*pr + pr,
	}

	out := make([]r2.Vec, 0, nx*ny)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			out = append(out, r2.Vec{X: start.X + float64(i)*2*pr, Y: start.Y + float64(j)*2*pr})
		}
	}
	return out
}

// populate fills the store with the boundary frame followed by every fluid block.
func (s *Solver) populate() error {
	min, max := s.params.DomainMin(), s.params.DomainMax()
	pr := s.radii.Particle

	boundaryFrac := s.phases.Pure(s.params.BoundaryPhase)
	for _, pos := range BoundaryFrames(min, max, pr, s.params.BoundaryLayers) {
		if _, err := s.particles.Add(pos, r2.Vec{}, 1+s.terrain.Height(pos), boundaryFrac, components.AttrBoundary); err != nil {
			return fmt.Errorf("adding boundary particle: %w", err)
		}
	}

	for i, b := range s.params.Blocks {
		for _, pos := range FluidLattice(b.Min, b.Max, pr) {
			if _, err := s.particles.Add(pos, r2.Vec{}, 0, b.Fractions, components.AttrFluid); err != nil {
				return fmt.Errorf("adding fluid particle in block %d: %w", i, err)
			}
		}
	}
	return nil
}
