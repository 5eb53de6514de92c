package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shallows/components"
	"github.com/pthm-cable/shallows/config"
	"github.com/pthm-cable/shallows/systems"
)

// ErrInvalidParams is returned by New for parameters that cannot produce a simulation.
var ErrInvalidParams = errors.New("invalid solver parameters")

// FluidBlock is a rectangle filled with fluid of a fixed phase mix.
type FluidBlock struct {
	Min, Max  r2.Vec
	Fractions []float64 // One entry per phase
}

// Params holds the scalar configuration of one simulation.
type Params struct {
	Scale           float64 // Interior domain is [-Scale/2, Scale/2]²
	DT              float64
	Gravity         float64
	TargetNeighbors float64 // Average particle count inside the support disk
	BoundaryLayers  int
	BoundaryPhase   int // Phase index used by boundary particles
	Blocks          []FluidBlock

	Workers           int // 0 = GOMAXPROCS
	ParallelThreshold int // Minimum particles before stages run in parallel
}

// DomainMin returns the lower corner of the interior domain.
func (p Params) DomainMin() r2.Vec {
	return r2.Vec{X: -p.Scale / 2, Y: -p.Scale / 2}
}

// DomainMax returns the upper corner of the interior domain.
func (p Params) DomainMax() r2.Vec {
	return r2.Vec{X: p.Scale / 2, Y: p.Scale / 2}
}

func (p Params) validate(numPhases int) error {
	switch {
	case !(p.Scale > 0):
		return fmt.Errorf("%w: scale must be positive, got %v", ErrInvalidParams, p.Scale)
	case !(p.DT > 0):
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidParams, p.DT)
	case !(p.Gravity >= 0):
		return fmt.Errorf("%w: gravity must be non-negative, got %v", ErrInvalidParams, p.Gravity)
	case !(p.TargetNeighbors > 0):
		return fmt.Errorf("%w: target neighbors must be positive, got %v", ErrInvalidParams, p.TargetNeighbors)
	case p.BoundaryLayers < 0:
		return fmt.Errorf("%w: boundary layers must be non-negative, got %d", ErrInvalidParams, p.BoundaryLayers)
	case p.BoundaryPhase < 0 || p.BoundaryPhase >= numPhases:
		return fmt.Errorf("%w: boundary phase %d out of range [0, %d)", ErrInvalidParams, p.BoundaryPhase, numPhases)
	}
	for i, b := range p.Blocks {
		if !(b.Max.X > b.Min.X) || !(b.Max.Y > b.Min.Y) {
			return fmt.Errorf("%w: block %d has empty extent %v..%v", ErrInvalidParams, i, b.Min, b.Max)
		}
		if len(b.Fractions) != numPhases {
			return fmt.Errorf("%w: block %d has %d fractions, want %d", ErrInvalidParams, i, len(b.Fractions), numPhases)
		}
		if sum := floats.Sum(b.Fractions); !(sum > 0) || floats.Min(b.Fractions) < 0 {
			return fmt.Errorf("%w: block %d: %w", ErrInvalidParams, i, components.ErrInvalidFractions)
		}
	}
	return nil
}

// Radii holds the kernel support and particle spacing derived from the
// target neighbor count and the reference material.
type Radii struct {
	Effective float64 // Kernel support radius h
	Particle  float64 // Half the initial lattice spacing
}

// DeriveRadii computes the support radius so that a disk of radius h holds
// on average n particles of the given mass at the given density.
func DeriveRadii(mass, density, n float64) Radii {
	h := math.Sqrt(mass * n / (math.Pi * density))
	return Radii{
		Effective: h,
		Particle:  0.5 * h * math.Sqrt(math.Pi/n),
	}
}

// referenceMaterial returns the mass and rest density that size the kernel.
// The first fluid block's mix is used; without blocks the boundary phase is.
func referenceMaterial(p Params, phases *components.PhaseTable) (mass, density float64) {
	frac := phases.Pure(p.BoundaryPhase)
	if len(p.Blocks) > 0 {
		frac = make([]float64, len(p.Blocks[0].Fractions))
		copy(frac, p.Blocks[0].Fractions)
		if sum := floats.Sum(frac); sum > 0 {
			floats.Scale(1/sum, frac)
		}
	}
	return floats.Dot(frac, phases.Masses()), floats.Dot(frac, phases.Densities())
}

// PhasesFromConfig builds the phase table in config order.
func PhasesFromConfig(cfg *config.Config) (*components.PhaseTable, error) {
	phases := make([]components.Phase, len(cfg.Phases))
	for i, pc := range cfg.Phases {
		phases[i] = components.Phase{
			Name:        pc.Name,
			Mass:        pc.Mass,
			RestDensity: pc.RestDensity,
			Viscosity:   pc.Viscosity,
			Color:       r3.Vec{X: pc.Color[0], Y: pc.Color[1], Z: pc.Color[2]},
		}
	}
	return components.NewPhaseTable(phases...)
}

// ParamsFromConfig converts the loaded configuration into solver parameters.
// Block bounds in the config are fractions of the domain scale.
func ParamsFromConfig(cfg *config.Config, phases *components.PhaseTable) (Params, error) {
	boundary, err := phases.Index(cfg.Boundary.Phase)
	if err != nil {
		return Params{}, fmt.Errorf("boundary phase: %w", err)
	}

	scale := cfg.Domain.Scale
	blocks := make([]FluidBlock, len(cfg.Fluid.Blocks))
	for i, bc := range cfg.Fluid.Blocks {
		frac := make([]float64, phases.Len())
		for name, f := range bc.Fractions {
			k, err := phases.Index(name)
			if err != nil {
				return Params{}, fmt.Errorf("fluid block %d: %w", i, err)
			}
			frac[k] = f
		}
		blocks[i] = FluidBlock{
			Min:       r2.Vec{X: bc.Min[0] * scale, Y: bc.Min[1] * scale},
			Max:       r2.Vec{X: bc.Max[0] * scale, Y: bc.Max[1] * scale},
			Fractions: frac,
		}
	}

	return Params{
		Scale:             scale,
		DT:                cfg.Physics.DT,
		Gravity:           cfg.Physics.Gravity,
		TargetNeighbors:   cfg.Physics.TargetNeighbors,
		BoundaryLayers:    cfg.Boundary.Layers,
		BoundaryPhase:     boundary,
		Blocks:            blocks,
		Workers:           cfg.Solver.Workers,
		ParallelThreshold: cfg.Solver.ParallelThreshold,
	}, nil
}

// TerrainFromConfig builds the configured height field. The heightmap kind
// bakes the noise terrain over the domain plus a margin for the boundary frame.
func TerrainFromConfig(cfg *config.Config) (systems.HeightField, error) {
	tc := cfg.Terrain
	switch tc.Kind {
	case "flat":
		return systems.Flat{Level: tc.Level}, nil
	case "slope":
		return systems.Slope{Level: tc.Level, Gradient: r2.Vec{X: tc.Slope[0], Y: tc.Slope[1]}}, nil
	case "noise", "heightmap":
		noise := systems.NewNoiseTerrain(systems.NoiseParams{
			Seed:       tc.Seed,
			Level:      tc.Level,
			Amplitude:  tc.Amplitude,
			Scale:      tc.Scale,
			Octaves:    tc.Octaves,
			Lacunarity: tc.Lacunarity,
			Gain:       tc.Gain,
		})
		if tc.Kind == "noise" {
			return noise, nil
		}
		min := r2.Vec{X: cfg.Derived.DomainMin[0], Y: cfg.Derived.DomainMin[1]}
		max := r2.Vec{X: cfg.Derived.DomainMax[0], Y: cfg.Derived.DomainMax[1]}
		margin := r2.Scale(0.25, r2.Sub(max, min))
		hm, err := systems.BakeHeightmap(noise, r2.Sub(min, margin), r2.Add(max, margin), tc.Resolution)
		if err != nil {
			return nil, fmt.Errorf("baking heightmap: %w", err)
		}
		return hm, nil
	default:
		return nil, fmt.Errorf("unknown terrain kind %q", tc.Kind)
	}
}
