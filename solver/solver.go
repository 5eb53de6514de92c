// Package solver advances the shallow-water particle simulation one step at a time.
package solver

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shallows/components"
	"github.com/pthm-cable/shallows/kernels"
	"github.com/pthm-cable/shallows/systems"
	"github.com/pthm-cable/shallows/telemetry"
)

// Options holds optional collaborators for New.
type Options struct {
	Logger *slog.Logger             // nil = slog.Default()
	Perf   *telemetry.PerfCollector // nil = no stage timing
}

// StepStats describes the most recent step.
type StepStats struct {
	Step           int64
	SimTime        float64
	SpeedClamps    int // Fluid particles whose speed was limited to vmax
	PositionClamps int // Fluid particles pushed back inside the domain
}

// clampCount is a per-chunk tally written by one worker.
type clampCount struct {
	speed, position int
}

// Solver owns the particle store and runs the step pipeline.
type Solver struct {
	params  Params
	phases  *components.PhaseTable
	terrain systems.HeightField
	radii   Radii

	domainMin, domainMax     r2.Vec
	boundaryMin, boundaryMax r2.Vec

	particles *components.Particles
	mixture   *systems.MixtureModel
	grid      *systems.SpatialGrid

	// Neighbor lists of the current step; partial holds one list per chunk
	neighbors systems.NeighborLists
	partial   []systems.NeighborLists

	// Interpolation denominators: intrinsic and reconstructed density
	intrinsic kernels.Field
	interp    kernels.Field

	pool   *workerPool
	clamps []clampCount
	perf   *telemetry.PerfCollector
	logger *slog.Logger

	step int64
	last StepStats
}

// New derives the kernel radii, generates the boundary frame and fluid
// blocks, and sizes the spatial grid over the boundary rectangle.
func New(params Params, phases *components.PhaseTable, terrain systems.HeightField, opts Options) (*Solver, error) {
	if phases == nil || phases.Len() == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, components.ErrEmptyPhaseTable)
	}
	if terrain == nil {
		return nil, fmt.Errorf("%w: terrain is required", ErrInvalidParams)
	}
	if err := params.validate(phases.Len()); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mass, density := referenceMaterial(params, phases)
	radii := DeriveRadii(mass, density, params.TargetNeighbors)
	if !(radii.Effective > 0) || math.IsInf(radii.Effective, 0) {
		return nil, fmt.Errorf("%w: derived support radius %v", ErrInvalidParams, radii.Effective)
	}

	margin := float64(params.BoundaryLayers) * 2 * radii.Particle
	s := &Solver{
		params:    params,
		phases:    phases,
		terrain:   terrain,
		radii:     radii,
		domainMin: params.DomainMin(),
		domainMax: params.DomainMax(),
		mixture:   systems.NewMixtureModel(phases),
		pool:      newWorkerPool(params.Workers, params.ParallelThreshold),
		perf:      opts.Perf,
		logger:    logger,
	}
	s.boundaryMin = r2.Sub(s.domainMin, r2.Vec{X: margin, Y: margin})
	s.boundaryMax = r2.Add(s.domainMax, r2.Vec{X: margin, Y: margin})

	s.particles = components.NewParticles(phases.Len(), 0)
	if err := s.populate(); err != nil {
		return nil, err
	}

	grid, err := systems.NewSpatialGrid(s.boundaryMin, s.boundaryMax, radii.Effective, s.particles.Len())
	if err != nil {
		return nil, fmt.Errorf("creating spatial grid: %w", err)
	}
	s.grid = grid

	// The store is never resized after population, so the fields can alias it
	p := s.particles
	s.intrinsic = kernels.Field{Mass: p.Mass, Density: p.Density, Pos: p.Pos}
	s.interp = kernels.Field{Mass: p.Mass, Density: p.InterpDensity, Pos: p.Pos}

	perParticle := int(math.Ceil(params.TargetNeighbors)) * 2
	s.neighbors = *systems.NewNeighborLists(p.Len(), perParticle)
	s.partial = make([]systems.NeighborLists, s.pool.chunks())
	s.clamps = make([]clampCount, s.pool.chunks())

	// Material and color are valid before the first step
	s.mixture.Update(p, 0, p.Len())

	s.logger.Info("solver initialized", "params", s.Info())
	return s, nil
}

// Close stops the worker goroutines.
func (s *Solver) Close() {
	s.pool.stopWorkers()
}

// StepInterval returns the recommended time between steps.
func (s *Solver) StepInterval() float64 {
	return s.params.DT
}

// Step advances the simulation by one time step. Stage boundaries are
// reported to the perf collector; the caller brackets the step with
// StartStep and EndStep.
func (s *Solver) Step() {
	p := s.particles
	n := p.Len()
	fluidStart, fluidEnd := p.Range(components.AttrFluid)

	s.startPhase(telemetry.PhaseMixture)
	s.pool.run(0, n, func(_, start, end int) {
		s.mixture.Update(p, start, end)
	})

	s.startPhase(telemetry.PhaseNeighbors)
	s.updateNeighbors()

	s.startPhase(telemetry.PhaseDensity)
	s.pool.run(0, n, s.computeDensity)

	s.startPhase(telemetry.PhaseForces)
	s.pool.run(fluidStart, fluidEnd, s.computeForces)

	s.startPhase(telemetry.PhaseIntegrate)
	for i := range s.clamps {
		s.clamps[i] = clampCount{}
	}
	s.pool.run(fluidStart, fluidEnd, s.integrate)

	s.startPhase(telemetry.PhaseSurface)
	s.pool.run(fluidStart, fluidEnd, s.updateSurface)

	s.step++
	s.last = StepStats{Step: s.step, SimTime: float64(s.step) * s.params.DT}
	for _, c := range s.clamps {
		s.last.SpeedClamps += c.speed
		s.last.PositionClamps += c.position
	}
}

func (s *Solver) startPhase(phase string) {
	if s.perf != nil {
		s.perf.StartPhase(phase)
	}
}

// updateNeighbors rebuilds the grid from current positions, then collects
// every particle's neighbors within the support radius.
func (s *Solver) updateNeighbors() {
	p := s.particles
	h := s.radii.Effective
	s.grid.Register(p.Pos)

	used := s.pool.run(0, p.Len(), func(chunk, start, end int) {
		s.grid.SearchRange(start, end, h, &s.partial[chunk])
	})
	if used <= 1 {
		// Serial path wrote everything into chunk 0
		s.neighbors, s.partial[0] = s.partial[0], s.neighbors
		return
	}

	parts := make([]*systems.NeighborLists, used)
	for i := range parts {
		parts[i] = &s.partial[i]
	}
	s.neighbors.Concat(parts...)
}

// computeDensity sets the interpolated density Σ m_j W(r_ij).
func (s *Solver) computeDensity(_, start, end int) {
	p := s.particles
	h := s.radii.Effective
	for i := start; i < end; i++ {
		p.InterpDensity[i] = s.intrinsic.Value(p.Density, i, s.neighbors.Of(i), kernels.Density, h)
	}
}

// computeForces accumulates pressure, viscosity and terrain slope acceleration.
func (s *Solver) computeForces(_, start, end int) {
	p := s.particles
	h := s.radii.Effective
	g := s.params.Gravity
	for i := start; i < end; i++ {
		nbrs := s.neighbors.Of(i)

		pressure := s.interp.Gradient(p.InterpDensity, i, nbrs, kernels.Pressure, h)
		acc := r2.Scale(-g/p.Density[i], pressure)

		visc := s.interp.LaplacianVec(p.Vel, i, nbrs, kernels.Viscosity, h)
		acc = r2.Add(acc, r2.Scale(p.Viscosity[i]/p.InterpDensity[i], visc))

		slope := systems.TerrainSlope(s.terrain, p.Pos[i])
		acc = r2.Sub(acc, r2.Scale(g, slope))

		p.Acc[i] = acc
	}
}

// integrate applies semi-implicit Euler with the shallow-water speed limit
// and a hard clamp into the interior domain.
func (s *Solver) integrate(chunk, start, end int) {
	p := s.particles
	dt := s.params.DT
	var count clampCount
	for i := start; i < end; i++ {
		vel := r2.Add(p.Vel[i], r2.Scale(dt, p.Acc[i]))

		vmax := s.MaxSpeed(i)
		if speed := r2.Norm(vel); speed > vmax {
			if speed > 0 && vmax > 0 {
				vel = r2.Scale(vmax/speed, vel)
			} else {
				vel = r2.Vec{}
			}
			count.speed++
		}

		pos := r2.Add(p.Pos[i], r2.Scale(dt, vel))
		clamped := r2.Vec{
			X: math.Min(math.Max(pos.X, s.domainMin.X), s.domainMax.X),
			Y: math.Min(math.Max(pos.Y, s.domainMin.Y), s.domainMax.Y),
		}
		if clamped != pos {
			count.position++
		}

		p.Vel[i] = vel
		p.Pos[i] = clamped
	}
	s.clamps[chunk] = count
}

// updateSurface sets the free-surface height and blended color.
func (s *Solver) updateSurface(_, start, end int) {
	p := s.particles
	for i := start; i < end; i++ {
		p.Height[i] = p.InterpDensity[i]/p.Density[i] + s.terrain.Height(p.Pos[i])
	}
	s.mixture.UpdateColor(p, start, end)
}

// MaxSpeed returns the stability bound sqrt(g·ρ̃_i/ρ_i) of particle i from
// the densities of the current step.
func (s *Solver) MaxSpeed(i int) float64 {
	p := s.particles
	if !(p.Density[i] > 0) {
		return 0
	}
	return math.Sqrt(s.params.Gravity * p.InterpDensity[i] / p.Density[i])
}

// Particles returns the live particle store. Callers must not modify it.
func (s *Solver) Particles() *components.Particles {
	return s.particles
}

// Neighbors returns the neighbor lists computed by the last step.
func (s *Solver) Neighbors() *systems.NeighborLists {
	return &s.neighbors
}

// Counts returns the boundary and fluid particle counts. Boundary particles
// occupy ids [0, boundary) and fluid particles [boundary, boundary+fluid).
func (s *Solver) Counts() (boundary, fluid int) {
	return s.particles.Count(components.AttrBoundary), s.particles.Count(components.AttrFluid)
}

// Snapshot returns a copy of the particle state.
func (s *Solver) Snapshot() *components.Snapshot {
	snap := &components.Snapshot{}
	s.SnapshotInto(snap)
	return snap
}

// SnapshotInto copies the particle state into dst, reusing its buffers.
func (s *Solver) SnapshotInto(dst *components.Snapshot) {
	s.particles.CopyInto(dst)
	dst.Step = s.step
	dst.SimTime = float64(s.step) * s.params.DT
}

// Stats returns counters from the most recent step.
func (s *Solver) Stats() StepStats {
	return s.last
}

// Radii returns the derived kernel support and particle radius.
func (s *Solver) Radii() Radii {
	return s.radii
}

// Terrain returns the height field the solver samples.
func (s *Solver) Terrain() systems.HeightField {
	return s.terrain
}

// Domain returns the interior rectangle fluid particles are confined to.
func (s *Solver) Domain() (min, max r2.Vec) {
	return s.domainMin, s.domainMax
}

// BoundaryRect returns the interior rectangle grown by the boundary layers.
func (s *Solver) BoundaryRect() (min, max r2.Vec) {
	return s.boundaryMin, s.boundaryMax
}
