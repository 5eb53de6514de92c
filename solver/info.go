package solver

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"
)

// Info reports the derived simulation parameters.
type Info struct {
	DT              float64
	Gravity         float64
	TargetNeighbors float64
	EffectiveRadius float64
	ParticleRadius  float64

	DomainMin, DomainMax     r2.Vec
	BoundaryMin, BoundaryMax r2.Vec
	BoundaryLayers           int

	GridCols, GridRows int
	CellWidth          float64

	NumBoundary int
	NumFluid    int
	Workers     int
}

// Info returns the derived parameters of this simulation.
func (s *Solver) Info() Info {
	cols, rows := s.grid.Dims()
	boundary, fluid := s.Counts()
	return Info{
		DT:              s.params.DT,
		Gravity:         s.params.Gravity,
		TargetNeighbors: s.params.TargetNeighbors,
		EffectiveRadius: s.radii.Effective,
		ParticleRadius:  s.radii.Particle,
		DomainMin:       s.domainMin,
		DomainMax:       s.domainMax,
		BoundaryMin:     s.boundaryMin,
		BoundaryMax:     s.boundaryMax,
		BoundaryLayers:  s.params.BoundaryLayers,
		GridCols:        cols,
		GridRows:        rows,
		CellWidth:       s.grid.CellWidth(),
		NumBoundary:     boundary,
		NumFluid:        fluid,
		Workers:         s.pool.numWorkers,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (i Info) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("dt", i.DT),
		slog.Float64("gravity", i.Gravity),
		slog.Float64("target_neighbors", i.TargetNeighbors),
		slog.Float64("effective_radius", i.EffectiveRadius),
		slog.Float64("particle_radius", i.ParticleRadius),
		slog.Any("domain_min", []float64{i.DomainMin.X, i.DomainMin.Y}),
		slog.Any("domain_max", []float64{i.DomainMax.X, i.DomainMax.Y}),
		slog.Any("boundary_min", []float64{i.BoundaryMin.X, i.BoundaryMin.Y}),
		slog.Any("boundary_max", []float64{i.BoundaryMax.X, i.BoundaryMax.Y}),
		slog.Int("boundary_layers", i.BoundaryLayers),
		slog.Int("grid_cols", i.GridCols),
		slog.Int("grid_rows", i.GridRows),
		slog.Float64("cell_width", i.CellWidth),
		slog.Int("boundary", i.NumBoundary),
		slog.Int("fluid", i.NumFluid),
		slog.Int("workers", i.Workers),
	)
}
