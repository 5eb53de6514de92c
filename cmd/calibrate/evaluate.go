package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/pthm-cable/shallows/components"
	"github.com/pthm-cable/shallows/config"
	"github.com/pthm-cable/shallows/solver"
	"github.com/pthm-cable/shallows/systems"
	"github.com/pthm-cable/shallows/telemetry"
)

// Evaluator measures the initial density reconstruction for a candidate
// neighbor count. Phases, parameters and terrain are built once.
type Evaluator struct {
	phases  *components.PhaseTable
	params  solver.Params
	terrain systems.HeightField
	logger  *slog.Logger
}

// NewEvaluator prepares an evaluator from a loaded configuration.
func NewEvaluator(cfg *config.Config) (*Evaluator, error) {
	phases, err := solver.PhasesFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	params, err := solver.ParamsFromConfig(cfg, phases)
	if err != nil {
		return nil, err
	}
	if len(params.Blocks) == 0 {
		return nil, fmt.Errorf("calibration needs at least one fluid block")
	}
	terrain, err := solver.TerrainFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Evaluator{
		phases:  phases,
		params:  params,
		terrain: terrain,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// DensityRatio builds a fresh solver with the given neighbor count, runs one
// step and returns the median ratio of interpolated to rest density over the
// fluid. Density is reconstructed before integration, so the ratio reflects
// the initial lattice.
func (e *Evaluator) DensityRatio(neighbors float64) (float64, error) {
	params := e.params
	params.TargetNeighbors = neighbors

	s, err := solver.New(params, e.phases, e.terrain, solver.Options{Logger: e.logger})
	if err != nil {
		return 0, err
	}
	defer s.Close()

	s.Step()

	p := s.Particles()
	start, end := p.Range(components.AttrFluid)
	ratios := make([]float64, 0, end-start)
	for i := start; i < end; i++ {
		ratios = append(ratios, p.InterpDensity[i]/p.Density[i])
	}
	return telemetry.Describe(ratios).P50, nil
}

// Loss is the squared deviation of the density ratio from one.
func (e *Evaluator) Loss(neighbors float64) (loss, ratio float64, err error) {
	ratio, err = e.DensityRatio(neighbors)
	if err != nil {
		return 0, 0, err
	}
	d := ratio - 1
	return d * d, ratio, nil
}
