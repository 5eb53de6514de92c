package components

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Phase holds the material constants of one immiscible fluid phase.
type Phase struct {
	Name        string
	Mass        float64 // Particle mass contributed at fraction 1
	RestDensity float64
	Viscosity   float64 // Kinematic viscosity
	Color       r3.Vec  // RGB in [0,1]
}

// PhaseTable is an immutable, ordered set of phases.
// Per-particle fraction vectors index into it.
type PhaseTable struct {
	phases []Phase

	// Column views for blending
	mass      []float64
	density   []float64
	viscosity []float64
	red       []float64
	green     []float64
	blue      []float64
}

// NewPhaseTable copies the given phases into a table.
func NewPhaseTable(phases ...Phase) (*PhaseTable, error) {
	if len(phases) == 0 {
		return nil, ErrEmptyPhaseTable
	}
	n := len(phases)
	t := &PhaseTable{
		phases:    make([]Phase, n),
		mass:      make([]float64, n),
		density:   make([]float64, n),
		viscosity: make([]float64, n),
		red:       make([]float64, n),
		green:     make([]float64, n),
		blue:      make([]float64, n),
	}
	copy(t.phases, phases)
	for i, p := range phases {
		if p.Mass <= 0 || p.RestDensity <= 0 {
			return nil, fmt.Errorf("phase %q: mass and rest density must be positive", p.Name)
		}
		if p.Viscosity < 0 {
			return nil, fmt.Errorf("phase %q: viscosity must be non-negative", p.Name)
		}
		t.mass[i] = p.Mass
		t.density[i] = p.RestDensity
		t.viscosity[i] = p.Viscosity
		t.red[i] = p.Color.X
		t.green[i] = p.Color.Y
		t.blue[i] = p.Color.Z
	}
	return t, nil
}

// Len returns the number of phases.
func (t *PhaseTable) Len() int {
	return len(t.phases)
}

// Phase returns the phase at index k.
func (t *PhaseTable) Phase(k int) Phase {
	return t.phases[k]
}

// Index returns the index of the named phase.
func (t *PhaseTable) Index(name string) (int, error) {
	for i, p := range t.phases {
		if p.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPhase, name)
}

// Pure returns a fraction vector selecting only phase k.
func (t *PhaseTable) Pure(k int) []float64 {
	frac := make([]float64, len(t.phases))
	frac[k] = 1
	return frac
}

// Masses returns the per-phase mass column. Do not modify.
func (t *PhaseTable) Masses() []float64 { return t.mass }

// Densities returns the per-phase rest density column. Do not modify.
func (t *PhaseTable) Densities() []float64 { return t.density }

// Viscosities returns the per-phase viscosity column. Do not modify.
func (t *PhaseTable) Viscosities() []float64 { return t.viscosity }

// ColorChannels returns the per-phase red, green and blue columns. Do not modify.
func (t *PhaseTable) ColorChannels() (r, g, b []float64) {
	return t.red, t.green, t.blue
}
