package components

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func testTable(t *testing.T) *PhaseTable {
	t.Helper()
	table, err := NewPhaseTable(
		Phase{Name: "boundary", Mass: 2, RestDensity: 998.29, Viscosity: 30, Color: r3.Vec{X: 0.95, Y: 0.3, Z: 0.3}},
		Phase{Name: "a", Mass: 2, RestDensity: 998.29, Viscosity: 30, Color: r3.Vec{X: 0.3, Y: 0.3, Z: 0.95}},
		Phase{Name: "b", Mass: 1, RestDensity: 500, Viscosity: 10, Color: r3.Vec{X: 0.3, Y: 0.95, Z: 0.3}},
	)
	if err != nil {
		t.Fatalf("NewPhaseTable: %v", err)
	}
	return table
}

func TestParticlesAttributeOrder(t *testing.T) {
	table := testTable(t)
	p := NewParticles(table.Len(), 4)

	if _, err := p.Add(r2.Vec{}, r2.Vec{}, 1, table.Pure(0), AttrBoundary); err != nil {
		t.Fatalf("add boundary: %v", err)
	}
	if _, err := p.Add(r2.Vec{X: 1}, r2.Vec{}, 0, table.Pure(1), AttrFluid); err != nil {
		t.Fatalf("add fluid: %v", err)
	}
	if _, err := p.Add(r2.Vec{X: 2}, r2.Vec{}, 1, table.Pure(0), AttrBoundary); !errors.Is(err, ErrAttributeOrder) {
		t.Errorf("expected ErrAttributeOrder, got %v", err)
	}

	if got := p.Count(AttrBoundary); got != 1 {
		t.Errorf("boundary count = %d, want 1", got)
	}
	if got := p.Count(AttrFluid); got != 1 {
		t.Errorf("fluid count = %d, want 1", got)
	}
	start, end := p.Range(AttrFluid)
	if start != 1 || end != 2 {
		t.Errorf("fluid range = [%d,%d), want [1,2)", start, end)
	}
}

func TestParticlesFractionNormalization(t *testing.T) {
	table := testTable(t)

	tests := []struct {
		name    string
		frac    []float64
		wantErr bool
	}{
		{"already normalized", []float64{0, 0.5, 0.5}, false},
		{"scaled", []float64{0, 2, 6}, false},
		{"negative", []float64{0, -1, 2}, true},
		{"zero sum", []float64{0, 0, 0}, true},
		{"wrong length", []float64{1, 0}, true},
		{"nan", []float64{math.NaN(), 0, 1}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewParticles(table.Len(), 1)
			id, err := p.Add(r2.Vec{}, r2.Vec{}, 0, tc.frac, AttrFluid)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidFractions) {
					t.Errorf("expected ErrInvalidFractions, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var sum float64
			for _, f := range p.Fraction(id) {
				sum += f
			}
			if math.Abs(sum-1) > 1e-12 {
				t.Errorf("fraction sum = %v, want 1", sum)
			}
			if p.MaxFractionError() > 1e-12 {
				t.Errorf("MaxFractionError = %v", p.MaxFractionError())
			}
		})
	}
}

func TestPhaseTableIndex(t *testing.T) {
	table := testTable(t)

	k, err := table.Index("b")
	if err != nil || k != 2 {
		t.Errorf("Index(b) = %d, %v; want 2, nil", k, err)
	}
	if _, err := table.Index("missing"); !errors.Is(err, ErrUnknownPhase) {
		t.Errorf("expected ErrUnknownPhase, got %v", err)
	}
	if _, err := NewPhaseTable(); !errors.Is(err, ErrEmptyPhaseTable) {
		t.Errorf("expected ErrEmptyPhaseTable, got %v", err)
	}
	if _, err := NewPhaseTable(Phase{Name: "bad", Mass: 0, RestDensity: 1}); err == nil {
		t.Error("expected error for zero mass")
	}
}
