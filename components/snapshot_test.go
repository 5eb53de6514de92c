package components

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestCopyIntoIsIndependent(t *testing.T) {
	table := testTable(t)
	p := NewParticles(table.Len(), 3)
	if _, err := p.Add(r2.Vec{X: -1}, r2.Vec{}, 1, table.Pure(0), AttrBoundary); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Add(r2.Vec{X: 0.5}, r2.Vec{Y: 1}, 1, []float64{0, 1, 3}, AttrFluid); err != nil {
		t.Fatal(err)
	}

	var snap Snapshot
	p.CopyInto(&snap)

	if snap.Len() != 2 || snap.NumBoundary != 1 || snap.NumPhases != 3 {
		t.Fatalf("unexpected layout: len=%d boundary=%d phases=%d", snap.Len(), snap.NumBoundary, snap.NumPhases)
	}
	want := []float64{0, 0.25, 0.75}
	for k, f := range snap.Fraction(1) {
		if math.Abs(f-want[k]) > 1e-12 {
			t.Errorf("fraction[%d] = %v, want %v", k, f, want[k])
		}
	}

	snap.Pos[1] = r2.Vec{X: 9}
	snap.Fractions[4] = 0.9
	if p.Pos[1].X != 0.5 || p.Fraction(1)[1] != 0.25 {
		t.Error("snapshot aliases the particle store")
	}

	// Reuse keeps the snapshot consistent with the store
	p.CopyInto(&snap)
	if snap.Pos[1].X != 0.5 {
		t.Errorf("recopy did not refresh positions: %v", snap.Pos[1])
	}
}

func TestSnapshotNearest(t *testing.T) {
	snap := Snapshot{Pos: []r2.Vec{{X: 0}, {X: 1}, {X: 2}}}

	tests := []struct {
		name    string
		p       r2.Vec
		maxDist float64
		want    int
	}{
		{"exact", r2.Vec{X: 1}, 0.1, 1},
		{"between", r2.Vec{X: 1.6}, 1, 2},
		{"too far", r2.Vec{Y: 5}, 1, -1},
		{"unbounded", r2.Vec{X: -3}, math.Inf(1), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := snap.Nearest(tc.p, tc.maxDist); got != tc.want {
				t.Errorf("Nearest = %d, want %d", got, tc.want)
			}
		})
	}

	var empty Snapshot
	if got := empty.Nearest(r2.Vec{}, math.Inf(1)); got != -1 {
		t.Errorf("empty snapshot Nearest = %d, want -1", got)
	}
}
