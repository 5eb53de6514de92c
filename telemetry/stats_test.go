package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shallows/components"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	values := []float64{0.4, 0.1, 0.9, 0.2, 1.0, 0.3, 0.5, 0.8, 0.6, 0.7}
	d := Describe(values)

	checks := []struct {
		name      string
		got, want float64
	}{
		{"mean", d.Mean, 0.55},
		{"std", d.Std, math.Sqrt(0.825 / 9)},
		{"min", d.Min, 0.1},
		{"max", d.Max, 1.0},
		{"p10", d.P10, 0.19},
		{"p50", d.P50, 0.55},
		{"p90", d.P90, 0.91},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	// Input order is preserved
	if values[0] != 0.4 {
		t.Error("Describe must not sort its input")
	}
}

func TestDescribeEmpty(t *testing.T) {
	if d := Describe(nil); d != (Distribution{}) {
		t.Errorf("empty input should give zero distribution, got %+v", d)
	}
	if d := Describe([]float64{2}); d.Mean != 2 || d.Std != 0 || d.P50 != 2 {
		t.Errorf("single value distribution wrong: %+v", d)
	}
}

func newTestParticles(t *testing.T) *components.Particles {
	t.Helper()
	p := components.NewParticles(1, 3)
	if _, err := p.Add(r2.Vec{X: -1}, r2.Vec{}, 1, []float64{1}, components.AttrBoundary); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Add(r2.Vec{}, r2.Vec{X: 3, Y: 4}, 0.2, []float64{1}, components.AttrFluid); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Add(r2.Vec{X: 0.5}, r2.Vec{}, 0.4, []float64{1}, components.AttrFluid); err != nil {
		t.Fatal(err)
	}
	for i := range p.Mass {
		p.Mass[i] = 2
		p.Density[i] = 1000
		p.InterpDensity[i] = 500 * float64(i+1)
	}
	return p
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(0.1, 0.002)
	if c.WindowDurationSteps() != 50 {
		t.Fatalf("steps per window = %d, want 50", c.WindowDurationSteps())
	}
	if c.ShouldFlush(49) {
		t.Error("window should not flush before 50 steps")
	}
	if !c.ShouldFlush(50) {
		t.Error("window should flush at 50 steps")
	}

	c.RecordClamps(2, 1)
	c.RecordClamps(1, 0)

	p := newTestParticles(t)
	s := c.Flush(50, p)

	if s.FluidCount != 2 || s.BoundaryCount != 1 {
		t.Errorf("counts = %d fluid, %d boundary", s.FluidCount, s.BoundaryCount)
	}
	if math.Abs(s.SimTimeSec-0.1) > 1e-12 {
		t.Errorf("sim_time = %v, want 0.1", s.SimTimeSec)
	}
	if math.Abs(s.HeightMean-0.3) > 1e-12 {
		t.Errorf("height_mean = %v, want 0.3", s.HeightMean)
	}
	if s.SpeedMax != 5 || s.SpeedMean != 2.5 {
		t.Errorf("speed max/mean = %v/%v, want 5/2.5", s.SpeedMax, s.SpeedMean)
	}
	if math.Abs(s.KineticEnergy-25) > 1e-12 {
		t.Errorf("kinetic_energy = %v, want 25", s.KineticEnergy)
	}
	// Fluid ids 1 and 2 have ratios 1.0 and 1.5
	if math.Abs(s.DensityRatioMean-1.25) > 1e-12 || s.DensityRatioMax != 1.5 {
		t.Errorf("density ratio mean/max = %v/%v", s.DensityRatioMean, s.DensityRatioMax)
	}
	if s.SpeedClamps != 3 || s.PositionClamps != 1 {
		t.Errorf("clamps = %d/%d, want 3/1", s.SpeedClamps, s.PositionClamps)
	}

	// Counters reset for the next window
	next := c.Flush(100, p)
	if next.WindowStartStep != 50 || next.SpeedClamps != 0 {
		t.Errorf("collector did not reset: %+v", next)
	}
}

func TestOutputManager(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v, %v", om, err)
	}
	// Methods on a nil manager are no-ops
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}

	dir := t.TempDir()
	om, err = NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndStep: 50}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndStep: 100}); err != nil {
		t.Fatal(err)
	}

	var snap components.Snapshot
	newTestParticles(t).CopyInto(&snap)
	snap.Step = 7
	if err := om.WriteParticles(&snap); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("telemetry.csv has %d lines, want header + 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,fluid,boundary") {
		t.Errorf("unexpected header %q", lines[0])
	}

	data, err = os.ReadFile(filepath.Join(dir, "particles_00000007.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines = strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("particle snapshot has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[1], "0,boundary,") || !strings.HasPrefix(lines[2], "1,fluid,") {
		t.Errorf("unexpected rows %q, %q", lines[1], lines[2])
	}
}
