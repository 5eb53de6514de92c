package kernels

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

var allKinds = []Kind{Density, Pressure, Viscosity}

func TestDensityKernelHalfSupport(t *testing.T) {
	want := 4 / math.Pi * 0.421875
	assert.InDelta(t, want, Density.Value(0.5, 1.0), 1e-5)
}

func TestCompactSupport(t *testing.T) {
	const h = 0.7
	dir := r2.Vec{X: 0.6, Y: -0.8}

	for _, k := range allKinds {
		t.Run(k.String(), func(t *testing.T) {
			for _, r := range []float64{-1, -1e-12, h + 1e-12, h * 1.5, 100} {
				assert.Equal(t, 0.0, k.Value(r, h), "value at r=%v", r)
				assert.Equal(t, r2.Vec{}, k.Gradient(r2.Scale(r, dir), r, h), "gradient at r=%v", r)
				assert.Equal(t, 0.0, k.Laplacian(r, h), "laplacian at r=%v", r)
			}
		})
	}
}

func TestValueContinuousAtSupport(t *testing.T) {
	const h = 1.3
	for _, k := range allKinds {
		t.Run(k.String(), func(t *testing.T) {
			assert.InDelta(t, 0, k.Value(h, h), 1e-12)
			assert.InDelta(t, 0, k.Value(h*(1-1e-7), h), 1e-6)
		})
	}
}

// TestGradientMatchesDerivative checks ∇W against a central difference of W
// along the displacement direction.
func TestGradientMatchesDerivative(t *testing.T) {
	const h = 1.0
	const eps = 1e-6
	dir := r2.Unit(r2.Vec{X: 1, Y: 2})

	for _, k := range allKinds {
		t.Run(k.String(), func(t *testing.T) {
			for _, r := range []float64{0.1, 0.3, 0.5, 0.8, 0.95} {
				dWdr := (k.Value(r+eps, h) - k.Value(r-eps, h)) / (2 * eps)
				grad := k.Gradient(r2.Scale(r, dir), r, h)
				assert.InDelta(t, dWdr, r2.Dot(grad, dir), 1e-4*math.Max(1, math.Abs(dWdr)), "r=%v", r)
			}
		})
	}
}

func TestZeroDistanceIsFinite(t *testing.T) {
	const h = 0.5
	for _, k := range allKinds {
		t.Run(k.String(), func(t *testing.T) {
			v := k.Value(0, h)
			g := k.Gradient(r2.Vec{}, 0, h)
			l := k.Laplacian(0, h)
			for _, x := range []float64{v, g.X, g.Y, l} {
				assert.False(t, math.IsNaN(x) || math.IsInf(x, 0), "non-finite result %v", x)
			}
		})
	}
}

func TestViscosityLaplacianPositive(t *testing.T) {
	const h = 1.0
	for r := 0.0; r < h; r += 0.1 {
		assert.Greater(t, Viscosity.Laplacian(r, h), 0.0)
	}
}

// TestDensityKernelNormalization integrates W over the support disk.
func TestDensityKernelNormalization(t *testing.T) {
	const h = 1.0
	const steps = 4000
	dr := h / steps
	var total float64
	for i := 0; i < steps; i++ {
		r := (float64(i) + 0.5) * dr
		total += Density.Value(r, h) * 2 * math.Pi * r * dr
	}
	assert.InDelta(t, 1.0, total, 1e-4)

	total = 0
	for i := 0; i < steps; i++ {
		r := (float64(i) + 0.5) * dr
		total += Pressure.Value(r, h) * 2 * math.Pi * r * dr
	}
	assert.InDelta(t, 1.0, total, 1e-4)
}
