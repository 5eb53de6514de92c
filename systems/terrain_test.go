package systems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestTerrainSlope(t *testing.T) {
	tests := []struct {
		name  string
		field HeightField
		at    r2.Vec
		want  r2.Vec
	}{
		{"flat", Flat{Level: -0.8}, r2.Vec{X: 0.3, Y: -0.2}, r2.Vec{}},
		{"plane", Slope{Level: 1, Gradient: r2.Vec{X: 0.5, Y: -0.25}}, r2.Vec{X: 1, Y: 1}, r2.Vec{X: 0.5, Y: -0.25}},
		{"quadratic", HeightFunc(func(p r2.Vec) float64 { return p.X * p.X }), r2.Vec{X: 0.7}, r2.Vec{X: 1.4}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TerrainSlope(tc.field, tc.at)
			assert.InDelta(t, tc.want.X, got.X, 1e-9)
			assert.InDelta(t, tc.want.Y, got.Y, 1e-9)
		})
	}
}

func TestNoiseTerrainBounded(t *testing.T) {
	params := NoiseParams{Seed: 42, Level: -0.5, Amplitude: 0.2, Scale: 1.5, Octaves: 4, Lacunarity: 2, Gain: 0.5}
	terrain := NewNoiseTerrain(params)
	again := NewNoiseTerrain(params)

	for x := -2.0; x <= 2.0; x += 0.37 {
		for y := -2.0; y <= 2.0; y += 0.41 {
			p := r2.Vec{X: x, Y: y}
			h := terrain.Height(p)
			require.False(t, math.IsNaN(h))
			assert.LessOrEqual(t, math.Abs(h-params.Level), params.Amplitude*1.05)
			assert.Equal(t, h, again.Height(p), "same seed must give same terrain")
		}
	}
}

func TestHeightmapReproducesPlane(t *testing.T) {
	plane := Slope{Level: 0.3, Gradient: r2.Vec{X: -0.4, Y: 0.9}}
	min, max := r2.Vec{X: -1, Y: -1}, r2.Vec{X: 1, Y: 2}
	hm, err := BakeHeightmap(plane, min, max, 9)
	require.NoError(t, err)

	// Bilinear interpolation is exact for planes
	for _, p := range []r2.Vec{{X: -1, Y: -1}, {X: 0.13, Y: 0.77}, {X: 1, Y: 2}, {X: -0.999, Y: 1.5}} {
		assert.InDelta(t, plane.Height(p), hm.Height(p), 1e-9, "at %v", p)
	}

	// Outside the map the edge value is used
	assert.InDelta(t, plane.Height(r2.Vec{X: 1, Y: 2}), hm.Height(r2.Vec{X: 5, Y: 9}), 1e-9)

	_, err = BakeHeightmap(plane, min, max, 1)
	assert.Error(t, err)
}

func TestSampleTerrainGrid(t *testing.T) {
	heights := SampleTerrainGrid(Slope{Gradient: r2.Vec{X: 1}}, r2.Vec{}, r2.Vec{X: 4, Y: 4}, 4)
	require.Len(t, heights, 16)
	assert.Equal(t, []float64{0, 1, 2, 3}, heights[:4])
	assert.Equal(t, []float64{0, 1, 2, 3}, heights[12:])
	assert.Nil(t, SampleTerrainGrid(Flat{}, r2.Vec{}, r2.Vec{X: 1, Y: 1}, 0))
}
