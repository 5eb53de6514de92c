package systems

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func bruteForce(positions []r2.Vec, q r2.Vec, radius float64) []int {
	var ids []int
	for i, p := range positions {
		if r2.Norm2(r2.Sub(q, p)) <= radius*radius {
			ids = append(ids, i)
		}
	}
	return ids
}

func TestSpatialGridSingleParticle(t *testing.T) {
	g, err := NewSpatialGrid(r2.Vec{X: -2, Y: -2}, r2.Vec{X: 2, Y: 2}, 1.0, 1)
	require.NoError(t, err)

	g.Register([]r2.Vec{{}})
	got := g.Search(nil, r2.Vec{}, 0.5)
	assert.Equal(t, []int{0}, got)
}

func TestSpatialGridInvalid(t *testing.T) {
	tests := []struct {
		name     string
		min, max r2.Vec
		radius   float64
	}{
		{"zero width", r2.Vec{}, r2.Vec{X: 0, Y: 1}, 0.1},
		{"inverted", r2.Vec{X: 1, Y: 1}, r2.Vec{}, 0.1},
		{"zero radius", r2.Vec{}, r2.Vec{X: 1, Y: 1}, 0},
		{"negative radius", r2.Vec{}, r2.Vec{X: 1, Y: 1}, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSpatialGrid(tc.min, tc.max, tc.radius, 0)
			assert.True(t, errors.Is(err, ErrInvalidGrid), "got %v", err)
		})
	}
}

func TestSpatialGridDimensions(t *testing.T) {
	tests := []struct {
		name             string
		size             r2.Vec
		radius           float64
		wantCols, wantRo int
	}{
		{"square exact", r2.Vec{X: 4, Y: 4}, 1, 4, 4},
		{"square inexact", r2.Vec{X: 4, Y: 4}, 0.9, 8, 8},
		{"wide", r2.Vec{X: 8, Y: 2}, 1, 8, 2},
		{"tall odd", r2.Vec{X: 3, Y: 5}, 0.7, 8, 8},
		{"radius larger than domain", r2.Vec{X: 1, Y: 1}, 5, 1, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := NewSpatialGrid(r2.Vec{}, tc.size, tc.radius, 0)
			require.NoError(t, err)
			cols, rows := g.Dims()
			assert.Equal(t, tc.wantCols, cols)
			assert.Equal(t, tc.wantRo, rows)
			assert.LessOrEqual(t, g.CellWidth(), tc.radius)
			assert.GreaterOrEqual(t, float64(cols)*g.CellWidth(), tc.size.X*(1-1e-9))
			assert.GreaterOrEqual(t, float64(rows)*g.CellWidth(), tc.size.Y*(1-1e-9))
		})
	}
}

func TestSpatialGridMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(295275912632))
	min, max := r2.Vec{X: -2.3, Y: -1.1}, r2.Vec{X: 2.9, Y: 3.4}

	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.Intn(200)
		support := 0.05 + rng.Float64()
		g, err := NewSpatialGrid(min, max, support, n)
		require.NoError(t, err)

		positions := make([]r2.Vec, n)
		for i := range positions {
			// Some particles lie outside the grid to exercise clamping
			positions[i] = r2.Vec{
				X: min.X - 0.2 + rng.Float64()*(max.X-min.X+0.4),
				Y: min.Y - 0.2 + rng.Float64()*(max.Y-min.Y+0.4),
			}
		}
		g.Register(positions)

		for q := 0; q < 10; q++ {
			query := positions[rng.Intn(n)]
			if q%2 == 1 {
				query = r2.Vec{X: min.X + rng.Float64()*(max.X-min.X), Y: min.Y + rng.Float64()*(max.Y-min.Y)}
			}
			radius := rng.Float64() * support
			got := g.Search(nil, query, radius)
			want := bruteForce(positions, query, radius)
			assert.ElementsMatch(t, want, got, "trial %d query %v radius %v", trial, query, radius)
		}
	}
}

func TestSpatialGridIncludesQueryParticle(t *testing.T) {
	g, err := NewSpatialGrid(r2.Vec{}, r2.Vec{X: 1, Y: 1}, 0.25, 3)
	require.NoError(t, err)
	positions := []r2.Vec{{X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.5}, {X: 0.9, Y: 0.9}}
	g.Register(positions)

	got := g.Search(nil, positions[0], 0)
	assert.ElementsMatch(t, []int{0, 1}, got)
}

func TestSpatialGridBucketOrderStable(t *testing.T) {
	g, err := NewSpatialGrid(r2.Vec{}, r2.Vec{X: 4, Y: 4}, 1, 6)
	require.NoError(t, err)

	// Ids 1, 3, 5 share a cell; within it they must appear in id order.
	positions := []r2.Vec{{X: 3.5, Y: 3.5}, {X: 0.2, Y: 0.2}, {X: 2.5, Y: 0.5}, {X: 0.8, Y: 0.3}, {X: 1.5, Y: 2.5}, {X: 0.5, Y: 0.9}}
	g.Register(positions)

	got := g.Search(nil, r2.Vec{X: 0.5, Y: 0.5}, 0.5)
	assert.Equal(t, []int{1, 3, 5}, got)
}

func TestSpatialGridReRegister(t *testing.T) {
	g, err := NewSpatialGrid(r2.Vec{}, r2.Vec{X: 2, Y: 2}, 0.5, 2)
	require.NoError(t, err)

	g.Register([]r2.Vec{{X: 0.1, Y: 0.1}, {X: 1.9, Y: 1.9}})
	assert.Equal(t, []int{0}, g.Search(nil, r2.Vec{X: 0.1, Y: 0.1}, 0.2))

	// Move both particles; stale buckets must not leak into results
	g.Register([]r2.Vec{{X: 1.9, Y: 1.9}, {X: 0.1, Y: 0.1}, {X: 0.15, Y: 0.1}})
	assert.ElementsMatch(t, []int{1, 2}, g.Search(nil, r2.Vec{X: 0.1, Y: 0.1}, 0.2))
}

func TestSearchEachAndRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	positions := make([]r2.Vec, 150)
	for i := range positions {
		positions[i] = r2.Vec{X: rng.Float64() * 3, Y: rng.Float64() * 3}
	}
	g, err := NewSpatialGrid(r2.Vec{}, r2.Vec{X: 3, Y: 3}, 0.4, len(positions))
	require.NoError(t, err)
	g.Register(positions)

	var all NeighborLists
	g.SearchEach(positions, 0.4, &all)
	require.Equal(t, len(positions), all.Len())

	var a, b, joined NeighborLists
	g.SearchRange(0, 70, 0.4, &a)
	g.SearchRange(70, len(positions), 0.4, &b)
	joined.Concat(&a, &b)
	require.Equal(t, all.Len(), joined.Len())
	assert.Equal(t, all.Total(), joined.Total())

	for i := range positions {
		assert.Equal(t, all.Of(i), joined.Of(i))
		assert.ElementsMatch(t, bruteForce(positions, positions[i], 0.4), all.Of(i))
	}
}

func BenchmarkSpatialGridRegister(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	positions := make([]r2.Vec, 10000)
	for i := range positions {
		positions[i] = r2.Vec{X: rng.Float64() * 4, Y: rng.Float64() * 4}
	}
	g, err := NewSpatialGrid(r2.Vec{}, r2.Vec{X: 4, Y: 4}, 0.1, len(positions))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Register(positions)
	}
}

func BenchmarkSpatialGridSearch(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	positions := make([]r2.Vec, 10000)
	for i := range positions {
		positions[i] = r2.Vec{X: rng.Float64() * 4, Y: rng.Float64() * 4}
	}
	g, err := NewSpatialGrid(r2.Vec{}, r2.Vec{X: 4, Y: 4}, 0.1, len(positions))
	if err != nil {
		b.Fatal(err)
	}
	g.Register(positions)
	dst := make([]int, 0, 64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dst = g.Search(dst[:0], positions[i%len(positions)], 0.1)
	}
}
