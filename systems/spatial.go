// Package systems provides the spatial index, mixture model and terrain
// sources used by the solver.
package systems

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrInvalidGrid is returned when grid extent or support radius is non-positive.
var ErrInvalidGrid = errors.New("invalid spatial grid dimensions")

// emptyCell marks a cell with no registered particles.
const emptyCell = -1

// SpatialGrid is a uniform power-of-two grid for fixed-radius neighbor queries.
// It is rebuilt from scratch by Register every step.
type SpatialGrid struct {
	origin    r2.Vec
	cellWidth float64 // Square cells
	cols      int
	rows      int

	// Per-step scratch, owned by Register
	positions []r2.Vec
	hashes    []int // cell hash per particle id
	sorted    []int // particle ids ordered by hash, ties by id
	starts    []int // first index into sorted per cell, emptyCell if none
	ends      []int // one past the last index per cell
	counts    []int
}

// NewSpatialGrid creates a grid covering [min, max] with cells no wider than supportRadius.
// countHint preallocates the per-particle scratch.
func NewSpatialGrid(min, max r2.Vec, supportRadius float64, countHint int) (*SpatialGrid, error) {
	size := r2.Sub(max, min)
	if !(size.X > 0) || !(size.Y > 0) {
		return nil, fmt.Errorf("%w: extent %v", ErrInvalidGrid, size)
	}
	if !(supportRadius > 0) || math.IsInf(supportRadius, 0) {
		return nil, fmt.Errorf("%w: support radius %v", ErrInvalidGrid, supportRadius)
	}

	// Smallest power-of-two subdivision of the larger extent that fits the radius
	maxWidth := math.Max(size.X, size.Y)
	m := powerOfTwoCover(maxWidth, supportRadius)
	cellWidth := maxWidth / float64(m)

	cols := powerOfTwoCover(size.X, cellWidth)
	rows := powerOfTwoCover(size.Y, cellWidth)
	numCells := cols * rows

	if countHint < 0 {
		countHint = 0
	}
	return &SpatialGrid{
		origin:    min,
		cellWidth: cellWidth,
		cols:      cols,
		rows:      rows,
		hashes:    make([]int, 0, countHint),
		sorted:    make([]int, 0, countHint),
		starts:    make([]int, numCells),
		ends:      make([]int, numCells),
		counts:    make([]int, numCells),
	}, nil
}

// powerOfTwoCover returns the smallest power of two n with extent/n <= width.
func powerOfTwoCover(extent, width float64) int {
	const slack = 1e-9
	n := 1
	for extent/float64(n) > width*(1+slack) {
		n *= 2
	}
	return n
}

// CellWidth returns the width of a grid cell.
func (g *SpatialGrid) CellWidth() float64 {
	return g.cellWidth
}

// Dims returns the cell counts along x and y.
func (g *SpatialGrid) Dims() (cols, rows int) {
	return g.cols, g.rows
}

// Origin returns the minimum corner of the grid.
func (g *SpatialGrid) Origin() r2.Vec {
	return g.origin
}

// Register buckets every position by cell with a stable counting sort.
// The grid keeps a reference to positions until the next Register; the
// caller must not move particles while querying.
func (g *SpatialGrid) Register(positions []r2.Vec) {
	n := len(positions)
	g.positions = positions
	g.hashes = resize(g.hashes, n)
	g.sorted = resize(g.sorted, n)

	for c := range g.counts {
		g.counts[c] = 0
	}
	for i, p := range positions {
		h := g.hash(g.cellOf(p))
		g.hashes[i] = h
		g.counts[h]++
	}

	// Exclusive prefix sum gives each cell's start in the sorted order
	offset := 0
	for c, cnt := range g.counts {
		if cnt == 0 {
			g.starts[c] = emptyCell
			g.ends[c] = emptyCell
			continue
		}
		g.starts[c] = offset
		g.ends[c] = offset
		offset += cnt
	}

	// Scatter in id order keeps ties ordered by id
	for i, h := range g.hashes {
		g.sorted[g.ends[h]] = i
		g.ends[h]++
	}
}

// Search appends to dst the ids of registered particles within radius of q.
// Order follows cell scan order then bucket order; a particle at q itself is included.
func (g *SpatialGrid) Search(dst []int, q r2.Vec, radius float64) []int {
	cx, cy := g.cellOf(q)
	reach := int(math.Ceil(radius/g.cellWidth)) + 1
	radiusSq := radius * radius

	for y := cy - reach; y <= cy+reach; y++ {
		if y < 0 || y >= g.rows {
			continue
		}
		for x := cx - reach; x <= cx+reach; x++ {
			if x < 0 || x >= g.cols {
				continue
			}
			h := g.hash(x, y)
			start := g.starts[h]
			if start == emptyCell {
				continue
			}
			for _, id := range g.sorted[start:g.ends[h]] {
				if r2.Norm2(r2.Sub(q, g.positions[id])) <= radiusSq {
					dst = append(dst, id)
				}
			}
		}
	}
	return dst
}

// SearchEach runs Search for every query position and stores the results in out.
func (g *SpatialGrid) SearchEach(queries []r2.Vec, radius float64, out *NeighborLists) {
	out.Reset()
	for _, q := range queries {
		out.ids = g.Search(out.ids, q, radius)
		out.close()
	}
}

// SearchRange is SearchEach restricted to registered particles [start, end).
// Used by parallel callers that merge partial results with NeighborLists.Concat.
func (g *SpatialGrid) SearchRange(start, end int, radius float64, out *NeighborLists) {
	out.Reset()
	for i := start; i < end; i++ {
		out.ids = g.Search(out.ids, g.positions[i], radius)
		out.close()
	}
}

// cellOf returns the clamped cell coordinates containing p.
func (g *SpatialGrid) cellOf(p r2.Vec) (x, y int) {
	d := r2.Sub(p, g.origin)
	x = clampCell(d.X/g.cellWidth, g.cols)
	y = clampCell(d.Y/g.cellWidth, g.rows)
	return x, y
}

func clampCell(f float64, n int) int {
	if !(f > 0) {
		return 0
	}
	if f >= float64(n) {
		return n - 1
	}
	return int(f)
}

func (g *SpatialGrid) hash(x, y int) int {
	return y*g.cols + x
}

func resize(s []int, n int) []int {
	if cap(s) < n {
		return make([]int, n)
	}
	return s[:n]
}
