package systems

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// Heightmap is a regular grid of elevations sampled bilinearly.
// Positions outside the grid are clamped to its edge.
type Heightmap struct {
	data   *mat.Dense // rows along y, columns along x
	origin r2.Vec
	cell   r2.Vec
}

// NewHeightmap wraps data whose (0,0) sample sits at min and (rows-1, cols-1) at max.
func NewHeightmap(data *mat.Dense, min, max r2.Vec) (*Heightmap, error) {
	rows, cols := data.Dims()
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("heightmap needs at least 2x2 samples, got %dx%d", rows, cols)
	}
	size := r2.Sub(max, min)
	if !(size.X > 0) || !(size.Y > 0) {
		return nil, fmt.Errorf("heightmap extent must be positive, got %v", size)
	}
	return &Heightmap{
		data:   data,
		origin: min,
		cell:   r2.Vec{X: size.X / float64(cols-1), Y: size.Y / float64(rows-1)},
	}, nil
}

// BakeHeightmap samples src on a res×res grid spanning [min, max].
func BakeHeightmap(src HeightField, min, max r2.Vec, res int) (*Heightmap, error) {
	if res < 2 {
		return nil, fmt.Errorf("heightmap resolution must be >= 2, got %d", res)
	}
	size := r2.Sub(max, min)
	data := mat.NewDense(res, res, nil)
	for y := 0; y < res; y++ {
		for x := 0; x < res; x++ {
			p := r2.Vec{
				X: min.X + size.X*float64(x)/float64(res-1),
				Y: min.Y + size.Y*float64(y)/float64(res-1),
			}
			data.Set(y, x, src.Height(p))
		}
	}
	return NewHeightmap(data, min, max)
}

// Height returns the bilinearly interpolated elevation at p.
func (h *Heightmap) Height(p r2.Vec) float64 {
	rows, cols := h.data.Dims()
	fx := clampUnit((p.X-h.origin.X)/h.cell.X, float64(cols-1))
	fy := clampUnit((p.Y-h.origin.Y)/h.cell.Y, float64(rows-1))

	x0 := int(math.Min(math.Floor(fx), float64(cols-2)))
	y0 := int(math.Min(math.Floor(fy), float64(rows-2)))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	h00 := h.data.At(y0, x0)
	h10 := h.data.At(y0, x0+1)
	h01 := h.data.At(y0+1, x0)
	h11 := h.data.At(y0+1, x0+1)

	bottom := h00 + (h10-h00)*tx
	top := h01 + (h11-h01)*tx
	return bottom + (top-bottom)*ty
}

func clampUnit(f, hi float64) float64 {
	if !(f > 0) {
		return 0
	}
	if f > hi {
		return hi
	}
	return f
}
