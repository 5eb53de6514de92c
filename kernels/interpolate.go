package kernels

import "gonum.org/v1/gonum/spatial/r2"

// Field bundles the per-particle arrays shared by every summation:
// mass, the density used as the interpolation denominator, and position.
type Field struct {
	Mass    []float64
	Density []float64
	Pos     []r2.Vec
}

// Value returns Σ_j m_j φ_j/ρ_j W(|ri-rj|, h) over nbrs.
// The self pair contributes if i is present in nbrs.
func (f Field) Value(phi []float64, i int, nbrs []int, k Kind, h float64) float64 {
	var val float64
	ri := f.Pos[i]
	for _, j := range nbrs {
		r := r2.Norm(r2.Sub(ri, f.Pos[j]))
		val += f.Mass[j] * phi[j] / f.Density[j] * k.Value(r, h)
	}
	return val
}

// ValueVec is Value for a vector field.
func (f Field) ValueVec(phi []r2.Vec, i int, nbrs []int, k Kind, h float64) r2.Vec {
	var val r2.Vec
	ri := f.Pos[i]
	for _, j := range nbrs {
		r := r2.Norm(r2.Sub(ri, f.Pos[j]))
		val = r2.Add(val, r2.Scale(f.Mass[j]/f.Density[j]*k.Value(r, h), phi[j]))
	}
	return val
}

// Gradient returns Σ_{j≠i} m_j φ_j/ρ_j ∇W(ri-rj, |ri-rj|, h).
// The self pair is always skipped.
func (f Field) Gradient(phi []float64, i int, nbrs []int, k Kind, h float64) r2.Vec {
	var val r2.Vec
	ri := f.Pos[i]
	for _, j := range nbrs {
		if j == i {
			continue
		}
		rij := r2.Sub(ri, f.Pos[j])
		w := k.Gradient(rij, r2.Norm(rij), h)
		val = r2.Add(val, r2.Scale(f.Mass[j]*phi[j]/f.Density[j], w))
	}
	return val
}

// Laplacian returns Σ_{j≠i} m_j (φ_j-φ_i)/ρ_j ∇²W(|ri-rj|, h).
// The self term is zero in the difference form and is skipped.
func (f Field) Laplacian(phi []float64, i int, nbrs []int, k Kind, h float64) float64 {
	var val float64
	ri := f.Pos[i]
	for _, j := range nbrs {
		if j == i {
			continue
		}
		r := r2.Norm(r2.Sub(ri, f.Pos[j]))
		val += f.Mass[j] * (phi[j] - phi[i]) / f.Density[j] * k.Laplacian(r, h)
	}
	return val
}

// LaplacianVec is Laplacian for a vector field.
func (f Field) LaplacianVec(phi []r2.Vec, i int, nbrs []int, k Kind, h float64) r2.Vec {
	var val r2.Vec
	ri := f.Pos[i]
	for _, j := range nbrs {
		if j == i {
			continue
		}
		r := r2.Norm(r2.Sub(ri, f.Pos[j]))
		diff := r2.Sub(phi[j], phi[i])
		val = r2.Add(val, r2.Scale(f.Mass[j]/f.Density[j]*k.Laplacian(r, h), diff))
	}
	return val
}
