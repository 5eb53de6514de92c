package systems

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shallows/components"
)

// MixtureModel blends phase constants by per-particle phase fractions.
type MixtureModel struct {
	table *components.PhaseTable
}

// NewMixtureModel creates a mixture model over the given phases.
func NewMixtureModel(table *components.PhaseTable) *MixtureModel {
	return &MixtureModel{table: table}
}

// Table returns the phase table.
func (m *MixtureModel) Table() *components.PhaseTable {
	return m.table
}

// UpdateMaterial recomputes intrinsic mass, viscosity and density for particles [start, end).
func (m *MixtureModel) UpdateMaterial(p *components.Particles, start, end int) {
	mass := m.table.Masses()
	visc := m.table.Viscosities()
	dens := m.table.Densities()
	for i := start; i < end; i++ {
		frac := p.Fraction(i)
		p.Mass[i] = floats.Dot(frac, mass)
		p.Viscosity[i] = floats.Dot(frac, visc)
		p.Density[i] = floats.Dot(frac, dens)
	}
}

// UpdateColor recomputes blended colors for particles [start, end).
func (m *MixtureModel) UpdateColor(p *components.Particles, start, end int) {
	red, green, blue := m.table.ColorChannels()
	for i := start; i < end; i++ {
		frac := p.Fraction(i)
		p.Color[i] = r3.Vec{
			X: floats.Dot(frac, red),
			Y: floats.Dot(frac, green),
			Z: floats.Dot(frac, blue),
		}
	}
}

// Update runs UpdateMaterial and UpdateColor over [start, end).
func (m *MixtureModel) Update(p *components.Particles, start, end int) {
	m.UpdateMaterial(p, start, end)
	m.UpdateColor(p, start, end)
}
