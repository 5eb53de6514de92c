// Package components defines the particle data model for the simulation.
package components

import "errors"

// Attribute classifies a particle as static boundary or moving fluid.
type Attribute uint8

const (
	AttrBoundary Attribute = iota // Static pressure-support particle
	AttrFluid                     // Integrated fluid particle
)

// String returns the attribute name.
func (a Attribute) String() string {
	switch a {
	case AttrBoundary:
		return "boundary"
	case AttrFluid:
		return "fluid"
	default:
		return "unknown"
	}
}

var (
	// ErrAttributeOrder is returned when a boundary particle is added after a fluid particle.
	ErrAttributeOrder = errors.New("boundary particles must precede fluid particles")
	// ErrInvalidFractions is returned for phase fractions that cannot be normalized.
	ErrInvalidFractions = errors.New("invalid phase fractions")
	// ErrUnknownPhase is returned when a phase name is not in the table.
	ErrUnknownPhase = errors.New("unknown phase")
	// ErrEmptyPhaseTable is returned when a phase table has no entries.
	ErrEmptyPhaseTable = errors.New("phase table is empty")
)
