package telemetry

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shallows/components"
)

// Collector accumulates clamp counts within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationSteps int64
	dt                  float64

	// Current window tracking
	windowStartStep int64

	// Counters for current window
	speedClamps    int
	positionClamps int

	// Scratch reused across flushes
	heights, speeds, speedsSq, masses, ratios []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per step (used for step-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	stepsPerWindow := int64(windowDurationSec / dt)
	if stepsPerWindow < 1 {
		stepsPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationSteps: stepsPerWindow,
		dt:                  dt,
	}
}

// RecordClamps adds the clamps applied during one step.
func (c *Collector) RecordClamps(speed, position int) {
	c.speedClamps += speed
	c.positionClamps += position
}

// ShouldFlush returns true if enough steps have passed to flush the window.
func (c *Collector) ShouldFlush(currentStep int64) bool {
	return currentStep-c.windowStartStep >= c.windowDurationSteps
}

// Flush samples the fluid particles, produces a WindowStats and resets
// counters for the next window.
func (c *Collector) Flush(currentStep int64, p *components.Particles) WindowStats {
	start, end := p.Range(components.AttrFluid)

	c.heights = c.heights[:0]
	c.speeds = c.speeds[:0]
	c.speedsSq = c.speedsSq[:0]
	c.masses = c.masses[:0]
	c.ratios = c.ratios[:0]
	for i := start; i < end; i++ {
		v2 := r2.Norm2(p.Vel[i])
		c.heights = append(c.heights, p.Height[i])
		c.speeds = append(c.speeds, r2.Norm(p.Vel[i]))
		c.speedsSq = append(c.speedsSq, v2)
		c.masses = append(c.masses, p.Mass[i])
		if p.Density[i] > 0 {
			c.ratios = append(c.ratios, p.InterpDensity[i]/p.Density[i])
		}
	}

	height := Describe(c.heights)
	speed := Describe(c.speeds)
	ratio := Describe(c.ratios)

	stats := WindowStats{
		WindowStartStep: c.windowStartStep,
		WindowEndStep:   currentStep,
		SimTimeSec:      float64(currentStep) * c.dt,

		FluidCount:    end - start,
		BoundaryCount: p.Count(components.AttrBoundary),

		HeightMean: height.Mean,
		HeightStd:  height.Std,
		HeightMin:  height.Min,
		HeightP10:  height.P10,
		HeightP50:  height.P50,
		HeightP90:  height.P90,
		HeightMax:  height.Max,

		SpeedMean:     speed.Mean,
		SpeedP90:      speed.P90,
		SpeedMax:      speed.Max,
		KineticEnergy: KineticEnergy(c.masses, c.speedsSq),

		DensityRatioMean: ratio.Mean,
		DensityRatioMin:  ratio.Min,
		DensityRatioMax:  ratio.Max,

		SpeedClamps:    c.speedClamps,
		PositionClamps: c.positionClamps,

		MaxFractionError: p.MaxFractionError(),
	}

	// Reset for next window
	c.windowStartStep = currentStep
	c.speedClamps = 0
	c.positionClamps = 0

	return stats
}

// WindowDurationSteps returns the number of steps per window.
func (c *Collector) WindowDurationSteps() int64 {
	return c.windowDurationSteps
}
