package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartStep int64   `csv:"-"`
	WindowEndStep   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Particle counts at window end
	FluidCount    int `csv:"fluid"`
	BoundaryCount int `csv:"boundary"`

	// Surface height distribution (sampled at window end)
	HeightMean float64 `csv:"height_mean"`
	HeightStd  float64 `csv:"height_std"`
	HeightMin  float64 `csv:"height_min"`
	HeightP10  float64 `csv:"height_p10"`
	HeightP50  float64 `csv:"height_p50"`
	HeightP90  float64 `csv:"height_p90"`
	HeightMax  float64 `csv:"height_max"`

	// Motion
	SpeedMean     float64 `csv:"speed_mean"`
	SpeedP90      float64 `csv:"speed_p90"`
	SpeedMax      float64 `csv:"speed_max"`
	KineticEnergy float64 `csv:"kinetic_energy"`

	// Interpolated density relative to the intrinsic mixture density
	DensityRatioMean float64 `csv:"density_ratio_mean"`
	DensityRatioMin  float64 `csv:"density_ratio_min"`
	DensityRatioMax  float64 `csv:"density_ratio_max"`

	// Clamps applied during the window
	SpeedClamps    int `csv:"speed_clamps"`
	PositionClamps int `csv:"position_clamps"`

	// Largest |sum(fractions) - 1| over all particles
	MaxFractionError float64 `csv:"max_fraction_error"`
}

// Distribution summarizes a sample of values.
type Distribution struct {
	Mean, Std     float64
	Min, Max      float64
	P10, P50, P90 float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Describe computes the distribution of values. values is not modified.
func Describe(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	var d Distribution
	if n == 1 {
		d.Mean = values[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d.Min = sorted[0]
	d.Max = sorted[n-1]
	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)
	return d
}

// KineticEnergy returns sum(0.5 * m * v²) given masses and squared speeds.
func KineticEnergy(masses, speedsSq []float64) float64 {
	if len(masses) == 0 {
		return 0
	}
	return 0.5 * floats.Dot(masses, speedsSq)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartStep),
		slog.Int64("window_end", s.WindowEndStep),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("fluid", s.FluidCount),
		slog.Int("boundary", s.BoundaryCount),
		slog.Float64("height_mean", s.HeightMean),
		slog.Float64("height_std", s.HeightStd),
		slog.Float64("height_min", s.HeightMin),
		slog.Float64("height_p10", s.HeightP10),
		slog.Float64("height_p50", s.HeightP50),
		slog.Float64("height_p90", s.HeightP90),
		slog.Float64("height_max", s.HeightMax),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("density_ratio_mean", s.DensityRatioMean),
		slog.Float64("density_ratio_min", s.DensityRatioMin),
		slog.Float64("density_ratio_max", s.DensityRatioMax),
		slog.Int("speed_clamps", s.SpeedClamps),
		slog.Int("position_clamps", s.PositionClamps),
		slog.Float64("max_fraction_error", s.MaxFractionError),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndStep,
		"sim_time", s.SimTimeSec,
		"fluid", s.FluidCount,
		"boundary", s.BoundaryCount,
		"height_mean", s.HeightMean,
		"height_std", s.HeightStd,
		"height_p10", s.HeightP10,
		"height_p50", s.HeightP50,
		"height_p90", s.HeightP90,
		"speed_mean", s.SpeedMean,
		"speed_max", s.SpeedMax,
		"kinetic_energy", s.KineticEnergy,
		"density_ratio_mean", s.DensityRatioMean,
		"speed_clamps", s.SpeedClamps,
		"position_clamps", s.PositionClamps,
		"max_fraction_error", s.MaxFractionError,
	)
}
