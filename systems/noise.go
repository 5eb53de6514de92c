package systems

import (
	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"
)

// NoiseParams configures fractal noise terrain.
type NoiseParams struct {
	Seed       int64
	Level      float64 // Mean elevation
	Amplitude  float64 // Peak deviation from Level
	Scale      float64 // Base frequency
	Octaves    int
	Lacunarity float64 // Frequency multiplier per octave
	Gain       float64 // Amplitude multiplier per octave
}

// NoiseTerrain is an fBm terrain built from OpenSimplex noise.
type NoiseTerrain struct {
	params NoiseParams
	noise  opensimplex.Noise
	norm   float64
}

// NewNoiseTerrain creates a noise terrain. Zero octaves defaults to one.
func NewNoiseTerrain(params NoiseParams) *NoiseTerrain {
	if params.Octaves < 1 {
		params.Octaves = 1
	}
	if params.Lacunarity == 0 {
		params.Lacunarity = 2
	}
	if params.Gain == 0 {
		params.Gain = 0.5
	}

	// Sum of octave amplitudes, so the fBm stays in [-1, 1]
	var norm, amp float64 = 0, 1
	for o := 0; o < params.Octaves; o++ {
		norm += amp
		amp *= params.Gain
	}

	return &NoiseTerrain{
		params: params,
		noise:  opensimplex.New(params.Seed),
		norm:   norm,
	}
}

// Height returns the fBm elevation at p.
func (t *NoiseTerrain) Height(p r2.Vec) float64 {
	var sum float64
	amp := 1.0
	freq := t.params.Scale
	for o := 0; o < t.params.Octaves; o++ {
		sum += amp * t.noise.Eval2(p.X*freq, p.Y*freq)
		amp *= t.params.Gain
		freq *= t.params.Lacunarity
	}
	return t.params.Level + t.params.Amplitude*sum/t.norm
}
