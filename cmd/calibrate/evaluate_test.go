package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/shallows/config"
)

func TestDensityRatioNearOne(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)

	e, err := NewEvaluator(cfg)
	require.NoError(t, err)

	ratio, err := e.DensityRatio(cfg.Physics.TargetNeighbors)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ratio, 0.05)

	loss, r2, err := e.Loss(cfg.Physics.TargetNeighbors)
	require.NoError(t, err)
	assert.Equal(t, ratio, r2)
	assert.InDelta(t, (ratio-1)*(ratio-1), loss, 1e-15)
}

func TestEvaluatorRequiresFluid(t *testing.T) {
	cfg, err := config.Parse([]byte("fluid:\n  blocks: []\n"))
	require.NoError(t, err)

	_, err = NewEvaluator(cfg)
	assert.Error(t, err)
}

func TestNeighborRange(t *testing.T) {
	r := neighborRange{Min: 10, Max: 50}

	tests := []struct {
		x    float64
		want float64
	}{
		{0, 10},
		{1, 50},
		{0.5, 30},
		{-0.3, 10},
		{1.7, 50},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, r.Denormalize(tt.x), 1e-12, "x=%v", tt.x)
	}
	assert.InDelta(t, 0.25, r.Normalize(20), 1e-12)
}
