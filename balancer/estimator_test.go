package balancer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syncforge/balancer/config"
)

func TestModuleLoadEstimator(t *testing.T) {
	est := moduleLoadEstimator{}

	tests := []struct {
		moduleID string
		want     float64
	}{
		{"pillar-governance", 2},
		{"truth-points", 3},
		{"wallet-sync", 4},
		{"overlay-render", 2},
		{"TruthWallet", 3}, // first matching rule wins
		{"pillar-truth", 2},
		{"something-else", 2},
		{"", 2}, // empty module IDs are acceptable, not an error
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, est.EstimateLoad(tt.moduleID), "moduleID=%q", tt.moduleID)
	}
}

func TestPriorityDurationEstimatorBase(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.JitterMax = 0
	est := newPriorityDurationEstimator(cfg, rand.New(rand.NewSource(1)))

	assert.Equal(t, cfg.CriticalDuration, est.EstimateDuration(PriorityCritical))
	assert.Equal(t, cfg.HighDuration, est.EstimateDuration(PriorityHigh))
	assert.Equal(t, cfg.NormalDuration, est.EstimateDuration(PriorityNormal))
	assert.Equal(t, cfg.LowDuration, est.EstimateDuration(PriorityLow))
}

func TestPriorityDurationEstimatorJitterBounds(t *testing.T) {
	cfg := config.DefaultConfig()
	est := newPriorityDurationEstimator(cfg, rand.New(rand.NewSource(1)))

	for i := 0; i < 1000; i++ {
		d := est.EstimateDuration(PriorityNormal)
		assert.GreaterOrEqual(t, d, cfg.NormalDuration)
		assert.Less(t, d, cfg.NormalDuration+cfg.JitterMax)
	}
}

func TestDefaultNoiseSourceBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	noise := defaultNoiseSource(5, rng)

	for i := 0; i < 1000; i++ {
		v := noise()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 5.0)
	}

	zero := defaultNoiseSource(0, rng)
	assert.Zero(t, zero())
}
