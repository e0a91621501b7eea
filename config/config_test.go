package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8, cfg.MaxConcurrent)
	assert.Equal(t, 15.0, cfg.LoadThreshold)
	assert.Equal(t, 20.0, cfg.ShedThreshold)
	assert.Equal(t, 50, cfg.HistoryCapacity)
	assert.Equal(t, time.Second, cfg.SampleInterval)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max concurrent", func(c *Config) { c.MaxConcurrent = 0 }},
		{"negative max concurrent", func(c *Config) { c.MaxConcurrent = -1 }},
		{"zero history capacity", func(c *Config) { c.HistoryCapacity = 0 }},
		{"zero sample interval", func(c *Config) { c.SampleInterval = 0 }},
		{"negative load threshold", func(c *Config) { c.LoadThreshold = -1 }},
		{"load threshold above 100", func(c *Config) { c.LoadThreshold = 101; c.ShedThreshold = 102 }},
		{"shed below load threshold", func(c *Config) { c.ShedThreshold = c.LoadThreshold - 1 }},
		{"shed equal to load threshold", func(c *Config) { c.ShedThreshold = c.LoadThreshold }},
		{"negative queue weight", func(c *Config) { c.QueueWeight = -0.1 }},
		{"negative noise", func(c *Config) { c.NoiseMax = -1 }},
		{"zero critical duration", func(c *Config) { c.CriticalDuration = 0 }},
		{"zero low duration", func(c *Config) { c.LowDuration = 0 }},
		{"negative jitter", func(c *Config) { c.JitterMax = -time.Millisecond }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
