// Package config provides configuration for the sync load balancer,
// including validated static settings and an adaptive tuner that scales the
// concurrency bound with sustained load.
package config

import (
	"fmt"
	"time"
)

// Default values for the balancer configuration.
const (
	DefaultMaxConcurrent   = 8
	DefaultLoadThreshold   = 15.0
	DefaultShedThreshold   = 20.0
	DefaultHistoryCapacity = 50
	DefaultSampleInterval  = time.Second
	DefaultQueueWeight     = 0.1
	DefaultNoiseMax        = 5.0
	DefaultJitterMax       = 200 * time.Millisecond
)

// Default base execution durations per priority level.
const (
	DefaultCriticalDuration = 100 * time.Millisecond
	DefaultHighDuration     = 200 * time.Millisecond
	DefaultNormalDuration   = 300 * time.Millisecond
	DefaultLowDuration      = 500 * time.Millisecond
)

// Config holds the static configuration for a SyncLoadBalancer. Fields are
// read once at construction; runtime-mutable knobs (the concurrency bound)
// live on the balancer itself behind its mutex.
type Config struct {
	// MaxConcurrent is the initial bound on simultaneously executing
	// requests.
	MaxConcurrent int

	// LoadThreshold is the load value above which admission control
	// reorders the pending queue by priority.
	LoadThreshold float64

	// ShedThreshold is the load value above which low-priority pending
	// requests are dropped. Must be greater than LoadThreshold: shedding
	// is a harder measure than reordering and fires later.
	ShedThreshold float64

	// HistoryCapacity bounds the load sample history. Oldest samples are
	// evicted first once the capacity is reached.
	HistoryCapacity int

	// SampleInterval is the period of the background load sampling tick.
	SampleInterval time.Duration

	// QueueWeight is the per-queued-request contribution to the load
	// formula.
	QueueWeight float64

	// NoiseMax bounds the random ambient-load perturbation added to each
	// sample. Zero disables the noise entirely.
	NoiseMax float64

	// CriticalDuration, HighDuration, NormalDuration and LowDuration are
	// the base simulated execution durations per priority level.
	CriticalDuration time.Duration
	HighDuration     time.Duration
	NormalDuration   time.Duration
	LowDuration      time.Duration

	// JitterMax bounds the random addition to each execution duration.
	// Zero disables jitter.
	JitterMax time.Duration
}

// DefaultConfig returns a configuration with the standard thresholds and
// durations.
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrent:    DefaultMaxConcurrent,
		LoadThreshold:    DefaultLoadThreshold,
		ShedThreshold:    DefaultShedThreshold,
		HistoryCapacity:  DefaultHistoryCapacity,
		SampleInterval:   DefaultSampleInterval,
		QueueWeight:      DefaultQueueWeight,
		NoiseMax:         DefaultNoiseMax,
		CriticalDuration: DefaultCriticalDuration,
		HighDuration:     DefaultHighDuration,
		NormalDuration:   DefaultNormalDuration,
		LowDuration:      DefaultLowDuration,
		JitterMax:        DefaultJitterMax,
	}
}

// Validate checks the configuration for internal consistency. All errors
// wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("%w: MaxConcurrent must be at least 1, got %d", ErrInvalidConfig, c.MaxConcurrent)
	}
	if c.HistoryCapacity < 1 {
		return fmt.Errorf("%w: HistoryCapacity must be at least 1, got %d", ErrInvalidConfig, c.HistoryCapacity)
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("%w: SampleInterval must be positive, got %v", ErrInvalidConfig, c.SampleInterval)
	}
	if c.LoadThreshold < 0 || c.LoadThreshold > 100 {
		return fmt.Errorf("%w: LoadThreshold must be within [0, 100], got %v", ErrInvalidConfig, c.LoadThreshold)
	}
	if c.ShedThreshold <= c.LoadThreshold {
		return fmt.Errorf("%w: ShedThreshold (%v) must be greater than LoadThreshold (%v)",
			ErrInvalidConfig, c.ShedThreshold, c.LoadThreshold)
	}
	if c.QueueWeight < 0 {
		return fmt.Errorf("%w: QueueWeight must be non-negative, got %v", ErrInvalidConfig, c.QueueWeight)
	}
	if c.NoiseMax < 0 {
		return fmt.Errorf("%w: NoiseMax must be non-negative, got %v", ErrInvalidConfig, c.NoiseMax)
	}
	for _, d := range []struct {
		name string
		val  time.Duration
	}{
		{"CriticalDuration", c.CriticalDuration},
		{"HighDuration", c.HighDuration},
		{"NormalDuration", c.NormalDuration},
		{"LowDuration", c.LowDuration},
	} {
		if d.val <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, d.name, d.val)
		}
	}
	if c.JitterMax < 0 {
		return fmt.Errorf("%w: JitterMax must be non-negative, got %v", ErrInvalidConfig, c.JitterMax)
	}
	return nil
}
