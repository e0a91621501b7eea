package balancer

import (
	"math/rand"

	"github.com/benbjohnson/clock"
)

// Option configures a SyncLoadBalancer at construction time.
type Option func(*SyncLoadBalancer)

// WithClock replaces the wall clock. Tests pass clock.NewMock() to drive the
// sampling tick and execution timers deterministically.
func WithClock(clk clock.Clock) Option {
	return func(lb *SyncLoadBalancer) {
		lb.clock = clk
	}
}

// WithObserver attaches an observer for lifecycle events.
func WithObserver(obs Observer) Option {
	return func(lb *SyncLoadBalancer) {
		lb.observer = obs
	}
}

// WithLoadEstimator replaces the default module-substring load estimator.
func WithLoadEstimator(est LoadEstimator) Option {
	return func(lb *SyncLoadBalancer) {
		lb.loadEstimator = est
	}
}

// WithDurationEstimator replaces the default priority-based duration
// estimator.
func WithDurationEstimator(est DurationEstimator) Option {
	return func(lb *SyncLoadBalancer) {
		lb.durationEstimator = est
	}
}

// WithNoiseSource replaces the ambient-load noise source. Tests pass a
// constant source to make load samples deterministic.
func WithNoiseSource(src NoiseSource) Option {
	return func(lb *SyncLoadBalancer) {
		lb.noise = src
	}
}

// WithRand seeds the default estimators with the given random source.
// Ignored when both WithDurationEstimator and WithNoiseSource are supplied.
func WithRand(rng *rand.Rand) Option {
	return func(lb *SyncLoadBalancer) {
		lb.rng = rng
	}
}
