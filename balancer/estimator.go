package balancer

import (
	"math/rand"
	"strings"
	"time"

	"github.com/syncforge/balancer/config"
)

// LoadEstimator estimates the load contribution of a sync request from its
// module identifier.
type LoadEstimator interface {
	EstimateLoad(moduleID string) float64
}

// DurationEstimator estimates the simulated execution duration for a request
// of the given priority.
type DurationEstimator interface {
	EstimateDuration(p Priority) time.Duration
}

// NoiseSource produces the ambient-load perturbation added to each load
// sample. Implementations must be safe for use from the sampling goroutine
// only; the balancer never calls the source concurrently.
type NoiseSource func() float64

// moduleLoadEstimator derives load estimates from substring matching on the
// module identifier. Unrecognized (including empty) identifiers fall through
// to the default estimate.
type moduleLoadEstimator struct{}

func (moduleLoadEstimator) EstimateLoad(moduleID string) float64 {
	id := strings.ToLower(moduleID)
	switch {
	case strings.Contains(id, "pillar"):
		return 2
	case strings.Contains(id, "truth"):
		return 3
	case strings.Contains(id, "wallet"):
		return 4
	case strings.Contains(id, "overlay"):
		return 2
	default:
		return 2
	}
}

// priorityDurationEstimator returns a base duration per priority plus a
// bounded random jitter.
type priorityDurationEstimator struct {
	critical time.Duration
	high     time.Duration
	normal   time.Duration
	low      time.Duration
	jitter   time.Duration
	rng      *rand.Rand
}

func newPriorityDurationEstimator(cfg *config.Config, rng *rand.Rand) *priorityDurationEstimator {
	return &priorityDurationEstimator{
		critical: cfg.CriticalDuration,
		high:     cfg.HighDuration,
		normal:   cfg.NormalDuration,
		low:      cfg.LowDuration,
		jitter:   cfg.JitterMax,
		rng:      rng,
	}
}

func (e *priorityDurationEstimator) EstimateDuration(p Priority) time.Duration {
	var base time.Duration
	switch p {
	case PriorityCritical:
		base = e.critical
	case PriorityHigh:
		base = e.high
	case PriorityNormal:
		base = e.normal
	default:
		base = e.low
	}
	if e.jitter > 0 {
		base += time.Duration(e.rng.Int63n(int64(e.jitter)))
	}
	return base
}

func defaultNoiseSource(max float64, rng *rand.Rand) NoiseSource {
	if max <= 0 {
		return func() float64 { return 0 }
	}
	return func() float64 { return rng.Float64() * max }
}
