package config

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("syncbalance/config")

// MetricsSource exposes the load readings the tuner adapts on.
type MetricsSource interface {
	AverageLoad() float64
}

// ConcurrencyTarget is the knob the tuner adjusts. The balancer implements
// this interface.
type ConcurrencyTarget interface {
	MaxConcurrent() int
	SetMaxConcurrent(n int)
}

// TunerConfig holds the adaptation parameters for the adaptive tuner.
type TunerConfig struct {
	// MinConcurrent and MaxConcurrentLimit clamp the concurrency bound
	// the tuner may set.
	MinConcurrent      int
	MaxConcurrentLimit int

	// HighWater and LowWater are average-load levels triggering scale up
	// and scale down respectively.
	HighWater float64
	LowWater  float64

	// ScaleUpFactor and ScaleDownFactor multiply the current bound when
	// adapting.
	ScaleUpFactor   float64
	ScaleDownFactor float64

	// AdaptInterval is both the evaluation period and the minimum time
	// between adaptations.
	AdaptInterval time.Duration
}

// DefaultTunerConfig returns the standard adaptation parameters.
func DefaultTunerConfig() TunerConfig {
	return TunerConfig{
		MinConcurrent:      2,
		MaxConcurrentLimit: 32,
		HighWater:          60,
		LowWater:           10,
		ScaleUpFactor:      1.5,
		ScaleDownFactor:    0.75,
		AdaptInterval:      30 * time.Second,
	}
}

// Tuner periodically reads the average load from a MetricsSource and scales
// a ConcurrencyTarget's bound between configured limits. Scaling up is
// triggered by sustained load above HighWater, scaling down by load below
// LowWater.
type Tuner struct {
	cfg    TunerConfig
	source MetricsSource
	target ConcurrencyTarget
	clock  clock.Clock

	mu             sync.Mutex
	running        bool
	lastAdaptation time.Time
	stopCh         chan struct{}
	wg             sync.WaitGroup
}

// NewTuner creates a tuner for the given source and target. A nil clock
// defaults to the wall clock.
func NewTuner(cfg TunerConfig, source MetricsSource, target ConcurrencyTarget, clk clock.Clock) *Tuner {
	if clk == nil {
		clk = clock.New()
	}
	return &Tuner{
		cfg:    cfg,
		source: source,
		target: target,
		clock:  clk,
	}
}

// Start begins periodic adaptation.
func (t *Tuner) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return ErrTunerRunning
	}
	t.running = true
	t.stopCh = make(chan struct{})

	t.wg.Add(1)
	go t.loop(t.stopCh)

	log.Info("adaptive tuner started")
	return nil
}

// Stop halts adaptation and waits for the background loop to exit.
func (t *Tuner) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return ErrTunerStopped
	}
	t.running = false
	close(t.stopCh)
	t.mu.Unlock()

	t.wg.Wait()
	log.Info("adaptive tuner stopped")
	return nil
}

func (t *Tuner) loop(stopCh chan struct{}) {
	defer t.wg.Done()

	ticker := t.clock.Ticker(t.cfg.AdaptInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			t.Adapt()
		}
	}
}

// Adapt evaluates the current average load and adjusts the target's
// concurrency bound if a watermark is crossed. Returns true when the bound
// changed. Exported so callers driving their own schedule can invoke it
// directly.
func (t *Tuner) Adapt() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	if !t.lastAdaptation.IsZero() && now.Sub(t.lastAdaptation) < t.cfg.AdaptInterval {
		return false
	}

	avg := t.source.AverageLoad()
	current := t.target.MaxConcurrent()
	next := current

	switch {
	case avg > t.cfg.HighWater:
		next = int(float64(current) * t.cfg.ScaleUpFactor)
		if next == current {
			next = current + 1
		}
	case avg < t.cfg.LowWater:
		next = int(float64(current) * t.cfg.ScaleDownFactor)
	default:
		return false
	}

	if next > t.cfg.MaxConcurrentLimit {
		next = t.cfg.MaxConcurrentLimit
	}
	if next < t.cfg.MinConcurrent {
		next = t.cfg.MinConcurrent
	}
	if next == current {
		return false
	}

	t.target.SetMaxConcurrent(next)
	t.lastAdaptation = now

	log.Infof("adapted concurrency bound from %d to %d (average load %.1f)", current, next, avg)
	return true
}
