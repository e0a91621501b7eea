package balancer

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	logging "github.com/ipfs/go-log/v2"

	"github.com/syncforge/balancer/config"
)

var log = logging.Logger("syncbalance/balancer")

// SyncLoadBalancer admits, prioritizes, throttles, and executes sync
// requests under a concurrency bound while maintaining rolling load metrics
// that drive its admission policy.
//
// A single mutex guards the pending queue, the processing set, and the
// metrics: the sampling tick, submission, and completion timers all
// serialize through it. Queue mutation and metrics mutation therefore never
// race.
type SyncLoadBalancer struct {
	mu sync.Mutex

	cfg           *config.Config
	maxConcurrent int

	pending    []*SyncRequest
	processing map[string]*SyncRequest

	metrics *loadMetrics

	clock             clock.Clock
	rng               *rand.Rand
	observer          Observer
	loadEstimator     LoadEstimator
	durationEstimator DurationEstimator
	noise             NoiseSource

	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New creates a balancer with the given configuration. A nil cfg uses
// config.DefaultConfig().
func New(cfg *config.Config, opts ...Option) (*SyncLoadBalancer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lb := &SyncLoadBalancer{
		cfg:           cfg,
		maxConcurrent: cfg.MaxConcurrent,
		processing:    make(map[string]*SyncRequest),
		metrics:       newLoadMetrics(cfg.HistoryCapacity),
		clock:         clock.New(),
		observer:      nopObserver{},
		loadEstimator: moduleLoadEstimator{},
	}

	for _, opt := range opts {
		opt(lb)
	}

	if lb.rng == nil {
		lb.rng = rand.New(rand.NewSource(lb.clock.Now().UnixNano()))
	}
	if lb.durationEstimator == nil {
		lb.durationEstimator = newPriorityDurationEstimator(cfg, lb.rng)
	}
	if lb.noise == nil {
		lb.noise = defaultNoiseSource(cfg.NoiseMax, lb.rng)
	}

	return lb, nil
}

// Start launches the background load sampling loop. The loop runs until
// Stop is called or ctx is cancelled.
func (lb *SyncLoadBalancer) Start(ctx context.Context) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.running {
		return ErrAlreadyStarted
	}
	lb.running = true
	lb.stopCh = make(chan struct{})

	lb.wg.Add(1)
	go lb.sampleLoop(ctx, lb.stopCh)

	log.Infof("sync load balancer started (maxConcurrent=%d, sampleInterval=%v)",
		lb.maxConcurrent, lb.cfg.SampleInterval)
	return nil
}

// Stop halts the sampling loop and waits for it to exit. Pending and
// processing requests are left in place; in-flight completion timers keep
// running.
func (lb *SyncLoadBalancer) Stop() error {
	lb.mu.Lock()
	if !lb.running {
		lb.mu.Unlock()
		return ErrNotStarted
	}
	lb.running = false
	close(lb.stopCh)
	lb.mu.Unlock()

	lb.wg.Wait()
	log.Info("sync load balancer stopped")
	return nil
}

// QueueSyncRequest submits a sync request for the given module and returns
// its generated ID. Submission never blocks and never fails: the pending
// queue is unbounded. The request is drained into processing immediately if
// a slot is free.
func (lb *SyncLoadBalancer) QueueSyncRequest(moduleID string, priority Priority) string {
	estimated := lb.loadEstimator.EstimateLoad(moduleID)

	lb.mu.Lock()
	defer lb.mu.Unlock()

	req := newSyncRequest(moduleID, priority, estimated, lb.clock.Now())
	lb.pending = append(lb.pending, req)
	lb.observer.RequestQueued(req)

	log.Debugf("queued sync request %s (module=%s, priority=%s, estimatedLoad=%.1f, queueLen=%d)",
		req.ID, moduleID, priority, estimated, len(lb.pending))

	lb.drainLocked()
	return req.ID
}

// CurrentLoad returns the most recently sampled load, in [0, 100].
func (lb *SyncLoadBalancer) CurrentLoad() float64 {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.metrics.currentLoad
}

// AverageLoad returns the mean of the retained load history.
func (lb *SyncLoadBalancer) AverageLoad() float64 {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.metrics.averageLoad
}

// Metrics returns a defensive copy of the full load metrics.
func (lb *SyncLoadBalancer) Metrics() LoadMetricsSnapshot {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.metrics.snapshot()
}

// IsLoadBalancingActive reports whether the current load exceeds the
// admission-control threshold.
func (lb *SyncLoadBalancer) IsLoadBalancingActive() bool {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.metrics.currentLoad > lb.cfg.LoadThreshold
}

// QueueLength returns the number of pending requests.
func (lb *SyncLoadBalancer) QueueLength() int {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return len(lb.pending)
}

// ProcessingCount returns the number of requests currently executing.
func (lb *SyncLoadBalancer) ProcessingCount() int {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return len(lb.processing)
}

// MaxConcurrent returns the current concurrency bound.
func (lb *SyncLoadBalancer) MaxConcurrent() int {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.maxConcurrent
}

// SetMaxConcurrent adjusts the concurrency bound at runtime. Values below 1
// are clamped to 1. Raising the bound drains queued work into the newly
// freed slots; lowering it never interrupts requests already executing.
func (lb *SyncLoadBalancer) SetMaxConcurrent(n int) {
	if n < 1 {
		n = 1
	}

	lb.mu.Lock()
	defer lb.mu.Unlock()

	if n == lb.maxConcurrent {
		return
	}
	log.Infof("concurrency bound changed from %d to %d", lb.maxConcurrent, n)
	lb.maxConcurrent = n
	lb.drainLocked()
}

// Reset clears both queues and reinitializes the metrics. In-flight
// completion timers are not cancelled; when they fire for a request that was
// reset away, the firing is a no-op.
func (lb *SyncLoadBalancer) Reset() {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	dropped := len(lb.pending) + len(lb.processing)
	lb.pending = nil
	lb.processing = make(map[string]*SyncRequest)
	lb.metrics.reset()

	log.Infof("balancer reset, discarded %d tracked requests", dropped)
}

// sampleLoop recomputes the load metric every SampleInterval.
func (lb *SyncLoadBalancer) sampleLoop(ctx context.Context, stopCh chan struct{}) {
	defer lb.wg.Done()

	ticker := lb.clock.Ticker(lb.cfg.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			lb.sampleLoad()
		}
	}
}

// sampleLoad computes one load sample and applies the admission-control
// policy if the load threshold is breached.
func (lb *SyncLoadBalancer) sampleLoad() {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	load := float64(len(lb.processing))/float64(lb.maxConcurrent)*100 +
		float64(len(lb.pending))*lb.cfg.QueueWeight +
		lb.noise()
	if load > 100 {
		load = 100
	}
	if load < 0 {
		load = 0
	}

	lb.metrics.record(load, lb.clock.Now())
	lb.observer.LoadSampled(load, len(lb.pending), len(lb.processing))

	if load > lb.cfg.LoadThreshold {
		lb.applyAdmissionControlLocked(load)
	}
}

// applyAdmissionControlLocked reorders the pending queue by priority and,
// above the shedding threshold, drops low-priority requests permanently.
// Callers must hold lb.mu.
func (lb *SyncLoadBalancer) applyAdmissionControlLocked(load float64) {
	sortByPriority(lb.pending)

	if load <= lb.cfg.ShedThreshold {
		return
	}

	kept := lb.pending[:0]
	shed := 0
	for _, req := range lb.pending {
		if req.Priority == PriorityLow {
			shed++
			lb.observer.RequestShed(req)
			log.Debugf("shed low-priority request %s (module=%s) at load %.1f", req.ID, req.ModuleID, load)
			continue
		}
		kept = append(kept, req)
	}
	for i := len(kept); i < len(lb.pending); i++ {
		lb.pending[i] = nil
	}
	lb.pending = kept

	if shed > 0 {
		log.Warnf("load %.1f above shedding threshold %.1f, dropped %d low-priority requests",
			load, lb.cfg.ShedThreshold, shed)
	}
}

// drainLocked admits pending requests into processing until the concurrency
// bound is reached. Callers must hold lb.mu.
func (lb *SyncLoadBalancer) drainLocked() {
	now := lb.clock.Now()

	for len(lb.processing) < lb.maxConcurrent && len(lb.pending) > 0 {
		req := lb.pending[0]
		lb.pending[0] = nil
		lb.pending = lb.pending[1:]

		lb.processing[req.ID] = req
		lb.observer.RequestAdmitted(req, now.Sub(req.Timestamp))

		duration := lb.durationEstimator.EstimateDuration(req.Priority)
		log.Debugf("admitted request %s (priority=%s) for %v (processing=%d/%d)",
			req.ID, req.Priority, duration, len(lb.processing), lb.maxConcurrent)

		id := req.ID
		lb.clock.AfterFunc(duration, func() {
			lb.complete(id, duration)
		})
	}
}

// complete removes a finished request from the processing set and admits
// further queued work. Requests discarded by Reset are ignored.
func (lb *SyncLoadBalancer) complete(id string, duration time.Duration) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	req, ok := lb.processing[id]
	if !ok {
		return
	}
	delete(lb.processing, id)
	lb.observer.RequestCompleted(req, duration)

	log.Debugf("completed request %s (priority=%s) after %v", id, req.Priority, duration)

	lb.drainLocked()
}
