// Package balancer provides a priority-aware, bounded-concurrency scheduler
// for module synchronization requests.
//
// The SyncLoadBalancer accepts abstract sync requests tagged with a module
// identifier and a priority level, tracks a synthetic load metric over a
// sliding window, and applies admission control when load crosses configured
// thresholds: the pending queue is reordered by priority (stable on ties),
// and low-priority work is shed permanently under sustained overload.
//
// Key Features:
//
// - Multi-level priority classification (Critical, High, Normal, Low)
// - Bounded concurrent execution with automatic queue draining
// - Rolling load metrics (current, average, peak) over a capped history
// - Threshold-gated admission control with low-priority load shedding
// - Pluggable load, duration, and noise estimators for deterministic testing
//
// Usage:
//
//	cfg := config.DefaultConfig()
//	lb, err := balancer.New(cfg)
//	if err != nil {
//		return err
//	}
//	if err := lb.Start(ctx); err != nil {
//		return err
//	}
//	defer lb.Stop()
//
//	id := lb.QueueSyncRequest("wallet", balancer.PriorityHigh)
//
// Submission never blocks and never fails: QueueSyncRequest returns the
// request ID synchronously and the request completes in the background.
// Callers observe progress through the polling accessors (CurrentLoad,
// QueueLength, ProcessingCount, Metrics).
//
// Admission Control:
//
// Below the load threshold, requests drain in pure FIFO submission order and
// priority has no effect. Once the sampled load exceeds the threshold, the
// pending queue is stable-sorted so strictly higher priorities drain first.
// Above the higher shedding threshold, low-priority requests still pending
// are dropped silently and permanently. This is deliberate load shedding,
// not an error condition.
//
// All shared state is guarded by a single mutex; the periodic sampling tick
// and the completion callbacks both serialize through it.
package balancer
