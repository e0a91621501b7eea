package balancer

import "time"

// Observer receives lifecycle notifications from the balancer. All methods
// are invoked while the balancer's mutex is held, so implementations must
// return quickly and must not call back into the balancer.
type Observer interface {
	// RequestQueued is called when a request enters the pending queue.
	RequestQueued(req *SyncRequest)

	// RequestAdmitted is called when a request moves from the pending
	// queue into processing. wait is the time spent queued.
	RequestAdmitted(req *SyncRequest, wait time.Duration)

	// RequestCompleted is called when a request finishes executing.
	RequestCompleted(req *SyncRequest, duration time.Duration)

	// RequestShed is called when a low-priority request is dropped by the
	// admission-control policy.
	RequestShed(req *SyncRequest)

	// LoadSampled is called after each sampling tick with the newly
	// computed load and current queue occupancy.
	LoadSampled(load float64, queueLen, processing int)
}

// nopObserver is the default observer.
type nopObserver struct{}

func (nopObserver) RequestQueued(*SyncRequest)                   {}
func (nopObserver) RequestAdmitted(*SyncRequest, time.Duration)  {}
func (nopObserver) RequestCompleted(*SyncRequest, time.Duration) {}
func (nopObserver) RequestShed(*SyncRequest)                     {}
func (nopObserver) LoadSampled(float64, int, int)                {}
