// Package monitoring exposes the sync load balancer's lifecycle events as
// Prometheus metrics.
package monitoring

import (
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/syncforge/balancer/balancer"
)

var log = logging.Logger("syncbalance/monitoring")

// Observer implements balancer.Observer on top of a private Prometheus
// registry. Attach it with balancer.WithObserver and mount Registry() on a
// promhttp handler to expose the metrics.
type Observer struct {
	registry *prometheus.Registry

	requestsTotal  *prometheus.CounterVec
	completedTotal *prometheus.CounterVec
	shedTotal      prometheus.Counter

	currentLoad     prometheus.Gauge
	queueLength     prometheus.Gauge
	processingCount prometheus.Gauge

	syncDuration *prometheus.HistogramVec
	queueWait    prometheus.Histogram

	// overloadThreshold mirrors the balancer's load threshold so the
	// observer can warn on sustained overload without polling.
	overloadThreshold float64
	overloadLimiter   *rate.Limiter
}

// NewObserver creates a Prometheus-backed observer. overloadThreshold should
// match the balancer's configured load threshold; samples above it produce a
// rate-limited warning log.
func NewObserver(overloadThreshold float64) *Observer {
	registry := prometheus.NewRegistry()

	o := &Observer{
		registry:          registry,
		overloadThreshold: overloadThreshold,
		overloadLimiter:   rate.NewLimiter(rate.Every(10*time.Second), 1),
	}

	o.requestsTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "syncbalance_requests_total",
		Help: "Total number of sync requests submitted",
	}, []string{"priority"})

	o.completedTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "syncbalance_completed_total",
		Help: "Total number of sync requests completed",
	}, []string{"priority"})

	o.shedTotal = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "syncbalance_shed_total",
		Help: "Total number of low-priority requests dropped by load shedding",
	})

	o.currentLoad = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Name: "syncbalance_current_load",
		Help: "Most recently sampled load (0-100)",
	})

	o.queueLength = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Name: "syncbalance_queue_length",
		Help: "Number of pending sync requests",
	})

	o.processingCount = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Name: "syncbalance_processing_count",
		Help: "Number of sync requests currently executing",
	})

	o.syncDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "syncbalance_sync_duration_seconds",
		Help:    "Simulated sync execution duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 8), // 50ms to ~6.4s
	}, []string{"priority"})

	o.queueWait = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "syncbalance_queue_wait_seconds",
		Help:    "Time requests spend in the pending queue before admission",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms to ~16s
	})

	return o
}

// Registry returns the observer's Prometheus registry for mounting on an
// HTTP handler.
func (o *Observer) Registry() *prometheus.Registry {
	return o.registry
}

// RequestQueued implements balancer.Observer.
func (o *Observer) RequestQueued(req *balancer.SyncRequest) {
	o.requestsTotal.WithLabelValues(req.Priority.String()).Inc()
	o.queueLength.Inc()
}

// RequestAdmitted implements balancer.Observer.
func (o *Observer) RequestAdmitted(req *balancer.SyncRequest, wait time.Duration) {
	o.queueLength.Dec()
	o.processingCount.Inc()
	o.queueWait.Observe(wait.Seconds())
}

// RequestCompleted implements balancer.Observer.
func (o *Observer) RequestCompleted(req *balancer.SyncRequest, duration time.Duration) {
	o.processingCount.Dec()
	o.completedTotal.WithLabelValues(req.Priority.String()).Inc()
	o.syncDuration.WithLabelValues(req.Priority.String()).Observe(duration.Seconds())
}

// RequestShed implements balancer.Observer.
func (o *Observer) RequestShed(req *balancer.SyncRequest) {
	o.queueLength.Dec()
	o.shedTotal.Inc()
}

// LoadSampled implements balancer.Observer. Gauges are overwritten with the
// authoritative occupancy so they self-correct after a Reset.
func (o *Observer) LoadSampled(load float64, queueLen, processing int) {
	o.currentLoad.Set(load)
	o.queueLength.Set(float64(queueLen))
	o.processingCount.Set(float64(processing))

	if load > o.overloadThreshold && o.overloadLimiter.Allow() {
		log.Warnf("sustained load %.1f above threshold %.1f (queued=%d, processing=%d)",
			load, o.overloadThreshold, queueLen, processing)
	}
}

var _ balancer.Observer = (*Observer)(nil)
