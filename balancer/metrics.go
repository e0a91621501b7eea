package balancer

import "time"

// LoadMetricsSnapshot is a read-only copy of the balancer's load metrics.
// Mutating a snapshot (including its History slice) has no effect on the
// balancer's internal state.
type LoadMetricsSnapshot struct {
	// CurrentLoad is the most recently sampled load, in [0, 100].
	CurrentLoad float64

	// AverageLoad is the arithmetic mean of the retained history.
	AverageLoad float64

	// PeakLoad is the maximum load ever sampled. It never decreases
	// except through Reset.
	PeakLoad float64

	// History holds the retained load samples, oldest first.
	History []float64

	// LastUpdate is the time of the most recent sample.
	LastUpdate time.Time
}

// loadMetrics is the balancer-owned mutable metrics state. All access is
// serialized by the balancer's mutex.
type loadMetrics struct {
	currentLoad float64
	averageLoad float64
	peakLoad    float64
	history     []float64
	lastUpdate  time.Time
	capacity    int
}

func newLoadMetrics(capacity int) *loadMetrics {
	return &loadMetrics{
		history:  make([]float64, 0, capacity),
		capacity: capacity,
	}
}

// record appends a sample, evicting the oldest once capacity is reached,
// and recomputes the derived values.
func (m *loadMetrics) record(load float64, now time.Time) {
	m.currentLoad = load

	if len(m.history) >= m.capacity {
		// Evict the oldest sample (simple circular buffer).
		copy(m.history, m.history[1:])
		m.history = m.history[:len(m.history)-1]
	}
	m.history = append(m.history, load)

	var sum float64
	for _, s := range m.history {
		sum += s
	}
	m.averageLoad = sum / float64(len(m.history))

	if load > m.peakLoad {
		m.peakLoad = load
	}
	m.lastUpdate = now
}

func (m *loadMetrics) reset() {
	m.currentLoad = 0
	m.averageLoad = 0
	m.peakLoad = 0
	m.history = m.history[:0]
	m.lastUpdate = time.Time{}
}

func (m *loadMetrics) snapshot() LoadMetricsSnapshot {
	history := make([]float64, len(m.history))
	copy(history, m.history)
	return LoadMetricsSnapshot{
		CurrentLoad: m.currentLoad,
		AverageLoad: m.averageLoad,
		PeakLoad:    m.peakLoad,
		History:     history,
		LastUpdate:  m.lastUpdate,
	}
}
