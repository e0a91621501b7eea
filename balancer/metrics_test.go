package balancer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMetricsRecord(t *testing.T) {
	m := newLoadMetrics(50)
	now := time.Now()

	m.record(20, now)

	assert.Equal(t, 20.0, m.currentLoad)
	assert.Equal(t, 20.0, m.averageLoad)
	assert.Equal(t, 20.0, m.peakLoad)
	assert.Equal(t, now, m.lastUpdate)
	assert.Equal(t, []float64{20}, m.history)

	m.record(10, now.Add(time.Second))

	assert.Equal(t, 10.0, m.currentLoad)
	assert.Equal(t, 15.0, m.averageLoad)
	// Peak never decreases on a lower sample.
	assert.Equal(t, 20.0, m.peakLoad)
}

func TestLoadMetricsHistoryEviction(t *testing.T) {
	m := newLoadMetrics(3)
	now := time.Now()

	for i := 1; i <= 5; i++ {
		m.record(float64(i), now)
	}

	require.Len(t, m.history, 3)
	assert.Equal(t, []float64{3, 4, 5}, m.history)
	assert.Equal(t, 4.0, m.averageLoad)
}

func TestLoadMetricsReset(t *testing.T) {
	m := newLoadMetrics(10)
	m.record(42, time.Now())

	m.reset()

	assert.Zero(t, m.currentLoad)
	assert.Zero(t, m.averageLoad)
	assert.Zero(t, m.peakLoad)
	assert.Empty(t, m.history)
	assert.True(t, m.lastUpdate.IsZero())
}

func TestLoadMetricsSnapshotIndependence(t *testing.T) {
	m := newLoadMetrics(10)
	m.record(5, time.Now())

	snap := m.snapshot()
	snap.History[0] = 77

	assert.Equal(t, []float64{5}, m.history)
}
