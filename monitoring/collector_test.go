package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncforge/balancer/balancer"
)

func TestObserverCountsRequestLifecycle(t *testing.T) {
	obs := NewObserver(15)

	req := &balancer.SyncRequest{ID: "r1", ModuleID: "wallet", Priority: balancer.PriorityHigh}

	obs.RequestQueued(req)
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.requestsTotal.WithLabelValues("high")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.queueLength))

	obs.RequestAdmitted(req, 5*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(obs.queueLength))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.processingCount))

	obs.RequestCompleted(req, 200*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(obs.processingCount))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.completedTotal.WithLabelValues("high")))
}

func TestObserverCountsShedding(t *testing.T) {
	obs := NewObserver(15)

	low := &balancer.SyncRequest{ID: "r2", ModuleID: "pillar", Priority: balancer.PriorityLow}
	obs.RequestQueued(low)
	obs.RequestShed(low)

	assert.Equal(t, 1.0, testutil.ToFloat64(obs.shedTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(obs.queueLength))
}

func TestObserverLoadSampledOverwritesGauges(t *testing.T) {
	obs := NewObserver(15)

	obs.LoadSampled(42.5, 3, 7)

	assert.Equal(t, 42.5, testutil.ToFloat64(obs.currentLoad))
	assert.Equal(t, 3.0, testutil.ToFloat64(obs.queueLength))
	assert.Equal(t, 7.0, testutil.ToFloat64(obs.processingCount))

	// Gauges track the authoritative occupancy, so a Reset on the
	// balancer is reflected at the next sample.
	obs.LoadSampled(0, 0, 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(obs.queueLength))
	assert.Equal(t, 0.0, testutil.ToFloat64(obs.processingCount))
}

func TestObserverRegistryGathers(t *testing.T) {
	obs := NewObserver(15)
	obs.LoadSampled(10, 0, 0)

	families, err := obs.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["syncbalance_current_load"])
	assert.True(t, names["syncbalance_queue_length"])
	assert.True(t, names["syncbalance_processing_count"])
}

func TestObserverIntegratesWithBalancer(t *testing.T) {
	obs := NewObserver(15)

	lb, err := balancer.New(nil, balancer.WithObserver(obs))
	require.NoError(t, err)

	lb.QueueSyncRequest("wallet", balancer.PriorityCritical)

	assert.Equal(t, 1.0, testutil.ToFloat64(obs.requestsTotal.WithLabelValues("critical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.processingCount))
}
