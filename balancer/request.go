package balancer

import (
	"time"

	"github.com/google/uuid"
)

// SyncRequest represents a single module synchronization request. Fields are
// immutable after creation; only the request's residency (pending queue,
// processing set, or neither) changes over its lifetime.
type SyncRequest struct {
	// ID is the unique identifier assigned at submission.
	ID string

	// ModuleID is an opaque tag identifying the module being synced. It
	// is used only to estimate the request's load contribution.
	ModuleID string

	// Priority classifies the request for admission control.
	Priority Priority

	// Timestamp records when the request was created.
	Timestamp time.Time

	// EstimatedLoad is the load contribution estimated from ModuleID.
	EstimatedLoad float64
}

func newSyncRequest(moduleID string, priority Priority, estimatedLoad float64, now time.Time) *SyncRequest {
	return &SyncRequest{
		ID:            uuid.NewString(),
		ModuleID:      moduleID,
		Priority:      priority,
		Timestamp:     now,
		EstimatedLoad: estimatedLoad,
	}
}
