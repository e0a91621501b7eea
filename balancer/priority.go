package balancer

import "sort"

// Priority levels for sync request classification.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Valid reports whether p is one of the defined priority levels.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

// rank maps priorities to their admission-control sort keys. Higher ranks
// drain first once the queue is reordered.
func (p Priority) rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityNormal:
		return 2
	default:
		return 1
	}
}

// sortByPriority reorders the pending queue descending by priority rank.
// The sort is stable: requests of equal priority keep their arrival order.
func sortByPriority(reqs []*SyncRequest) {
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].Priority.rank() > reqs[j].Priority.rank()
	})
}
