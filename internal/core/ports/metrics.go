package ports

import "time"

// Metrics records operational counters of the invocation engine.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// CacheHit counts an invocation served without computing. tier is "memory" or "store".
	CacheHit(tier string)
	// CacheMiss counts an invocation that had to compute.
	CacheMiss()
	// ObserveBackendRequest records the latency and status of a backend call.
	ObserveBackendRequest(path string, status int, elapsed time.Duration)
	// InvocationDone counts a finished invocation by node and outcome.
	InvocationDone(nodeID, outcome string)
}
