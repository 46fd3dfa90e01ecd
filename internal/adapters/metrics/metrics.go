// Package metrics implements the Metrics port with Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.trai.ch/sdnode/internal/core/ports"
)

const namespace = "sdnode"

var _ ports.Metrics = (*Recorder)(nil)

// Recorder implements ports.Metrics on its own Prometheus registry.
type Recorder struct {
	registry *prometheus.Registry

	cacheHits       *prometheus.CounterVec
	cacheMisses     prometheus.Counter
	backendRequests *prometheus.HistogramVec
	invocations     *prometheus.CounterVec
}

// New creates a Recorder and registers its collectors together with the Go runtime collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Invocations served without computing, by cache tier.",
			},
			[]string{"tier"},
		),
		cacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Invocations that had to compute.",
			},
		),
		backendRequests: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "backend_request_duration_seconds",
				Help:      "Latency of Stable Diffusion API requests.",
				Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"path", "status"},
		),
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invocations_total",
				Help:      "Finished node invocations, by node and outcome.",
			},
			[]string{"node", "outcome"},
		),
	}

	r.registry.MustRegister(
		r.cacheHits,
		r.cacheMisses,
		r.backendRequests,
		r.invocations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Registry returns the registry the collectors are registered on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// CacheHit counts an invocation served by the given tier.
func (r *Recorder) CacheHit(tier string) {
	r.cacheHits.WithLabelValues(tier).Inc()
}

// CacheMiss counts an invocation that computed.
func (r *Recorder) CacheMiss() {
	r.cacheMisses.Inc()
}

// ObserveBackendRequest records a backend request. A zero status means the request never got a response.
func (r *Recorder) ObserveBackendRequest(path string, status int, elapsed time.Duration) {
	label := "error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	r.backendRequests.WithLabelValues(path, label).Observe(elapsed.Seconds())
}

// InvocationDone counts a finished invocation.
func (r *Recorder) InvocationDone(nodeID, outcome string) {
	r.invocations.WithLabelValues(nodeID, outcome).Inc()
}
