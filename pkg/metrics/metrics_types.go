package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name unless NewRegistryWithNamespace
// is given another one.
const DefaultNamespace = "pathfinder"

// Registry holds all metrics for the application
type Registry struct {
	// Search Metrics
	SearchesTotal     *prometheus.CounterVec
	SearchDuration    *prometheus.HistogramVec
	NodesExpanded     *prometheus.HistogramVec
	EdgeRelaxations   *prometheus.HistogramVec
	PathLength        prometheus.Histogram
	SearchesAbandoned prometheus.Counter
	SearchesInFlight  prometheus.Gauge

	// Graph Metrics
	GraphNodes prometheus.Gauge
	GraphEdges prometheus.Gauge

	namespace string
	registry  *prometheus.Registry
}

// NewRegistry creates a registry using DefaultNamespace.
func NewRegistry() *Registry {
	return NewRegistryWithNamespace(DefaultNamespace)
}

// NewRegistryWithNamespace creates a registry whose metric names start with
// namespace. Each registry is backed by its own prometheus.Registry, so
// several can coexist in one process.
func NewRegistryWithNamespace(namespace string) *Registry {
	r := &Registry{
		namespace: namespace,
		registry:  prometheus.NewRegistry(),
	}

	r.initSearchMetrics()
	r.initGraphMetrics()

	return r
}
