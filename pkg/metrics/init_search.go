package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSearchMetrics() {
	r.SearchesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: r.namespace,
			Name:      "searches_total",
			Help:      "Total number of path searches by mode and outcome",
		},
		[]string{"mode", "status"},
	)

	r.SearchDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: r.namespace,
			Name:      "search_duration_seconds",
			Help:      "Path search duration in seconds",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1.0},
		},
		[]string{"mode"},
	)

	r.NodesExpanded = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: r.namespace,
			Name:      "nodes_expanded",
			Help:      "Number of nodes closed per search",
			Buckets:   []float64{1, 10, 100, 1000, 10000, 100000},
		},
		[]string{"mode"},
	)

	r.EdgeRelaxations = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: r.namespace,
			Name:      "edge_relaxations",
			Help:      "Number of edges examined per search",
			Buckets:   []float64{1, 10, 100, 1000, 10000, 100000},
		},
		[]string{"mode"},
	)

	r.PathLength = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: r.namespace,
			Name:      "path_length",
			Help:      "Number of nodes in found paths",
			Buckets:   []float64{1, 2, 5, 10, 50, 100, 1000},
		},
	)

	r.SearchesAbandoned = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: r.namespace,
			Name:      "searches_abandoned_total",
			Help:      "Searches whose caller gave up before they finished",
		},
	)

	r.SearchesInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: r.namespace,
			Name:      "searches_in_flight",
			Help:      "Searches currently running",
		},
	)
}
