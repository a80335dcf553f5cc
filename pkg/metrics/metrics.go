package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/common/expfmt"
)

// RecordSearch records one finished search. pathLength is only observed for
// status "found".
func (r *Registry) RecordSearch(mode, status string, duration time.Duration, expanded, relaxations, pathLength int) {
	r.SearchesTotal.WithLabelValues(mode, status).Inc()
	r.SearchDuration.WithLabelValues(mode).Observe(duration.Seconds())
	r.NodesExpanded.WithLabelValues(mode).Observe(float64(expanded))
	r.EdgeRelaxations.WithLabelValues(mode).Observe(float64(relaxations))

	if status == "found" {
		r.PathLength.Observe(float64(pathLength))
	}
}

// RecordAbandoned counts a search the caller stopped waiting for.
func (r *Registry) RecordAbandoned() {
	r.SearchesAbandoned.Inc()
}

// SetGraphSize records the size of the graph being searched.
func (r *Registry) SetGraphSize(nodes, edges int) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// WriteText writes every metric in the Prometheus text exposition format.
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
