package algorithms

import "github.com/dd0wney/cluso-pathfinder/pkg/graph"

// Option customises a search.
type Option func(*searchOptions)

type searchOptions struct {
	strictOrdering bool
	maxExpansions  int
	onExpand       func(id graph.NodeID, gScore float64)
}

func defaultSearchOptions() searchOptions {
	return searchOptions{}
}

// WithStrictOrdering moves a frontier node to its sorted position whenever
// its gScore improves, giving textbook Dijkstra ordering. Without it an
// improved node keeps its old slot in the frontier.
func WithStrictOrdering() Option {
	return func(o *searchOptions) {
		o.strictOrdering = true
	}
}

// WithMaxExpansions stops the search once n nodes have been closed.
// Values <= 0 mean no limit.
func WithMaxExpansions(n int) Option {
	return func(o *searchOptions) {
		o.maxExpansions = n
	}
}

// WithOnExpand registers a hook called each time a node is closed, in
// closing order, with its final gScore.
func WithOnExpand(fn func(id graph.NodeID, gScore float64)) Option {
	return func(o *searchOptions) {
		o.onExpand = fn
	}
}
