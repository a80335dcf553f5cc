// Package algorithms finds least-cost paths over a graph.Graph.
//
// Two entry points share one search loop:
//
//   - DijkstraSearch writes gScore and predecessor onto the graph's nodes and
//     returns a plain node sequence, including the single-node echo of an
//     unreachable goal.
//   - FindPath keeps that state in a table owned by the run and reports a
//     Status instead, so it never touches the graph and can run concurrently
//     with other FindPath calls on the same graph.
//
// Edge costs must be non-negative; graph.Graph rejects anything else.
package algorithms

import (
	"github.com/dd0wney/cluso-pathfinder/pkg/graph"
)

// DijkstraSearch finds the least-cost path from start to goal and returns it
// as a node sequence from start to goal inclusive.
//
// Outcomes:
//   - start or goal absent (NoNode, or not in g): an empty slice.
//   - start == goal: [start], with no edges traversed.
//   - goal closed by the search: the path; goal's GScore is the path cost.
//   - goal not closed, because it is unreachable or WithMaxExpansions
//     stopped the search first: [goal]. This is indistinguishable by length
//     from the start == goal case; use FindPath for an explicit status.
//
// The search writes GScore and Previous on the nodes it touches and does not
// clear nodes it never reaches, so callers reusing a graph should call
// g.ResetSearchState between runs. In-place searches on the same graph must
// not run concurrently.
func DijkstraSearch(g *graph.Graph, start, goal graph.NodeID, opts ...Option) []graph.NodeID {
	path, _ := DijkstraSearchWithStats(g, start, goal, opts...)
	return path
}

// DijkstraSearchWithStats is DijkstraSearch that also reports the work done.
// Stats are zero for absent endpoints and for start == goal.
func DijkstraSearchWithStats(g *graph.Graph, start, goal graph.NodeID, opts ...Option) ([]graph.NodeID, Stats) {
	if !g.Has(start) || !g.Has(goal) {
		return []graph.NodeID{}, Stats{}
	}

	labels := nodeLabels{g: g}
	if start == goal {
		labels.set(start, 0, graph.NoNode)
		return []graph.NodeID{start}, Stats{}
	}

	cfg := defaultSearchOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	r := newRunner(g, labels, cfg)
	if !r.run(start, goal) {
		// goal's Previous may be provisional or left over from an earlier run
		return []graph.NodeID{goal}, r.stats
	}
	return walkBack(labels, goal, g.Len()), r.stats
}
