package algorithms

import "github.com/dd0wney/cluso-pathfinder/pkg/graph"

// labelStore holds the per-node search state (gScore and predecessor).
// In-place searches keep it on the graph's nodes; FindPath keeps it in a
// table owned by the run.
type labelStore interface {
	gScore(id graph.NodeID) float64
	previous(id graph.NodeID) graph.NodeID
	set(id graph.NodeID, gScore float64, previous graph.NodeID)
}

// nodeLabels writes search state onto the graph's nodes.
type nodeLabels struct {
	g *graph.Graph
}

func (l nodeLabels) gScore(id graph.NodeID) float64 {
	n, _ := l.g.Node(id)
	return n.GScore
}

func (l nodeLabels) previous(id graph.NodeID) graph.NodeID {
	n, _ := l.g.Node(id)
	return n.Previous
}

func (l nodeLabels) set(id graph.NodeID, gScore float64, previous graph.NodeID) {
	n, _ := l.g.Node(id)
	n.GScore = gScore
	n.Previous = previous
}

type label struct {
	gScore   float64
	previous graph.NodeID
}

// scratchLabels keeps search state off the graph. Nodes never touched by the
// run read as gScore 0 and no predecessor.
type scratchLabels map[graph.NodeID]*label

func (l scratchLabels) gScore(id graph.NodeID) float64 {
	if lb, ok := l[id]; ok {
		return lb.gScore
	}
	return 0
}

func (l scratchLabels) previous(id graph.NodeID) graph.NodeID {
	if lb, ok := l[id]; ok {
		return lb.previous
	}
	return graph.NoNode
}

func (l scratchLabels) set(id graph.NodeID, gScore float64, previous graph.NodeID) {
	if lb, ok := l[id]; ok {
		lb.gScore = gScore
		lb.previous = previous
		return
	}
	l[id] = &label{gScore: gScore, previous: previous}
}

// runner holds the mutable state of a single search.
type runner struct {
	g       *graph.Graph
	labels  labelStore
	open    *openList
	closed  map[graph.NodeID]struct{}
	options searchOptions
	stats   Stats
}

func newRunner(g *graph.Graph, labels labelStore, opts searchOptions) *runner {
	return &runner{
		g:       g,
		labels:  labels,
		open:    newOpenList(labels.gScore),
		closed:  make(map[graph.NodeID]struct{}),
		options: opts,
	}
}

// run searches from start until goal is closed, the frontier empties or the
// expansion limit is hit. It reports whether goal was closed. Passing
// graph.NoNode as goal runs to exhaustion.
func (r *runner) run(start, goal graph.NodeID) bool {
	r.labels.set(start, 0, graph.NoNode)
	r.open.push(start)

	for r.open.len() > 0 {
		if r.options.maxExpansions > 0 && r.stats.Expanded >= r.options.maxExpansions {
			return false
		}

		current := r.open.pop()
		r.closed[current] = struct{}{}
		r.stats.Expanded++
		if r.options.onExpand != nil {
			r.options.onExpand(current, r.labels.gScore(current))
		}

		if current == goal {
			return true
		}

		r.relax(current)
	}

	return false
}

// relax examines every outgoing edge of current in connection order.
func (r *runner) relax(current graph.NodeID) {
	base := r.labels.gScore(current)

	for _, e := range r.g.Outgoing(current) {
		if _, done := r.closed[e.Target]; done {
			continue
		}
		r.stats.Relaxations++

		candidate := base + e.Cost
		if !r.open.contains(e.Target) {
			r.labels.set(e.Target, candidate, current)
			r.open.push(e.Target)
			continue
		}

		if candidate < r.labels.gScore(e.Target) {
			r.labels.set(e.Target, candidate, current)
			r.stats.Improvements++
			if r.options.strictOrdering {
				r.open.reposition(e.Target)
			}
		}
	}
}

// walkBack rebuilds the path ending at goal by following predecessors until
// a node without one. The walk is capped at limit nodes so stale predecessor
// links left over from earlier in-place runs cannot loop forever.
func walkBack(labels labelStore, goal graph.NodeID, limit int) []graph.NodeID {
	reversed := make([]graph.NodeID, 0, 8)
	for current := goal; current != graph.NoNode && len(reversed) < limit; current = labels.previous(current) {
		reversed = append(reversed, current)
	}

	path := make([]graph.NodeID, len(reversed))
	for i, id := range reversed {
		path[len(reversed)-1-i] = id
	}
	return path
}
