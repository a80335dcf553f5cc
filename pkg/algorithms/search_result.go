package algorithms

import (
	"errors"

	"github.com/dd0wney/cluso-pathfinder/pkg/graph"
)

var (
	ErrInvalidEndpoints = errors.New("start or goal node is missing")
	ErrUnreachable      = errors.New("goal is not reachable from start")
)

// Status is the outcome of FindPath.
type Status int

const (
	StatusFound Status = iota
	StatusUnreachable
	StatusInvalidEndpoints
)

// String returns the lowercase name used in logs and metric labels.
func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusUnreachable:
		return "unreachable"
	case StatusInvalidEndpoints:
		return "invalid_endpoints"
	default:
		return "unknown"
	}
}

// Stats counts the work done by one search.
type Stats struct {
	Expanded     int // nodes closed
	Relaxations  int // edges examined towards nodes not yet closed
	Improvements int // strict improvements of nodes already in the frontier
}

// Result is the outcome of FindPath.
type Result struct {
	Status Status
	Path   []graph.NodeID // start..goal inclusive when Status is StatusFound
	Cost   float64        // total path cost when Status is StatusFound

	// GScores holds the best cost found for every node the search touched.
	GScores map[graph.NodeID]float64
	Stats   Stats
}

// Found reports whether a path was found.
func (r *Result) Found() bool {
	return r.Status == StatusFound
}

// Err maps the non-found statuses to ErrUnreachable and ErrInvalidEndpoints.
func (r *Result) Err() error {
	switch r.Status {
	case StatusFound:
		return nil
	case StatusUnreachable:
		return ErrUnreachable
	default:
		return ErrInvalidEndpoints
	}
}

// FindPath runs the same search as DijkstraSearch without writing to g and
// reports the outcome explicitly: StatusInvalidEndpoints when start or goal
// is absent, StatusUnreachable when goal cannot be reached (or was not
// reached within WithMaxExpansions), StatusFound otherwise.
func FindPath(g *graph.Graph, start, goal graph.NodeID, opts ...Option) *Result {
	if !g.Has(start) || !g.Has(goal) {
		return &Result{Status: StatusInvalidEndpoints, Path: []graph.NodeID{}, GScores: map[graph.NodeID]float64{}}
	}

	if start == goal {
		return &Result{
			Status:  StatusFound,
			Path:    []graph.NodeID{start},
			GScores: map[graph.NodeID]float64{start: 0},
		}
	}

	cfg := defaultSearchOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	labels := make(scratchLabels)
	r := newRunner(g, labels, cfg)
	reached := r.run(start, goal)

	res := &Result{
		Status:  StatusUnreachable,
		Path:    []graph.NodeID{},
		GScores: labels.snapshot(),
		Stats:   r.stats,
	}
	if reached {
		res.Status = StatusFound
		res.Path = walkBack(labels, goal, g.Len())
		res.Cost = labels.gScore(goal)
	}
	return res
}

// CostsFrom searches from start without a goal until the frontier is empty
// and returns the best cost found for every node reached, start included.
// It returns an empty map when start is absent.
func CostsFrom(g *graph.Graph, start graph.NodeID, opts ...Option) map[graph.NodeID]float64 {
	if !g.Has(start) {
		return map[graph.NodeID]float64{}
	}

	cfg := defaultSearchOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	labels := make(scratchLabels)
	newRunner(g, labels, cfg).run(start, graph.NoNode)
	return labels.snapshot()
}

// PathCost sums edge costs along path, using the cheapest edge when a pair
// has parallel edges. It returns false if some consecutive pair has no edge.
// A single-node path costs 0; an empty path is not a path.
func PathCost(g *graph.Graph, path []graph.NodeID) (float64, bool) {
	if len(path) == 0 || !g.Has(path[0]) {
		return 0, false
	}

	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		best, found := 0.0, false
		for _, e := range g.Outgoing(path[i]) {
			if e.Target == path[i+1] && (!found || e.Cost < best) {
				best, found = e.Cost, true
			}
		}
		if !found {
			return 0, false
		}
		total += best
	}
	return total, true
}

func (l scratchLabels) snapshot() map[graph.NodeID]float64 {
	out := make(map[graph.NodeID]float64, len(l))
	for id, lb := range l {
		out[id] = lb.gScore
	}
	return out
}
