package algorithms

import "github.com/dd0wney/cluso-pathfinder/pkg/graph"

// openList is the search frontier: a slice ordered by gScore at insertion
// time plus a membership index.
//
// Insertion scans linearly for the first entry with a strictly greater
// gScore, so equal-cost nodes stay in discovery order. Improving an entry's
// gScore does not move it unless reposition is called; after such an
// improvement the slice may no longer be sorted, and the linear scan (not a
// binary search) is what keeps later insertions matching that state.
type openList struct {
	items   []graph.NodeID
	members map[graph.NodeID]struct{}
	score   func(graph.NodeID) float64
}

func newOpenList(score func(graph.NodeID) float64) *openList {
	return &openList{
		items:   make([]graph.NodeID, 0, 16),
		members: make(map[graph.NodeID]struct{}),
		score:   score,
	}
}

func (o *openList) len() int { return len(o.items) }

func (o *openList) contains(id graph.NodeID) bool {
	_, ok := o.members[id]
	return ok
}

// push inserts id before the first entry whose gScore is strictly greater.
func (o *openList) push(id graph.NodeID) {
	s := o.score(id)
	pos := len(o.items)
	for i, other := range o.items {
		if s < o.score(other) {
			pos = i
			break
		}
	}

	o.items = append(o.items, graph.NoNode)
	copy(o.items[pos+1:], o.items[pos:])
	o.items[pos] = id
	o.members[id] = struct{}{}
}

// pop removes and returns the front entry.
func (o *openList) pop() graph.NodeID {
	id := o.items[0]
	o.items = o.items[1:]
	delete(o.members, id)
	return id
}

// reposition moves id to the slot its current gScore calls for.
func (o *openList) reposition(id graph.NodeID) {
	for i, other := range o.items {
		if other == id {
			o.items = append(o.items[:i], o.items[i+1:]...)
			break
		}
	}
	delete(o.members, id)
	o.push(id)
}
