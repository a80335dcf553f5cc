package graph

import (
	"fmt"
	"math"
)

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make([]*Node, 0)}
}

// AddNode appends a node at pos and returns its handle.
func (g *Graph) AddNode(pos Position) NodeID {
	id := NodeID(len(g.nodes) + 1)
	g.nodes = append(g.nodes, &Node{ID: id, Position: pos})
	return id
}

// AddEdge appends a directed edge from -> to with the given cost to from's
// connections. Self-loops, parallel edges and cycles are allowed.
func (g *Graph) AddEdge(from, to NodeID, cost float64) error {
	src, ok := g.Node(from)
	if !ok {
		return &GraphError{Op: "AddEdge", NodeID: from, Cause: ErrNodeNotFound}
	}
	if !g.Has(to) {
		return &GraphError{Op: "AddEdge", NodeID: to, Cause: ErrNodeNotFound}
	}
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
		return &GraphError{Op: "AddEdge", NodeID: from, Cause: fmt.Errorf("%w: got %v", ErrInvalidCost, cost)}
	}

	src.Connections = append(src.Connections, Edge{Target: to, Cost: cost})
	g.edgeCount++
	return nil
}

// Node returns the node for id.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	if g == nil || id == NoNode || uint64(id) > uint64(len(g.nodes)) {
		return nil, false
	}
	return g.nodes[id-1], true
}

// Has reports whether id belongs to g.
func (g *Graph) Has(id NodeID) bool {
	_, ok := g.Node(id)
	return ok
}

// Outgoing returns id's edges in insertion order, or nil for unknown ids.
// The returned slice is shared with the graph and must not be modified.
func (g *Graph) Outgoing(id NodeID) []Edge {
	n, ok := g.Node(id)
	if !ok {
		return nil
	}
	return n.Connections
}

// Nodes returns every handle in ascending order.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, len(g.nodes))
	for i := range g.nodes {
		ids[i] = NodeID(i + 1)
	}
	return ids
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	if g == nil {
		return 0
	}
	return g.edgeCount
}

// ResetSearchState clears GScore and Previous on every node so an in-place
// search starts from a clean graph.
func (g *Graph) ResetSearchState() {
	for _, n := range g.nodes {
		n.GScore = 0
		n.Previous = NoNode
	}
}
