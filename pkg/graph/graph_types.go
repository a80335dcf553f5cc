package graph

// NodeID is a stable handle into a Graph's node arena.
// Handles start at 1; the zero value is NoNode.
type NodeID uint64

// NoNode is the absent node reference.
const NoNode NodeID = 0

// Position represents a 2D coordinate. It is carried for renderers only and
// plays no part in path search.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Edge is a directed, weighted connection to Target. Edges belong to their
// source node; Target is a plain handle and owns nothing.
type Edge struct {
	Target NodeID
	Cost   float64
}

// Node is a vertex in the arena.
//
// GScore and Previous are written by in-place searches only. GScore is the
// best known cost from the last search's start node, Previous the predecessor
// on that path (NoNode for the start node and for nodes never reached).
type Node struct {
	ID          NodeID
	Position    Position
	GScore      float64
	Previous    NodeID
	Connections []Edge
}

// Graph is an arena of nodes addressed by NodeID.
//
// Graph does no locking. Structural mutation and in-place searches must be
// serialized by the caller; read-only use from several goroutines is safe.
type Graph struct {
	nodes     []*Node // index i holds NodeID i+1
	edgeCount int
}
