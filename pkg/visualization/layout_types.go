package visualization

import (
	"github.com/dd0wney/cluso-pathfinder/pkg/graph"
)

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width   float64 // Canvas width
	Height  float64 // Canvas height
	Padding float64 // Padding from edges
}

// Layout assigns canvas positions to nodes.
type Layout interface {
	ComputeLayout(ids []graph.NodeID) map[graph.NodeID]graph.Position
}

// NodeView is what a renderer needs to draw one node.
type NodeView struct {
	ID       graph.NodeID   `json:"id"`
	Name     string         `json:"name,omitempty"`
	Position graph.Position `json:"position"`
	Label    string         `json:"label"` // gScore, rounded
	OnPath   bool           `json:"on_path"`
}

// EdgeView is what a renderer needs to draw one edge and its cost label.
type EdgeView struct {
	From     graph.NodeID   `json:"from"`
	To       graph.NodeID   `json:"to"`
	FromPos  graph.Position `json:"from_pos"`
	ToPos    graph.Position `json:"to_pos"`
	LabelPos graph.Position `json:"label_pos"` // segment midpoint
	Label    string         `json:"label"`     // cost, rounded
	OnPath   bool           `json:"on_path"`
}

// Scene is a read-only snapshot of a graph and a path through it.
type Scene struct {
	Nodes []NodeView     `json:"nodes"`
	Edges []EdgeView     `json:"edges"`
	Path  []graph.NodeID `json:"path"`
}
