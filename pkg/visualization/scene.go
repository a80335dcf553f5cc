package visualization

import (
	"strconv"

	"github.com/dd0wney/cluso-pathfinder/pkg/graph"
)

// Project builds the renderer's view of g: every node with its position and
// rounded gScore label, every edge with its endpoints, midpoint and rounded
// cost label. Nodes and edges on path are flagged. gScores come from the
// nodes themselves (in-place search); pass scores to override them, e.g. with
// algorithms.Result.GScores. names may be nil.
func Project(g *graph.Graph, path []graph.NodeID, scores map[graph.NodeID]float64, names map[graph.NodeID]string) Scene {
	onPath := make(map[graph.NodeID]int, len(path))
	for i, id := range path {
		onPath[id] = i
	}

	scene := Scene{
		Nodes: make([]NodeView, 0, g.Len()),
		Edges: make([]EdgeView, 0, g.EdgeCount()),
		Path:  append([]graph.NodeID(nil), path...),
	}

	for _, id := range g.Nodes() {
		n, _ := g.Node(id)

		score := n.GScore
		if scores != nil {
			score = scores[id]
		}
		_, inPath := onPath[id]

		scene.Nodes = append(scene.Nodes, NodeView{
			ID:       id,
			Name:     names[id],
			Position: n.Position,
			Label:    formatLabel(score),
			OnPath:   inPath,
		})

		for _, e := range n.Connections {
			target, _ := g.Node(e.Target)
			scene.Edges = append(scene.Edges, EdgeView{
				From:     id,
				To:       e.Target,
				FromPos:  n.Position,
				ToPos:    target.Position,
				LabelPos: midpoint(n.Position, target.Position),
				Label:    formatLabel(e.Cost),
				OnPath:   consecutive(onPath, path, id, e.Target),
			})
		}
	}

	return scene
}

// formatLabel renders v with no decimals, like "%.0f", into a fresh buffer.
func formatLabel(v float64) string {
	buf := make([]byte, 0, 12)
	return string(strconv.AppendFloat(buf, v, 'f', 0, 64))
}

func midpoint(a, b graph.Position) graph.Position {
	return graph.Position{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// consecutive reports whether from is immediately followed by to in path.
func consecutive(index map[graph.NodeID]int, path []graph.NodeID, from, to graph.NodeID) bool {
	i, ok := index[from]
	return ok && i+1 < len(path) && path[i+1] == to
}
