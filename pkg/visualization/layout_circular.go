package visualization

import (
	"math"

	"github.com/dd0wney/cluso-pathfinder/pkg/graph"
)

// CircularLayout arranges nodes in a circle
type CircularLayout struct {
	config LayoutConfig
}

// NewCircularLayout creates a circular layout. A zero Padding defaults to 50.
func NewCircularLayout(config LayoutConfig) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config}
}

// ComputeLayout places ids evenly on a circle centred on the canvas, in the
// order given, starting at angle 0.
func (cl *CircularLayout) ComputeLayout(ids []graph.NodeID) map[graph.NodeID]graph.Position {
	positions := make(map[graph.NodeID]graph.Position, len(ids))
	if len(ids) == 0 {
		return positions
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	radius := math.Max(0, math.Min(centerX, centerY)-cl.config.Padding)

	angleStep := 2 * math.Pi / float64(len(ids))
	for i, id := range ids {
		angle := float64(i) * angleStep
		positions[id] = graph.Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}

	return positions
}
