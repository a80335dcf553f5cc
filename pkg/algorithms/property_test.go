package algorithms

import (
	"math"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-pathfinder/pkg/graph"
)

// randomGraph builds a small graph with integer costs in [0, 9]. Cycles,
// self-loops and parallel edges all occur.
func randomGraph(seed int64, size int) *graph.Graph {
	rng := rand.New(rand.NewSource(seed))
	g := graph.New()
	for i := 0; i < size; i++ {
		g.AddNode(graph.Position{X: float64(i)})
	}

	edges := rng.Intn(size * 3)
	for i := 0; i < edges; i++ {
		from := graph.NodeID(rng.Intn(size) + 1)
		to := graph.NodeID(rng.Intn(size) + 1)
		_ = g.AddEdge(from, to, float64(rng.Intn(10)))
	}
	return g
}

// bruteForceCost enumerates every simple path from start to goal and returns
// the cheapest cost, or false when none exists.
func bruteForceCost(g *graph.Graph, start, goal graph.NodeID) (float64, bool) {
	best := math.Inf(1)
	onPath := make(map[graph.NodeID]bool)

	var walk func(id graph.NodeID, cost float64)
	walk = func(id graph.NodeID, cost float64) {
		if id == goal {
			best = math.Min(best, cost)
			return
		}
		onPath[id] = true
		for _, e := range g.Outgoing(id) {
			if !onPath[e.Target] {
				walk(e.Target, cost+e.Cost)
			}
		}
		onPath[id] = false
	}
	walk(start, 0)

	return best, !math.IsInf(best, 1)
}

// TestSearchProperties checks search results against exhaustive enumeration
// on random small graphs.
func TestSearchProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	endpoints := func(size, a, b int) (graph.NodeID, graph.NodeID) {
		return graph.NodeID(a%size + 1), graph.NodeID(b%size + 1)
	}

	properties.Property("strict ordering finds optimal paths", prop.ForAll(
		func(seed int64, size, a, b int) bool {
			g := randomGraph(seed, size)
			start, goal := endpoints(size, a, b)

			res := FindPath(g, start, goal, WithStrictOrdering())
			want, reachable := bruteForceCost(g, start, goal)

			if !reachable {
				return res.Status == StatusUnreachable
			}
			return res.Status == StatusFound && res.Cost == want
		},
		gen.Int64(),
		gen.IntRange(1, 7),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.Property("in-place paths are contiguous and cost their goal gScore", prop.ForAll(
		func(seed int64, size, a, b int) bool {
			g := randomGraph(seed, size)
			start, goal := endpoints(size, a, b)

			path := DijkstraSearch(g, start, goal)
			want, reachable := bruteForceCost(g, start, goal)

			if !reachable {
				return len(path) == 1 && path[0] == goal
			}
			if path[0] != start || path[len(path)-1] != goal {
				return false
			}
			cost, ok := PathCost(g, path)
			n, _ := g.Node(goal)
			return ok && cost == n.GScore && cost >= want
		},
		gen.Int64(),
		gen.IntRange(1, 7),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.Property("external-state search matches in-place search", prop.ForAll(
		func(seed int64, size, a, b int) bool {
			g := randomGraph(seed, size)
			start, goal := endpoints(size, a, b)

			res := FindPath(g, start, goal)
			path := DijkstraSearch(g, start, goal)

			if res.Status == StatusUnreachable {
				return len(path) == 1 && path[0] == goal
			}
			n, _ := g.Node(goal)
			return equalPaths(res.Path, path) && res.Cost == n.GScore
		},
		gen.Int64(),
		gen.IntRange(1, 7),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.Property("repeated in-place searches are identical", prop.ForAll(
		func(seed int64, size, a, b int) bool {
			g := randomGraph(seed, size)
			start, goal := endpoints(size, a, b)

			first := DijkstraSearch(g, start, goal)
			firstScores := make([]float64, len(first))
			for i, id := range first {
				n, _ := g.Node(id)
				firstScores[i] = n.GScore
			}

			second := DijkstraSearch(g, start, goal)
			if !equalPaths(first, second) {
				return false
			}
			for i, id := range second {
				n, _ := g.Node(id)
				if n.GScore != firstScores[i] {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(1, 7),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.Property("expansions are bounded by node count", prop.ForAll(
		func(seed int64, size, a int) bool {
			g := randomGraph(seed, size)
			start, _ := endpoints(size, a, 0)

			expanded := 0
			CostsFrom(g, start, WithOnExpand(func(graph.NodeID, float64) { expanded++ }))
			return expanded <= g.Len()
		},
		gen.Int64(),
		gen.IntRange(1, 7),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
