package graphdef

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-pathfinder/pkg/algorithms"
	"github.com/dd0wney/cluso-pathfinder/pkg/graph"
)

func TestReference(t *testing.T) {
	b, err := Reference().Build()
	require.NoError(t, err)

	assert.Equal(t, 6, b.Graph.Len())
	assert.Equal(t, 8, b.Graph.EdgeCount())

	// Document order fixes the handles.
	for i, name := range []string{"A", "B", "C", "D", "E", "F"} {
		assert.Equal(t, graph.NodeID(i+1), b.Lookup(name), name)
		assert.Equal(t, name, b.Names[graph.NodeID(i+1)])
	}

	e, ok := b.Graph.Node(b.Lookup("E"))
	require.True(t, ok)
	assert.Equal(t, graph.Position{X: 375, Y: 600}, e.Position)

	path := algorithms.DijkstraSearch(b.Graph, b.Lookup("A"), b.Lookup("E"))
	names := make([]string, len(path))
	for i, id := range path {
		names[i] = b.Names[id]
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, names)
}

func TestParse_PlacesNodesWithoutCoordinates(t *testing.T) {
	def, err := Parse([]byte(`
nodes:
  - name: fixed
    x: 10
    y: 20
  - name: loose
  - name: half
    x: 3
edges:
  - { from: fixed, to: loose, cost: 1.5 }
`))
	require.NoError(t, err)

	b, err := def.Build()
	require.NoError(t, err)

	fixed, _ := b.Graph.Node(b.Lookup("fixed"))
	assert.Equal(t, graph.Position{X: 10, Y: 20}, fixed.Position)

	// Two unplaced nodes sit opposite each other on the circle.
	loose, _ := b.Graph.Node(b.Lookup("loose"))
	half, _ := b.Graph.Node(b.Lookup("half"))
	assert.InDelta(t, CanvasWidth/2+300, loose.Position.X, 1e-9)
	assert.InDelta(t, CanvasHeight/2, loose.Position.Y, 1e-9)
	assert.InDelta(t, CanvasWidth/2-300, half.Position.X, 1e-9)

	assert.Equal(t, []graph.Edge{{Target: b.Lookup("loose"), Cost: 1.5}}, b.Graph.Outgoing(b.Lookup("fixed")))
	assert.Equal(t, graph.NoNode, b.Lookup("missing"))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		target error
	}{
		{
			name:   "duplicate node",
			doc:    "nodes: [{name: A}, {name: A}]",
			target: ErrDuplicateNode,
		},
		{
			name:   "unknown edge endpoint",
			doc:    "nodes: [{name: A}]\nedges: [{from: A, to: Z, cost: 1}]",
			target: ErrUnknownNode,
		},
		{
			name:   "bad node name",
			doc:    "nodes: [{name: 'two words'}]",
			target: ErrInvalidNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			var defErr *DefinitionError
			assert.ErrorAs(t, err, &defErr)
		})
	}
}

func TestParse_StructErrors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		contains string
	}{
		{"no nodes", "edges: []", "nodes"},
		{"negative cost", "nodes: [{name: A}]\nedges: [{from: A, to: A, cost: -1}]", "cost"},
		{"missing endpoint", "nodes: [{name: A}]\nedges: [{from: A, cost: 1}]", "to"},
		{"unknown key", "nodes: [{name: A, colour: red}]", "colour"},
		{"not yaml", "nodes: [", "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(referenceYAML), 0o600))

	def, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, def.Nodes, 6)
	assert.Len(t, def.Edges, 8)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("nodes: []"), 0o600))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}
