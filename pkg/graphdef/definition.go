// Package graphdef reads graph definition documents: a list of named nodes
// with optional coordinates and a list of weighted directed edges between
// them. Definitions are inputs only and are never written back.
package graphdef

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-pathfinder/pkg/graph"
	"github.com/dd0wney/cluso-pathfinder/pkg/validation"
	"github.com/dd0wney/cluso-pathfinder/pkg/visualization"
)

var (
	ErrDuplicateNode = errors.New("duplicate node name")
	ErrUnknownNode   = errors.New("edge references unknown node")
	ErrInvalidNode   = errors.New("invalid node")
	ErrInvalidEdge   = errors.New("invalid edge")
)

// Placement canvas for nodes given without coordinates.
const (
	CanvasWidth   = 1600
	CanvasHeight  = 800
	CanvasPadding = 100
)

// Definition is the YAML document.
type Definition struct {
	Nodes []NodeDef `yaml:"nodes" validate:"required,min=1,dive"`
	Edges []EdgeDef `yaml:"edges" validate:"dive"`
}

// NodeDef describes one node. X and Y are optional; nodes missing either are
// placed on a circle.
type NodeDef struct {
	Name string   `yaml:"name" validate:"required"`
	X    *float64 `yaml:"x"`
	Y    *float64 `yaml:"y"`
}

// EdgeDef describes one directed edge.
type EdgeDef struct {
	From string  `yaml:"from" validate:"required"`
	To   string  `yaml:"to" validate:"required"`
	Cost float64 `yaml:"cost" validate:"gte=0"`
}

// DefinitionError locates a problem within a definition.
type DefinitionError struct {
	Section string // "nodes" or "edges"
	Index   int
	Cause   error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("%s[%d]: %v", e.Section, e.Index, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *DefinitionError) Unwrap() error {
	return e.Cause
}

// Parse decodes and validates a YAML definition. Unknown keys are rejected.
func Parse(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("decode graph definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Load reads and parses the definition at path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph definition: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Validate checks struct constraints, node names, edge costs, name
// uniqueness and that every edge endpoint names a defined node.
func (d *Definition) Validate() error {
	if err := validation.ValidateStruct(d); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(d.Nodes))
	for i, n := range d.Nodes {
		if err := validation.ValidateNodeName(n.Name); err != nil {
			return &DefinitionError{Section: "nodes", Index: i, Cause: fmt.Errorf("%w: %v", ErrInvalidNode, err)}
		}
		if _, dup := seen[n.Name]; dup {
			return &DefinitionError{Section: "nodes", Index: i, Cause: fmt.Errorf("%w: %q", ErrDuplicateNode, n.Name)}
		}
		seen[n.Name] = struct{}{}
	}

	for i, e := range d.Edges {
		if err := validation.ValidateCost(e.Cost); err != nil {
			return &DefinitionError{Section: "edges", Index: i, Cause: fmt.Errorf("%w: %v", ErrInvalidEdge, err)}
		}
		for _, name := range []string{e.From, e.To} {
			if _, ok := seen[name]; !ok {
				return &DefinitionError{Section: "edges", Index: i, Cause: fmt.Errorf("%w: %q", ErrUnknownNode, name)}
			}
		}
	}
	return nil
}

// Built is a graph assembled from a definition plus the name mapping.
type Built struct {
	Graph *graph.Graph
	IDs   map[string]graph.NodeID
	Names map[graph.NodeID]string
}

// Lookup returns the handle for name, or graph.NoNode if there is none.
func (b *Built) Lookup(name string) graph.NodeID {
	return b.IDs[name]
}

// Build validates d and assembles the graph. Nodes are added in document
// order, so the i-th node gets handle i+1, and each node's edges keep their
// document order.
func (d *Definition) Build() (*Built, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var unplaced []graph.NodeID
	b := &Built{
		Graph: graph.New(),
		IDs:   make(map[string]graph.NodeID, len(d.Nodes)),
		Names: make(map[graph.NodeID]string, len(d.Nodes)),
	}

	for _, n := range d.Nodes {
		var pos graph.Position
		placed := n.X != nil && n.Y != nil
		if placed {
			pos = graph.Position{X: *n.X, Y: *n.Y}
		}
		id := b.Graph.AddNode(pos)
		b.IDs[n.Name] = id
		b.Names[id] = n.Name
		if !placed {
			unplaced = append(unplaced, id)
		}
	}

	if len(unplaced) > 0 {
		layout := visualization.NewCircularLayout(visualization.LayoutConfig{
			Width:   CanvasWidth,
			Height:  CanvasHeight,
			Padding: CanvasPadding,
		})
		for id, pos := range layout.ComputeLayout(unplaced) {
			n, _ := b.Graph.Node(id)
			n.Position = pos
		}
	}

	for i, e := range d.Edges {
		if err := b.Graph.AddEdge(b.IDs[e.From], b.IDs[e.To], e.Cost); err != nil {
			return nil, &DefinitionError{Section: "edges", Index: i, Cause: err}
		}
	}

	return b, nil
}
