package graph

import (
	"errors"
	"fmt"
)

var (
	ErrNodeNotFound = errors.New("node not found")
	ErrInvalidCost  = errors.New("edge cost must be a finite, non-negative number")
)

// GraphError records the operation and node that caused a structural error.
type GraphError struct {
	Op     string // e.g. "AddEdge"
	NodeID NodeID // offending node, NoNode if not applicable
	Cause  error
}

func (e *GraphError) Error() string {
	if e.NodeID != NoNode {
		return fmt.Sprintf("%s node %d: %v", e.Op, e.NodeID, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches the cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}
