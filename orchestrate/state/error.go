package state

import (
	"errors"
	"fmt"
)

// ErrNoTransition is wrapped by ExecutionError when a node has no edge or
// route that applies to the current state.
var ErrNoTransition = errors.New("no valid transition")

// ExecutionError captures context when graph execution fails.
//
//   - NodeName: which node failed
//   - Path: nodes executed in this run, including the failing one
//   - Err: underlying error from the node or from routing
type ExecutionError struct {
	NodeName string
	Path     []string
	Err      error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution failed at node %s: %v", e.NodeName, e.Err)
}

// Unwrap enables error unwrapping for errors.Is and errors.As.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}
