package state

import "context"

// Node represents a computation step in a state graph.
//
// Nodes receive the current state, perform computation or service calls, and
// return an update. They never mutate the state they are given.
type Node[S, U any] interface {
	// Execute computes the update for s. Context enables cancellation.
	Execute(ctx context.Context, s S) (U, error)
}

// NodeFunc adapts a function to the Node interface.
//
// Example:
//
//	node := state.NodeFunc[Doc, Patch](func(ctx context.Context, d Doc) (Patch, error) {
//	    summary, err := summarize(ctx, d.Body)
//	    if err != nil {
//	        return Patch{}, err
//	    }
//	    return Patch{Summary: &summary}, nil
//	})
type NodeFunc[S, U any] func(ctx context.Context, s S) (U, error)

// Execute runs the wrapped function with the given state.
func (f NodeFunc[S, U]) Execute(ctx context.Context, s S) (U, error) {
	return f(ctx, s)
}

// Reducer merges an update into a state and returns the new state. It must
// not modify s in place.
type Reducer[S, U any] func(s S, u U) S
