package state

import "time"

// Checkpoint is a resumable position in a graph: the node execution continues
// at and the state it continues with. Checkpoints are plain values; storing
// them is up to the caller.
type Checkpoint[S any] struct {
	Node      string    `json:"node"`
	State     S         `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

// Result is the outcome of Execute or Resume.
type Result[S any] struct {
	// State is the state after the last executed node.
	State S

	// Next is the node the run stopped before. Empty when the run reached End.
	Next string

	// Path lists the nodes executed in this run.
	Path []string
}

// Interrupted reports whether the run stopped at an interrupt rather than End.
func (r Result[S]) Interrupted() bool {
	return r.Next != ""
}

// Checkpoint returns the position to hand to Resume. It is only meaningful
// for interrupted runs.
func (r Result[S]) Checkpoint() Checkpoint[S] {
	return Checkpoint[S]{
		Node:      r.Next,
		State:     r.State,
		Timestamp: time.Now(),
	}
}
