package interview

import (
	"errors"
	"fmt"

	"github.com/tailored-agentic-units/interview/orchestrate/state"
)

// Sentinel errors returned by the Machine.
var (
	// ErrInvalidResumption reports an operation the session's phase does not
	// accept. The session is left unchanged.
	ErrInvalidResumption = errors.New("invalid resumption")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionActive     = errors.New("session already in progress")
	ErrEmptyTopic        = errors.New("topic cannot be empty")
	ErrInvalidTransition = errors.New("invalid phase transition")
)

// StepError reports a step failure with enough detail to retry: the thread
// and the step that failed. The session snapshot is left at its pre-call
// value.
type StepError struct {
	ThreadID string
	Step     string
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("session %s: step %s failed: %v", e.ThreadID, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stepError(threadID string, err error) *StepError {
	var execErr *state.ExecutionError
	if errors.As(err, &execErr) {
		return &StepError{ThreadID: threadID, Step: execErr.NodeName, Err: execErr.Err}
	}
	return &StepError{ThreadID: threadID, Err: err}
}
