package interview

import (
	"fmt"

	"github.com/tailored-agentic-units/interview/session"
)

// Phase is the explicit lifecycle state of a session.
type Phase string

const (
	// PhaseIdle means no external input is pending: a new session, or an
	// approved assessment whose next question is being generated.
	PhaseIdle             Phase = "idle"
	PhaseAwaitingAnswer   Phase = "awaiting_answer"
	PhaseAssessing        Phase = "assessing"
	PhaseAwaitingApproval Phase = "awaiting_approval"
	PhaseCompleted        Phase = "completed"
)

// Trigger names an event that moves a session between phases.
type Trigger string

const (
	TriggerQuestionGenerated Trigger = "question_generated"
	TriggerAnswerSubmitted   Trigger = "answer_submitted"
	TriggerAnswerEmpty       Trigger = "answer_empty"
	TriggerAssessed          Trigger = "assessed"
	TriggerApproved          Trigger = "approved"
	TriggerRejected          Trigger = "rejected"
	TriggerEnded             Trigger = "ended"
	TriggerFinalized         Trigger = "finalized"
)

var transitions = map[Phase]map[Trigger]Phase{
	PhaseIdle: {
		TriggerQuestionGenerated: PhaseAwaitingAnswer,
		TriggerFinalized:         PhaseCompleted,
	},
	PhaseAwaitingAnswer: {
		TriggerAnswerSubmitted: PhaseAssessing,
		TriggerAnswerEmpty:     PhaseCompleted,
		TriggerFinalized:       PhaseCompleted,
	},
	PhaseAssessing: {
		TriggerAssessed:  PhaseAwaitingApproval,
		TriggerFinalized: PhaseCompleted,
	},
	PhaseAwaitingApproval: {
		TriggerApproved:  PhaseIdle,
		TriggerRejected:  PhaseAssessing,
		TriggerEnded:     PhaseCompleted,
		TriggerFinalized: PhaseCompleted,
	},
}

// Next returns the phase t leads to from p, or ErrInvalidTransition.
func (p Phase) Next(t Trigger) (Phase, error) {
	if next, ok := transitions[p][t]; ok {
		return next, nil
	}
	return p, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, p, t)
}

// Status maps the phase to the status reported to clients.
func (p Phase) Status() session.Status {
	switch p {
	case PhaseAwaitingAnswer:
		return session.StatusAwaitingAnswer
	case PhaseAssessing:
		return session.StatusAssessing
	case PhaseAwaitingApproval:
		return session.StatusInProgress
	case PhaseCompleted:
		return session.StatusCompleted
	default:
		return session.StatusPending
	}
}
