package interview

import (
	"slices"
	"strings"

	"github.com/tailored-agentic-units/interview/assessment"
	"github.com/tailored-agentic-units/interview/core/protocol"
)

// DefaultContext replaces an empty seed context.
const DefaultContext = "No materials provided. Use general knowledge."

// State is the record threaded through every step of one interview thread.
// Steps never modify a State; they return an Update that Apply merges.
type State struct {
	// Messages is an append-only audit log. Control flow never reads it.
	Messages []protocol.Message `json:"messages"`

	Topic        string `json:"topic"`
	Context      string `json:"context"`
	UseMaterials bool   `json:"use_materials,omitempty"`
	MaxFollowups int    `json:"max_followups"`

	CurrentQuestion string `json:"current_question"`
	QuestionCount   int    `json:"question_count"`
	FollowupCount   int    `json:"followup_count"`

	CurrentAnswer  string             `json:"current_answer"`
	LastAssessment *assessment.Record `json:"last_assessment,omitempty"`

	// Assessments holds every assessment a reviewer accepted.
	Assessments []assessment.Record `json:"assessments"`

	NeedsFollowup bool   `json:"needs_followup"`
	Approved      bool   `json:"approved"`
	Decision      Action `json:"decision,omitempty"`
	Phase         Phase  `json:"phase"`
}

// NewState creates the state of a session that has not run yet.
func NewState(topic, context string, maxFollowups int, useMaterials bool) State {
	return State{
		Messages:     []protocol.Message{},
		Topic:        topic,
		Context:      strings.TrimSpace(context),
		UseMaterials: useMaterials,
		MaxFollowups: max(maxFollowups, 0),
		Assessments:  []assessment.Record{},
		Approved:     true,
		Phase:        PhaseIdle,
	}
}

// AwaitingApproval reports whether a human decision is pending.
func (s State) AwaitingApproval() bool {
	return s.Phase == PhaseAwaitingApproval
}

// IsFollowup reports whether the current question is a follow-up.
func (s State) IsFollowup() bool {
	return s.FollowupCount > 0
}

// CanFollowup reports whether another follow-up fits under MaxFollowups.
func (s State) CanFollowup() bool {
	return s.FollowupCount < s.MaxFollowups
}

// Update is a partial State produced by one step. Nil pointer fields are
// left unchanged; Messages and Assessments are appended.
type Update struct {
	Messages    []protocol.Message
	Assessments []assessment.Record

	Context         *string
	CurrentQuestion *string
	QuestionCount   *int
	FollowupCount   *int
	CurrentAnswer   *string
	LastAssessment  *assessment.Record
	NeedsFollowup   *bool
	Approved        *bool
	Decision        *Action
	Phase           *Phase
}

// Apply merges u into a copy of s. The receiver is not modified and the
// result shares no slices with it.
func (s State) Apply(u Update) State {
	next := s
	next.Messages = slices.Concat(s.Messages, u.Messages)
	next.Assessments = make([]assessment.Record, 0, len(s.Assessments)+len(u.Assessments))
	for _, r := range slices.Concat(s.Assessments, u.Assessments) {
		next.Assessments = append(next.Assessments, r.Clone())
	}
	if s.LastAssessment != nil {
		next.LastAssessment = ptr(s.LastAssessment.Clone())
	}

	set(&next.Context, u.Context)
	set(&next.CurrentQuestion, u.CurrentQuestion)
	set(&next.QuestionCount, u.QuestionCount)
	set(&next.FollowupCount, u.FollowupCount)
	set(&next.CurrentAnswer, u.CurrentAnswer)
	set(&next.NeedsFollowup, u.NeedsFollowup)
	set(&next.Approved, u.Approved)
	set(&next.Decision, u.Decision)
	set(&next.Phase, u.Phase)
	if u.LastAssessment != nil {
		next.LastAssessment = ptr(u.LastAssessment.Clone())
	}

	return next
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func ptr[T any](v T) *T {
	return &v
}
