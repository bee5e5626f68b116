package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/interview/agent"
	"github.com/tailored-agentic-units/interview/assessment"
	"github.com/tailored-agentic-units/interview/core/protocol"
	"github.com/tailored-agentic-units/interview/observability"
	"github.com/tailored-agentic-units/interview/retrieval"
)

// Agent roles. Each step generates with the agent registered for its role.
const (
	RoleContext    = "context"
	RoleQuestion   = "question"
	RoleAssessment = "assessment"
)

// Roles lists every agent role.
var Roles = []string{RoleContext, RoleQuestion, RoleAssessment}

const (
	materialsQuery   = "Information about %s"
	materialsResults = 5
)

// Steps holds the services the step functions call. Each step is a
// transformation from State to Update and never mutates its input.
type Steps struct {
	Agents    map[string]agent.Generator
	Retriever retrieval.Retriever
	Parser    assessment.Parser
	Observer  observability.Observer
}

func (st *Steps) generator(role string) (agent.Generator, error) {
	g, ok := st.Agents[role]
	if !ok || g == nil {
		return nil, fmt.Errorf("%w: no agent for role %s", agent.ErrAgentNotFound, role)
	}
	return g, nil
}

// GatherContext summarizes the assessable areas of the topic and replaces
// Context with the summary. When the session uses materials, retrieved
// passages take the place of the seed context; retrieval failures fall back
// to the seed.
func (st *Steps) GatherContext(ctx context.Context, s State) (Update, error) {
	g, err := st.generator(RoleContext)
	if err != nil {
		return Update{}, err
	}

	seed := s.Context
	if s.UseMaterials && st.Retriever != nil {
		materials, err := st.Retriever.Retrieve(ctx, fmt.Sprintf(materialsQuery, s.Topic), materialsResults)
		switch {
		case err != nil:
			observability.Emit(ctx, st.Observer, EventRetrievalFailed, observability.LevelWarning, eventSource, map[string]any{
				"topic": s.Topic,
				"error": err.Error(),
			})
		case strings.TrimSpace(materials) != "":
			seed = materials
		}
	}
	if strings.TrimSpace(seed) == "" {
		seed = DefaultContext
	}

	summary, err := g.Generate(ctx, contextSystemPrompt, contextPrompt(s.Topic, seed))
	if err != nil {
		return Update{}, err
	}

	return Update{
		Messages: []protocol.Message{protocol.NewMessage(protocol.RoleAssistant, tagContext+summary)},
		Context:  &summary,
	}, nil
}

// GenerateQuestion asks a follow-up when the last assessment needs one and
// the follow-up budget allows it, and a new main question otherwise.
func (st *Steps) GenerateQuestion(ctx context.Context, s State) (Update, error) {
	g, err := st.generator(RoleQuestion)
	if err != nil {
		return Update{}, err
	}

	phase, err := s.Phase.Next(TriggerQuestionGenerated)
	if err != nil {
		return Update{}, err
	}

	followup := s.NeedsFollowup && s.CanFollowup()

	prompt := mainQuestionPrompt(s)
	if followup {
		prompt = followupPrompt(s)
	}

	raw, err := g.Generate(ctx, questionSystemPrompt, prompt)
	if err != nil {
		return Update{}, err
	}
	question := strings.TrimSpace(raw)

	questions, followups := s.QuestionCount+1, 0
	if followup {
		questions, followups = s.QuestionCount, s.FollowupCount+1
	}

	return Update{
		Messages:        []protocol.Message{protocol.NewMessage(protocol.RoleAssistant, tagQuestion+question)},
		CurrentQuestion: &question,
		QuestionCount:   &questions,
		FollowupCount:   &followups,
		NeedsFollowup:   ptr(false),
		Phase:           &phase,
	}, nil
}

// AwaitAnswer is the gate a session suspends before until the candidate
// answers. The answer itself arrives as the resumption input; an empty
// answer completes the session.
func (st *Steps) AwaitAnswer(_ context.Context, s State) (Update, error) {
	if s.CurrentAnswer == "" {
		phase, err := s.Phase.Next(TriggerAnswerEmpty)
		if err != nil {
			return Update{}, err
		}
		return Update{Phase: &phase}, nil
	}

	phase, err := s.Phase.Next(TriggerAnswerSubmitted)
	if err != nil {
		return Update{}, err
	}
	return Update{
		Messages: []protocol.Message{protocol.NewMessage(protocol.RoleUser, tagAnswer+s.CurrentAnswer)},
		Phase:    &phase,
	}, nil
}

// AssessAnswer scores the current answer. A follow-up is only flagged when
// the parsed assessment asks for one and the budget allows it.
func (st *Steps) AssessAnswer(ctx context.Context, s State) (Update, error) {
	g, err := st.generator(RoleAssessment)
	if err != nil {
		return Update{}, err
	}

	phase, err := s.Phase.Next(TriggerAssessed)
	if err != nil {
		return Update{}, err
	}

	raw, err := g.Generate(ctx, assessmentSystemPrompt, assessmentPrompt(s))
	if err != nil {
		return Update{}, err
	}

	parser := st.Parser
	if parser == nil {
		parser = assessment.DefaultParser
	}
	record := parser.Parse(raw)

	return Update{
		Messages:       []protocol.Message{protocol.NewMessage(protocol.RoleAssistant, tagAssessment+raw)},
		LastAssessment: &record,
		NeedsFollowup:  ptr(record.NeedsFollowup && s.CanFollowup()),
		Phase:          &phase,
	}, nil
}

// HITLApproval applies the reviewer's decision, which arrives as the
// resumption input in Decision. Approve and end keep the assessment in the
// session history; reject discards it for re-assessment.
func (st *Steps) HITLApproval(_ context.Context, s State) (Update, error) {
	decision := s.Decision
	if decision == "" {
		decision = ActionApprove
	}

	u := Update{
		Messages: []protocol.Message{protocol.NewMessage(protocol.RoleUser, tagDecision+string(decision))},
		Decision: &decision,
	}

	var trigger Trigger
	switch decision {
	case ActionReject:
		trigger = TriggerRejected
		u.Approved = ptr(false)
	case ActionEndInterview:
		trigger = TriggerEnded
		u.Approved = ptr(true)
		u.NeedsFollowup = ptr(false)
	case ActionApprove:
		trigger = TriggerApproved
		u.Approved = ptr(true)
	default:
		return Update{}, fmt.Errorf("%w: unknown action %q", ErrInvalidResumption, decision)
	}

	if decision != ActionReject && s.LastAssessment != nil {
		u.Assessments = []assessment.Record{s.LastAssessment.Clone()}
	}

	phase, err := s.Phase.Next(trigger)
	if err != nil {
		return Update{}, err
	}
	u.Phase = &phase

	return u, nil
}
