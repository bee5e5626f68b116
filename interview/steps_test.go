package interview_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tailored-agentic-units/interview/agent"
	"github.com/tailored-agentic-units/interview/agent/mock"
	"github.com/tailored-agentic-units/interview/assessment"
	"github.com/tailored-agentic-units/interview/interview"
	"github.com/tailored-agentic-units/interview/observability"
	"github.com/tailored-agentic-units/interview/retrieval"
)

const (
	followupAssessment = `SCORE: 40
FEEDBACK: The answer is incomplete.
STRENGTHS: honest
WEAKNESSES: no detail, no example
NEEDS_FOLLOWUP: YES`

	solidAssessment = `SCORE: 90
FEEDBACK: Clear and precise.
STRENGTHS: clear, precise
WEAKNESSES: brief
NEEDS_FOLLOWUP: NO`
)

func newSteps(g agent.Generator) *interview.Steps {
	return &interview.Steps{
		Agents: map[string]agent.Generator{
			interview.RoleContext:    g,
			interview.RoleQuestion:   g,
			interview.RoleAssessment: g,
		},
		Observer: observability.NoOpObserver{},
	}
}

func TestSteps_GatherContext(t *testing.T) {
	tests := []struct {
		name         string
		seed         string
		useMaterials bool
		retriever    retrieval.Retriever
		wantInPrompt string
	}{
		{
			name:         "empty seed uses general knowledge",
			wantInPrompt: interview.DefaultContext,
		},
		{
			name:         "seed context",
			seed:         "Sorted arrays only.",
			wantInPrompt: "Sorted arrays only.",
		},
		{
			name:         "materials replace seed",
			seed:         "Sorted arrays only.",
			useMaterials: true,
			retriever: retrieval.RetrieverFunc(func(_ context.Context, query string, n int) (string, error) {
				return "retrieved: " + query, nil
			}),
			wantInPrompt: "retrieved: Information about Binary search",
		},
		{
			name:         "empty retrieval keeps seed",
			seed:         "Sorted arrays only.",
			useMaterials: true,
			retriever: retrieval.RetrieverFunc(func(context.Context, string, int) (string, error) {
				return "", nil
			}),
			wantInPrompt: "Sorted arrays only.",
		},
		{
			name:         "retrieval failure falls back",
			useMaterials: true,
			retriever: retrieval.RetrieverFunc(func(context.Context, string, int) (string, error) {
				return "", errors.New("vector store offline")
			}),
			wantInPrompt: interview.DefaultContext,
		},
		{
			name: "materials ignored when not requested",
			retriever: retrieval.RetrieverFunc(func(context.Context, string, int) (string, error) {
				return "should not appear", nil
			}),
			wantInPrompt: interview.DefaultContext,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mock.New("  Key areas: midpoint, bounds.  ")
			steps := newSteps(g)
			steps.Retriever = tt.retriever

			s := interview.NewState("Binary search", tt.seed, 1, tt.useMaterials)
			u, err := steps.GatherContext(context.Background(), s)
			if err != nil {
				t.Fatalf("GatherContext failed: %v", err)
			}

			calls := g.Calls()
			if len(calls) != 1 {
				t.Fatalf("expected 1 call, got %d", len(calls))
			}
			if !strings.Contains(calls[0].System, "Document Analyst") {
				t.Errorf("system prompt = %q", calls[0].System)
			}
			if !strings.Contains(calls[0].Prompt, tt.wantInPrompt) {
				t.Errorf("prompt %q does not contain %q", calls[0].Prompt, tt.wantInPrompt)
			}
			if !strings.Contains(calls[0].Prompt, "Topic: Binary search") {
				t.Errorf("prompt missing topic: %q", calls[0].Prompt)
			}

			next := s.Apply(u)
			if next.Context != "Key areas: midpoint, bounds." {
				t.Errorf("Context = %q", next.Context)
			}
			if len(next.Messages) != 1 || next.Messages[0].Content != "[Context Analysis] Key areas: midpoint, bounds." {
				t.Errorf("Messages = %+v", next.Messages)
			}
		})
	}
}

func TestSteps_GatherContext_RetrievalArguments(t *testing.T) {
	var gotQuery string
	var gotN int
	steps := newSteps(mock.New("summary"))
	steps.Retriever = retrieval.RetrieverFunc(func(_ context.Context, query string, n int) (string, error) {
		gotQuery, gotN = query, n
		return "materials", nil
	})

	if _, err := steps.GatherContext(context.Background(), interview.NewState("Graphs", "", 1, true)); err != nil {
		t.Fatalf("GatherContext failed: %v", err)
	}
	if gotQuery != "Information about Graphs" || gotN != 5 {
		t.Errorf("Retrieve(%q, %d), want (\"Information about Graphs\", 5)", gotQuery, gotN)
	}
}

func TestSteps_GenerateQuestion(t *testing.T) {
	tests := []struct {
		name          string
		state         interview.State
		wantQuestions int
		wantFollowups int
		wantFollowup  bool
	}{
		{
			name:          "first main question",
			state:         interview.State{Topic: "t", MaxFollowups: 1, Phase: interview.PhaseIdle},
			wantQuestions: 1,
			wantFollowups: 0,
		},
		{
			name: "follow-up",
			state: interview.State{
				Topic: "t", MaxFollowups: 1, QuestionCount: 1, NeedsFollowup: true,
				CurrentAnswer: "I don't know", Phase: interview.PhaseIdle,
			},
			wantQuestions: 1,
			wantFollowups: 1,
			wantFollowup:  true,
		},
		{
			name: "follow-up budget spent",
			state: interview.State{
				Topic: "t", MaxFollowups: 1, QuestionCount: 1, FollowupCount: 1, NeedsFollowup: true,
				Phase: interview.PhaseIdle,
			},
			wantQuestions: 2,
			wantFollowups: 0,
		},
		{
			name: "main question resets follow-ups",
			state: interview.State{
				Topic: "t", MaxFollowups: 3, QuestionCount: 2, FollowupCount: 2,
				Phase: interview.PhaseIdle,
			},
			wantQuestions: 3,
			wantFollowups: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mock.NewHandler(func(context.Context, string, string) (string, error) {
				return "\n  What is the loop invariant?  \n", nil
			})
			steps := newSteps(g)

			u, err := steps.GenerateQuestion(context.Background(), tt.state)
			if err != nil {
				t.Fatalf("GenerateQuestion failed: %v", err)
			}
			next := tt.state.Apply(u)

			if next.CurrentQuestion != "What is the loop invariant?" {
				t.Errorf("CurrentQuestion = %q", next.CurrentQuestion)
			}
			if next.QuestionCount != tt.wantQuestions || next.FollowupCount != tt.wantFollowups {
				t.Errorf("counts = (%d, %d), want (%d, %d)",
					next.QuestionCount, next.FollowupCount, tt.wantQuestions, tt.wantFollowups)
			}
			if next.NeedsFollowup {
				t.Error("NeedsFollowup not reset")
			}
			if next.Phase != interview.PhaseAwaitingAnswer {
				t.Errorf("Phase = %s", next.Phase)
			}

			prompt := g.Calls()[0].Prompt
			if tt.wantFollowup {
				if !strings.Contains(prompt, `"I don't know"`) {
					t.Errorf("follow-up prompt missing previous answer: %q", prompt)
				}
			} else if !strings.Contains(prompt, "Questions asked so far:") {
				t.Errorf("main prompt missing question count: %q", prompt)
			}
		})
	}
}

func TestSteps_AssessAnswer(t *testing.T) {
	tests := []struct {
		name         string
		response     string
		followups    int
		wantFollowup bool
		wantScore    int
	}{
		{name: "follow-up requested", response: followupAssessment, wantFollowup: true, wantScore: 40},
		{name: "follow-up budget spent", response: followupAssessment, followups: 1, wantFollowup: false, wantScore: 40},
		{name: "no follow-up", response: solidAssessment, wantFollowup: false, wantScore: 90},
		{name: "malformed", response: "Looks fine to me.", wantFollowup: false, wantScore: 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mock.New(tt.response)
			steps := newSteps(g)

			s := interview.State{
				Topic: "Binary search", CurrentQuestion: "Q?", CurrentAnswer: "A.",
				MaxFollowups: 1, FollowupCount: tt.followups, Phase: interview.PhaseAssessing,
			}
			u, err := steps.AssessAnswer(context.Background(), s)
			if err != nil {
				t.Fatalf("AssessAnswer failed: %v", err)
			}
			next := s.Apply(u)

			if next.LastAssessment == nil || next.LastAssessment.Score != tt.wantScore {
				t.Fatalf("LastAssessment = %+v", next.LastAssessment)
			}
			if next.NeedsFollowup != tt.wantFollowup {
				t.Errorf("NeedsFollowup = %v, want %v", next.NeedsFollowup, tt.wantFollowup)
			}
			if next.Phase != interview.PhaseAwaitingApproval || !next.AwaitingApproval() {
				t.Errorf("Phase = %s", next.Phase)
			}
			if len(next.Assessments) != 0 {
				t.Error("assessment recorded before review")
			}

			call := g.Calls()[0]
			if !strings.Contains(call.System, "Performance Critic") {
				t.Errorf("system prompt = %q", call.System)
			}
			for _, want := range []string{"Question: Q?", "Candidate's Answer: A.", "Topic Context: Binary search"} {
				if !strings.Contains(call.Prompt, want) {
					t.Errorf("prompt missing %q", want)
				}
			}
		})
	}
}

type fixedParser assessment.Record

func (p fixedParser) Parse(string) assessment.Record {
	return assessment.Record(p)
}

func TestSteps_AssessAnswer_CustomParser(t *testing.T) {
	steps := newSteps(mock.New("anything"))
	steps.Parser = fixedParser{Score: 12}

	s := interview.State{Phase: interview.PhaseAssessing}
	u, err := steps.AssessAnswer(context.Background(), s)
	if err != nil {
		t.Fatalf("AssessAnswer failed: %v", err)
	}
	if u.LastAssessment.Score != 12 {
		t.Errorf("Score = %d, want 12", u.LastAssessment.Score)
	}
}

func TestSteps_HITLApproval(t *testing.T) {
	record := &assessment.Record{Score: 40, NeedsFollowup: true}

	tests := []struct {
		decision        interview.Action
		wantApproved    bool
		wantFollowup    bool
		wantPhase       interview.Phase
		wantAssessments int
	}{
		{interview.ActionApprove, true, true, interview.PhaseIdle, 1},
		{"", true, true, interview.PhaseIdle, 1},
		{interview.ActionReject, false, true, interview.PhaseAssessing, 0},
		{interview.ActionEndInterview, true, false, interview.PhaseCompleted, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.decision), func(t *testing.T) {
			steps := newSteps(mock.New())
			s := interview.State{
				Approved:       true,
				NeedsFollowup:  true,
				LastAssessment: record,
				Decision:       tt.decision,
				Phase:          interview.PhaseAwaitingApproval,
			}

			u, err := steps.HITLApproval(context.Background(), s)
			if err != nil {
				t.Fatalf("HITLApproval failed: %v", err)
			}
			next := s.Apply(u)

			if next.Approved != tt.wantApproved {
				t.Errorf("Approved = %v, want %v", next.Approved, tt.wantApproved)
			}
			if next.NeedsFollowup != tt.wantFollowup {
				t.Errorf("NeedsFollowup = %v, want %v", next.NeedsFollowup, tt.wantFollowup)
			}
			if next.Phase != tt.wantPhase {
				t.Errorf("Phase = %s, want %s", next.Phase, tt.wantPhase)
			}
			if len(next.Assessments) != tt.wantAssessments {
				t.Errorf("Assessments = %d, want %d", len(next.Assessments), tt.wantAssessments)
			}
		})
	}
}

func TestSteps_HITLApproval_UnknownAction(t *testing.T) {
	steps := newSteps(mock.New())
	s := interview.State{Decision: "skip", Phase: interview.PhaseAwaitingApproval}

	if _, err := steps.HITLApproval(context.Background(), s); !errors.Is(err, interview.ErrInvalidResumption) {
		t.Errorf("expected ErrInvalidResumption, got %v", err)
	}
}

func TestSteps_MissingAgent(t *testing.T) {
	steps := &interview.Steps{Agents: map[string]agent.Generator{}}

	_, err := steps.GenerateQuestion(context.Background(), interview.State{Phase: interview.PhaseIdle})
	if !errors.Is(err, agent.ErrAgentNotFound) {
		t.Errorf("expected ErrAgentNotFound, got %v", err)
	}
}
