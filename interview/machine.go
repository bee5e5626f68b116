// Package interview implements the interview practice session state machine.
//
// A session asks a question, waits for the candidate's answer, scores it,
// optionally asks a follow-up, and waits for a human reviewer to approve,
// reject, or end after each scoring step. Sessions suspend between client
// requests; each call resumes the persisted snapshot, runs to the next
// suspension point, and writes the new snapshot once.
//
//	m, err := interview.New(&cfg)
//	turn, err := m.Start(ctx, interview.StartRequest{Topic: "binary search"})
//	turn, err = m.SubmitAnswer(ctx, turn.ThreadID, answer)
//	turn, err = m.Decide(ctx, turn.ThreadID, interview.ActionApprove)
package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/interview/agent"
	"github.com/tailored-agentic-units/interview/assessment"
	"github.com/tailored-agentic-units/interview/memory"
	"github.com/tailored-agentic-units/interview/observability"
	"github.com/tailored-agentic-units/interview/orchestrate/state"
	"github.com/tailored-agentic-units/interview/retrieval"
	"github.com/tailored-agentic-units/interview/session"
)

// Option configures a Machine after config-driven initialization.
// Overrides replace config-created defaults.
type Option func(*Machine)

// WithGenerator uses g for every step role.
func WithGenerator(g agent.Generator) Option {
	return func(m *Machine) {
		for _, role := range Roles {
			m.steps.Agents[role] = g
		}
	}
}

// WithRoleGenerator uses g for a single step role.
func WithRoleGenerator(role string, g agent.Generator) Option {
	return func(m *Machine) { m.steps.Agents[role] = g }
}

// WithStore overrides the config-created session store.
func WithStore(s session.Store) Option {
	return func(m *Machine) { m.store = s }
}

// WithRetriever overrides the materials retriever.
func WithRetriever(r retrieval.Retriever) Option {
	return func(m *Machine) { m.steps.Retriever = r }
}

// WithLibrary overrides the config-created materials library and retrieves
// from it.
func WithLibrary(l *retrieval.Library) Option {
	return func(m *Machine) {
		m.library = l
		if l != nil {
			m.steps.Retriever = l
		}
	}
}

// WithObserver overrides the observer resolved from the graph config.
func WithObserver(o observability.Observer) Option {
	return func(m *Machine) { m.observer = o }
}

// WithParser overrides the assessment parser.
func WithParser(p assessment.Parser) Option {
	return func(m *Machine) { m.steps.Parser = p }
}

// WithIDGenerator overrides how thread ids are generated.
func WithIDGenerator(fn func() string) Option {
	return func(m *Machine) { m.newID = fn }
}

// StartRequest describes a new session.
type StartRequest struct {
	// ThreadID names the session. Empty generates a new id.
	ThreadID     string `json:"thread_id,omitempty"`
	Topic        string `json:"topic"`
	Context      string `json:"context,omitempty"`
	UseMaterials bool   `json:"use_materials,omitempty"`
}

// Turn is the client's view of a session after an operation.
type Turn struct {
	ThreadID       string             `json:"thread_id"`
	Topic          string             `json:"topic"`
	Status         session.Status     `json:"status"`
	Phase          Phase              `json:"phase"`
	Question       string             `json:"question,omitempty"`
	QuestionNumber int                `json:"question_number"`
	IsFollowup     bool               `json:"is_followup"`
	Assessment     *assessment.Record `json:"assessment,omitempty"`
	Approval       *ApprovalRequest   `json:"approval,omitempty"`
}

// Completed reports whether the session has finished.
func (t *Turn) Completed() bool {
	return t.Phase == PhaseCompleted
}

// Summary describes a stored session without its snapshot.
type Summary struct {
	ThreadID  string         `json:"thread_id"`
	Topic     string         `json:"topic"`
	Status    session.Status `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Machine drives interview sessions. It is safe for concurrent use; calls on
// the same thread id are serialized, calls on different threads are not.
type Machine struct {
	graph        *state.Graph[State, Update]
	steps        *Steps
	store        session.Store
	library      *retrieval.Library
	registry     *agent.Registry
	observer     observability.Observer
	maxFollowups int
	locks        *keyedMutex
	newID        func() string
}

// New creates a Machine from configuration. The default agent, the per-role
// agents, the session store and, when enabled, the materials library are
// initialized from their config sections. Options applied after
// initialization can override any of them.
func New(cfg *Config, opts ...Option) (*Machine, error) {
	observer, err := observability.GetObserver(cfg.Graph.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	store, err := session.New(&cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}

	m := &Machine{
		steps: &Steps{
			Agents: make(map[string]agent.Generator, len(Roles)),
			Parser: assessment.DefaultParser,
		},
		store:        store,
		registry:     agent.NewRegistry(),
		observer:     observer,
		maxFollowups: max(cfg.MaxFollowups, 0),
		locks:        newKeyedMutex(),
		newID:        uuid.NewString,
	}

	if err := m.initAgents(cfg); err != nil {
		return nil, err
	}

	if cfg.Retrieval.Enabled {
		if err := m.initLibrary(cfg); err != nil {
			return nil, err
		}
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.observer == nil {
		m.observer = observability.NoOpObserver{}
	}
	m.steps.Observer = m.observer

	m.graph, err = newGraph(cfg.Graph, m.steps, m.observer)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// initAgents registers the default agent and each role override. Agents are
// created lazily by the registry; roles without an override share the
// default agent.
func (m *Machine) initAgents(cfg *Config) error {
	if err := m.registry.Register("default", cfg.Agent); err != nil {
		return err
	}
	for _, role := range Roles {
		name := "default"
		if rc, ok := cfg.roleConfig(role); ok {
			name = role
			if err := m.registry.Register(name, rc); err != nil {
				return fmt.Errorf("failed to register agent %q: %w", name, err)
			}
		}
		a, err := m.registry.Get(name)
		if err != nil {
			return err
		}
		m.steps.Agents[role] = a
	}
	return nil
}

func (m *Machine) initLibrary(cfg *Config) error {
	embed, err := retrieval.NewEmbeddingFunc(&cfg.Retrieval.Embedding)
	if err != nil {
		return fmt.Errorf("failed to create embedding function: %w", err)
	}

	registry, err := memory.NewStore(&cfg.Memory)
	if err != nil {
		return fmt.Errorf("failed to create memory store: %w", err)
	}

	lib, err := retrieval.NewLibrary(&cfg.Retrieval, embed, registry, m.observer)
	if err != nil {
		return fmt.Errorf("failed to create materials library: %w", err)
	}

	m.library = lib
	m.steps.Retriever = lib
	return nil
}

// Library returns the materials library, or nil when it is disabled.
func (m *Machine) Library() *retrieval.Library {
	return m.library
}

// Agents describes the registered generation agents.
func (m *Machine) Agents() []agent.AgentInfo {
	return m.registry.List()
}

// Start creates a session and runs it to its first question. A thread id
// that names a completed session is replaced once the new run succeeds; one
// that names a session in progress is rejected with ErrSessionActive.
func (m *Machine) Start(ctx context.Context, req StartRequest) (*Turn, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	id := req.ThreadID
	if id == "" {
		id = m.newID()
	}
	if err := session.ValidateThreadID(id); err != nil {
		return nil, err
	}

	unlock := m.locks.lock(id)
	defer unlock()

	existing, err := m.store.Get(ctx, id)
	switch {
	case err == nil && !existing.Completed():
		return nil, fmt.Errorf("%w: %s", ErrSessionActive, id)
	case err != nil && !errors.Is(err, session.ErrNotFound):
		return nil, err
	}
	replace := err == nil

	m.emit(ctx, EventSessionStart, observability.LevelInfo, map[string]any{
		"thread_id":     id,
		"topic":         topic,
		"use_materials": req.UseMaterials,
	})

	initial := NewState(topic, req.Context, m.maxFollowups, req.UseMaterials)
	result, err := m.graph.Execute(ctx, initial)
	if err != nil {
		return nil, m.fail(ctx, id, err)
	}

	// The completed session stays stored until its replacement is ready.
	if replace {
		if err := m.store.Delete(ctx, id); err != nil {
			return nil, err
		}
	}

	return m.commit(ctx, id, result)
}

// SubmitAnswer resumes a session waiting for an answer. An empty answer ends
// the session; any other answer is assessed and the session waits for a
// reviewer.
func (m *Machine) SubmitAnswer(ctx context.Context, threadID, answer string) (*Turn, error) {
	unlock := m.locks.lock(threadID)
	defer unlock()

	entry, s, err := m.load(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if s.Phase != PhaseAwaitingAnswer || entry.Next != NodeAwaitAnswer {
		return nil, fmt.Errorf("%w: session %s is %s, not awaiting an answer", ErrInvalidResumption, threadID, s.Phase)
	}

	answer = strings.TrimSpace(answer)
	m.emit(ctx, EventAnswerSubmitted, observability.LevelInfo, map[string]any{
		"thread_id": threadID,
		"question":  s.QuestionCount,
		"empty":     answer == "",
	})

	return m.resume(ctx, entry, s, Update{CurrentAnswer: &answer})
}

// Decide resumes a session waiting for a reviewer. An empty action approves.
func (m *Machine) Decide(ctx context.Context, threadID string, action Action) (*Turn, error) {
	decision, err := ParseAction(string(action))
	if err != nil {
		return nil, err
	}

	unlock := m.locks.lock(threadID)
	defer unlock()

	entry, s, err := m.load(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !s.AwaitingApproval() || entry.Next != NodeHITLApproval {
		return nil, fmt.Errorf("%w: session %s is %s, not awaiting approval", ErrInvalidResumption, threadID, s.Phase)
	}

	m.emit(ctx, EventDecision, observability.LevelInfo, map[string]any{
		"thread_id": threadID,
		"action":    string(decision),
	})

	return m.resume(ctx, entry, s, Update{Decision: &decision})
}

// Question returns the current question of a session that has not completed.
func (m *Machine) Question(ctx context.Context, threadID string) (*Turn, error) {
	unlock := m.locks.lock(threadID)
	defer unlock()

	_, s, err := m.load(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if s.Phase == PhaseCompleted {
		return nil, fmt.Errorf("%w: session %s is completed", ErrInvalidResumption, threadID)
	}
	return newTurn(threadID, s), nil
}

// PendingApproval returns the review request of a session waiting for a
// reviewer.
func (m *Machine) PendingApproval(ctx context.Context, threadID string) (*ApprovalRequest, error) {
	unlock := m.locks.lock(threadID)
	defer unlock()

	_, s, err := m.load(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !s.AwaitingApproval() {
		return nil, fmt.Errorf("%w: session %s is %s, not awaiting approval", ErrInvalidResumption, threadID, s.Phase)
	}
	return newApprovalRequest(threadID, s), nil
}

// Snapshot returns the stored state of a session.
func (m *Machine) Snapshot(ctx context.Context, threadID string) (State, error) {
	unlock := m.locks.lock(threadID)
	defer unlock()

	_, s, err := m.load(ctx, threadID)
	return s, err
}

// Report produces the final assessment and marks the session completed. An
// assessment still waiting for review is counted as accepted.
func (m *Machine) Report(ctx context.Context, threadID string) (*Report, error) {
	unlock := m.locks.lock(threadID)
	defer unlock()

	entry, s, err := m.load(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if s.Phase != PhaseCompleted {
		phase, err := s.Phase.Next(TriggerFinalized)
		if err != nil {
			return nil, err
		}
		u := Update{Phase: &phase}
		if s.AwaitingApproval() && s.LastAssessment != nil {
			u.Assessments = []assessment.Record{s.LastAssessment.Clone()}
		}
		s = s.Apply(u)

		if err := m.save(ctx, entry.ThreadID, s, ""); err != nil {
			return nil, err
		}
	}

	report := NewReport(threadID, s)
	m.emit(ctx, EventReportGenerated, observability.LevelInfo, map[string]any{
		"thread_id":     threadID,
		"overall_score": report.OverallScore,
		"assessments":   len(report.Assessments),
	})
	return report, nil
}

// End deletes a session.
func (m *Machine) End(ctx context.Context, threadID string) error {
	unlock := m.locks.lock(threadID)
	defer unlock()

	if _, err := m.store.Get(ctx, threadID); err != nil {
		return m.notFound(threadID, err)
	}
	if err := m.store.Delete(ctx, threadID); err != nil {
		return err
	}

	m.emit(ctx, EventSessionEnded, observability.LevelInfo, map[string]any{
		"thread_id": threadID,
	})
	return nil
}

// List summarizes the stored sessions in creation order.
func (m *Machine) List(ctx context.Context) ([]Summary, error) {
	entries, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, Summary{
			ThreadID:  e.ThreadID,
			Topic:     e.Topic,
			Status:    e.Status,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		})
	}
	return summaries, nil
}

func (m *Machine) resume(ctx context.Context, entry session.Entry, s State, input Update) (*Turn, error) {
	cp := state.Checkpoint[State]{
		Node:      entry.Next,
		State:     s,
		Timestamp: entry.UpdatedAt,
	}

	result, err := m.graph.Resume(ctx, cp, input)
	if err != nil {
		return nil, m.fail(ctx, entry.ThreadID, err)
	}

	return m.commit(ctx, entry.ThreadID, result)
}

func (m *Machine) commit(ctx context.Context, threadID string, result state.Result[State]) (*Turn, error) {
	if err := m.save(ctx, threadID, result.State, result.Next); err != nil {
		return nil, err
	}

	if result.State.Phase == PhaseCompleted {
		m.emit(ctx, EventSessionComplete, observability.LevelInfo, map[string]any{
			"thread_id": threadID,
			"questions": result.State.QuestionCount,
		})
	}

	return newTurn(threadID, result.State), nil
}

func (m *Machine) load(ctx context.Context, threadID string) (session.Entry, State, error) {
	entry, err := m.store.Get(ctx, threadID)
	if err != nil {
		return session.Entry{}, State{}, m.notFound(threadID, err)
	}

	var s State
	if err := json.Unmarshal(entry.Snapshot, &s); err != nil {
		return session.Entry{}, State{}, fmt.Errorf("decode session %s: %w", threadID, err)
	}
	return entry, s, nil
}

func (m *Machine) save(ctx context.Context, threadID string, s State, next string) error {
	snapshot, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", threadID, err)
	}

	entry := session.Entry{
		ThreadID: threadID,
		Topic:    s.Topic,
		Status:   s.Phase.Status(),
		Next:     next,
		Snapshot: snapshot,
	}
	if err := m.store.Put(ctx, entry); err != nil {
		return fmt.Errorf("persist session %s: %w", threadID, err)
	}
	return nil
}

func (m *Machine) notFound(threadID string, err error) error {
	if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrInvalidThreadID) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, threadID)
	}
	return err
}

func (m *Machine) fail(ctx context.Context, threadID string, err error) error {
	se := stepError(threadID, err)
	m.emit(ctx, EventStepFailed, observability.LevelError, map[string]any{
		"thread_id": threadID,
		"step":      se.Step,
		"error":     se.Err.Error(),
	})
	return se
}

func (m *Machine) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	observability.Emit(ctx, m.observer, typ, level, eventSource, data)
}

func newTurn(threadID string, s State) *Turn {
	t := &Turn{
		ThreadID:       threadID,
		Topic:          s.Topic,
		Status:         s.Phase.Status(),
		Phase:          s.Phase,
		Question:       s.CurrentQuestion,
		QuestionNumber: s.QuestionCount,
		IsFollowup:     s.IsFollowup(),
	}
	if s.LastAssessment != nil {
		t.Assessment = ptr(s.LastAssessment.Clone())
	}
	if s.AwaitingApproval() {
		t.Approval = newApprovalRequest(threadID, s)
	}
	return t
}
