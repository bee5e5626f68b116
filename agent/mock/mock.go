// Package mock provides a scripted Agent for tests. Responses are served in
// FIFO order unless a Handler is installed; every call is recorded.
package mock

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/interview/core/protocol"
	"github.com/tailored-agentic-units/interview/core/response"
)

// ErrExhausted is returned when the response queue is empty and no handler
// is installed.
var ErrExhausted = errors.New("mock agent: no scripted response")

// Call records one generation request.
type Call struct {
	System string
	Prompt string
}

// Handler computes a response for a call.
type Handler func(ctx context.Context, system, prompt string) (string, error)

type reply struct {
	content string
	err     error
}

// Agent is a thread-safe scripted generation agent.
type Agent struct {
	mu      sync.Mutex
	id      string
	queue   []reply
	handler Handler
	calls   []Call
}

// New creates an Agent that returns responses in order.
func New(responses ...string) *Agent {
	a := &Agent{id: uuid.NewString()}
	for _, r := range responses {
		a.queue = append(a.queue, reply{content: r})
	}
	return a
}

// NewHandler creates an Agent that delegates every call to fn.
func NewHandler(fn Handler) *Agent {
	return &Agent{id: uuid.NewString(), handler: fn}
}

// Respond queues a successful response.
func (a *Agent) Respond(content string) *Agent {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queue = append(a.queue, reply{content: content})
	return a
}

// Fail queues an error.
func (a *Agent) Fail(err error) *Agent {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queue = append(a.queue, reply{err: err})
	return a
}

// Calls returns a copy of the recorded calls.
func (a *Agent) Calls() []Call {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Call(nil), a.calls...)
}

// Pending reports how many queued responses have not been consumed.
func (a *Agent) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.queue)
}

func (a *Agent) ID() string {
	return a.id
}

func (a *Agent) Model() string {
	return "mock"
}

func (a *Agent) Generate(ctx context.Context, system, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	a.mu.Lock()
	a.calls = append(a.calls, Call{System: system, Prompt: prompt})
	handler := a.handler
	if handler != nil {
		a.mu.Unlock()
		return handler(ctx, system, prompt)
	}
	if len(a.queue) == 0 {
		a.mu.Unlock()
		return "", ErrExhausted
	}
	next := a.queue[0]
	a.queue = a.queue[1:]
	a.mu.Unlock()

	if next.err != nil {
		return "", next.err
	}
	return strings.TrimSpace(next.content), nil
}

func (a *Agent) Chat(ctx context.Context, messages []protocol.Message) (*response.ChatResponse, error) {
	var system, prompt string
	for _, m := range messages {
		switch m.Role {
		case protocol.RoleSystem:
			system = m.Content
		case protocol.RoleUser:
			prompt = m.Content
		}
	}

	content, err := a.Generate(ctx, system, prompt)
	if err != nil {
		return nil, err
	}
	return response.NewChat(a.Model(), content), nil
}
