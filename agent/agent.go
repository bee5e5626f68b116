// Package agent provides the language generation client used by the
// interview steps. An Agent sends chat completion requests to an
// OpenAI-compatible provider and returns the first choice's content.
package agent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/interview/agent/providers"
	"github.com/tailored-agentic-units/interview/core/protocol"
	"github.com/tailored-agentic-units/interview/core/response"
)

// Generator is the narrow text generation contract the interview steps
// depend on.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Agent is a configured generation client.
type Agent interface {
	Generator

	// ID uniquely identifies this agent instance.
	ID() string
	// Model returns the model name requests are sent with.
	Model() string
	// Chat sends a full conversation and returns the decoded response.
	Chat(ctx context.Context, messages []protocol.Message) (*response.ChatResponse, error)
}

type client struct {
	id       string
	model    string
	options  map[string]any
	provider providers.Provider
	http     *http.Client
}

// Option configures an agent created by New.
type Option func(*client)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(a *client) {
		a.http = c
	}
}

// New creates an Agent from configuration.
func New(cfg *Config, opts ...Option) (Agent, error) {
	if cfg.Model.Name == "" {
		return nil, ErrEmptyModel
	}

	provider, err := providers.New(cfg.Provider.Name, cfg.Provider.BaseURL, cfg.Provider.APIKey)
	if err != nil {
		return nil, err
	}

	var timeout time.Duration
	if cfg.Timeout != "" {
		timeout, err = time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", cfg.Timeout, err)
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate agent id: %w", err)
	}

	a := &client{
		id:       id.String(),
		model:    cfg.Model.Name,
		options:  cfg.Model.Options,
		provider: provider,
		http:     &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(a)
	}

	if cfg.RateLimit > 0 {
		return WithRateLimit(a, cfg.RateLimit, cfg.Burst), nil
	}
	return a, nil
}

func (a *client) ID() string {
	return a.id
}

func (a *client) Model() string {
	return a.model
}

func (a *client) Chat(ctx context.Context, messages []protocol.Message) (*response.ChatResponse, error) {
	body, err := a.provider.Marshal(&providers.ChatData{
		Model:    a.model,
		Messages: messages,
		Options:  a.options,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.provider.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range a.provider.Headers() {
		req.Header.Set(key, value)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", a.provider.Name(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, response.ParseError(resp.StatusCode, data)
	}

	return response.ParseChat(data)
}

// Generate sends a system instruction and a user prompt and returns the
// trimmed content of the first choice.
func (a *client) Generate(ctx context.Context, system, prompt string) (string, error) {
	return generate(ctx, a, system, prompt)
}

func generate(ctx context.Context, a Agent, system, prompt string) (string, error) {
	resp, err := a.Chat(ctx, protocol.InitMessages(system, prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(resp.Content()), nil
}
