// Package providers describes how to reach an OpenAI-compatible chat
// completion endpoint: where it lives, which headers it needs, and how a
// request body is encoded.
package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/tailored-agentic-units/interview/core/protocol"
)

// ErrUnknownProvider is returned by New for unsupported provider names.
var ErrUnknownProvider = errors.New("unknown provider")

// Default base URLs per provider.
const (
	OpenAIBaseURL = "https://api.openai.com/v1"
	OllamaBaseURL = "http://localhost:11434/v1"
)

// ChatData contains the data needed to marshal a chat request.
type ChatData struct {
	Model    string
	Messages []protocol.Message
	Options  map[string]any
}

// Provider builds chat completion requests for one backend.
type Provider interface {
	Name() string
	BaseURL() string
	// Endpoint is the absolute chat completion URL.
	Endpoint() string
	// Headers returns the HTTP headers for a request, including auth.
	Headers() map[string]string
	// Marshal encodes a chat request body.
	Marshal(data *ChatData) ([]byte, error)
}

// BaseProvider implements the OpenAI chat completions wire format. Options
// are flattened into the top-level request object.
type BaseProvider struct {
	name    string
	baseURL string
	headers map[string]string
}

// NewBaseProvider creates a provider with no authentication headers.
func NewBaseProvider(name, baseURL string) *BaseProvider {
	return &BaseProvider{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: map[string]string{"Content-Type": "application/json"},
	}
}

func (p *BaseProvider) Name() string {
	return p.name
}

func (p *BaseProvider) BaseURL() string {
	return p.baseURL
}

func (p *BaseProvider) Endpoint() string {
	return p.baseURL + "/chat/completions"
}

func (p *BaseProvider) Headers() map[string]string {
	return maps.Clone(p.headers)
}

func (p *BaseProvider) Marshal(data *ChatData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("chat data cannot be nil")
	}

	body := make(map[string]any, len(data.Options)+2)
	maps.Copy(body, data.Options)
	body["model"] = data.Model
	body["messages"] = data.Messages

	return json.Marshal(body)
}

// New creates a provider by name. Supported names are "openai" (bearer
// token auth) and "ollama" (no auth). An empty baseURL selects the
// provider's default.
func New(name, baseURL, apiKey string) (Provider, error) {
	switch name {
	case "openai":
		if baseURL == "" {
			baseURL = OpenAIBaseURL
		}
		p := NewBaseProvider(name, baseURL)
		if apiKey != "" {
			p.headers["Authorization"] = "Bearer " + apiKey
		}
		return p, nil
	case "ollama":
		if baseURL == "" {
			baseURL = OllamaBaseURL
		}
		return NewBaseProvider(name, baseURL), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
}
