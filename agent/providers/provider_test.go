package providers_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/tailored-agentic-units/interview/agent/providers"
	"github.com/tailored-agentic-units/interview/core/protocol"
)

func TestNewBaseProvider(t *testing.T) {
	provider := providers.NewBaseProvider("test-provider", "https://api.example.com/")

	if provider.Name() != "test-provider" {
		t.Errorf("got name %q, want %q", provider.Name(), "test-provider")
	}
	if provider.BaseURL() != "https://api.example.com" {
		t.Errorf("got baseURL %q, want trailing slash trimmed", provider.BaseURL())
	}
	if provider.Endpoint() != "https://api.example.com/chat/completions" {
		t.Errorf("got endpoint %q", provider.Endpoint())
	}
}

func TestBaseProvider_Marshal(t *testing.T) {
	provider := providers.NewBaseProvider("test", "https://api.test.com")

	body, err := provider.Marshal(&providers.ChatData{
		Model:    "gpt-4o-mini",
		Messages: protocol.InitMessages("You are a Mock Interviewer.", "Ask one question."),
		Options:  map[string]any{"temperature": 0.7, "model": "ignored"},
	})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if result["model"] != "gpt-4o-mini" {
		t.Errorf("got model %v, want gpt-4o-mini", result["model"])
	}
	if result["temperature"] != 0.7 {
		t.Errorf("got temperature %v, want 0.7", result["temperature"])
	}
	messages, ok := result["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Errorf("got messages %v, want 2 entries", result["messages"])
	}
}

func TestBaseProvider_Marshal_Nil(t *testing.T) {
	provider := providers.NewBaseProvider("test", "https://api.test.com")
	if _, err := provider.Marshal(nil); err == nil {
		t.Error("expected error for nil data")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		provider    string
		baseURL     string
		apiKey      string
		wantBaseURL string
		wantAuth    string
		wantErr     error
	}{
		{name: "openai default url", provider: "openai", apiKey: "sk-test", wantBaseURL: providers.OpenAIBaseURL, wantAuth: "Bearer sk-test"},
		{name: "openai custom url", provider: "openai", baseURL: "http://proxy/v1", wantBaseURL: "http://proxy/v1"},
		{name: "ollama", provider: "ollama", apiKey: "ignored", wantBaseURL: providers.OllamaBaseURL},
		{name: "unknown", provider: "bedrock", wantErr: providers.ErrUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := providers.New(tt.provider, tt.baseURL, tt.apiKey)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}

			if p.BaseURL() != tt.wantBaseURL {
				t.Errorf("got baseURL %q, want %q", p.BaseURL(), tt.wantBaseURL)
			}
			if got := p.Headers()["Authorization"]; got != tt.wantAuth {
				t.Errorf("got Authorization %q, want %q", got, tt.wantAuth)
			}
		})
	}
}
