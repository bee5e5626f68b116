// Package response decodes chat completion responses from OpenAI-compatible
// providers.
package response

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/interview/core/protocol"
)

// TokenUsage reports token consumption for a request.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice is one completion alternative.
type Choice struct {
	Index        int              `json:"index"`
	Message      protocol.Message `json:"message"`
	FinishReason string           `json:"finish_reason,omitempty"`
}

// ChatResponse represents a chat completion response.
type ChatResponse struct {
	ID      string      `json:"id,omitempty"`
	Object  string      `json:"object,omitempty"`
	Created int64       `json:"created,omitempty"`
	Model   string      `json:"model"`
	Choices []Choice    `json:"choices"`
	Usage   *TokenUsage `json:"usage,omitempty"`
}

// NewChat builds a single-choice assistant response.
func NewChat(model, content string) *ChatResponse {
	return &ChatResponse{
		Model: model,
		Choices: []Choice{{
			Message:      protocol.NewMessage(protocol.RoleAssistant, content),
			FinishReason: "stop",
		}},
	}
}

// Content returns the first choice's message content, or "" when the
// response has no choices.
func (r *ChatResponse) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// ParseChat parses a chat completion response body.
func ParseChat(body []byte) (*ChatResponse, error) {
	var response ChatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse chat response: %w", err)
	}
	return &response, nil
}

// APIError is the error envelope OpenAI-compatible providers return with
// non-2xx statuses.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Type       string `json:"type,omitempty"`
	Code       any    `json:"code,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Message)
}

// ParseError builds an APIError from an error response body. Bodies that do
// not match the envelope are reported verbatim.
func ParseError(status int, body []byte) *APIError {
	var envelope struct {
		Error APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		envelope.Error.StatusCode = status
		return &envelope.Error
	}
	return &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}
}
