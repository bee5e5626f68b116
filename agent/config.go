package agent

import (
	"maps"
	"os"
)

const (
	defaultProvider = "openai"
	defaultModel    = "gpt-4o-mini"
	defaultTimeout  = "60s"

	// APIKeyEnv is consulted when a provider config carries no API key.
	APIKeyEnv = "OPENAI_API_KEY"
)

// ProviderConfig identifies the chat completion backend.
type ProviderConfig struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// ModelConfig names the model and carries request options (temperature,
// max_tokens, ...) that are sent with every request.
type ModelConfig struct {
	Name    string         `json:"name,omitempty" yaml:"name,omitempty"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// Config holds the parameters for a single generation agent.
//
// Example YAML:
//
//	agent:
//	  provider:
//	    name: ollama
//	    base_url: http://localhost:11434/v1
//	  model:
//	    name: llama3.1:8b
//	    options:
//	      temperature: 0.7
//	  timeout: 90s
//	  rate_limit: 2
type Config struct {
	Provider ProviderConfig `json:"provider" yaml:"provider"`
	Model    ModelConfig    `json:"model" yaml:"model"`

	// Timeout bounds a single HTTP request, in time.ParseDuration format.
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// RateLimit caps requests per second; zero disables limiting.
	RateLimit float64 `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
	Burst     int     `json:"burst,omitempty" yaml:"burst,omitempty"`
}

// DefaultConfig returns an OpenAI gpt-4o-mini agent with a temperature of
// 0.7, reading the API key from OPENAI_API_KEY.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderConfig{
			Name:   defaultProvider,
			APIKey: os.Getenv(APIKeyEnv),
		},
		Model: ModelConfig{
			Name:    defaultModel,
			Options: map[string]any{"temperature": 0.7},
		},
		Timeout: defaultTimeout,
	}
}

// Merge applies non-zero values from source into c. Model options are merged
// key by key.
func (c *Config) Merge(source *Config) {
	if source.Provider.Name != "" {
		c.Provider.Name = source.Provider.Name
	}
	if source.Provider.BaseURL != "" {
		c.Provider.BaseURL = source.Provider.BaseURL
	}
	if source.Provider.APIKey != "" {
		c.Provider.APIKey = source.Provider.APIKey
	}

	if source.Model.Name != "" {
		c.Model.Name = source.Model.Name
	}
	if len(source.Model.Options) > 0 {
		if c.Model.Options == nil {
			c.Model.Options = make(map[string]any, len(source.Model.Options))
		}
		maps.Copy(c.Model.Options, source.Model.Options)
	}

	if source.Timeout != "" {
		c.Timeout = source.Timeout
	}
	if source.RateLimit > 0 {
		c.RateLimit = source.RateLimit
	}
	if source.Burst > 0 {
		c.Burst = source.Burst
	}
}
