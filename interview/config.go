package interview

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/interview/agent"
	"github.com/tailored-agentic-units/interview/memory"
	"github.com/tailored-agentic-units/interview/orchestrate/config"
	"github.com/tailored-agentic-units/interview/retrieval"
	"github.com/tailored-agentic-units/interview/session"
)

const defaultMaxFollowups = 1

// Config holds initialization parameters for every subsystem the Machine
// composes. Each section delegates to that subsystem's constructor.
//
// Agents overrides the default agent per step role (context, question,
// assessment); an override is merged over Agent.
//
// Example YAML:
//
//	agent:
//	  model:
//	    name: gpt-4o-mini
//	agents:
//	  assessment:
//	    model:
//	      options:
//	        temperature: 0.2
//	session:
//	  path: ./data
//	  ttl: 24h
//	memory:
//	  path: ./data
//	max_followups: 1
type Config struct {
	Agent        agent.Config            `json:"agent" yaml:"agent"`
	Agents       map[string]agent.Config `json:"agents,omitempty" yaml:"agents,omitempty"`
	Session      session.Config          `json:"session" yaml:"session"`
	Memory       memory.Config           `json:"memory" yaml:"memory"`
	Retrieval    retrieval.Config        `json:"retrieval" yaml:"retrieval"`
	Graph        config.GraphConfig      `json:"graph" yaml:"graph"`
	MaxFollowups int                     `json:"max_followups,omitempty" yaml:"max_followups,omitempty"`
}

// DefaultConfig returns a Config with defaults for all subsystems: one
// follow-up per main question, in-memory sessions and no materials library.
func DefaultConfig() Config {
	return Config{
		Agent:        agent.DefaultConfig(),
		Session:      session.DefaultConfig(),
		Memory:       memory.DefaultConfig(),
		Retrieval:    retrieval.DefaultConfig(),
		Graph:        config.DefaultGraphConfig("interview"),
		MaxFollowups: defaultMaxFollowups,
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Agent.Merge(&source.Agent)
	c.Session.Merge(&source.Session)
	c.Memory.Merge(&source.Memory)
	c.Retrieval.Merge(&source.Retrieval)
	c.Graph.Merge(&source.Graph)

	if source.MaxFollowups > 0 {
		c.MaxFollowups = source.MaxFollowups
	}

	if len(source.Agents) > 0 {
		c.Agents = source.Agents
	}
}

// LoadConfig reads a YAML (or JSON) config file, merges it with defaults,
// and returns the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

// roleConfig returns the agent config for role: the default agent with the
// role's override merged over it.
func (c *Config) roleConfig(role string) (agent.Config, bool) {
	override, ok := c.Agents[role]
	if !ok {
		return c.Agent, false
	}

	merged := c.Agent
	merged.Model.Options = maps.Clone(c.Agent.Model.Options)
	merged.Merge(&override)
	return merged, true
}
