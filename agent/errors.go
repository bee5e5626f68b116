package agent

import "errors"

// Sentinel errors for agent construction, lookup and generation.
var (
	ErrAgentNotFound  = errors.New("agent not found")
	ErrAgentExists    = errors.New("agent already registered")
	ErrEmptyAgentName = errors.New("agent name cannot be empty")
	ErrEmptyModel     = errors.New("model name cannot be empty")
	ErrEmptyResponse  = errors.New("provider returned no choices")
)
