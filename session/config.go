package session

import (
	"fmt"
	"time"

	"github.com/tailored-agentic-units/interview/memory"
)

// Config holds session store parameters.
//
// Example YAML:
//
//	session:
//	  path: ./data
//	  ttl: 24h
type Config struct {
	// Path selects the persistent store rooted at this directory. Empty keeps
	// sessions in process memory.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// TTL expires sessions that have not been written for this long, in
	// time.ParseDuration format. Empty means sessions wait indefinitely.
	TTL string `json:"ttl,omitempty" yaml:"ttl,omitempty"`

	// MaxSessions bounds the in-memory store. Zero is unbounded.
	MaxSessions int `json:"max_sessions,omitempty" yaml:"max_sessions,omitempty"`
}

// DefaultConfig returns an unbounded in-memory configuration without expiry.
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Path != "" {
		c.Path = source.Path
	}
	if source.TTL != "" {
		c.TTL = source.TTL
	}
	if source.MaxSessions > 0 {
		c.MaxSessions = source.MaxSessions
	}
}

// New creates a Store from configuration.
func New(cfg *Config) (Store, error) {
	var ttl time.Duration
	if cfg.TTL != "" {
		d, err := time.ParseDuration(cfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("invalid session ttl %q: %w", cfg.TTL, err)
		}
		ttl = d
	}

	if cfg.Path == "" {
		return NewMemoryStore(cfg.MaxSessions, ttl), nil
	}

	store, err := memory.NewStore(&memory.Config{Path: cfg.Path})
	if err != nil {
		return nil, err
	}
	return NewPersistentStore(store, ttl), nil
}
