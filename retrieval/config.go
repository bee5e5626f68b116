package retrieval

import (
	"os"
)

const (
	defaultCollection   = "interview_materials"
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
	defaultCacheSize    = 1000
)

// EmbeddingConfig selects the embedding backend.
type EmbeddingConfig struct {
	// Provider is "openai" or "ollama".
	Provider  string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model     string `json:"model,omitempty" yaml:"model,omitempty"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	APIKey    string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	CacheSize int    `json:"cache_size,omitempty" yaml:"cache_size,omitempty"`
}

// Config holds materials library parameters.
//
// Example YAML:
//
//	retrieval:
//	  path: ./data/vectors
//	  chunk_size: 1000
//	  chunk_overlap: 200
//	  embedding:
//	    provider: ollama
//	    model: nomic-embed-text
//	    base_url: http://localhost:11434/api
type Config struct {
	// Enabled turns the materials library on.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Path persists the vector collection under this directory. Empty keeps
	// it in memory.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	Collection   string          `json:"collection,omitempty" yaml:"collection,omitempty"`
	ChunkSize    int             `json:"chunk_size,omitempty" yaml:"chunk_size,omitempty"`
	ChunkOverlap int             `json:"chunk_overlap,omitempty" yaml:"chunk_overlap,omitempty"`
	Embedding    EmbeddingConfig `json:"embedding" yaml:"embedding"`
}

// DefaultConfig returns an in-memory library using OpenAI
// text-embedding-3-small with a 1000-entry embedding cache.
func DefaultConfig() Config {
	return Config{
		Collection:   defaultCollection,
		ChunkSize:    defaultChunkSize,
		ChunkOverlap: defaultChunkOverlap,
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKey:    os.Getenv("OPENAI_API_KEY"),
			CacheSize: defaultCacheSize,
		},
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Enabled {
		c.Enabled = true
	}
	if source.Path != "" {
		c.Path = source.Path
	}
	if source.Collection != "" {
		c.Collection = source.Collection
	}
	if source.ChunkSize > 0 {
		c.ChunkSize = source.ChunkSize
	}
	if source.ChunkOverlap > 0 {
		c.ChunkOverlap = source.ChunkOverlap
	}

	e := &source.Embedding
	if e.Provider != "" {
		c.Embedding.Provider = e.Provider
	}
	if e.Model != "" {
		c.Embedding.Model = e.Model
	}
	if e.BaseURL != "" {
		c.Embedding.BaseURL = e.BaseURL
	}
	if e.APIKey != "" {
		c.Embedding.APIKey = e.APIKey
	}
	if e.CacheSize > 0 {
		c.Embedding.CacheSize = e.CacheSize
	}
}
