package memory

// Config holds memory store initialization parameters.
type Config struct {
	// Path is the FileStore root directory. Empty selects the in-process
	// map store, which does not survive restarts.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// DefaultConfig returns the default memory configuration (in-process).
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Path != "" {
		c.Path = source.Path
	}
}

// NewStore creates a Store from configuration.
func NewStore(cfg *Config) (Store, error) {
	if cfg.Path == "" {
		return NewMapStore(), nil
	}
	return NewFileStore(cfg.Path), nil
}
