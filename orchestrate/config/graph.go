package config

const defaultMaxIterations = 100

// GraphConfig defines configuration for state graph execution.
//
// Observer is a name resolved through the observability registry so that the
// graph can be configured from a file.
//
// Example YAML:
//
//	graph:
//	  name: interview
//	  observer: slog
//	  max_iterations: 50
type GraphConfig struct {
	// Name identifies the graph in emitted events.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Observer specifies which registered observer receives graph events.
	Observer string `json:"observer,omitempty" yaml:"observer,omitempty"`

	// MaxIterations bounds node executions within a single run.
	MaxIterations int `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`
}

// DefaultGraphConfig returns defaults for graph execution: the slog observer
// and an iteration bound well above any single interview resumption.
func DefaultGraphConfig(name string) GraphConfig {
	return GraphConfig{
		Name:          name,
		Observer:      "slog",
		MaxIterations: defaultMaxIterations,
	}
}

// Merge applies non-zero values from source into c.
func (c *GraphConfig) Merge(source *GraphConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}

	if source.MaxIterations > 0 {
		c.MaxIterations = source.MaxIterations
	}
}
