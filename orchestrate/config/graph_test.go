package config_test

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/interview/orchestrate/config"
)

func TestDefaultGraphConfig(t *testing.T) {
	cfg := config.DefaultGraphConfig("test-graph")

	if cfg.Name != "test-graph" {
		t.Errorf("DefaultGraphConfig().Name = %v, want %v", cfg.Name, "test-graph")
	}
	if cfg.Observer != "slog" {
		t.Errorf("DefaultGraphConfig().Observer = %v, want %v", cfg.Observer, "slog")
	}
	if cfg.MaxIterations != 100 {
		t.Errorf("DefaultGraphConfig().MaxIterations = %v, want %v", cfg.MaxIterations, 100)
	}
}

func TestGraphConfig_Merge(t *testing.T) {
	tests := []struct {
		name   string
		source config.GraphConfig
		want   config.GraphConfig
	}{
		{
			name:   "empty source keeps defaults",
			source: config.GraphConfig{},
			want:   config.GraphConfig{Name: "base", Observer: "slog", MaxIterations: 100},
		},
		{
			name:   "all fields override",
			source: config.GraphConfig{Name: "other", Observer: "noop", MaxIterations: 7},
			want:   config.GraphConfig{Name: "other", Observer: "noop", MaxIterations: 7},
		},
		{
			name:   "negative iterations ignored",
			source: config.GraphConfig{MaxIterations: -1},
			want:   config.GraphConfig{Name: "base", Observer: "slog", MaxIterations: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultGraphConfig("base")
			cfg.Merge(&tt.source)

			if cfg != tt.want {
				t.Errorf("Merge() = %+v, want %+v", cfg, tt.want)
			}
		})
	}
}

func TestGraphConfig_YAML(t *testing.T) {
	data := []byte("name: interview\nobserver: noop\nmax_iterations: 12\n")

	var cfg config.GraphConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}

	want := config.GraphConfig{Name: "interview", Observer: "noop", MaxIterations: 12}
	if cfg != want {
		t.Errorf("yaml.Unmarshal() = %+v, want %+v", cfg, want)
	}
}
