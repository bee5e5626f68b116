package memory_test

import (
	"context"
	"testing"

	"github.com/tailored-agentic-units/interview/memory"
)

func TestConfig_Merge(t *testing.T) {
	tests := []struct {
		name   string
		base   memory.Config
		source memory.Config
		want   string
	}{
		{name: "sets path", base: memory.DefaultConfig(), source: memory.Config{Path: "/data/interview"}, want: "/data/interview"},
		{name: "empty preserves", base: memory.Config{Path: "/original"}, source: memory.Config{}, want: "/original"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.base
			cfg.Merge(&tt.source)
			if cfg.Path != tt.want {
				t.Errorf("got Path %q, want %q", cfg.Path, tt.want)
			}
		})
	}
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	for _, path := range []string{"", t.TempDir()} {
		store, err := memory.NewStore(&memory.Config{Path: path})
		if err != nil {
			t.Fatalf("NewStore(%q) failed: %v", path, err)
		}
		if store == nil {
			t.Fatalf("NewStore(%q) returned nil store", path)
		}
		if err := store.Save(ctx, memory.Entry{Key: "sessions/x.json", Value: []byte("{}")}); err != nil {
			t.Errorf("Save on store for %q failed: %v", path, err)
		}
	}
}
