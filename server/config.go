package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds HTTP server parameters. Durations use time.ParseDuration
// format.
//
// Example YAML:
//
//	server:
//	  addr: :8000
//	  allow_origins:
//	    - http://localhost:5173
//	  write_timeout: 120s
type Config struct {
	Addr            string   `json:"addr,omitempty" yaml:"addr,omitempty"`
	AllowOrigins    []string `json:"allow_origins,omitempty" yaml:"allow_origins,omitempty"`
	ReadTimeout     string   `json:"read_timeout,omitempty" yaml:"read_timeout,omitempty"`
	WriteTimeout    string   `json:"write_timeout,omitempty" yaml:"write_timeout,omitempty"`
	ShutdownTimeout string   `json:"shutdown_timeout,omitempty" yaml:"shutdown_timeout,omitempty"`

	// MaxUploadBytes bounds material uploads.
	MaxUploadBytes int64 `json:"max_upload_bytes,omitempty" yaml:"max_upload_bytes,omitempty"`

	// Debug runs gin in debug mode.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// DefaultConfig listens on :8000 and allows the local front end origins.
// The write timeout leaves room for several generation calls per request.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8000",
		AllowOrigins:    []string{"http://localhost:5173", "http://localhost:3000"},
		ReadTimeout:     "30s",
		WriteTimeout:    "120s",
		ShutdownTimeout: "10s",
		MaxUploadBytes:  10 << 20,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Addr != "" {
		c.Addr = source.Addr
	}
	if len(source.AllowOrigins) > 0 {
		c.AllowOrigins = source.AllowOrigins
	}
	if source.ReadTimeout != "" {
		c.ReadTimeout = source.ReadTimeout
	}
	if source.WriteTimeout != "" {
		c.WriteTimeout = source.WriteTimeout
	}
	if source.ShutdownTimeout != "" {
		c.ShutdownTimeout = source.ShutdownTimeout
	}
	if source.MaxUploadBytes > 0 {
		c.MaxUploadBytes = source.MaxUploadBytes
	}
	if source.Debug {
		c.Debug = true
	}
}

// LoadConfig reads the server section of a YAML (or JSON) config file and
// merges it with defaults.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded struct {
		Server Config `yaml:"server"`
	}
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded.Server)
	return &cfg, nil
}

type timeouts struct {
	read, write, shutdown time.Duration
}

func (c *Config) timeouts() (timeouts, error) {
	var t timeouts
	for _, d := range []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"read_timeout", c.ReadTimeout, &t.read},
		{"write_timeout", c.WriteTimeout, &t.write},
		{"shutdown_timeout", c.ShutdownTimeout, &t.shutdown},
	} {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return timeouts{}, fmt.Errorf("invalid %s %q: %w", d.name, d.value, err)
		}
		*d.dst = parsed
	}
	return t, nil
}
