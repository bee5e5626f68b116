// Command interview runs interview practice sessions, either behind the HTTP
// API (serve) or interactively in the terminal (practice).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/interview/interview"
	"github.com/tailored-agentic-units/interview/server"
)

type options struct {
	configFile  string
	verbose     bool
	model       string
	baseURL     string
	sessionPath string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "interview",
		Short:        "Interview practice with reviewed, agent-generated assessments",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Path to YAML or JSON config file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging to stderr")
	flags.StringVar(&opts.model, "model", "", "Model name (overrides config)")
	flags.StringVar(&opts.baseURL, "base-url", "", "Provider base URL (overrides config)")
	flags.StringVar(&opts.sessionPath, "sessions", "", "Directory for persisted sessions (overrides config)")

	root.AddCommand(newServeCommand(opts), newPracticeCommand(opts))
	return root
}

// loadConfig reads the interview and server sections of the config file, or
// returns defaults when none is given, and applies flag overrides.
func (o *options) loadConfig() (*interview.Config, *server.Config, error) {
	cfg := interview.DefaultConfig()
	srv := server.DefaultConfig()

	if o.configFile != "" {
		loaded, err := interview.LoadConfig(o.configFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded

		loadedServer, err := server.LoadConfig(o.configFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load server config: %w", err)
		}
		srv = *loadedServer
	}

	if o.model != "" {
		cfg.Agent.Model.Name = o.model
	}
	if o.baseURL != "" {
		cfg.Agent.Provider.BaseURL = o.baseURL
	}
	if o.sessionPath != "" {
		cfg.Session.Path = o.sessionPath
	}

	return &cfg, &srv, nil
}
