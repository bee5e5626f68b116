package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tailored-agentic-units/interview/interview"
	"github.com/tailored-agentic-units/interview/observability"
	"github.com/tailored-agentic-units/interview/server"
)

func newServeCommand(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interview API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, srvCfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				srvCfg.Addr = addr
			}
			return serve(cmd.Context(), cfg, srvCfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}

func serve(ctx context.Context, cfg *interview.Config, srvCfg *server.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := slog.Default()
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := observability.NewMetricsObserver(cfg.Graph.Name, reg)
	if err != nil {
		return fmt.Errorf("failed to create metrics observer: %w", err)
	}
	observability.RegisterObserver("metrics", metrics)

	var observer observability.Observer = metrics
	if cfg.Graph.Observer != "metrics" {
		configured, err := observability.GetObserver(cfg.Graph.Observer)
		if err != nil {
			return err
		}
		observer = observability.NewMultiObserver(configured, metrics)
	}

	machine, err := interview.New(cfg, interview.WithObserver(observer))
	if err != nil {
		return fmt.Errorf("failed to create interview machine: %w", err)
	}

	for _, info := range machine.Agents() {
		logger.Info("agent registered", "name", info.Name, "provider", info.Provider, "model", info.Model)
	}

	srv, err := server.New(machine, srvCfg,
		server.WithGatherer(reg),
		server.WithObserver(metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", srv.Addr(), "materials", machine.Library() != nil)
		return srv.ListenAndServe()
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
