// Package server exposes the interview machine and the materials library
// over HTTP: a REST API under /api/v1, the interview.v1.InterviewService
// connect service, health and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tailored-agentic-units/interview/interview"
	"github.com/tailored-agentic-units/interview/observability"
	"github.com/tailored-agentic-units/interview/retrieval"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

const (
	EventRequest observability.EventType = "http.request"

	eventSource = "server.http"
)

// Option configures a Server.
type Option func(*Server)

// WithGatherer sets the registry served at /metrics. Defaults to
// prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithObserver receives one event per request.
func WithObserver(o observability.Observer) Option {
	return func(s *Server) { s.observer = o }
}

// WithLibrary overrides the machine's materials library.
func WithLibrary(l *retrieval.Library) Option {
	return func(s *Server) { s.library = l }
}

// Server is the HTTP front end.
type Server struct {
	machine  *interview.Machine
	library  *retrieval.Library
	engine   *gin.Engine
	http     *http.Server
	gatherer prometheus.Gatherer
	observer observability.Observer
	shutdown time.Duration
	maxBytes int64
	started  time.Time
}

// New builds the router and the underlying http.Server.
func New(machine *interview.Machine, cfg *Config, opts ...Option) (*Server, error) {
	if machine == nil {
		return nil, errors.New("server requires an interview machine")
	}

	t, err := cfg.timeouts()
	if err != nil {
		return nil, err
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		machine:  machine,
		library:  machine.Library(),
		engine:   gin.New(),
		gatherer: prometheus.DefaultGatherer,
		observer: observability.NoOpObserver{},
		shutdown: t.shutdown,
		maxBytes: cfg.MaxUploadBytes,
		started:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(s.observe())
	if len(cfg.AllowOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.AllowOrigins
		corsConfig.AllowCredentials = true
		corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Connect-Protocol-Version"}
		s.engine.Use(cors.New(corsConfig))
	}

	s.routes()

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  t.read,
		WriteTimeout: t.write,
	}

	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := s.engine.Group("/api/v1")

	sessions := api.Group("/interview")
	{
		sessions.POST("/start", s.handleStart)
		sessions.GET("/question", s.handleQuestion)
		sessions.POST("/answer", s.handleAnswer)
		sessions.POST("/approve", s.handleApprove)
		sessions.GET("/approval", s.handleApproval)
		sessions.GET("/assessment", s.handleAssessment)
		sessions.GET("/sessions", s.handleListSessions)
		sessions.DELETE("/:thread_id", s.handleEndSession)
	}

	materials := api.Group("/materials")
	{
		materials.POST("/upload", s.handleUpload)
		materials.GET("/list", s.handleListMaterials)
		materials.DELETE("/:id", s.handleDeleteMaterial)
	}

	for procedure, handler := range s.rpcHandlers() {
		s.engine.POST(procedure, gin.WrapH(handler))
	}
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves until Shutdown. A clean shutdown returns nil.
func (s *Server) ListenAndServe() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones, bounded by
// the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdown > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdown)
		defer cancel()
	}
	return s.http.Shutdown(ctx)
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		level := observability.LevelVerbose
		if status >= http.StatusInternalServerError {
			level = observability.LevelError
		}

		observability.Emit(c.Request.Context(), s.observer, EventRequest, level, eventSource, map[string]any{
			observability.DataNode:     c.Request.Method + " " + route,
			observability.DataDuration: time.Since(start),
			observability.DataError:    status >= http.StatusInternalServerError,
			"status":                   status,
		})
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"version":   Version,
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"materials": s.library != nil,
	})
}
