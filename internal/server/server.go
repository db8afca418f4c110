// Package server serves the side-by-side text pair demo page and a small JSON scoring API.
package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/ugcdrift/internal/config"
	"github.com/hyperjump/ugcdrift/internal/evaluation"
	"github.com/hyperjump/ugcdrift/pkg/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server is the HTTP server for the demo UI.
type Server struct {
	evaluator *evaluation.Evaluator
	config    *config.ServerConfig
	logger    *zap.Logger
	page      *template.Template
	server    *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithEvaluator enables cosine distances on the page and the scoring API.
func WithEvaluator(e *evaluation.Evaluator) Option {
	return func(s *Server) { s.evaluator = e }
}

// NewServer creates a server. Without an evaluator the page only echoes its input pairs.
func NewServer(cfg *config.ServerConfig, opts ...Option) (*Server, error) {
	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	s := &Server{config: cfg, page: page}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = utils.OrNop(s.logger)
	s.server = &http.Server{
		Addr:    s.addr(),
		Handler: s.Handler(),
	}
	return s, nil
}

func (s *Server) addr() string {
	if s.config == nil {
		return ""
	}
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Handler returns the router with every route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(s.countRequests)

	r.Get("/", s.handlePage)
	r.Post("/api/v1/distance", s.handleDistance)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start starts the HTTP server and blocks until it stops. It returns http.ErrServerClosed
// after Stop, even when Stop ran first.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr), zap.Bool("scoring", s.evaluator != nil))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server. It is safe to call from another goroutine than Start.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
