// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz      liveness and version
//	POST /v1/render    .pco body in, one artifact out
//	POST /v1/inspect   .pco body in, decoded codes and graph as JSON
//
// Render parameters come from the query string (format, width, height,
// policy, style, page, scale, engine, detailed, title) on top of the
// defaults the server was started with.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pcoview/pkg/pipeline"
)

// DefaultMaxBody caps request bodies at 8 MiB.
const DefaultMaxBody = 8 << 20

const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
	maxBody  int64
	router   chi.Router
}

// New creates a server. defaults must not have been validated yet; every
// request works on its own copy.
func New(runner *pipeline.Runner, defaults pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:   runner,
		defaults: defaults,
		logger:   logger,
		maxBody:  DefaultMaxBody,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/inspect", s.handleInspect)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
