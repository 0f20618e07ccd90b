// Package server exposes the interpreter over HTTP. Every request gets its
// own session, so no state is shared between callers.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"exprua/internal/driver"
	"exprua/internal/trace"
)

const (
	// maxBodyBytes caps the request body of /api/evaluate.
	maxBodyBytes    = 64 << 10
	shutdownTimeout = 5 * time.Second
)

// Config holds configuration for the HTTP server.
type Config struct {
	Addr string
	// Session is copied into every per-request session. Timer and Observer
	// are ignored: handlers run concurrently.
	Session driver.Options
	Tracer  trace.Tracer
	// AccessLog receives one line per request; nil disables it.
	AccessLog io.Writer
}

// Server serves the evaluate API.
type Server struct {
	cfg     Config
	tracer  trace.Tracer
	handler http.Handler
}

// New builds a server and its router.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}
	cfg.Session.Timer = nil
	cfg.Session.Observer = nil
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	s := &Server{cfg: cfg, tracer: tracer}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewMux()
	r.Use(middleware.RequestID, middleware.Recoverer)
	if s.cfg.AccessLog != nil {
		r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  log.New(s.cfg.AccessLog, "", log.LstdFlags),
			NoColor: true,
		}))
	}

	h := &handlers{opts: s.cfg.Session, tracer: s.tracer}
	r.Get("/healthz", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/evaluate", h.evaluate)
		r.Get("/builtins", h.builtins)
	})
	return r
}

// Serve listens on cfg.Addr and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
