// Package server hosts skill trees over HTTP.
//
// A [Server] wraps a [session.Manager] holding the trees and a
// [pipeline.Runner] that lays them out. Every response is a JSON envelope:
//
//	{"success": true, "data": ...}
//	{"success": false, "error": {"code": "INVALID_OPERATION", "message": "..."}}
//
// # Routes
//
//	GET  /healthz                                   liveness and tree count
//	GET  /trees                                     hosted trees with summaries
//	POST /trees/active                              switch the active tree
//	GET  /trees/{id}                                positioned snapshot of a tree
//	GET  /trees/{id}/render?format=svg|dot|json     rendered tree
//	POST /trees/{id}/skills/{skill}/upgrade         raise a skill one level
//	POST /trees/{id}/skills/{skill}/downgrade       lower a skill one level
//	POST /layout                                    lay out a posted catalog
//
// Rejected upgrades and downgrades answer 409 with the rejection reason; the
// tree is left unchanged.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/skilltree/pkg/observability"
	"github.com/matzehuels/skilltree/pkg/pipeline"
	"github.com/matzehuels/skilltree/pkg/session"
)

// DefaultShutdownTimeout bounds how long Run waits for in-flight requests.
const DefaultShutdownTimeout = 10 * time.Second

// maxCatalogBytes limits the body of POST /layout.
const maxCatalogBytes = 1 << 20

// Config configures a Server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Layout holds the layout options for snapshots. Zero fields take the
	// pipeline defaults.
	Layout pipeline.Options

	ShutdownTimeout time.Duration
	Logger          *log.Logger
}

// Server serves hosted trees over HTTP.
type Server struct {
	mgr    *session.Manager
	runner *pipeline.Runner
	cfg    Config
	logger *log.Logger
}

// New creates a server for the trees in mgr. A nil runner lays out without
// caching.
func New(mgr *session.Manager, runner *pipeline.Runner, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return &Server{mgr: mgr, runner: runner, cfg: cfg, logger: cfg.Logger}
}

// Handler returns the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimid.RequestID)
	r.Use(chimid.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Post("/layout", s.handleLayout)

	r.Route("/trees", func(tr chi.Router) {
		tr.Get("/", s.handleListTrees)
		tr.Post("/active", s.handleSetActive)
		tr.Get("/{id}", s.handleGetTree)
		tr.Get("/{id}/render", s.handleRender)
		tr.Post("/{id}/skills/{skill}/upgrade", s.handleUpgrade)
		tr.Post("/{id}/skills/{skill}/downgrade", s.handleDowngrade)
	})

	return r
}

// Run listens on the configured address and serves until ctx is done, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done. It closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String(), "trees", s.mgr.Len())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// observe reports requests to the HTTP hooks and logs them.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		duration := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, duration)
		s.logger.Debug("request",
			"id", chimid.GetReqID(r.Context()),
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", duration)
	})
}
