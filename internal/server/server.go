// Package server exposes scoring, field resolution and validation over HTTP.
package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/rgehrsitz/finhealth/internal/calculation"
	"github.com/rgehrsitz/finhealth/internal/config"
	"github.com/rgehrsitz/finhealth/internal/scoring"
)

// RequestIDHeader carries the request ID on every response
const RequestIDHeader = "X-Request-ID"

// Server serves the scoring API
type Server struct {
	scorer  *scoring.Scorer
	parser  *config.InputParser
	logger  calculation.Logger
	version string
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the request logger; nil means no logging
func WithLogger(l calculation.Logger) Option {
	return func(s *Server) { s.logger = calculation.OrNop(l) }
}

// WithVersion sets the version reported by /healthz
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a server around a scorer
func New(scorer *scoring.Scorer, opts ...Option) *Server {
	s := &Server{
		scorer:  scorer,
		parser:  config.NewInputParser(),
		logger:  calculation.NopLogger{},
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routing request handler
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		id := string(ctx.Request.Header.Peek(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Response.Header.Set(RequestIDHeader, id)

		s.route(ctx)

		s.logger.Debugf("%s %s %s -> %d (%s)", id, ctx.Method(), ctx.Path(), ctx.Response.StatusCode(), time.Since(start))
	}
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	switch path {
	case "/v1/score":
		if !ctx.IsPost() {
			s.methodNotAllowed(ctx, fasthttp.MethodPost)
			return
		}
		s.handleScore(ctx)
	case "/v1/resolve":
		if !ctx.IsPost() {
			s.methodNotAllowed(ctx, fasthttp.MethodPost)
			return
		}
		s.handleResolve(ctx)
	case "/v1/validate":
		if !ctx.IsPost() {
			s.methodNotAllowed(ctx, fasthttp.MethodPost)
			return
		}
		s.handleValidate(ctx)
	case "/v1/fields":
		if !ctx.IsGet() {
			s.methodNotAllowed(ctx, fasthttp.MethodGet)
			return
		}
		s.handleFields(ctx)
	case "/healthz":
		s.writeJSON(ctx, fasthttp.StatusOK, healthResponse{Status: "ok", Version: s.version})
	default:
		s.writeError(ctx, fasthttp.StatusNotFound, "no route for "+path)
	}
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "finhealth",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		MaxRequestBodySize: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Infof("shutting down")
		if err := srv.Shutdown(); err != nil {
			return err
		}
		return <-errCh
	}
}
