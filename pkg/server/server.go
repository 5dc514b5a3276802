// Package server exposes the latest probe cycle over HTTP: the rows as
// JSON, an aggregate summary, and Prometheus metrics.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DefaultRate and DefaultBurst bound the request rate of the API.
	DefaultRate  = 20
	DefaultBurst = 50
)

// Server serves the contents of a Store.
type Server struct {
	store     *Store
	logger    logrus.FieldLogger
	limiter   *rate.Limiter
	staleness time.Duration
	registry  *prometheus.Registry

	srv      *http.Server
	listener net.Listener
}

// Option is a functional option for configuring a Server.
type Option func(*Server) error

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) error {
		if l == nil {
			return fmt.Errorf("logger must not be nil")
		}
		s.logger = l
		return nil
	}
}

// WithRateLimit replaces the request rate limiter.
func WithRateLimit(limiter *rate.Limiter) Option {
	return func(s *Server) error {
		if limiter == nil {
			return fmt.Errorf("limiter must not be nil")
		}
		s.limiter = limiter
		return nil
	}
}

// WithStalenessWindow sets how old the last cycle may be before the
// summary reports it as stale.
func WithStalenessWindow(d time.Duration) Option {
	return func(s *Server) error {
		if d <= 0 {
			return fmt.Errorf("staleness window must be positive, got %v", d)
		}
		s.staleness = d
		return nil
	}
}

// New creates a Server for store.
func New(store *Store, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("server: store must not be nil")
	}

	s := &Server{
		store:     store,
		logger:    logrus.StandardLogger(),
		limiter:   rate.NewLimiter(rate.Limit(DefaultRate), DefaultBurst),
		staleness: DefaultStalenessWindow,
		registry:  prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
	}

	if err := s.registry.Register(newCollector(store)); err != nil {
		return nil, errors.Wrap(err, "failed to register metrics collector")
	}

	return s, nil
}

// Start listens on addr and serves in the background. Listen errors are
// returned; later serve errors are logged.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}
	s.listener = ln

	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		s.logger.Infof("Starting API server on %v...", ln.Addr())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("API server stopped: %v", err)
		}
	}()

	return nil
}

// Addr returns the listening address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops the server, waiting for in-flight requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
