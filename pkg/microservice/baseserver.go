package microservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// readinessTimeout bounds a single run of all readiness checks.
const readinessTimeout = 2 * time.Second

// Service defines the common interface for the module's HTTP services.
type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
	Mux() *http.ServeMux
	GetHTTPPort() string
}

// ReadinessCheck reports whether a dependency the service needs is usable.
type ReadinessCheck func(ctx context.Context) error

// BaseServer owns the HTTP listener, the mux and the health endpoints shared by
// the module's services.
//
// GET /healthz answers as long as the process serves HTTP. GET /readyz runs every
// registered ReadinessCheck and answers 503 if any of them fails.
type BaseServer struct {
	Logger     zerolog.Logger
	HTTPPort   string
	httpServer *http.Server
	mux        *http.ServeMux

	mu         sync.RWMutex
	actualAddr string
	checks     map[string]ReadinessCheck
}

// NewBaseServer creates a BaseServer listening on httpPort once started.
func NewBaseServer(logger zerolog.Logger, httpPort string) *BaseServer {
	s := &BaseServer{
		Logger:   logger,
		HTTPPort: httpPort,
		mux:      http.NewServeMux(),
		checks:   make(map[string]ReadinessCheck),
	}
	s.mux.HandleFunc("GET /healthz", HealthzHandler)
	s.mux.HandleFunc("GET /readyz", s.readyzHandler)
	s.httpServer = &http.Server{
		Addr:              httpPort,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// AddReadinessCheck registers check under name. A later check with the same name replaces the earlier one.
func (s *BaseServer) AddReadinessCheck(name string, check ReadinessCheck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// Start binds the listener and serves in a background goroutine. The bind is
// abandoned if ctx is done first, and requests inherit ctx's values.
func (s *BaseServer) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("server not started: %w", err)
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.HTTPPort)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", s.HTTPPort, err)
	}

	s.mu.Lock()
	s.actualAddr = listener.Addr().String()
	s.mu.Unlock()

	baseCtx := context.WithoutCancel(ctx)
	s.httpServer.BaseContext = func(net.Listener) context.Context { return baseCtx }

	s.Logger.Info().Str("address", listener.Addr().String()).Msg("HTTP server starting to listen")

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error().Err(err).Msg("HTTP server failed")
		}
	}()
	return nil
}

// Shutdown gracefully stops the HTTP server, respecting the provided context's deadline.
func (s *BaseServer) Shutdown(ctx context.Context) error {
	s.Logger.Info().Msg("Shutting down HTTP server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.Logger.Error().Err(err).Msg("Error during HTTP server shutdown.")
		return err
	}
	s.Logger.Info().Msg("HTTP server stopped.")
	return nil
}

// GetHTTPPort returns the port the server is listening on, or the configured
// port before Start.
func (s *BaseServer) GetHTTPPort() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, port, err := net.SplitHostPort(s.actualAddr)
	if err != nil {
		return s.HTTPPort
	}
	return ":" + port
}

// Mux returns the underlying ServeMux.
func (s *BaseServer) Mux() *http.ServeMux {
	return s.mux
}

// Ready runs every readiness check and returns the failures keyed by check name.
func (s *BaseServer) Ready(ctx context.Context) map[string]string {
	s.mu.RLock()
	names := make([]string, 0, len(s.checks))
	checks := make(map[string]ReadinessCheck, len(s.checks))
	for name, check := range s.checks {
		names = append(names, name)
		checks[name] = check
	}
	s.mu.RUnlock()
	sort.Strings(names)

	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	failures := make(map[string]string)
	for _, name := range names {
		if err := checks[name](ctx); err != nil {
			s.Logger.Warn().Err(err).Str("check", name).Msg("Readiness check failed.")
			failures[name] = err.Error()
		}
	}
	return failures
}

func (s *BaseServer) readyzHandler(w http.ResponseWriter, r *http.Request) {
	failures := s.Ready(r.Context())
	if len(failures) == 0 {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_ = json.NewEncoder(w).Encode(map[string]any{"failures": failures})
}

// HealthzHandler responds to liveness checks.
func HealthzHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
