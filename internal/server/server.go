// Package server exposes the validation engine and the storage layer
// over HTTP for local tooling: validation endpoints under /api/validate,
// a key/value surface under /api/store, a health endpoint with counter
// snapshots, and a WebSocket change feed mirroring the store's
// subscription hub.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gpslab/clientcore/internal/config"
	"github.com/gpslab/clientcore/internal/locale"
	"github.com/gpslab/clientcore/internal/logging"
	"github.com/gpslab/clientcore/internal/metrics"
	"github.com/gpslab/clientcore/internal/storage"
)

// Server serves the client-core HTTP API.
type Server struct {
	config   *config.Config
	store    *storage.Store
	logger   logging.Logger
	registry *metrics.Registry

	mu         sync.Mutex
	httpServer *http.Server
	isShutdown bool
}

// New creates a Server. A nil logger falls back to the no-op logger and
// a nil registry gets a private one.
func New(cfg *config.Config, store *storage.Store, logger logging.Logger, registry *metrics.Registry) *Server {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	return &Server{
		config:   cfg,
		store:    store,
		logger:   logger.WithComponent("server"),
		registry: registry,
	}
}

// Handler builds the route table. Exposed separately so tests can drive
// it through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/validate/email", s.handleValidateEmail)
	mux.HandleFunc("POST /api/validate/password", s.handleValidatePassword)
	mux.HandleFunc("POST /api/validate/form", s.handleValidateForm)

	mux.HandleFunc("GET /api/store", s.handleStoreList)
	mux.HandleFunc("GET /api/store/{key}", s.handleStoreGet)
	mux.HandleFunc("PUT /api/store/{key}", s.handleStorePut)
	mux.HandleFunc("DELETE /api/store/{key}", s.handleStoreDelete)

	mux.HandleFunc("GET /ws", s.handleChangeFeed)

	return s.withLogging(mux)
}

// Start runs the HTTP server until ctx is cancelled or the listener
// fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isShutdown {
		s.mu.Unlock()
		return fmt.Errorf("server already shut down")
	}
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	s.logger.Info(ctx, "listening", "address", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown gracefully stops the HTTP server. Safe to call more than
// once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isShutdown {
		return nil
	}
	s.isShutdown = true

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// checkOrigin validates the request origin for the WebSocket feed.
// Connections without an Origin header are rejected.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return false
	}

	expectedHost := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	if originURL.Host == expectedHost || originURL.Hostname() == s.config.Server.Host {
		return true
	}

	for _, allowed := range s.config.Server.AllowedOrigins {
		if origin == allowed || originURL.Host == allowed {
			return true
		}
	}
	return false
}

// localeFor resolves the message locale for a request, falling back to
// the configured default when the request carries none.
func (s *Server) localeFor(requested string) locale.Locale {
	if requested == "" {
		requested = s.config.Validation.Locale
	}
	return locale.Match(requested)
}
