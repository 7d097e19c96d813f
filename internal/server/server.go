package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/teemow/autotask/internal/instrumentation"
	"github.com/teemow/autotask/internal/logging"
	"github.com/teemow/autotask/internal/pipeline"
)

const (
	// DefaultAddr is the default address for the sync API server.
	DefaultAddr = ":8080"

	// DefaultReadHeaderTimeout bounds how long the server waits for request headers.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultIdleTimeout is the keep-alive idle timeout.
	DefaultIdleTimeout = 60 * time.Second
)

// SyncRunner runs one pass of the email-to-task pipeline. It is implemented
// by pipeline.Orchestrator.
type SyncRunner interface {
	Run(ctx context.Context, maxResults int64) (*pipeline.SyncResult, error)
}

// errorResponse is the JSON body returned for failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

// SyncServer exposes the sync pipeline over HTTP. A single run is triggered
// per request; the response carries the full sync result.
type SyncServer struct {
	runner     SyncRunner
	health     *HealthChecker
	metrics    *instrumentation.Metrics
	logger     *slog.Logger
	httpServer *http.Server
	addr       string
}

// NewSyncServer creates a sync API server listening on addr.
func NewSyncServer(runner SyncRunner, addr string, logger *slog.Logger) (*SyncServer, error) {
	if runner == nil {
		return nil, fmt.Errorf("sync runner is required")
	}
	if addr == "" {
		addr = DefaultAddr
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SyncServer{
		runner: runner,
		health: NewHealthChecker(),
		logger: logging.WithService(logger, "http"),
		addr:   addr,
	}, nil
}

// SetMetrics attaches a metrics recorder for HTTP request instrumentation.
func (s *SyncServer) SetMetrics(m *instrumentation.Metrics) {
	s.metrics = m
}

// Health returns the health checker so callers can flip readiness.
func (s *SyncServer) Health() *HealthChecker {
	return s.health
}

// Addr returns the configured listen address.
func (s *SyncServer) Addr() string {
	return s.addr
}

// Handler builds the HTTP handler with all routes registered.
func (s *SyncServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/sync/gmail", s.instrument("/sync/gmail", http.HandlerFunc(s.handleSync)))
	s.health.RegisterHealthEndpoints(mux)
	return mux
}

// Start starts the server and closes the ready channel once the listener is
// bound. Blocks until the server stops.
func (s *SyncServer) Start(ready chan<- struct{}) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind sync server to %s: %w", s.addr, err)
	}

	s.logger.Info("starting sync server", "addr", s.addr)
	if ready != nil {
		close(ready)
	}

	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server, failing readiness first so
// probes drain traffic.
func (s *SyncServer) Shutdown(ctx context.Context) error {
	s.health.SetShuttingDown()
	if s.httpServer != nil {
		s.logger.Info("shutting down sync server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// handleSync triggers one pipeline run and writes the sync result as JSON.
// POST only: a run has side effects (calendar inserts, mark-read).
//
// The optional max_results query parameter caps how many unread messages the
// run considers; when absent the configured batch size applies.
func (s *SyncServer) handleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var maxResults int64
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid max_results %q: must be a positive integer", raw))
			return
		}
		maxResults = parsed
	}

	ctx, span := instrumentation.StartSpan(r.Context(), "sync.run")
	defer span.End()

	start := time.Now()
	result, err := s.runner.Run(ctx, maxResults)
	duration := time.Since(start)

	if err != nil {
		instrumentation.SetSpanError(span, err)
		s.logger.Error("sync run failed",
			logging.Operation("sync"),
			logging.Err(err),
			slog.Duration(logging.KeyDuration, duration),
		)

		// Collaborator outages map to a gateway error; anything else is
		// an internal failure.
		var unavailable *pipeline.CollaboratorUnavailableError
		if errors.As(err, &unavailable) {
			s.writeError(w, http.StatusBadGateway, unavailable.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, "sync run failed")
		return
	}

	instrumentation.SetSpanSuccess(span)
	s.logger.Info("sync run completed",
		logging.Operation("sync"),
		logging.Status(logging.StatusSuccess),
		slog.String("result_status", result.Status),
		slog.Int("tasks_created", result.TasksCreated),
		slog.Duration(logging.KeyDuration, duration),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error("failed to encode sync result", logging.Err(err))
	}
}

func (s *SyncServer) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// statusRecorder captures the response status code for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument wraps a handler with HTTP request metrics.
func (s *SyncServer) instrument(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		if s.metrics != nil {
			s.metrics.RecordHTTPRequest(r.Context(), r.Method, path, rec.status, time.Since(start))
		}
	})
}
