package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/teemow/taskfewer/internal/instrumentation"
	"github.com/teemow/taskfewer/internal/logging"
	"github.com/teemow/taskfewer/internal/task"
)

const (
	// DefaultHTTPAddr is the default address for the REST API server.
	DefaultHTTPAddr = ":8080"

	// DefaultHTTPReadHeaderTimeout bounds how long a client may take to send headers.
	DefaultHTTPReadHeaderTimeout = 5 * time.Second

	// DefaultHTTPShutdownTimeout is the timeout for graceful shutdown.
	DefaultHTTPShutdownTimeout = 30 * time.Second
)

// Error messages returned in the REST error envelope.
const (
	errTitleRequired = "Title is required"
	errTaskNotFound  = "Task not found"
	errSaveFailed    = "Failed to save tasks"
	errInternal      = "Internal server error"
)

// HTTPServer is the REST transport adapter. It maps the five task
// operations onto HTTP routes and wraps every result in the
// {success, data, count?} / {success:false, error} envelope.
type HTTPServer struct {
	sc         *ServerContext
	health     *HealthChecker
	mux        *http.ServeMux
	logger     *slog.Logger
	httpServer *http.Server
}

// NewHTTPServer creates the REST adapter over the given server context.
// If logger is nil, slog.Default() is used.
func NewHTTPServer(sc *ServerContext, health *HealthChecker, logger *slog.Logger) *HTTPServer {
	if logger == nil {
		logger = slog.Default()
	}

	s := &HTTPServer{
		sc:     sc,
		health: health,
		mux:    http.NewServeMux(),
		logger: logger,
	}

	s.mux.HandleFunc("GET /tasks", s.handleListTasks)
	s.mux.HandleFunc("POST /tasks", s.handleCreateTask)
	s.mux.HandleFunc("GET /tasks/{id}", s.handleGetTask)
	s.mux.HandleFunc("PATCH /tasks/{id}/complete", s.handleCompleteTask)
	s.mux.HandleFunc("DELETE /tasks/{id}", s.handleDeleteTask)

	if health != nil {
		s.mux.Handle("GET /healthz", health.LivenessHandler())
		s.mux.Handle("GET /readyz", health.ReadinessHandler())
	}

	return s
}

// ServeHTTP implements http.Handler so the adapter can be mounted or tested
// directly with httptest.
func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.withMiddleware(s.mux).ServeHTTP(w, r)
}

// Start runs the REST server on addr in a blocking manner.
func (s *HTTPServer) Start(addr string) error {
	if addr == "" {
		addr = DefaultHTTPAddr
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: DefaultHTTPReadHeaderTimeout,
	}

	s.logger.Info("starting REST server", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the REST server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		s.logger.Info("shutting down REST server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
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

// withMiddleware wraps the mux with request logging, tracing, and metrics.
func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx, span := instrumentation.StartSpan(r.Context(), "http "+r.Method+" "+r.URL.Path)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		// r.Pattern is the matched route; it keeps metric cardinality bounded
		// regardless of the ids in the path.
		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}

		if m := s.sc.Metrics(); m != nil {
			m.RecordHTTPRequest(ctx, r.Method, path, rec.status, time.Since(start))
		}

		s.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// envelope is the response shape shared by every REST endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, tasks []task.Task) {
	count := len(tasks)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: tasks, Count: &count})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

// writeServiceError maps task service errors onto the REST error envelope.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, task.ErrNotFound):
		writeError(w, http.StatusNotFound, errTaskNotFound)
	case errors.Is(err, task.ErrPersist):
		writeError(w, http.StatusInternalServerError, errSaveFailed)
	default:
		s.logger.Error("unexpected service error", logging.Err(err))
		writeError(w, http.StatusInternalServerError, errInternal)
	}
}

type createTaskRequest struct {
	Title string `json:"title"`
}

func (s *HTTPServer) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON body: %v", err))
		return
	}

	// Title validation is a transport concern; the service accepts anything.
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, errTitleRequired)
		return
	}

	created, err := s.sc.Service().Create(r.Context(), req.Title)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusCreated, created)
}

func (s *HTTPServer) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks := s.sc.Service().List(r.Context())
	writeList(w, tasks)
}

func (s *HTTPServer) handleGetTask(w http.ResponseWriter, r *http.Request) {
	found, err := s.sc.Service().Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, found)
}

func (s *HTTPServer) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	updated, err := s.sc.Service().Complete(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *HTTPServer) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	removed, err := s.sc.Service().Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, removed)
}
