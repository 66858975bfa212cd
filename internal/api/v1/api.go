// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/vmunix/reqarr/internal/events"
	"github.com/vmunix/reqarr/internal/pvr"
	"github.com/vmunix/reqarr/internal/request"
	"github.com/vmunix/reqarr/internal/workflow"
)

// Server is the v1 API server.
type Server struct {
	deps     ServerDeps
	log      *slog.Logger
	now      func() time.Time
	registry *events.Registry
}

// New creates a new v1 API server.
func New(deps ServerDeps) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		deps:     deps,
		log:      logger.With("component", "api"),
		now:      now,
		registry: events.DefaultRegistry(),
	}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Requests
	mux.HandleFunc("POST /api/v1/requests", s.authenticated(s.createRequest))
	mux.HandleFunc("GET /api/v1/requests", s.authenticated(s.listRequests))
	mux.HandleFunc("GET /api/v1/requests/{id}", s.authenticated(s.getRequest))
	mux.HandleFunc("PATCH /api/v1/requests/{id}", s.authenticated(s.updateRequest))
	mux.HandleFunc("DELETE /api/v1/requests/{id}", s.authenticated(s.deleteRequest))
	mux.HandleFunc("GET /api/v1/requests/count/{user_id}", s.authenticated(s.countRequests))
	mux.HandleFunc("GET /api/v1/requests/media/{media_id}", s.authenticated(s.listMediaRequests))

	// Quota & acquisition
	mux.HandleFunc("GET /api/v1/quota", s.authenticated(s.getQuota))
	mux.HandleFunc("POST /api/v1/acquire", s.authenticated(s.requireWorkflow(s.acquire)))
	mux.HandleFunc("GET /api/v1/progress", s.authenticated(s.requireAcquirer(s.getProgress)))

	// System
	mux.HandleFunc("GET /api/v1/events", s.authenticated(s.requireEventLog(s.listEvents)))
	mux.HandleFunc("GET /api/v1/events/{entity_type}/{entity_id}", s.authenticated(s.requireEventLog(s.entityEvents)))
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
}

// Handler returns a mux with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// writeDomainError maps an error from the domain packages to a response.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, request.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, workflow.ErrRequestsDisabled):
		writeError(w, http.StatusForbidden, "REQUESTS_DISABLED", err.Error())
	case errors.Is(err, request.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, request.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, request.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	case errors.Is(err, workflow.ErrNoAnswer):
		writeError(w, http.StatusBadRequest, "ANSWER_REQUIRED", err.Error())
	case errors.Is(err, pvr.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "TITLE_NOT_FOUND", err.Error())
	case errors.Is(err, pvr.ErrNoSeasons):
		writeError(w, http.StatusUnprocessableEntity, "NO_SEASONS", err.Error())
	case errors.Is(err, pvr.ErrIntegrationConfig), errors.Is(err, pvr.ErrInvalidAPIKey):
		writeError(w, http.StatusUnprocessableEntity, "INTEGRATION_CONFIG", err.Error())
	case errors.Is(err, pvr.ErrIntegrationUnavailable):
		writeError(w, http.StatusBadGateway, "INTEGRATION_UNAVAILABLE", err.Error())
	default:
		s.log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, idStr)
	}
	return id, nil
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) (int, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, val)
	}
	return i, nil
}

// queryIntPtr extracts an optional integer, nil when absent.
func queryIntPtr(r *http.Request, name string) (*int, error) {
	if r.URL.Query().Get(name) == "" {
		return nil, nil
	}
	i, err := queryInt(r, name, 0)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
