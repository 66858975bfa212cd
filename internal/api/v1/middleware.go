package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/vmunix/reqarr/internal/user"
)

// HeaderUserID carries the id of the acting user. It is trusted as-is.
const HeaderUserID = "X-User-ID"

type actorKey struct{}

// authenticated resolves the acting user from the X-User-ID header.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderUserID)
		if id == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", HeaderUserID+" header is required")
			return
		}
		u, err := s.deps.Users.Get(r.Context(), id)
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "UNKNOWN_USER", "unknown user "+id)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, *u)))
	}
}

// actor returns the user resolved by authenticated.
func actor(r *http.Request) user.User {
	u, _ := r.Context().Value(actorKey{}).(user.User)
	return u
}

// requireWorkflow wraps a handler and returns 503 if the orchestrator is not configured.
func (s *Server) requireWorkflow(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Workflow == nil {
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Workflow not configured")
			return
		}
		next(w, r)
	}
}

// requireAcquirer wraps a handler and returns 503 if the coordinator is not configured.
func (s *Server) requireAcquirer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Acquirer == nil {
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Acquisition not configured")
			return
		}
		next(w, r)
	}
}

// requireEventLog wraps a handler and returns 503 if the event log is not configured.
func (s *Server) requireEventLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.EventLog == nil {
			writeError(w, http.StatusServiceUnavailable, "NO_EVENT_LOG", "Event log not configured")
			return
		}
		next(w, r)
	}
}
