package v1

import (
	"net/http"
	"time"

	"github.com/vmunix/reqarr/internal/events"
	"github.com/vmunix/reqarr/internal/media"
)

const maxEventLimit = 1000

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 100)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a non-negative integer")
		return
	}
	if limit == 0 || limit > maxEventLimit {
		limit = maxEventLimit
	}

	since := s.now().Add(-24 * time.Hour)
	if v := r.URL.Query().Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_SINCE", "since must be an RFC 3339 timestamp")
			return
		}
		since = t
	}

	raw, err := s.deps.EventLog.Since(r.Context(), since, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.eventList(raw))
}

// entityEvents returns the history of one request or title. Request history is
// visible to the request's owner and to admins; admins also see deleted requests.
func (s *Server) entityEvents(w http.ResponseWriter, r *http.Request) {
	entityType := r.PathValue("entity_type")
	id, err := pathID(r, "entity_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	switch entityType {
	case events.EntityTitle:
	case events.EntityRequest:
		if !actor(r).IsAdmin {
			if _, err := s.deps.Requests.Get(r.Context(), actor(r), id); err != nil {
				s.writeDomainError(w, err)
				return
			}
		}
	default:
		writeError(w, http.StatusBadRequest, "INVALID_ENTITY", "entity type must be request or title")
		return
	}

	raw, err := s.deps.EventLog.ForEntity(r.Context(), entityType, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.eventList(raw))
}

func (s *Server) eventList(raw []events.RawEvent) listEventsResponse {
	resp := listEventsResponse{Items: make([]EventResponse, len(raw)), Total: len(raw)}
	for i, e := range raw {
		resp.Items[i] = EventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Payload:    e.Payload,
			OccurredAt: e.OccurredAt,
		}
		decoded, err := s.registry.Unmarshal(e)
		if err != nil {
			s.log.Debug("event payload not decoded", "event_id", e.ID, "error", err)
			continue
		}
		resp.Items[i].Data = decoded
	}
	return resp
}

func (s *Server) getStatus(w http.ResponseWriter, _ *http.Request) {
	p := s.deps.Quota.Policy()
	resp := StatusResponse{
		Status:       "ok",
		Version:      s.deps.Version,
		Integrations: make(map[string]string, 2),
		Policy: PolicyResponse{
			AllowRequests:  p.AllowRequests,
			ApprovalMethod: string(p.ApprovalMethod),
			WindowDays:     p.WindowDays,
			MovieLimit:     p.MovieLimit,
			SeriesLimit:    p.SeriesLimit,
		},
	}
	for _, kind := range []media.Kind{media.KindMovie, media.KindSeries} {
		state := "not configured"
		if s.deps.Integrations != nil {
			if _, err := s.deps.Integrations.Integration(kind); err == nil {
				state = "configured"
			} else {
				state = err.Error()
			}
		}
		resp.Integrations[kind.String()] = state
	}
	writeJSON(w, http.StatusOK, resp)
}
