package v1

import (
	"net/http"

	"github.com/vmunix/reqarr/internal/media"
	"github.com/vmunix/reqarr/internal/request"
)

func (s *Server) createRequest(w http.ResponseWriter, r *http.Request) {
	var body createRequestBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	kind, err := media.ParseKind(body.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_KIND", err.Error())
		return
	}

	u := actor(r)
	in := request.NewRequest{
		UserID:  body.UserID,
		MediaID: body.MediaID,
		Kind:    kind,
		Season:  body.Season,
		Episode: body.Episode,
	}
	if in.UserID == "" {
		in.UserID = u.ID
	}
	if body.Status != "" {
		st, err := request.ParseStatus(body.Status)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_STATUS", err.Error())
			return
		}
		in.Status = st
	}
	// Auto-approval is the workflow's decision; callers outside it only file pending requests.
	if !u.IsAdmin {
		in.Status = request.StatusPending
	}

	req, err := s.deps.Requests.Create(r.Context(), u, in)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) listRequests(w http.ResponseWriter, r *http.Request) {
	u := actor(r)
	q := r.URL.Query()

	var (
		items []*request.Request
		err   error
	)
	switch {
	case q.Get("status") != "":
		st, perr := request.ParseStatus(q.Get("status"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, "INVALID_STATUS", perr.Error())
			return
		}
		items, err = s.deps.Requests.ListStatus(r.Context(), u, st)
	case q.Get("user_id") != "":
		items, err = s.deps.Requests.ListByUser(r.Context(), u, q.Get("user_id"))
	default:
		items, err = s.deps.Requests.List(r.Context(), u)
	}
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeList(w, items)
}

func (s *Server) getRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	req, err := s.deps.Requests.Get(r.Context(), actor(r), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) updateRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var body updateRequestBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	st, err := request.ParseStatus(body.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_STATUS", err.Error())
		return
	}

	req, err := s.deps.Requests.UpdateStatus(r.Context(), actor(r), id, st)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) deleteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	if err := s.deps.Requests.Delete(r.Context(), actor(r), id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) countRequests(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	days, err := queryInt(r, "days", s.deps.Quota.Policy().WindowDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DAYS", err.Error())
		return
	}

	count, err := s.deps.Requests.CountInWindow(r.Context(), actor(r), userID, days, s.now())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{UserID: userID, Days: days, Count: count})
}

func (s *Server) listMediaRequests(w http.ResponseWriter, r *http.Request) {
	mediaID, err := pathID(r, "media_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	items, err := s.deps.Requests.ListByMedia(r.Context(), mediaID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeList(w, items)
}

func writeList(w http.ResponseWriter, items []*request.Request) {
	if items == nil {
		items = []*request.Request{}
	}
	writeJSON(w, http.StatusOK, listRequestsResponse{Items: items, Total: len(items)})
}
