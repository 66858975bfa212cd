package v1

import (
	"net/http"
	"sync"

	"github.com/vmunix/reqarr/internal/media"
	"github.com/vmunix/reqarr/internal/workflow"
)

func (s *Server) getQuota(w http.ResponseWriter, r *http.Request) {
	kind, err := media.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_KIND", err.Error())
		return
	}

	u := actor(r)
	res, err := s.deps.Quota.Evaluate(r.Context(), u, kind, s.now())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, QuotaResponse{UserID: u.ID, Kind: kind.String(), Result: res})
}

// acquire runs the workflow without a terminal. Questions are answered from the body;
// a question it does not answer fails the run with ANSWER_REQUIRED.
func (s *Server) acquire(w http.ResponseWriter, r *http.Request) {
	var body AcquireBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	kind, err := media.ParseKind(body.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_KIND", err.Error())
		return
	}
	if body.MediaID <= 0 {
		writeError(w, http.StatusBadRequest, "INVALID_MEDIA_ID", "media_id must be positive")
		return
	}

	var (
		mu      sync.Mutex
		notices = []workflow.Notice{}
	)
	collect := workflow.NotifierFunc(func(n workflow.Notice) {
		mu.Lock()
		defer mu.Unlock()
		notices = append(notices, n)
	})

	answers := workflow.NewAnswerSheet(body.Season, body.Episode, body.Mode, body.Retry)
	intent := workflow.Intent{Kind: kind, MediaID: body.MediaID}

	res, err := s.deps.Workflow.Run(r.Context(), actor(r), intent, answers, collect)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	mu.Lock()
	defer mu.Unlock()
	writeJSON(w, http.StatusOK, acquireResponse(res, notices))
}

func acquireResponse(res *workflow.Result, notices []workflow.Notice) AcquireResponse {
	t := res.Target
	resp := AcquireResponse{
		RunID: res.RunID,
		State: string(res.State),
		Target: TargetResponse{
			Kind:    t.Kind.String(),
			MediaID: t.ExternalID,
			Title:   t.Title,
			Season:  t.Season,
			Episode: t.Episode,
			Mode:    string(t.Mode),
		},
		Quota:    res.Quota,
		Request:  res.Request,
		Attempts: res.Attempts,
		Reason:   res.Reason,
		Notices:  notices,
		History:  make([]string, len(res.History)),
	}
	if res.Release != nil {
		resp.Release = res.Release.Title
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	for i, st := range res.History {
		resp.History[i] = string(st)
	}
	return resp
}

func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) {
	kind, err := media.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_KIND", err.Error())
		return
	}
	mediaID, err := queryInt(r, "media_id", 0)
	if err != nil || mediaID <= 0 {
		writeError(w, http.StatusBadRequest, "INVALID_MEDIA_ID", "media_id must be a positive integer")
		return
	}
	season, err := queryIntPtr(r, "season")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_SEASON", err.Error())
		return
	}

	p, err := s.deps.Acquirer.Progress(r.Context(), kind, int64(mediaID), season)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProgressResponse{Downloading: p != nil, Progress: p})
}
