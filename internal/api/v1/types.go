package v1

import (
	"time"

	"github.com/vmunix/reqarr/internal/pvr"
	"github.com/vmunix/reqarr/internal/quota"
	"github.com/vmunix/reqarr/internal/request"
	"github.com/vmunix/reqarr/internal/workflow"
)

// createRequestBody is the body of POST /requests.
type createRequestBody struct {
	UserID  string `json:"user_id"`
	MediaID int64  `json:"media_id"`
	Kind    string `json:"kind"`
	Season  *int   `json:"season,omitempty"`
	Episode *int   `json:"episode,omitempty"`
	Status  string `json:"status,omitempty"`
}

// updateRequestBody is the body of PATCH /requests/{id}.
type updateRequestBody struct {
	Status string `json:"status"`
}

// listRequestsResponse is the response for the request listings.
type listRequestsResponse struct {
	Items []*request.Request `json:"items"`
	Total int                `json:"total"`
}

// CountResponse is the response for GET /requests/count/{user_id}.
type CountResponse struct {
	UserID string `json:"user_id"`
	Days   int    `json:"days"`
	Count  int    `json:"count"`
}

// QuotaResponse is the response for GET /quota.
type QuotaResponse struct {
	UserID string `json:"user_id"`
	Kind   string `json:"kind"`
	quota.Result
}

// AcquireBody is the body of POST /acquire. The optional fields answer the
// questions the workflow would otherwise ask interactively.
type AcquireBody struct {
	Kind    string `json:"kind"`
	MediaID int64  `json:"media_id"`
	Season  *int   `json:"season,omitempty"`
	Episode *int   `json:"episode,omitempty"`
	Mode    string `json:"mode,omitempty"` // "monitor" or "episode"
	Retry   bool   `json:"retry,omitempty"`
}

// AcquireResponse is the response for POST /acquire.
type AcquireResponse struct {
	RunID    string            `json:"run_id"`
	State    string            `json:"state"`
	Target   TargetResponse    `json:"target"`
	Quota    *quota.Result     `json:"quota,omitempty"`
	Request  *request.Request  `json:"request,omitempty"`
	Release  string            `json:"release,omitempty"`
	Attempts int               `json:"attempts"`
	Reason   string            `json:"reason,omitempty"`
	Error    string            `json:"error,omitempty"`
	Notices  []workflow.Notice `json:"notices"`
	History  []string          `json:"history"`
}

// TargetResponse describes what a run acquired or requested.
type TargetResponse struct {
	Kind    string `json:"kind"`
	MediaID int64  `json:"media_id"`
	Title   string `json:"title,omitempty"`
	Season  *int   `json:"season,omitempty"`
	Episode *int   `json:"episode,omitempty"`
	Mode    string `json:"mode,omitempty"`
}

// ProgressResponse is the response for GET /progress.
type ProgressResponse struct {
	Downloading bool `json:"downloading"`
	*pvr.Progress
}

// EventResponse is one entry of GET /events.
type EventResponse struct {
	ID         int64     `json:"id"`
	EventType  string    `json:"event_type"`
	EntityType string    `json:"entity_type"`
	EntityID   int64     `json:"entity_id"`
	Payload    string    `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`

	// Data is the decoded payload, omitted for unknown event types.
	Data any `json:"data,omitempty"`
}

type listEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
}

// StatusResponse is the response for GET /status.
type StatusResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Integrations map[string]string `json:"integrations"`
	Policy       PolicyResponse    `json:"policy"`
}

// PolicyResponse is the request policy in force.
type PolicyResponse struct {
	AllowRequests  bool   `json:"allow_requests"`
	ApprovalMethod string `json:"approval_method"`
	WindowDays     int    `json:"window_days"`
	MovieLimit     int    `json:"movie_limit"`
	SeriesLimit    int    `json:"series_limit"`
}
