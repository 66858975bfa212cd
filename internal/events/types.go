package events

// Entity types.
const (
	EntityRequest = "request"
	EntityTitle   = "title" // entity id is the external catalog id
)

// Event types.
const (
	EventRequestCreated       = "request.created"
	EventRequestStatusChanged = "request.status.changed"
	EventRequestDeleted       = "request.deleted"
	EventAcquisitionStarted   = "acquisition.started"
	EventAcquisitionSucceeded = "acquisition.succeeded"
	EventAcquisitionFailed    = "acquisition.failed"
	EventWorkflowAbandoned    = "workflow.abandoned"
)

// RequestCreated is emitted when a request is persisted.
type RequestCreated struct {
	BaseEvent
	UserID  string `json:"user_id"`
	MediaID int64  `json:"media_id"`
	Kind    string `json:"kind"`
	Season  *int   `json:"season,omitempty"`
	Episode *int   `json:"episode,omitempty"`
	Status  string `json:"status"`
}

// RequestStatusChanged is emitted when an admin approves or declines a request.
type RequestStatusChanged struct {
	BaseEvent
	From    string `json:"from"`
	To      string `json:"to"`
	ActorID string `json:"actor_id"`
}

// RequestDeleted is emitted when a request is removed.
type RequestDeleted struct {
	BaseEvent
	ActorID string `json:"actor_id"`
}

// AcquisitionStarted is emitted when a workflow starts acquiring a target.
type AcquisitionStarted struct {
	BaseEvent
	RunID   string `json:"run_id"`
	Target  string `json:"target"`
	Mode    string `json:"mode"`
	Attempt int    `json:"attempt"`
}

// AcquisitionSucceeded is emitted when the PVR accepted the download.
type AcquisitionSucceeded struct {
	BaseEvent
	RunID       string `json:"run_id"`
	Target      string `json:"target"`
	ReleaseName string `json:"release_name,omitempty"`
	Indexer     string `json:"indexer,omitempty"`
}

// AcquisitionFailed is emitted when an acquisition attempt ends without a download.
type AcquisitionFailed struct {
	BaseEvent
	RunID     string `json:"run_id"`
	Target    string `json:"target"`
	Reason    string `json:"reason"`
	Retryable bool   `json:"retryable"`
}

// WorkflowAbandoned is emitted when the user gives up after a failure.
type WorkflowAbandoned struct {
	BaseEvent
	RunID  string `json:"run_id"`
	Reason string `json:"reason"`
}
