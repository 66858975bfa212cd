// Package request owns the Request entity: its status lifecycle, its storage and the
// authorization rules around creating, approving and deleting requests.
package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/vmunix/reqarr/internal/media"
)

// Status is the approval state of a request.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusDeclined Status = "Declined"
)

// ParseStatus accepts a status name in any case.
func ParseStatus(s string) (Status, error) {
	for _, st := range []Status{StatusPending, StatusApproved, StatusDeclined} {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, s)
}

// Request is a persisted desire to acquire a title.
type Request struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	MediaID   int64      `json:"media_id"`
	Kind      media.Kind `json:"kind"`
	Season    *int       `json:"season,omitempty"`
	Episode   *int       `json:"episode,omitempty"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Validate checks the shape of a request before it is stored.
func (r *Request) Validate() error {
	switch {
	case r.UserID == "":
		return fmt.Errorf("%w: requester is required", ErrInvalidRequest)
	case r.MediaID <= 0:
		return fmt.Errorf("%w: media id must be positive", ErrInvalidRequest)
	case !r.Kind.Valid():
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, r.Kind)
	case r.Kind == media.KindMovie && (r.Season != nil || r.Episode != nil):
		return fmt.Errorf("%w: a movie request has no season or episode", ErrInvalidRequest)
	case r.Episode != nil && r.Season == nil:
		return fmt.Errorf("%w: an episode requires a season", ErrInvalidRequest)
	}
	return nil
}

// Filter specifies criteria for listing and counting requests.
// Since and Until bound created_at inclusively.
type Filter struct {
	UserID  *string
	MediaID *int64
	Kind    *media.Kind
	Status  *Status
	Since   *time.Time
	Until   *time.Time
}
