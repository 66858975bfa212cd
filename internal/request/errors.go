package request

import "errors"

// Sentinel errors for the request package.
var (
	// ErrNotFound is returned when a request does not exist.
	ErrNotFound = errors.New("request not found")

	// ErrForbidden is returned when the acting user may not perform the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition is returned for a status change the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidRequest is returned when a request fails validation.
	ErrInvalidRequest = errors.New("invalid request")
)
