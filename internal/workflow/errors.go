package workflow

import "errors"

// Sentinel errors for the workflow package.
var (
	// ErrCancelled is returned by a Prompter when the user dismisses a question.
	ErrCancelled = errors.New("cancelled by user")

	// ErrNoAnswer is returned by a non-interactive prompter that has no answer for a question.
	ErrNoAnswer = errors.New("no answer")

	// ErrRequestsDisabled is returned when requests are turned off for non-admins.
	ErrRequestsDisabled = errors.New("requests are disabled")

	// errInvalidTransition means the workflow was driven out of order.
	errInvalidTransition = errors.New("invalid workflow transition")
)
