package acquisition

import "errors"

// Sentinel errors for the acquisition package.
var (
	// ErrNoCandidates is returned when every fetch attempt came back empty.
	ErrNoCandidates = errors.New("no releases found")

	// ErrNoSuitableRelease is returned when the scorer rejected every candidate.
	ErrNoSuitableRelease = errors.New("no suitable release")

	// ErrGrabRejected is returned when the PVR declined to download the chosen release.
	ErrGrabRejected = errors.New("grab rejected")

	// ErrInProgress is returned when the same target is already being acquired.
	ErrInProgress = errors.New("acquisition already in progress")

	// errInvalidTransition means the state machine was driven out of order.
	errInvalidTransition = errors.New("invalid state transition")
)
