package acquisition

// State is a step of one acquisition attempt.
type State string

const (
	StateFetchingCandidates State = "fetching_candidates"
	StateSelecting          State = "selecting"
	StateDownloading        State = "downloading"
	StateMonitoring         State = "monitoring"
	StateSearching          State = "searching"
	StateSucceeded          State = "succeeded"
	StateFailed             State = "failed"
)

// validTransitions defines allowed state transitions.
// Key is the "from" state, value is list of valid "to" states.
var validTransitions = map[State][]State{
	StateFetchingCandidates: {StateSelecting, StateFailed},
	StateSelecting:          {StateDownloading, StateFailed},
	StateDownloading:        {StateSucceeded, StateFailed},
	StateMonitoring:         {StateSearching, StateFailed},
	StateSearching:          {StateSucceeded, StateFailed},
	StateSucceeded:          {}, // terminal
	StateFailed:             {}, // terminal; a retry starts a fresh attempt
}

// CanTransitionTo returns true if transitioning from s to target is valid.
func (s State) CanTransitionTo(target State) bool {
	for _, v := range validTransitions[s] {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the attempt is over.
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}
