package workflow

// State is a step of the approval workflow.
type State string

const (
	StateSelectingTarget        State = "selecting_target"
	StateEvaluatingQuota        State = "evaluating_quota"
	StateAutoAcquiring          State = "auto_acquiring"
	StateCreatingPendingRequest State = "creating_pending_request"
	StateErrorRecovery          State = "error_recovery"
	StateNotifying              State = "notifying"
	StateDone                   State = "done"
	StateAbandoned              State = "abandoned"
)

// validTransitions defines allowed workflow steps.
var validTransitions = map[State][]State{
	StateSelectingTarget:        {StateEvaluatingQuota, StateAbandoned},
	StateEvaluatingQuota:        {StateAutoAcquiring, StateCreatingPendingRequest, StateAbandoned},
	StateAutoAcquiring:          {StateNotifying, StateErrorRecovery},
	StateErrorRecovery:          {StateAutoAcquiring, StateAbandoned},
	StateCreatingPendingRequest: {StateNotifying, StateAbandoned},
	StateNotifying:              {StateDone},
	StateDone:                   {},
	StateAbandoned:              {},
}

// CanTransitionTo returns true if moving from s to target is allowed.
func (s State) CanTransitionTo(target State) bool {
	for _, v := range validTransitions[s] {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true for Done and Abandoned.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateAbandoned
}
