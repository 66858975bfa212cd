package request

// validTransitions defines allowed status changes. A request never moves backwards.
var validTransitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusDeclined},
	StatusApproved: {},
	StatusDeclined: {},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo returns true if moving from s to target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, v := range validTransitions[s] {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true once a request has been decided.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusDeclined
}
