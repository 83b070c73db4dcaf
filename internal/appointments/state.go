package appointments

// transitions is the lifecycle state machine. A status maps to the set of
// statuses it may move to; anything absent is rejected with
// ErrInvalidTransition. All transitions are monotonic: nothing re-enters
// pending.
var transitions = map[Status]map[Status]struct{}{
	StatusPending: {
		StatusAccepted:  {},
		StatusDeclined:  {},
		StatusCancelled: {},
	},
	StatusAccepted: {
		StatusCompleted:           {},
		StatusCancelled:           {},
		StatusRescheduleRequested: {},
	},
	StatusRescheduleRequested: {
		StatusAccepted: {},
	},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to Status) bool {
	next, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// IsTerminal reports whether the status admits no further transitions.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}
