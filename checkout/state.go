package checkout

// State is the position of the order submission workflow.
type State string

const (
	// StateIdle waits for a place-order trigger.
	StateIdle State = "idle"
	// StateValidating runs the local, synchronous preconditions.
	StateValidating State = "validating"
	// StateSubmitting has the order on the wire.
	StateSubmitting State = "submitting"
	// StateReconciling re-reads stock after the service accepted the order.
	StateReconciling State = "reconciling"
	// StateComplete has recorded the order locally.
	StateComplete State = "complete"
	// StateError means validation or submission failed; input is intact.
	StateError State = "error"
)

func (s State) String() string {
	return string(s)
}

// InFlight reports whether a place-order trigger must be ignored.
func (s State) InFlight() bool {
	return s == StateValidating || s == StateSubmitting || s == StateReconciling
}

func isValidTransition(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateValidating
	case StateValidating:
		return to == StateSubmitting || to == StateError
	case StateSubmitting:
		return to == StateReconciling || to == StateError
	case StateReconciling:
		return to == StateComplete
	case StateComplete, StateError:
		return to == StateIdle
	default:
		return false
	}
}
