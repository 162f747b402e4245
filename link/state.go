package link

// State is a stage of the link establishment state machine.
type State uint32

// Link establishment states.
const (
	// StateIdle is the state before the loop starts.
	StateIdle State = iota
	// StateWaiting indicates that a read is outstanding.
	StateWaiting
	// StateValidating indicates that the bytes of the last read are being validated.
	StateValidating
	// StateSuccess indicates that a valid frame was received.
	StateSuccess
	// StateExhausted indicates that all attempts expired without a valid frame.
	StateExhausted
)

// String returns string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaiting:
		return "waiting"
	case StateValidating:
		return "validating"
	case StateSuccess:
		return "success"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether s ends the loop.
func (s State) IsTerminal() bool { return s == StateSuccess || s == StateExhausted }

// Outcome is the result of a link establishment run.
type Outcome uint8

const (
	// OutcomeAborted means the run stopped before reaching a terminal state,
	// because of a setup failure, a transport error or context cancellation.
	OutcomeAborted Outcome = iota
	// OutcomeSuccess means a valid frame was received.
	OutcomeSuccess
	// OutcomeExhausted means the attempt budget ran out.
	OutcomeExhausted
)

// String returns string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeAborted:
		return "aborted"
	case OutcomeSuccess:
		return "success"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}
