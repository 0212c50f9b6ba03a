package worker

import "fmt"

// State represents the current lifecycle phase of a worker.
type State string

const (
	StateStarting    State = "starting"
	StateIdle        State = "idle"
	StateBusy        State = "busy"
	StateTerminating State = "terminating"
	StateTerminated  State = "terminated"
)

// legal enumerates permitted transitions: starting→idle→busy→idle→…→
// terminating→terminated. No state is skipped or revisited out of order.
var legal = map[State][]State{
	StateStarting:    {StateIdle, StateTerminating},
	StateIdle:        {StateBusy, StateTerminating},
	StateBusy:        {StateIdle, StateTerminating},
	StateTerminating: {StateTerminated},
	StateTerminated:  {},
}

func (s State) canTransition(next State) bool {
	for _, candidate := range legal[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s State) IsTerminal() bool {
	return s == StateTerminated
}

// NewIllegalTransitionError describes a rejected state change.
func NewIllegalTransitionError(from, to State) error {
	return fmt.Errorf("illegal worker state transition %v -> %v", from, to)
}
