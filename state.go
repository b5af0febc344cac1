package ggcapture

// State describes where a Session is in its run lifecycle.
//
// The transitions are:
//
//	Idle    -> Running  on Start
//	Running -> Stopped  on Stop, on reaching the frame limit,
//	                    or on a draw callback error
//	Stopped -> Idle     on Reset (which also restores default configuration)
//
// Stopped is terminal until an explicit Reset. There is never more than one
// active run per Session.
type State uint8

const (
	// StateIdle is the initial state. Configuration changes are only
	// accepted while Idle.
	StateIdle State = iota

	// StateRunning means the scheduler loop is driving the draw callback.
	StateRunning

	// StateStopped means the run has ended. A stopped session rejects
	// Configure and Start until Reset.
	StateStopped
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
