package ggcapture

import (
	"errors"
	"fmt"
)

// ErrInvalidState reports an operation attempted in the wrong session state:
// configuring or starting while not Idle, or stopping while not Running.
// These are programmer-contract violations, never transient conditions.
var ErrInvalidState = errors.New("ggcapture: invalid state")

// ErrInvalidConfig reports a rejected configuration value, such as a
// non-positive surface size or frame rate, or an unregistered format.
var ErrInvalidConfig = errors.New("ggcapture: invalid configuration")

// CallbackError wraps an error returned by the draw callback. The run halts
// with the session Stopped and any accumulated frames are discarded without
// delivering an archive.
type CallbackError struct {
	// Frame is the tick index at which the callback failed.
	Frame int

	// Err is the callback's error, unmodified.
	Err error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("ggcapture: draw callback failed at frame %d: %v", e.Frame, e.Err)
}

func (e *CallbackError) Unwrap() error { return e.Err }
