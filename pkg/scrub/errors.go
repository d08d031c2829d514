package scrub

import (
	"errors"
	"fmt"
)

// ErrSuperseded reports that a seek request was made obsolete by a newer
// request before its capture could be delivered. It is expected control
// flow under fast scrubbing, not a failure.
var ErrSuperseded = errors.New("seek request superseded")

// LoadError reports that a video could not be loaded: the decoder rejected
// the input, or metadata did not arrive within the bounded wait. It is
// terminal for the current file.
type LoadError struct {
	Msg   string
	Cause error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load video: %s: %v", e.Msg, e.Cause)
	}
	return "load video: " + e.Msg
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error { return e.Cause }

// CaptureError reports that a positioned frame could not be rendered or
// encoded. It is transient: session status is unchanged and the next
// request may succeed.
type CaptureError struct {
	Msg   string
	Cause error
}

// Error implements the error interface.
func (e *CaptureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("capture frame: %s: %v", e.Msg, e.Cause)
	}
	return "capture frame: " + e.Msg
}

// Unwrap returns the underlying cause.
func (e *CaptureError) Unwrap() error { return e.Cause }
