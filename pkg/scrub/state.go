// Package scrub implements the frame-extraction core: it turns a raw video
// byte blob plus a stream of scrub timestamps into single still frames,
// delivering exactly one frame per non-superseded seek request.
package scrub

// Status represents the session lifecycle status.
type Status int

const (
	// StatusUnloaded means no video has been assigned yet, or the session
	// was torn down.
	StatusUnloaded Status = iota
	// StatusLoading means metadata is being loaded.
	StatusLoading
	// StatusReady means the video is decodable and seek requests are
	// accepted.
	StatusReady
	// StatusError means the current file could not be loaded. Terminal
	// until a new Initialize call.
	StatusError
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusUnloaded:
		return "unloaded"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of a session, observable by any UI layer through
// polling.
type State struct {
	Status Status

	// Message is the human-readable failure reason when Status is
	// StatusError.
	Message string

	// CurrentTimestamp is the latest requested timestamp in seconds. It
	// tracks the user's drag optimistically, ahead of decode completion.
	CurrentTimestamp float64

	// Duration is the video duration in seconds, valid once StatusReady.
	Duration float64

	// LastAppliedRequestID is the id of the newest seek request. It only
	// increases for the lifetime of the session.
	LastAppliedRequestID uint64
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
