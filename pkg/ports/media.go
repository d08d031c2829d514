package ports

import (
	"image"
)

// ReadyState describes the lifecycle of a media handle.
type ReadyState int

const (
	// ReadyStateUnloaded means no media has been assigned yet, or the
	// handle has been closed.
	ReadyStateUnloaded ReadyState = iota
	// ReadyStateLoading means metadata parsing is in progress.
	ReadyStateLoading
	// ReadyStateReady means metadata is available and the handle accepts
	// seek and frame operations.
	ReadyStateReady
	// ReadyStateFailed means the decoder rejected the input.
	ReadyStateFailed
)

// String returns the string representation of the ready state.
func (s ReadyState) String() string {
	switch s {
	case ReadyStateUnloaded:
		return "unloaded"
	case ReadyStateLoading:
		return "loading"
	case ReadyStateReady:
		return "ready"
	case ReadyStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MediaInfo describes a loaded media resource.
type MediaInfo struct {
	Codec           string  `json:"codec"`
	DurationSeconds float64 `json:"duration_seconds"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
}

// MediaHandle is a decodable media resource positioned at a single
// timestamp. Metadata loads asynchronously after the handle is created.
type MediaHandle interface {
	// Loaded returns a channel that is closed once metadata parsing has
	// settled, successfully or not. After it closes, Err reports the
	// outcome.
	Loaded() <-chan struct{}

	// Err returns the load failure, or nil when metadata loaded.
	Err() error

	// ReadyState reports the current lifecycle state.
	ReadyState() ReadyState

	// Info returns media metadata. Valid only when ReadyState is
	// ReadyStateReady.
	Info() MediaInfo

	// Seek asynchronously positions the decoder at the given timestamp.
	// The returned channel receives exactly one notification when the
	// decoder settles at the new position. Decoders are not required to
	// ever signal, so callers must bound their wait.
	Seek(seconds float64) <-chan struct{}

	// Frame returns the most recently decoded picture.
	Frame() (image.Image, error)

	// Close releases decoder resources, including any temporary storage
	// backing the byte blob. The handle must not be used afterwards.
	Close() error
}

// MediaLoader turns a raw video byte blob into a MediaHandle. The returned
// handle starts loading metadata immediately; Load itself only fails when a
// handle cannot be constructed at all.
type MediaLoader interface {
	Load(data []byte) (MediaHandle, error)
}
