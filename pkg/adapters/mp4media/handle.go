// Package mp4media decodes AV1 video in fragmented MP4 containers
// in-process, using mp4ff for demuxing and libaom for frame decoding.
package mp4media

import (
	"fmt"
	"image"
	"sync"

	"github.com/user/framepick/pkg/ports"
)

// Loader implements ports.MediaLoader for AV1 fragmented MP4 blobs.
type Loader struct{}

// New creates a new Loader.
func New() *Loader {
	return &Loader{}
}

// Load creates a handle that demuxes the blob in the background.
func (l *Loader) Load(data []byte) (ports.MediaHandle, error) {
	return Open(data), nil
}

// Ensure Loader implements ports.MediaLoader
var _ ports.MediaLoader = (*Loader)(nil)

// Handle implements ports.MediaHandle for AV1 fragmented MP4.
type Handle struct {
	loaded chan struct{}

	mu     sync.Mutex
	state  ports.ReadyState
	err    error
	track  *track
	dec    *av1Decoder
	frame  image.Image
	closed bool

	// seekMu serializes decoder use across overlapping seeks; libaom
	// contexts are stateful.
	seekMu sync.Mutex
}

// Open creates a handle and starts metadata parsing in the background.
func Open(data []byte) *Handle {
	h := &Handle{
		loaded: make(chan struct{}),
		state:  ports.ReadyStateLoading,
	}
	go h.load(data)
	return h
}

func (h *Handle) load(data []byte) {
	defer close(h.loaded)

	trk, err := parseTrack(data)
	if err != nil {
		h.fail(err)
		return
	}
	dec, err := newAV1Decoder()
	if err != nil {
		h.fail(err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		dec.close()
		return
	}
	h.track = trk
	h.dec = dec
	h.state = ports.ReadyStateReady
}

func (h *Handle) fail(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = ports.ReadyStateFailed
	h.err = err
}

// Loaded returns a channel closed once metadata parsing has settled.
func (h *Handle) Loaded() <-chan struct{} {
	return h.loaded
}

// Err returns the load failure, or nil when metadata loaded.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// ReadyState reports the current lifecycle state.
func (h *Handle) ReadyState() ports.ReadyState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Info returns media metadata once the handle is ready.
func (h *Handle) Info() ports.MediaInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.track == nil {
		return ports.MediaInfo{}
	}
	return ports.MediaInfo{
		Codec:           "av1",
		DurationSeconds: h.track.duration,
		Width:           h.track.width,
		Height:          h.track.height,
	}
}

// Seek decodes the picture presented at the given timestamp, starting from
// the nearest preceding keyframe. The returned channel signals once when
// the decode settles; on decode failure it never signals and the caller's
// timeout applies.
func (h *Handle) Seek(seconds float64) <-chan struct{} {
	done := make(chan struct{}, 1)
	go func() {
		h.seekMu.Lock()
		defer h.seekMu.Unlock()

		h.mu.Lock()
		trk, dec, closed := h.track, h.dec, h.closed
		h.mu.Unlock()
		if closed || trk == nil || dec == nil {
			return
		}

		img, err := decodeAt(dec, trk, seconds)
		if err != nil {
			return
		}

		h.mu.Lock()
		if !h.closed {
			h.frame = img
		}
		h.mu.Unlock()
		done <- struct{}{}
	}()
	return done
}

// decodeAt decodes samples from the nearest keyframe up to the target
// timestamp and returns the final picture.
func decodeAt(dec *av1Decoder, trk *track, seconds float64) (image.Image, error) {
	target := targetIndex(trk.samples, seconds)
	start := keyframeBefore(trk.samples, target)

	var img image.Image
	for i := start; i <= target; i++ {
		decoded, err := dec.decode(trk.samples[i].data)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		img = decoded
	}
	if img == nil {
		return nil, fmt.Errorf("no picture decoded")
	}
	return img, nil
}

// Frame returns the most recently decoded picture.
func (h *Handle) Frame() (image.Image, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.frame == nil {
		return nil, fmt.Errorf("no decoded picture")
	}
	return h.frame, nil
}

// Close releases the demuxed samples and the libaom context. It waits for
// any in-flight decode before freeing the decoder.
func (h *Handle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	dec := h.dec
	h.dec = nil
	h.track = nil
	h.frame = nil
	h.state = ports.ReadyStateUnloaded
	h.mu.Unlock()

	if dec != nil {
		h.seekMu.Lock()
		dec.close()
		h.seekMu.Unlock()
	}
	return nil
}

// Ensure Handle implements ports.MediaHandle
var _ ports.MediaHandle = (*Handle)(nil)
