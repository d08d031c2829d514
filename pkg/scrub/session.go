package scrub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/framepick/pkg/ports"
)

// Options configures a Session.
type Options struct {
	// InitialTimestamp seeds the first capture, clamped to the video
	// duration. Nil means 0.
	InitialTimestamp *float64

	// MetadataTimeout bounds the wait for duration metadata. Zero selects
	// DefaultMetadataTimeout.
	MetadataTimeout time.Duration

	// SeekTimeout bounds the wait for each seek-complete signal. Zero
	// selects DefaultSeekTimeout.
	SeekTimeout time.Duration

	// JPEGQuality is the still encoding quality (1-100). Zero selects
	// DefaultJPEGQuality.
	JPEGQuality int

	// OnFrameSelect receives exactly one result per accepted capture,
	// including the initial capture at load time. It never receives
	// superseded or failed captures, and no error crosses this boundary.
	OnFrameSelect func(FrameResult)
}

// Session is the stateful controller a UI drives. It owns the current
// timestamp, duration and status, and arbitrates rapid overlapping seek
// requests so that only the newest one produces an observable frame.
type Session struct {
	loader  *Loader
	coord   *Coordinator
	sink    ports.DebugSink
	logger  ports.Logger
	onFrame func(FrameResult)
	initial *float64

	// lastApplied is the sole arbiter of which in-flight seek may deliver
	// its result. It only increases.
	lastApplied atomic.Uint64

	mu     sync.Mutex
	handle ports.MediaHandle
	state  State

	// emitMu orders deliveries to the caller.
	emitMu sync.Mutex
}

// NewSession wires a session from a media loader and a renderer.
func NewSession(media ports.MediaLoader, renderer ports.Renderer, sink ports.DebugSink, logger ports.Logger, opts Options) *Session {
	capturer := NewCapturer(renderer, sink, logger, opts.JPEGQuality)
	return &Session{
		loader:  NewLoader(media, opts.MetadataTimeout, logger),
		coord:   NewCoordinator(capturer, opts.SeekTimeout, logger),
		sink:    sink,
		logger:  logger.WithComponent("session"),
		onFrame: opts.OnFrameSelect,
		initial: opts.InitialTimestamp,
		state:   State{Status: StatusUnloaded},
	}
}

// State returns a snapshot of the session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Initialize loads a video blob, seeks to the initial timestamp and
// performs the first capture. A previous handle, if any, is fully released
// before the new one is established, and any seek still in flight against
// it becomes superseded.
func (s *Session) Initialize(ctx context.Context, data []byte) error {
	s.mu.Lock()
	if s.handle != nil {
		s.handle.Close()
		s.handle = nil
	}
	id := s.lastApplied.Add(1)
	s.state = State{Status: StatusLoading, LastAppliedRequestID: id}
	s.mu.Unlock()

	handle, err := s.loader.Load(ctx, data)
	if err != nil {
		s.mu.Lock()
		s.state.Status = StatusError
		s.state.Message = err.Error()
		s.mu.Unlock()
		s.logger.Error("load failed: %s", err)
		return err
	}

	info := handle.Info()
	if s.sink.Enabled() {
		if data, err := json.Marshal(info); err == nil {
			if err := s.sink.SaveProbeJSON(data); err != nil {
				s.logger.Warn("save probe metadata: %s", err)
			}
		}
	}

	duration := info.DurationSeconds
	ts := 0.0
	if s.initial != nil {
		ts = clamp(*s.initial, 0, duration)
	}

	s.mu.Lock()
	s.handle = handle
	id = s.lastApplied.Add(1)
	s.state = State{
		Status:               StatusReady,
		CurrentTimestamp:     ts,
		Duration:             duration,
		LastAppliedRequestID: id,
	}
	s.mu.Unlock()

	// The first capture is synchronous so callers observe StatusReady
	// together with the initial frame.
	s.resolve(handle, id, ts)
	return nil
}

// RequestSeek records the new target timestamp immediately, so a displayed
// time label can track the drag ahead of decode, then resolves the capture
// asynchronously. Overlapping requests are allowed; only the newest one
// delivers a frame. Ignored unless the session is ready.
func (s *Session) RequestSeek(timestamp float64) {
	s.mu.Lock()
	if s.state.Status != StatusReady || s.handle == nil {
		s.mu.Unlock()
		return
	}
	ts := clamp(timestamp, 0, s.state.Duration)
	id := s.lastApplied.Add(1)
	s.state.CurrentTimestamp = ts
	s.state.LastAppliedRequestID = id
	handle := s.handle
	s.mu.Unlock()

	go s.resolve(handle, id, ts)
}

// Teardown releases the media handle and invalidates every in-flight seek,
// so a dangling decoder cannot deliver frames into a torn-down session.
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.lastApplied.Add(1)
	if s.handle != nil {
		s.handle.Close()
		s.handle = nil
	}
	s.state = State{Status: StatusUnloaded, LastAppliedRequestID: id}
}

func (s *Session) resolve(handle ports.MediaHandle, id uint64, ts float64) {
	result, err := s.coord.SeekAndCapture(handle, id, ts, s.lastApplied.Load)
	switch {
	case errors.Is(err, ErrSuperseded):
		s.logger.Debug("request %d superseded", id)
	case err != nil:
		// Transient: status is untouched and the next request may succeed.
		s.logger.Warn("request %d: %s", id, err)
	default:
		s.deliver(id, result)
	}
}

// deliver suppresses results that became stale between capture and
// delivery, then emits. Emissions are serialized so the caller never
// observes out-of-order frames.
func (s *Session) deliver(id uint64, result FrameResult) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	if s.lastApplied.Load() != id {
		s.logger.Debug("request %d superseded before delivery", id)
		return
	}
	if s.onFrame != nil {
		s.onFrame(result)
	}
}
