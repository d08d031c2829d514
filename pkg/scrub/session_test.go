package scrub

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/user/framepick/pkg/adapters/logger"
	"github.com/user/framepick/pkg/mocks"
	"github.com/user/framepick/pkg/ports"
)

// frameCollector records emitted frames for assertions.
type frameCollector struct {
	mu     sync.Mutex
	frames []FrameResult
}

func (c *frameCollector) add(r FrameResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, r)
}

func (c *frameCollector) snapshot() []FrameResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]FrameResult, len(c.frames))
	copy(out, c.frames)
	return out
}

// waitFor polls until at least n frames arrived or the deadline passes.
func (c *frameCollector) waitFor(t *testing.T, n int, timeout time.Duration) []FrameResult {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if frames := c.snapshot(); len(frames) >= n {
			return frames
		}
		time.Sleep(5 * time.Millisecond)
	}
	frames := c.snapshot()
	t.Fatalf("expected at least %d frames within %s, got %d", n, timeout, len(frames))
	return frames
}

func newTestSession(handle ports.MediaHandle, opts Options) (*Session, *frameCollector) {
	collector := &frameCollector{}
	opts.OnFrameSelect = collector.add
	media := &mocks.MediaLoader{
		LoadFunc: func(data []byte) (ports.MediaHandle, error) { return handle, nil },
	}
	session := NewSession(media, mocks.NewRenderer(), mocks.NewDebugSink(false), logger.NewNoop(), opts)
	return session, collector
}

func TestSession_InitializeEmitsInitialFrame(t *testing.T) {
	handle := mocks.NewMediaHandle(ports.MediaInfo{DurationSeconds: 10})
	session, collector := newTestSession(handle, Options{})

	if err := session.Initialize(context.Background(), []byte("video")); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	frames := collector.waitFor(t, 1, time.Second)
	if len(frames) != 1 {
		t.Fatalf("expected exactly 1 frame, got %d", len(frames))
	}
	if frames[0].TimestampSeconds != 0 {
		t.Errorf("initial frame timestamp: expected 0, got %v", frames[0].TimestampSeconds)
	}
	if !strings.HasPrefix(frames[0].ImageData, "data:image/jpeg;base64,") {
		t.Errorf("image data is not a JPEG data URI: %q", frames[0].ImageData)
	}

	state := session.State()
	if state.Status != StatusReady {
		t.Errorf("status: expected ready, got %s", state.Status)
	}
	if state.Duration != 10 {
		t.Errorf("duration: expected 10, got %v", state.Duration)
	}
}

func TestSession_InitialTimestampClamped(t *testing.T) {
	cases := []struct {
		name    string
		initial float64
		want    float64
	}{
		{"above duration", 999, 30},
		{"below zero", -5, 0},
		{"in range", 12.5, 12.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handle := mocks.NewMediaHandle(ports.MediaInfo{DurationSeconds: 30})
			initial := tc.initial
			session, collector := newTestSession(handle, Options{InitialTimestamp: &initial})

			if err := session.Initialize(context.Background(), []byte("video")); err != nil {
				t.Fatalf("initialize: %v", err)
			}

			frames := collector.waitFor(t, 1, time.Second)
			if frames[0].TimestampSeconds != tc.want {
				t.Errorf("timestamp: expected %v, got %v", tc.want, frames[0].TimestampSeconds)
			}
			if got := session.State().CurrentTimestamp; got != tc.want {
				t.Errorf("current timestamp: expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestSession_LoadFailure(t *testing.T) {
	handle := mocks.NewMediaHandle(ports.MediaInfo{})
	handle.LoadErr = errors.New("unparseable blob")
	session, collector := newTestSession(handle, Options{})

	err := session.Initialize(context.Background(), []byte("garbage"))
	if err == nil {
		t.Fatal("expected an error")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T", err)
	}

	state := session.State()
	if state.Status != StatusError {
		t.Errorf("status: expected error, got %s", state.Status)
	}
	if state.Message == "" {
		t.Error("expected a human-readable message")
	}
	if n := len(collector.snapshot()); n != 0 {
		t.Errorf("expected zero frames, got %d", n)
	}
	if !handle.IsClosed() {
		t.Error("failed handle was not released")
	}
}

func TestSession_MetadataTimeout(t *testing.T) {
	handle := mocks.NewMediaHandle(ports.MediaInfo{})
	handle.NeverLoad = true
	session, collector := newTestSession(handle, Options{MetadataTimeout: 50 * time.Millisecond})

	err := session.Initialize(context.Background(), []byte("video"))
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if session.State().Status != StatusError {
		t.Errorf("status: expected error, got %s", session.State().Status)
	}
	if !handle.IsClosed() {
		t.Error("timed-out handle was not released")
	}
	if n := len(collector.snapshot()); n != 0 {
		t.Errorf("expected zero frames, got %d", n)
	}
}

func TestSession_RequestSeekClamps(t *testing.T) {
	handle := mocks.NewMediaHandle(ports.MediaInfo{DurationSeconds: 30})
	session, collector := newTestSession(handle, Options{})

	if err := session.Initialize(context.Background(), []byte("video")); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	collector.waitFor(t, 1, time.Second)

	session.RequestSeek(-5)
	if got := session.State().CurrentTimestamp; got != 0 {
		t.Errorf("after RequestSeek(-5): expected 0, got %v", got)
	}

	session.RequestSeek(999)
	if got := session.State().CurrentTimestamp; got != 30 {
		t.Errorf("after RequestSeek(999): expected 30, got %v", got)
	}
}

func TestSession_RapidSeeksDeliverNewestOnly(t *testing.T) {
	handle := mocks.NewMediaHandle(ports.MediaInfo{DurationSeconds: 10})
	handle.SeekDelay = 60 * time.Millisecond
	session, collector := newTestSession(handle, Options{SeekTimeout: time.Second})

	if err := session.Initialize(context.Background(), []byte("video")); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	collector.waitFor(t, 1, time.Second)

	// Two requests before the first can settle: the earlier one must be
	// superseded silently.
	session.RequestSeek(6)
	session.RequestSeek(7)

	frames := collector.waitFor(t, 2, time.Second)
	// Allow pending goroutines to (incorrectly) emit before counting.
	time.Sleep(150 * time.Millisecond)
	frames = collector.snapshot()

	if len(frames) != 2 {
		t.Fatalf("expected exactly 2 frames (initial + newest seek), got %d", len(frames))
	}
	if frames[1].TimestampSeconds != 7 {
		t.Errorf("delivered timestamp: expected 7, got %v", frames[1].TimestampSeconds)
	}
	for _, f := range frames {
		if f.TimestampSeconds == 6 {
			t.Error("superseded request at t=6 must not deliver a frame")
		}
	}
}

func TestSession_IdempotentDoubleSeek(t *testing.T) {
	handle := mocks.NewMediaHandle(ports.MediaInfo{DurationSeconds: 10})
	handle.SeekDelay = 50 * time.Millisecond
	session, collector := newTestSession(handle, Options{SeekTimeout: time.Second})

	if err := session.Initialize(context.Background(), []byte("video")); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	collector.waitFor(t, 1, time.Second)

	session.RequestSeek(5)
	session.RequestSeek(5)

	frames := collector.waitFor(t, 2, time.Second)
	time.Sleep(150 * time.Millisecond)
	frames = collector.snapshot()

	if len(frames) != 2 {
		t.Fatalf("expected exactly 2 frames (initial + one for the pair), got %d", len(frames))
	}
	if frames[1].TimestampSeconds != 5 {
		t.Errorf("delivered timestamp: expected 5, got %v", frames[1].TimestampSeconds)
	}
}

func TestSession_SeekTimeoutFallback(t *testing.T) {
	handle := mocks.NewMediaHandle(ports.MediaInfo{DurationSeconds: 10})
	handle.NeverSettle = true
	session, collector := newTestSession(handle, Options{SeekTimeout: 80 * time.Millisecond})

	start := time.Now()
	if err := session.Initialize(context.Background(), []byte("video")); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	session.RequestSeek(3)
	frames := collector.waitFor(t, 2, time.Second)
	elapsed := time.Since(start)

	if frames[1].TimestampSeconds != 3 {
		t.Errorf("timestamp: expected 3, got %v", frames[1].TimestampSeconds)
	}
	// Two back-to-back 80ms fallbacks plus scheduler slack.
	if elapsed > 800*time.Millisecond {
		t.Errorf("fallback captures took too long: %s", elapsed)
	}
}

func TestSession_TeardownSuppressesInFlightSeeks(t *testing.T) {
	handle := mocks.NewMediaHandle(ports.MediaInfo{DurationSeconds: 10})
	handle.SeekDelay = 80 * time.Millisecond
	session, collector := newTestSession(handle, Options{SeekTimeout: time.Second})

	if err := session.Initialize(context.Background(), []byte("video")); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	collector.waitFor(t, 1, time.Second)

	session.RequestSeek(4)
	session.Teardown()

	if !handle.IsClosed() {
		t.Error("teardown did not close the handle")
	}
	if got := session.State().Status; got != StatusUnloaded {
		t.Errorf("status after teardown: expected unloaded, got %s", got)
	}

	time.Sleep(200 * time.Millisecond)
	if n := len(collector.snapshot()); n != 1 {
		t.Errorf("in-flight seek delivered after teardown: %d frames", n)
	}
}

func TestSession_ReinitializeReleasesPreviousHandle(t *testing.T) {
	first := mocks.NewMediaHandle(ports.MediaInfo{DurationSeconds: 10})
	second := mocks.NewMediaHandle(ports.MediaInfo{DurationSeconds: 20})
	handles := []ports.MediaHandle{first, second}

	collector := &frameCollector{}
	media := &mocks.MediaLoader{
		LoadFunc: func(data []byte) (ports.MediaHandle, error) {
			h := handles[0]
			handles = handles[1:]
			return h, nil
		},
	}
	session := NewSession(media, mocks.NewRenderer(), mocks.NewDebugSink(false), logger.NewNoop(),
		Options{OnFrameSelect: collector.add})

	if err := session.Initialize(context.Background(), []byte("one")); err != nil {
		t.Fatalf("first initialize: %v", err)
	}
	if err := session.Initialize(context.Background(), []byte("two")); err != nil {
		t.Fatalf("second initialize: %v", err)
	}

	if !first.IsClosed() {
		t.Error("previous handle was not released on re-initialize")
	}
	if second.IsClosed() {
		t.Error("current handle must stay open")
	}
	if got := session.State().Duration; got != 20 {
		t.Errorf("duration: expected 20, got %v", got)
	}
}

func TestSession_RequestSeekIgnoredWhenNotReady(t *testing.T) {
	handle := mocks.NewMediaHandle(ports.MediaInfo{DurationSeconds: 10})
	session, collector := newTestSession(handle, Options{})

	session.RequestSeek(5)

	time.Sleep(50 * time.Millisecond)
	if n := len(collector.snapshot()); n != 0 {
		t.Errorf("expected zero frames before initialize, got %d", n)
	}
	if n := len(handle.Seeks()); n != 0 {
		t.Errorf("expected zero seeks before initialize, got %d", n)
	}
}

func TestSession_SavesProbeMetadataWhenDebugging(t *testing.T) {
	handle := mocks.NewMediaHandle(ports.MediaInfo{Codec: "av1", DurationSeconds: 10, Width: 64, Height: 36})
	sink := mocks.NewDebugSink(true)
	collector := &frameCollector{}
	media := &mocks.MediaLoader{
		LoadFunc: func(data []byte) (ports.MediaHandle, error) { return handle, nil },
	}
	session := NewSession(media, mocks.NewRenderer(), sink, logger.NewNoop(),
		Options{OnFrameSelect: collector.add})

	if err := session.Initialize(context.Background(), []byte("video")); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if len(sink.ProbeJSON) == 0 {
		t.Fatal("probe metadata was not saved")
	}
	if !strings.Contains(string(sink.ProbeJSON), `"codec":"av1"`) {
		t.Errorf("probe metadata missing codec: %s", sink.ProbeJSON)
	}
}

func TestSession_LastAppliedRequestIDMonotonic(t *testing.T) {
	handle := mocks.NewMediaHandle(ports.MediaInfo{DurationSeconds: 10})
	session, collector := newTestSession(handle, Options{})

	if err := session.Initialize(context.Background(), []byte("video")); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	collector.waitFor(t, 1, time.Second)

	prev := session.State().LastAppliedRequestID
	for i := 0; i < 5; i++ {
		session.RequestSeek(float64(i))
		got := session.State().LastAppliedRequestID
		if got <= prev {
			t.Fatalf("request id did not increase: %d -> %d", prev, got)
		}
		prev = got
	}
}
