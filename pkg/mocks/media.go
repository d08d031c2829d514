package mocks

import (
	"image"
	"sync"
	"time"

	"github.com/user/framepick/pkg/ports"
)

// MediaLoader is a mock implementation of ports.MediaLoader.
type MediaLoader struct {
	LoadFunc func(data []byte) (ports.MediaHandle, error)

	mu        sync.Mutex
	LoadCalls int
}

func (m *MediaLoader) Load(data []byte) (ports.MediaHandle, error) {
	m.mu.Lock()
	m.LoadCalls++
	m.mu.Unlock()
	if m.LoadFunc != nil {
		return m.LoadFunc(data)
	}
	return NewMediaHandle(ports.MediaInfo{}), nil
}

var _ ports.MediaLoader = (*MediaLoader)(nil)

// MediaHandle is a scriptable mock of ports.MediaHandle. Load and seek
// latency, failures, and missing notifications can all be injected.
type MediaHandle struct {
	// LoadDelay postpones the Loaded signal.
	LoadDelay time.Duration
	// NeverLoad keeps Loaded from ever settling.
	NeverLoad bool
	// LoadErr makes the load settle as a failure.
	LoadErr error

	// SeekDelay postpones each seek-complete signal.
	SeekDelay time.Duration
	// NeverSettle keeps seeks from ever signalling completion.
	NeverSettle bool

	// FrameImage is returned by Frame; FrameErr takes precedence.
	FrameImage image.Image
	FrameErr   error

	InfoValue ports.MediaInfo

	loaded     chan struct{}
	loadedOnce sync.Once

	mu         sync.Mutex
	SeekCalls  []float64
	FrameCalls int
	Closed     bool
}

// NewMediaHandle creates a handle whose load settles immediately and whose
// seeks signal immediately, with a small solid picture.
func NewMediaHandle(info ports.MediaInfo) *MediaHandle {
	return &MediaHandle{
		InfoValue:  info,
		FrameImage: image.NewRGBA(image.Rect(0, 0, 4, 4)),
		loaded:     make(chan struct{}),
	}
}

func (m *MediaHandle) Loaded() <-chan struct{} {
	m.loadedOnce.Do(func() {
		if m.NeverLoad {
			return
		}
		go func() {
			if m.LoadDelay > 0 {
				time.Sleep(m.LoadDelay)
			}
			close(m.loaded)
		}()
	})
	return m.loaded
}

func (m *MediaHandle) Err() error {
	return m.LoadErr
}

func (m *MediaHandle) ReadyState() ports.ReadyState {
	select {
	case <-m.loaded:
		if m.LoadErr != nil {
			return ports.ReadyStateFailed
		}
		return ports.ReadyStateReady
	default:
		return ports.ReadyStateLoading
	}
}

func (m *MediaHandle) Info() ports.MediaInfo {
	return m.InfoValue
}

func (m *MediaHandle) Seek(seconds float64) <-chan struct{} {
	m.mu.Lock()
	m.SeekCalls = append(m.SeekCalls, seconds)
	delay, never := m.SeekDelay, m.NeverSettle
	m.mu.Unlock()

	done := make(chan struct{}, 1)
	if never {
		return done
	}
	go func() {
		if delay > 0 {
			time.Sleep(delay)
		}
		done <- struct{}{}
	}()
	return done
}

func (m *MediaHandle) Frame() (image.Image, error) {
	m.mu.Lock()
	m.FrameCalls++
	m.mu.Unlock()
	if m.FrameErr != nil {
		return nil, m.FrameErr
	}
	return m.FrameImage, nil
}

func (m *MediaHandle) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Seeks returns a copy of the recorded seek timestamps.
func (m *MediaHandle) Seeks() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.SeekCalls))
	copy(out, m.SeekCalls)
	return out
}

// Captures returns how many times Frame was read.
func (m *MediaHandle) Captures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FrameCalls
}

// IsClosed reports whether Close was called.
func (m *MediaHandle) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Closed
}

var _ ports.MediaHandle = (*MediaHandle)(nil)
