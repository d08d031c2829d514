package mocks

import (
	"sync"

	"github.com/user/framepick/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	enabled bool

	mu        sync.RWMutex
	ProbeJSON []byte
	Captures  map[uint64][]byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:  enabled,
		Captures: make(map[uint64][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveProbeJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProbeJSON = data
	return nil
}

func (m *DebugSink) SaveCapture(requestID uint64, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Captures[requestID] = data
	return nil
}

// CaptureCount returns how many captures were saved.
func (m *DebugSink) CaptureCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Captures)
}

var _ ports.DebugSink = (*DebugSink)(nil)
