// Package nullsink provides a no-op debug sink.
package nullsink

import "github.com/user/framepick/pkg/ports"

// Sink discards all debug output.
type Sink struct{}

// New creates a new Sink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false, so callers skip producing debug artifacts.
func (s *Sink) Enabled() bool { return false }

// SaveProbeJSON does nothing.
func (s *Sink) SaveProbeJSON(data []byte) error { return nil }

// SaveCapture does nothing.
func (s *Sink) SaveCapture(requestID uint64, data []byte) error { return nil }

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
