// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"path/filepath"

	"github.com/user/framepick/pkg/ports"
)

// Sink saves debug output to files under a base directory.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
}

// New creates a new Sink.
func New(baseDir string, fs ports.FileSystem) *Sink {
	return &Sink{baseDir: baseDir, fs: fs}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveProbeJSON saves the media metadata as JSON.
func (s *Sink) SaveProbeJSON(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "probe.json"), data)
}

// SaveCapture saves an accepted capture under its request id.
func (s *Sink) SaveCapture(requestID uint64, data []byte) error {
	dir := filepath.Join(s.baseDir, "captures")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("capture-%06d.jpg", requestID))
	return s.fs.WriteFile(path, data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
