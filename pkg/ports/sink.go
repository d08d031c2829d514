package ports

// DebugSink abstracts debug output for intermediate results.
// It allows saving probe metadata and accepted captures for inspection.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveProbeJSON saves the media metadata as JSON.
	SaveProbeJSON(data []byte) error

	// SaveCapture saves an accepted capture, identified by its request id.
	SaveCapture(requestID uint64, data []byte) error
}
