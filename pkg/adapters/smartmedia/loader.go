// Package smartmedia selects a media backend from the blob's container and
// codec: AV1 in fragmented MP4 decodes in-process via libaom, everything
// else goes through the ffmpeg binaries.
package smartmedia

import (
	"errors"

	"github.com/user/framepick/pkg/adapters/codecdetect"
	"github.com/user/framepick/pkg/adapters/ffmpegmedia"
	"github.com/user/framepick/pkg/adapters/mp4media"
	"github.com/user/framepick/pkg/ports"
)

// ErrNoDecoder is returned when no backend can decode the input.
var ErrNoDecoder = errors.New("smartmedia: no decoder available for input")

// Options configures backend selection.
type Options struct {
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
	// FFprobePath is an optional custom path to the ffprobe binary.
	FFprobePath string
}

// Loader implements ports.MediaLoader with backend dispatch.
type Loader struct {
	opts Options
}

// New creates a Loader.
func New(opts Options) *Loader {
	if opts.FFmpegPath != "" {
		ffmpegmedia.SetFFmpegPath(opts.FFmpegPath)
	}
	if opts.FFprobePath != "" {
		ffmpegmedia.SetFFprobePath(opts.FFprobePath)
	}
	return &Loader{opts: opts}
}

// Load picks a backend for the blob and opens a handle on it.
//
// The selection flow:
//   - AV1 in fragmented MP4: in-process libaom decoding
//   - anything else: ffmpeg, when the binaries are available
func (l *Loader) Load(data []byte) (ports.MediaHandle, error) {
	probe, err := codecdetect.Probe(data)
	if err == nil && probe.Codec == codecdetect.CodecAV1 && probe.Fragmented {
		return mp4media.Open(data), nil
	}

	// ffmpeg validates the input itself; even blobs codecdetect rejected
	// may be a non-MP4 container it understands.
	if ffmpegmedia.IsAvailable() {
		return ffmpegmedia.Open(data)
	}

	if err != nil {
		return nil, err
	}
	return nil, ErrNoDecoder
}

// Ensure Loader implements ports.MediaLoader
var _ ports.MediaLoader = (*Loader)(nil)
