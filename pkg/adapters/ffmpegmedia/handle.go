// Package ffmpegmedia decodes video through the ffmpeg and ffprobe
// binaries. It covers the containers and codecs the in-process decoder
// cannot.
package ffmpegmedia

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/user/framepick/pkg/ports"
)

var (
	ffmpegPath  = "ffmpeg"
	ffprobePath = "ffprobe"
)

// execTimeout bounds each ffmpeg/ffprobe invocation.
const execTimeout = 30 * time.Second

// SetFFmpegPath overrides the ffmpeg binary location. The ffprobe binary
// is still resolved from PATH unless SetFFprobePath is also called.
func SetFFmpegPath(path string) {
	ffmpegPath = path
}

// SetFFprobePath overrides the ffprobe binary location.
func SetFFprobePath(path string) {
	ffprobePath = path
}

// IsAvailable reports whether both binaries can be resolved.
func IsAvailable() bool {
	if _, err := exec.LookPath(ffmpegPath); err != nil {
		return false
	}
	_, err := exec.LookPath(ffprobePath)
	return err == nil
}

// Loader implements ports.MediaLoader backed by the ffmpeg binaries.
type Loader struct{}

// New creates a new Loader.
func New() *Loader {
	return &Loader{}
}

// Load spills the blob to a scratch file and probes it in the background.
func (l *Loader) Load(data []byte) (ports.MediaHandle, error) {
	return Open(data)
}

// Ensure Loader implements ports.MediaLoader
var _ ports.MediaLoader = (*Loader)(nil)

// Handle implements ports.MediaHandle backed by a scratch file and the
// ffmpeg binaries. The scratch file is the temporary resource backing the
// byte blob; Close removes it.
type Handle struct {
	loaded chan struct{}

	mu     sync.Mutex
	state  ports.ReadyState
	err    error
	info   ports.MediaInfo
	path   string
	frame  image.Image
	closed bool

	// seekMu serializes ffmpeg invocations across overlapping seeks.
	seekMu sync.Mutex
}

// Open writes data to a scratch file and starts probing metadata in the
// background.
func Open(data []byte) (*Handle, error) {
	f, err := os.CreateTemp("", "framepick-*.video")
	if err != nil {
		return nil, fmt.Errorf("scratch file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("close scratch file: %w", err)
	}

	h := &Handle{
		loaded: make(chan struct{}),
		state:  ports.ReadyStateLoading,
		path:   f.Name(),
	}
	go h.probe()
	return h, nil
}

func (h *Handle) probe() {
	defer close(h.loaded)

	ctx, cancel := context.WithTimeout(context.Background(), execTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "format=duration",
		"-show_entries", "stream=codec_name,width,height",
		"-of", "json",
		h.path,
	)
	output, err := cmd.Output()
	if err != nil {
		h.fail(fmt.Errorf("probe input: %w", err))
		return
	}

	info, err := parseProbeOutput(output)
	if err != nil {
		h.fail(err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.info = info
	h.state = ports.ReadyStateReady
}

func (h *Handle) fail(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = ports.ReadyStateFailed
	h.err = err
}

// Loaded returns a channel closed once probing has settled.
func (h *Handle) Loaded() <-chan struct{} {
	return h.loaded
}

// Err returns the probe failure, or nil when metadata loaded.
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
	return h.info
}

// Seek extracts the frame at the given timestamp with a one-shot ffmpeg
// invocation. The returned channel signals once on success; on failure it
// never signals and the caller's timeout applies.
func (h *Handle) Seek(seconds float64) <-chan struct{} {
	done := make(chan struct{}, 1)
	go func() {
		h.seekMu.Lock()
		defer h.seekMu.Unlock()

		h.mu.Lock()
		path, closed := h.path, h.closed
		h.mu.Unlock()
		if closed || path == "" {
			return
		}

		img, err := extractFrame(path, seconds)
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

// extractFrame decodes one frame at the given timestamp to an in-memory
// JPEG and returns the decoded picture.
func extractFrame(path string, seconds float64) (image.Image, error) {
	ctx, cancel := context.WithTimeout(context.Background(), execTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-v", "error",
		"-ss", strconv.FormatFloat(seconds, 'f', 3, 64),
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-c:v", "mjpeg",
		"-q:v", "2",
		"pipe:1",
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg: %w", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(output))
	if err != nil {
		return nil, fmt.Errorf("decode extracted frame: %w", err)
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

// Close removes the scratch file backing the blob.
func (h *Handle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	path := h.path
	h.path = ""
	h.frame = nil
	h.state = ports.ReadyStateUnloaded
	h.mu.Unlock()

	if path != "" {
		return os.Remove(path)
	}
	return nil
}

// Ensure Handle implements ports.MediaHandle
var _ ports.MediaHandle = (*Handle)(nil)
