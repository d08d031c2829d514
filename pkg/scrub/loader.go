package scrub

import (
	"context"
	"fmt"
	"time"

	"github.com/user/framepick/pkg/ports"
)

// DefaultMetadataTimeout bounds the wait for duration metadata.
const DefaultMetadataTimeout = 10 * time.Second

// Loader turns raw video bytes into a ready media handle.
type Loader struct {
	media   ports.MediaLoader
	timeout time.Duration
	logger  ports.Logger
}

// NewLoader creates a Loader. A non-positive timeout selects
// DefaultMetadataTimeout.
func NewLoader(media ports.MediaLoader, timeout time.Duration, logger ports.Logger) *Loader {
	if timeout <= 0 {
		timeout = DefaultMetadataTimeout
	}
	return &Loader{
		media:   media,
		timeout: timeout,
		logger:  logger.WithComponent("loader"),
	}
}

// Load constructs a decodable handle from data and waits until duration
// metadata is available. On failure the handle is released and a *LoadError
// carries the human-readable reason. The caller owns the returned handle
// and must Close it on teardown or before loading a replacement blob.
func (l *Loader) Load(ctx context.Context, data []byte) (ports.MediaHandle, error) {
	handle, err := l.media.Load(data)
	if err != nil {
		return nil, &LoadError{Msg: "decoder rejected input", Cause: err}
	}

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case <-handle.Loaded():
		if err := handle.Err(); err != nil {
			handle.Close()
			return nil, &LoadError{Msg: "decoder rejected input", Cause: err}
		}
	case <-timer.C:
		handle.Close()
		return nil, &LoadError{Msg: fmt.Sprintf("no metadata within %s", l.timeout)}
	case <-ctx.Done():
		handle.Close()
		return nil, &LoadError{Msg: "load interrupted", Cause: ctx.Err()}
	}

	info := handle.Info()
	l.logger.Debug("metadata loaded: codec=%s %dx%d duration=%.2fs",
		info.Codec, info.Width, info.Height, info.DurationSeconds)
	return handle, nil
}
