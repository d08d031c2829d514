package scrub

import (
	"encoding/base64"

	"github.com/user/framepick/pkg/ports"
)

// DefaultJPEGQuality is high but lossy, the usual trade-off for preview
// stills.
const DefaultJPEGQuality = 90

// Capturer renders the currently decoded picture into a reusable surface
// and encodes it as a still image.
type Capturer struct {
	surface ports.Surface
	sink    ports.DebugSink
	logger  ports.Logger
	quality int
}

// NewCapturer creates a Capturer with its own surface. A quality outside
// 1-100 selects DefaultJPEGQuality.
func NewCapturer(renderer ports.Renderer, sink ports.DebugSink, logger ports.Logger, quality int) *Capturer {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Capturer{
		surface: renderer.NewSurface(),
		sink:    sink,
		logger:  logger.WithComponent("capture"),
		quality: quality,
	}
}

// Capture snapshots the picture the handle is currently positioned at. The
// surface is sized from the first decoded picture and reused across
// captures. The caller is responsible for positioning the handle first.
func (c *Capturer) Capture(handle ports.MediaHandle, requestID uint64, timestamp float64) (FrameResult, error) {
	img, err := handle.Frame()
	if err != nil {
		return FrameResult{}, &CaptureError{Msg: "no decoded picture", Cause: err}
	}

	if w, h := c.surface.Size(); w == 0 || h == 0 {
		bounds := img.Bounds()
		c.surface.Resize(bounds.Dx(), bounds.Dy())
		c.logger.Debug("surface sized to %dx%d", bounds.Dx(), bounds.Dy())
	}
	c.surface.Draw(img)

	data, err := c.surface.EncodeJPEG(c.quality)
	if err != nil {
		return FrameResult{}, &CaptureError{Msg: "encode still", Cause: err}
	}

	if c.sink.Enabled() {
		if err := c.sink.SaveCapture(requestID, data); err != nil {
			c.logger.Warn("save debug capture %d: %s", requestID, err)
		}
	}

	return FrameResult{
		ImageData:        dataURIPrefix + base64.StdEncoding.EncodeToString(data),
		TimestampSeconds: timestamp,
	}, nil
}
