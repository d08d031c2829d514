package scrub

import (
	"encoding/base64"
	"errors"
	"image"
	"testing"

	"github.com/user/framepick/pkg/adapters/logger"
	"github.com/user/framepick/pkg/mocks"
	"github.com/user/framepick/pkg/ports"
)

func TestCapturer_LazyResizeOnce(t *testing.T) {
	renderer := mocks.NewRenderer()
	handle := mocks.NewMediaHandle(ports.MediaInfo{})
	handle.FrameImage = image.NewRGBA(image.Rect(0, 0, 8, 6))

	capturer := NewCapturer(renderer, mocks.NewDebugSink(false), logger.NewNoop(), 0)

	for i := 0; i < 2; i++ {
		if _, err := capturer.Capture(handle, uint64(i+1), 0); err != nil {
			t.Fatalf("capture %d: %v", i, err)
		}
	}

	resizes := renderer.SurfaceMock.Resizes()
	if len(resizes) != 1 {
		t.Fatalf("expected exactly 1 resize, got %d", len(resizes))
	}
	if resizes[0].X != 8 || resizes[0].Y != 6 {
		t.Errorf("surface sized to %dx%d, expected 8x6", resizes[0].X, resizes[0].Y)
	}
	if got := renderer.SurfaceMock.Draws(); got != 2 {
		t.Errorf("expected 2 draws, got %d", got)
	}
}

func TestCapturer_DataURIRoundTrip(t *testing.T) {
	renderer := mocks.NewRenderer()
	renderer.SurfaceMock.EncodedData = []byte("jpeg-bytes")
	handle := mocks.NewMediaHandle(ports.MediaInfo{})

	capturer := NewCapturer(renderer, mocks.NewDebugSink(false), logger.NewNoop(), 77)
	result, err := capturer.Capture(handle, 1, 4.2)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}

	want := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	if result.ImageData != want {
		t.Errorf("image data: expected %q, got %q", want, result.ImageData)
	}
	if result.TimestampSeconds != 4.2 {
		t.Errorf("timestamp: expected 4.2, got %v", result.TimestampSeconds)
	}

	decoded, err := result.JPEGBytes()
	if err != nil {
		t.Fatalf("decode data URI: %v", err)
	}
	if string(decoded) != "jpeg-bytes" {
		t.Errorf("round trip: expected %q, got %q", "jpeg-bytes", decoded)
	}

	if qualities := renderer.SurfaceMock.Qualities; len(qualities) != 1 || qualities[0] != 77 {
		t.Errorf("expected encode at quality 77, got %v", qualities)
	}
}

func TestCapturer_DefaultQuality(t *testing.T) {
	renderer := mocks.NewRenderer()
	handle := mocks.NewMediaHandle(ports.MediaInfo{})

	capturer := NewCapturer(renderer, mocks.NewDebugSink(false), logger.NewNoop(), 0)
	if _, err := capturer.Capture(handle, 1, 0); err != nil {
		t.Fatalf("capture: %v", err)
	}

	if qualities := renderer.SurfaceMock.Qualities; len(qualities) != 1 || qualities[0] != DefaultJPEGQuality {
		t.Errorf("expected default quality %d, got %v", DefaultJPEGQuality, qualities)
	}
}

func TestCapturer_FrameError(t *testing.T) {
	handle := mocks.NewMediaHandle(ports.MediaInfo{})
	handle.FrameErr = errors.New("no picture")

	capturer := NewCapturer(mocks.NewRenderer(), mocks.NewDebugSink(false), logger.NewNoop(), 0)
	_, err := capturer.Capture(handle, 1, 0)
	var capErr *CaptureError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected *CaptureError, got %v", err)
	}
}

func TestCapturer_EncodeError(t *testing.T) {
	renderer := mocks.NewRenderer()
	renderer.SurfaceMock.EncodeErr = errors.New("no rendering context")
	handle := mocks.NewMediaHandle(ports.MediaInfo{})

	capturer := NewCapturer(renderer, mocks.NewDebugSink(false), logger.NewNoop(), 0)
	_, err := capturer.Capture(handle, 1, 0)
	var capErr *CaptureError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected *CaptureError, got %v", err)
	}
}

func TestCapturer_SavesDebugCapture(t *testing.T) {
	sink := mocks.NewDebugSink(true)
	handle := mocks.NewMediaHandle(ports.MediaInfo{})

	capturer := NewCapturer(mocks.NewRenderer(), sink, logger.NewNoop(), 0)
	if _, err := capturer.Capture(handle, 42, 0); err != nil {
		t.Fatalf("capture: %v", err)
	}

	if sink.CaptureCount() != 1 {
		t.Fatalf("expected 1 saved capture, got %d", sink.CaptureCount())
	}
	if _, ok := sink.Captures[42]; !ok {
		t.Error("capture was not keyed by request id")
	}
}
