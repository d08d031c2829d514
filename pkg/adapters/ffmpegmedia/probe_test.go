package ffmpegmedia

import (
	"testing"
)

func TestParseProbeOutput(t *testing.T) {
	data := []byte(`{
		"format": {"duration": "30.041667"},
		"streams": [{"codec_name": "h264", "width": 1920, "height": 1080}]
	}`)

	info, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if info.Codec != "h264" {
		t.Errorf("codec: expected h264, got %q", info.Codec)
	}
	if info.Width != 1920 || info.Height != 1080 {
		t.Errorf("size: expected 1920x1080, got %dx%d", info.Width, info.Height)
	}
	if info.DurationSeconds < 30.04 || info.DurationSeconds > 30.05 {
		t.Errorf("duration: expected ~30.04, got %v", info.DurationSeconds)
	}
}

func TestParseProbeOutput_NoStreams(t *testing.T) {
	data := []byte(`{"format": {"duration": "10.0"}, "streams": []}`)
	if _, err := parseProbeOutput(data); err == nil {
		t.Error("expected error when no video stream is present")
	}
}

func TestParseProbeOutput_BadDuration(t *testing.T) {
	data := []byte(`{
		"format": {"duration": "N/A"},
		"streams": [{"codec_name": "h264", "width": 640, "height": 480}]
	}`)
	if _, err := parseProbeOutput(data); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestParseProbeOutput_InvalidJSON(t *testing.T) {
	if _, err := parseProbeOutput([]byte("not json")); err == nil {
		t.Error("expected error for malformed probe output")
	}
}
