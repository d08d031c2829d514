package scrub

import (
	"testing"
)

func TestFrameResult_JPEGBytes(t *testing.T) {
	r := FrameResult{ImageData: "data:image/jpeg;base64,aGVsbG8="}
	data, err := r.JPEGBytes()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("payload: expected %q, got %q", "hello", data)
	}
}

func TestFrameResult_JPEGBytesRejectsOtherSchemes(t *testing.T) {
	r := FrameResult{ImageData: "data:image/png;base64,aGVsbG8="}
	if _, err := r.JPEGBytes(); err == nil {
		t.Error("expected error for non-JPEG data URI")
	}
}

func TestFrameResult_JPEGBytesRejectsBadBase64(t *testing.T) {
	r := FrameResult{ImageData: dataURIPrefix + "not base64!!"}
	if _, err := r.JPEGBytes(); err == nil {
		t.Error("expected error for invalid base64 payload")
	}
}

func TestStatus_String(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{StatusUnloaded, "unloaded"},
		{StatusLoading, "loading"},
		{StatusReady, "ready"},
		{StatusError, "error"},
		{Status(99), "unknown"},
	}
	for _, c := range cases {
		if got := c.status.String(); got != c.want {
			t.Errorf("Status(%d).String() = %q, want %q", c.status, got, c.want)
		}
	}
}
