package scrub

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const dataURIPrefix = "data:image/jpeg;base64,"

// FrameResult is the externally delivered artifact: one encoded still per
// accepted seek request.
type FrameResult struct {
	// ImageData is the encoded still as a base64 data URI.
	ImageData string

	// TimestampSeconds is the timestamp the frame was requested at. The
	// actual decoded instant may differ by up to one frame interval.
	TimestampSeconds float64
}

// JPEGBytes decodes the data URI back into raw JPEG bytes.
func (r FrameResult) JPEGBytes() ([]byte, error) {
	payload, ok := strings.CutPrefix(r.ImageData, dataURIPrefix)
	if !ok {
		return nil, fmt.Errorf("image data is not a JPEG data URI")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode image data: %w", err)
	}
	return data, nil
}
