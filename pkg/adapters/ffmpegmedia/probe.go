package ffmpegmedia

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/user/framepick/pkg/ports"
)

// probeDocument mirrors the ffprobe -of json layout for the fields we ask
// for.
type probeDocument struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// parseProbeOutput turns ffprobe JSON output into MediaInfo.
func parseProbeOutput(data []byte) (ports.MediaInfo, error) {
	var doc probeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return ports.MediaInfo{}, fmt.Errorf("parse probe output: %w", err)
	}
	if len(doc.Streams) == 0 {
		return ports.MediaInfo{}, fmt.Errorf("no video stream found")
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(doc.Format.Duration), 64)
	if err != nil {
		return ports.MediaInfo{}, fmt.Errorf("parse duration %q: %w", doc.Format.Duration, err)
	}

	stream := doc.Streams[0]
	return ports.MediaInfo{
		Codec:           stream.CodecName,
		DurationSeconds: duration,
		Width:           stream.Width,
		Height:          stream.Height,
	}, nil
}
