// Package codecdetect inspects MP4 blobs to determine the video codec and
// container layout, so a decoding backend can be selected.
package codecdetect

import (
	"bytes"
	"fmt"

	"github.com/Eyevinn/mp4ff/mp4"
)

// Codec represents a video codec type.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecHEVC    Codec = "hevc"
	CodecAV1     Codec = "av1"
	CodecUnknown Codec = "unknown"
)

// Result describes the detected container contents.
type Result struct {
	Codec      Codec
	Fragmented bool
}

// Probe detects the video codec and container layout of an MP4 blob.
func Probe(data []byte) (Result, error) {
	mp4File, err := mp4.DecodeFile(bytes.NewReader(data))
	if err != nil {
		return Result{Codec: CodecUnknown}, fmt.Errorf("decode mp4: %w", err)
	}

	res := Result{Codec: CodecUnknown, Fragmented: mp4File.IsFragmented()}

	moov := mp4File.Moov
	if mp4File.IsFragmented() && mp4File.Init != nil {
		moov = mp4File.Init.Moov
	}
	if moov == nil {
		return res, fmt.Errorf("no moov box found")
	}

	for _, trak := range moov.Traks {
		if codec := trackCodec(trak); codec != CodecUnknown {
			res.Codec = codec
			return res, nil
		}
	}
	return res, fmt.Errorf("no video track found")
}

func trackCodec(trak *mp4.TrakBox) Codec {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
		return CodecUnknown
	}
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return CodecUnknown
	}

	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		switch child.Type() {
		case "avc1", "avc3":
			return CodecH264
		case "hvc1", "hev1":
			return CodecHEVC
		case "av01":
			return CodecAV1
		}
	}
	return CodecUnknown
}
