package mp4media

import (
	"bytes"
	"fmt"

	"github.com/Eyevinn/mp4ff/mp4"
)

// sample is one video sample with presentation timing in seconds.
type sample struct {
	data     []byte
	time     float64
	duration float64
	keyframe bool
}

// track holds the demuxed video track of a fragmented MP4.
type track struct {
	duration float64
	width    int
	height   int
	samples  []sample
}

// parseTrack demuxes the video track of a fragmented MP4 blob. Progressive
// MP4 is rejected; those inputs go through the ffmpeg backend instead.
func parseTrack(data []byte) (*track, error) {
	mp4File, err := mp4.DecodeFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}
	if !mp4File.IsFragmented() {
		return nil, fmt.Errorf("progressive mp4 is not supported by the in-process decoder")
	}
	if mp4File.Init == nil || mp4File.Init.Moov == nil {
		return nil, fmt.Errorf("no init segment")
	}

	var (
		trackID   uint32
		timescale uint32 = 1000
		trex      *mp4.TrexBox
		trk       track
	)

	for _, trak := range mp4File.Init.Moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
			continue
		}
		trackID = trak.Tkhd.TrackID
		// tkhd stores dimensions as 16.16 fixed point.
		trk.width = int(trak.Tkhd.Width >> 16)
		trk.height = int(trak.Tkhd.Height >> 16)
		if trak.Mdia.Mdhd != nil {
			timescale = trak.Mdia.Mdhd.Timescale
		}
		break
	}
	if trackID == 0 {
		return nil, fmt.Errorf("no video track found")
	}
	if mp4File.Init.Moov.Mvex != nil {
		for _, t := range mp4File.Init.Moov.Mvex.Trexs {
			if t.TrackID == trackID {
				trex = t
				break
			}
		}
	}

	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd.TrackID != trackID {
					continue
				}

				var decodeTime uint64
				if traf.Tfdt != nil {
					decodeTime = traf.Tfdt.BaseMediaDecodeTime()
				}

				fullSamples, err := frag.GetFullSamples(trex)
				if err != nil {
					return nil, fmt.Errorf("get samples: %w", err)
				}

				for _, fs := range fullSamples {
					trk.samples = append(trk.samples, sample{
						data:     fs.Data,
						time:     float64(decodeTime) / float64(timescale),
						duration: float64(fs.Dur) / float64(timescale),
						keyframe: fs.Flags == mp4.SyncSampleFlags,
					})
					decodeTime += uint64(fs.Dur)
				}
			}
		}
	}

	if len(trk.samples) == 0 {
		return nil, fmt.Errorf("video track has no samples")
	}

	last := trk.samples[len(trk.samples)-1]
	trk.duration = last.time + last.duration
	return &trk, nil
}

// targetIndex returns the index of the sample presented at the given
// timestamp: the last sample starting at or before it.
func targetIndex(samples []sample, seconds float64) int {
	idx := 0
	for i, s := range samples {
		if s.time > seconds {
			break
		}
		idx = i
	}
	return idx
}

// keyframeBefore returns the index of the nearest keyframe at or before
// idx, falling back to the first sample.
func keyframeBefore(samples []sample, idx int) int {
	for i := idx; i >= 0; i-- {
		if samples[i].keyframe {
			return i
		}
	}
	return 0
}
