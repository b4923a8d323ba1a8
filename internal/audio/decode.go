package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

// resampleQuality is the beep resampler quality used for device conversion.
const resampleQuality = 4

// Decode converts a clip to signed 16-bit little endian PCM with the given
// sample rate and channel count. PCM clips are returned as-is.
func Decode(clip Clip, sampleRate, channels int) ([]byte, error) {
	if clip.Empty() {
		return nil, fmt.Errorf("decode: %w: empty clip", ErrUnsupportedFormat)
	}

	format := clip.Format
	if format == FormatUnknown {
		format = Sniff(clip.Data)
	}

	var (
		streamer beep.StreamSeekCloser
		bf       beep.Format
		err      error
	)
	switch format {
	case FormatPCM:
		return clip.Data, nil
	case FormatMP3:
		streamer, bf, err = mp3.Decode(io.NopCloser(bytes.NewReader(clip.Data)))
	case FormatWAV:
		streamer, bf, err = wav.Decode(bytes.NewReader(clip.Data))
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	defer streamer.Close() //nolint:errcheck

	var s beep.Streamer = streamer
	if int(bf.SampleRate) != sampleRate {
		s = beep.Resample(resampleQuality, bf.SampleRate, beep.SampleRate(sampleRate), s)
	}

	return streamToPCM(s, channels), nil
}

// streamToPCM drains a beep streamer into interleaved int16 samples.
func streamToPCM(s beep.Streamer, channels int) []byte {
	var out bytes.Buffer
	buf := make([][2]float64, 512)
	sample := make([]byte, 2)

	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			if channels == 1 {
				writeSample(&out, sample, (frame[0]+frame[1])/2)
				continue
			}
			writeSample(&out, sample, frame[0])
			writeSample(&out, sample, frame[1])
		}
		if !ok {
			break
		}
	}
	return out.Bytes()
}

func writeSample(w *bytes.Buffer, scratch []byte, v float64) {
	v = math.Max(-1, math.Min(1, v))
	binary.LittleEndian.PutUint16(scratch, uint16(int16(v*math.MaxInt16)))
	w.Write(scratch)
}
