package audio

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned when clip bytes are in a format the
// decoder does not understand.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Format identifies the encoding of a clip.
type Format int

const (
	// FormatUnknown means the encoding has not been determined.
	FormatUnknown Format = iota
	// FormatMP3 is MPEG-1 Layer III, as served by the remote voice.
	FormatMP3
	// FormatWAV is RIFF/WAVE with 16-bit PCM samples.
	FormatWAV
	// FormatPCM is raw signed 16-bit little endian PCM in device layout.
	FormatPCM
)

// String returns the conventional file extension of the format.
func (f Format) String() string {
	switch f {
	case FormatMP3:
		return "mp3"
	case FormatWAV:
		return "wav"
	case FormatPCM:
		return "pcm"
	default:
		return "unknown"
	}
}

// Clip is an encoded piece of audio ready to be decoded for a device.
type Clip struct {
	Data   []byte
	Format Format
}

// Empty reports whether the clip carries no audio bytes.
func (c Clip) Empty() bool {
	return len(c.Data) == 0
}

// FormatFromPath guesses a clip format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "mp3":
		return FormatMP3
	case "wav", "wave":
		return FormatWAV
	case "pcm", "raw":
		return FormatPCM
	default:
		return FormatUnknown
	}
}

// FormatFromContentType maps an HTTP content type to a clip format.
func FormatFromContentType(contentType string) Format {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "mpeg"), strings.Contains(ct, "mp3"):
		return FormatMP3
	case strings.Contains(ct, "wav"):
		return FormatWAV
	case strings.Contains(ct, "pcm"), strings.Contains(ct, "l16"):
		return FormatPCM
	default:
		return FormatUnknown
	}
}

// Sniff inspects the leading bytes of data and returns the detected format.
func Sniff(data []byte) Format {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV
	case len(data) >= 3 && bytes.Equal(data[0:3], []byte("ID3")):
		return FormatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// MPEG frame sync
		return FormatMP3
	default:
		return FormatUnknown
	}
}
