package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/ebitengine/oto/v3"
)

// watchInterval is how often a playing handle polls oto for completion.
const watchInterval = 10 * time.Millisecond

// PlayerConfig contains configuration for the audio device.
type PlayerConfig struct {
	SampleRate int // 44100 or 48000 Hz only
	Channels   int // 1 = mono, 2 = stereo
	BitDepth   int // 16 bits per sample
	BufferSize int // Buffer size for streaming, in bytes
	Volume     float64
}

// DefaultPlayerConfig returns the default device configuration.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		SampleRate: 44100,
		Channels:   1,
		BitDepth:   16,
		BufferSize: 4096,
		Volume:     1.0,
	}
}

// validateConfig validates the player configuration.
func validateConfig(config PlayerConfig) error {
	// OTO only supports specific sample rates reliably
	if config.SampleRate != 44100 && config.SampleRate != 48000 {
		return fmt.Errorf("sample rate must be 44100 or 48000 Hz, got %d", config.SampleRate)
	}

	if config.Channels != 1 && config.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", config.Channels)
	}

	if config.BitDepth != 16 {
		return fmt.Errorf("bit depth must be 16, got %d", config.BitDepth)
	}

	if config.BufferSize <= 0 {
		return errors.New("buffer size must be positive")
	}

	if config.Volume < 0 || config.Volume > 1 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", config.Volume)
	}

	return nil
}

// OtoDevice is the production Device. It owns the process-wide oto context.
type OtoDevice struct {
	context *oto.Context
	config  PlayerConfig

	mu     sync.Mutex
	closed bool
}

// NewOtoDevice initializes the system audio context.
// Returns an error if the audio device is unavailable.
func NewOtoDevice(config PlayerConfig) (*OtoDevice, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	op := &oto.NewContextOptions{
		SampleRate:   config.SampleRate,
		ChannelCount: config.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(config.BufferSize) * time.Second / time.Duration(config.SampleRate*config.Channels*2),
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}

	// Wait for context to be ready
	<-readyChan

	log.Debug("audio device initialized", "rate", config.SampleRate, "channels", config.Channels)
	return &OtoDevice{context: ctx, config: config}, nil
}

// NewHandle decodes clip and prepares an oto player for it. The PCM buffer
// is owned by the handle for its whole lifetime.
func (d *OtoDevice) NewHandle(clip Clip) (Handle, error) {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return nil, ErrDeviceClosed
	}

	pcm, err := Decode(clip, d.config.SampleRate, d.config.Channels)
	if err != nil {
		return nil, err
	}
	if len(pcm) == 0 {
		return nil, errors.New("decoded clip is empty")
	}

	// Make a copy to ensure we own the data
	data := make([]byte, len(pcm))
	copy(data, pcm)
	reader := bytes.NewReader(data)

	player := d.context.NewPlayer(reader)
	if player == nil {
		return nil, errors.New("failed to create oto player")
	}
	player.SetVolume(d.config.Volume)

	bytesPerSecond := d.config.SampleRate * d.config.Channels * d.config.BitDepth / 8
	h := &otoHandle{
		player:         player,
		data:           data,
		bytesPerSecond: int64(bytesPerSecond),
		duration:       time.Duration(len(data)) * time.Second / time.Duration(bytesPerSecond),
	}
	h.state.Store(int32(StateStopped))

	log.Debug("audio handle prepared", "format", clip.Format, "pcm", humanize.Bytes(uint64(len(data))), "duration", h.duration)
	return h, nil
}

// Close marks the device closed. oto/v3 contexts cannot be released, so
// existing handles keep working until they are closed themselves.
func (d *OtoDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// otoHandle plays one decoded clip through an oto player.
type otoHandle struct {
	// mu serialises Play/Stop/Close against each other.
	mu     sync.Mutex
	events Events

	player *oto.Player
	// data must stay alive while the player reads from it
	data           []byte
	bytesPerSecond int64
	duration       time.Duration

	state atomic.Int32
}

// Play rewinds and starts the clip, then watches for completion.
func (h *otoHandle) Play() error {
	h.mu.Lock()
	if PlayerState(h.state.Load()) == StateClosed {
		h.mu.Unlock()
		return ErrHandleClosed
	}

	gen := h.events.Next()
	h.player.Pause()
	if _, err := h.player.Seek(0, io.SeekStart); err != nil {
		h.mu.Unlock()
		return fmt.Errorf("rewind failed: %w", err)
	}
	h.player.Play()
	h.state.Store(int32(StatePlaying))
	h.mu.Unlock()

	h.events.Start(gen)
	go h.watch(gen)
	return nil
}

// watch polls the oto player until the run ends or is superseded.
func (h *otoHandle) watch(gen uint64) {
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for range ticker.C {
		if !h.events.Live(gen) {
			return
		}
		if h.player.IsPlaying() {
			continue
		}

		h.mu.Lock()
		if !h.events.Live(gen) {
			h.mu.Unlock()
			return
		}
		h.state.Store(int32(StateStopped))
		err := h.player.Err()
		h.mu.Unlock()

		if err != nil {
			h.events.Error(gen, err)
		} else {
			h.events.End(gen)
		}
		return
	}
}

// Stop pauses and rewinds. No events are delivered for the stopped run.
func (h *otoHandle) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if PlayerState(h.state.Load()) == StateClosed {
		return nil
	}
	h.events.Next()
	h.player.Pause()
	if _, err := h.player.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind failed: %w", err)
	}
	h.state.Store(int32(StateStopped))
	return nil
}

// Position returns the offset of what has actually been sent to the speaker.
func (h *otoHandle) Position() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()

	if PlayerState(h.state.Load()) == StateClosed {
		return 0
	}
	offset, err := h.player.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0
	}
	offset -= int64(h.player.BufferedSize())
	if offset < 0 {
		offset = 0
	}
	return time.Duration(offset) * time.Second / time.Duration(h.bytesPerSecond)
}

func (h *otoHandle) Duration() time.Duration { return h.duration }

func (h *otoHandle) State() PlayerState { return PlayerState(h.state.Load()) }

func (h *otoHandle) SetCallbacks(cb Callbacks) { h.events.Set(cb) }

func (h *otoHandle) ClearCallbacks() { h.events.Clear() }

// Close stops playback and releases the oto player and PCM buffer.
func (h *otoHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if PlayerState(h.state.Load()) == StateClosed {
		return nil
	}
	h.events.Next()
	h.events.Clear()
	h.player.Pause()
	err := h.player.Close()
	h.data = nil
	h.state.Store(int32(StateClosed))
	return err
}
