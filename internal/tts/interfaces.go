package tts

import (
	"context"

	"github.com/verbski/verbski/internal/audio"
)

// Synthesizer turns text into an encoded clip. The remote voice implements
// it; the returned clip is cacheable.
type Synthesizer interface {
	// Synthesize fetches audio for text. Implementations must honour ctx.
	Synthesize(ctx context.Context, text string) (audio.Clip, error)

	// GetInfo returns engine capabilities and configuration.
	GetInfo() EngineInfo
}

// Speaker speaks text through the platform speech synthesizer. Handles it
// returns are single-use from the caller's point of view and are never
// cached.
type Speaker interface {
	// Prepare builds a handle that speaks u when played.
	Prepare(u Utterance) (audio.Handle, error)

	// Available reports whether the synthesizer can be started.
	Available() bool

	GetInfo() EngineInfo
}

// EngineInfo describes engine capabilities and configuration.
type EngineInfo struct {
	Name        string // Engine name (e.g., "elevenlabs", "espeak-ng")
	Voice       string // Voice or language in use
	MaxTextSize int    // Maximum text size in characters
	IsOnline    bool   // Whether the engine requires internet
}
