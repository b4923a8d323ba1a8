package playback

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/verbski/verbski/internal/audio"
	"github.com/verbski/verbski/internal/cache"
	"github.com/verbski/verbski/internal/tts"
)

// ErrNoClip is returned when no source could produce audio for a request.
var ErrNoClip = errors.New("no clip available")

// Source produces encoded audio for a request.
type Source interface {
	Fetch(ctx context.Context, req Request) (audio.Clip, error)
}

// AssetSource reads recorded clips named {word}_{person}.mp3 or .wav from Dir.
type AssetSource struct {
	Dir string
}

var assetExtensions = []string{".mp3", ".wav"}

// Fetch implements Source.
func (s AssetSource) Fetch(_ context.Context, req Request) (audio.Clip, error) {
	if s.Dir == "" {
		return audio.Clip{}, fmt.Errorf("assets: %w", ErrNoClip)
	}
	stem := AssetName(req.Word, req.Person)
	for _, ext := range assetExtensions {
		path := filepath.Join(s.Dir, stem+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return audio.Clip{}, fmt.Errorf("assets: %w", err)
		}
		return audio.Clip{Data: data, Format: audio.FormatFromPath(path)}, nil
	}
	return audio.Clip{}, fmt.Errorf("assets: %s: %w", stem, ErrNoClip)
}

// DiskSource serves previously fetched remote audio from the clip cache
// without touching the network.
type DiskSource struct {
	Cache *cache.DiskCache
	Voice string
	Model string
}

// Fetch implements Source.
func (s DiskSource) Fetch(_ context.Context, req Request) (audio.Clip, error) {
	if s.Cache == nil {
		return audio.Clip{}, fmt.Errorf("clip cache: %w", ErrNoClip)
	}
	key := cache.ClipKey(req.Text, s.Voice, s.Model)
	data, ok := s.Cache.Get(key)
	if !ok {
		return audio.Clip{}, fmt.Errorf("clip cache: %w", ErrNoClip)
	}
	format := audio.Sniff(data)
	if format == audio.FormatUnknown {
		_ = s.Cache.Delete(key)
		return audio.Clip{}, fmt.Errorf("clip cache: %w", audio.ErrUnsupportedFormat)
	}
	return audio.Clip{Data: data, Format: format}, nil
}

// RemoteSource asks a remote voice for the request text and writes the
// result through to the clip cache.
type RemoteSource struct {
	Synth tts.Synthesizer
	Cache *cache.DiskCache
	Voice string
	Model string
}

// Fetch implements Source.
func (s RemoteSource) Fetch(ctx context.Context, req Request) (audio.Clip, error) {
	if s.Synth == nil {
		return audio.Clip{}, fmt.Errorf("remote voice: %w", ErrNoClip)
	}
	clip, err := s.Synth.Synthesize(ctx, req.Text)
	if err != nil {
		return audio.Clip{}, err
	}
	if s.Cache != nil {
		key := cache.ClipKey(req.Text, s.Voice, s.Model)
		if err := s.Cache.Put(key, clip.Data); err != nil {
			log.Warn("remote clip not cached", "key", req.Key, "error", err)
		}
	}
	return clip, nil
}

// Chain tries each source in order and returns the first clip.
type Chain []Source

// Fetch implements Source.
func (c Chain) Fetch(ctx context.Context, req Request) (audio.Clip, error) {
	if len(c) == 0 {
		return audio.Clip{}, ErrNoClip
	}
	var errs []error
	for _, src := range c {
		if err := ctx.Err(); err != nil {
			return audio.Clip{}, err
		}
		clip, err := src.Fetch(ctx, req)
		if err == nil && !clip.Empty() {
			return clip, nil
		}
		if err == nil {
			err = ErrNoClip
		}
		errs = append(errs, err)
	}
	return audio.Clip{}, errors.Join(errs...)
}
