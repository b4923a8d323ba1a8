package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/verbski/verbski/internal/audio"
	"github.com/verbski/verbski/internal/cache"
	"github.com/verbski/verbski/internal/config"
	"github.com/verbski/verbski/internal/playback"
	"github.com/verbski/verbski/internal/store"
	"github.com/verbski/verbski/internal/tts/engines"
)

// app holds everything a playback command needs.
type app struct {
	store   *store.Store
	clips   *cache.DiskCache
	device  *audio.OtoDevice
	remote  *engines.ElevenLabsEngine
	speaker *engines.EspeakEngine
	coord   *playback.Coordinator
}

func openStore(cfg config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.StorePath())
	if err != nil {
		return nil, fmt.Errorf("unable to open preferences: %w", err)
	}
	return st, nil
}

func openClipCache(cfg config.Config) (*cache.DiskCache, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	dc := cache.DefaultDiskConfig(cfg.ClipCachePath())
	dc.Capacity = int64(cfg.Cache.MaxSize) * 1024 * 1024
	dc.TTL = cfg.Cache.TTL
	dc.CompressionLevel = cfg.Cache.Level
	clips, err := cache.NewDiskCache(dc)
	if err != nil {
		return nil, fmt.Errorf("unable to open clip cache: %w", err)
	}
	return clips, nil
}

func newApp(cfg config.Config) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			_ = a.Close()
		}
	}()

	var err error

	if a.store, err = openStore(cfg); err != nil {
		return nil, err
	}

	if a.clips, err = openClipCache(cfg); err != nil {
		// Playback works without the disk cache.
		log.Warn("clip cache disabled", "error", err)
	}

	a.device, err = audio.NewOtoDevice(audio.PlayerConfig{
		SampleRate: cfg.Audio.SampleRate,
		Channels:   cfg.Audio.Channels,
		BitDepth:   16,
		BufferSize: cfg.Audio.BufferSize,
		Volume:     cfg.Audio.Volume,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open audio device: %w", err)
	}

	a.remote, err = engines.NewElevenLabsEngine(engines.ElevenLabsConfig{
		Endpoint:          cfg.Remote.Endpoint,
		APIKey:            cfg.Remote.APIKey,
		VoiceID:           cfg.Remote.VoiceID,
		ModelID:           cfg.Remote.ModelID,
		Timeout:           cfg.Remote.Timeout,
		RequestsPerMinute: cfg.Remote.RequestsPerMinute,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to configure remote voice: %w", err)
	}
	a.speaker = engines.NewEspeakEngine(engines.EspeakConfig{Binary: cfg.Synth.Binary})

	sources := []playback.Source{playback.AssetSource{Dir: cfg.AssetsDir}}
	if a.clips != nil {
		sources = append(sources, playback.DiskSource{
			Cache: a.clips,
			Voice: a.remote.VoiceID(),
			Model: a.remote.ModelID(),
		})
	}

	a.coord, err = playback.New(playback.Options{
		Device:  a.device,
		Sources: sources,
		Remote: playback.RemoteSource{
			Synth: a.remote,
			Cache: a.clips,
			Voice: a.remote.VoiceID(),
			Model: a.remote.ModelID(),
		},
		Speaker:            a.speaker,
		Prefs:              a.store,
		Voice:              a.remote.VoiceID(),
		CacheSize:          cfg.HandleCacheSize,
		PreloadConcurrency: cfg.PreloadConcurrency,
		NetworkVoice:       cfg.NetworkVoice,
		SampleRate:         cfg.Audio.SampleRate,
		Channels:           cfg.Audio.Channels,
	})
	if err != nil {
		return nil, err
	}
	ok = true
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	if a.coord != nil {
		errs = append(errs, a.coord.Close())
	}
	if a.device != nil {
		errs = append(errs, a.device.Close())
	}
	if a.clips != nil {
		errs = append(errs, a.clips.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}

// idlePoll is how often waitIdle checks the coordinator.
const idlePoll = 50 * time.Millisecond

type player interface {
	IsPlaying() bool
}

// waitIdle blocks until nothing is playing or ctx is done.
func waitIdle(ctx context.Context, p player) {
	ticker := time.NewTicker(idlePoll)
	defer ticker.Stop()
	for p.IsPlaying() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
