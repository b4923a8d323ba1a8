package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"
)

// Load builds a Config from defaults, the viper config file and the
// environment, in that order, then validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()

	if v.IsSet("assets_dir") {
		cfg.AssetsDir = v.GetString("assets_dir")
	}
	if v.IsSet("data_dir") {
		cfg.DataDir = v.GetString("data_dir")
	}
	if v.IsSet("network_voice") {
		cfg.NetworkVoice = v.GetBool("network_voice")
	}
	if v.IsSet("handle_cache_size") {
		cfg.HandleCacheSize = v.GetInt("handle_cache_size")
	}
	if v.IsSet("preload_concurrency") {
		cfg.PreloadConcurrency = v.GetInt("preload_concurrency")
	}

	cfg.Audio = loadAudioConfig(v, cfg.Audio)
	cfg.Remote = loadRemoteConfig(v, cfg.Remote)
	cfg.Cache = loadCacheConfig(v, cfg.Cache)
	if v.IsSet("synth.binary") {
		cfg.Synth.Binary = v.GetString("synth.binary")
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing environment: %w", err)
	}

	cfg.AssetsDir = ExpandPath(cfg.AssetsDir)
	if cfg.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return cfg, err
		}
		cfg.DataDir = dir
	}
	cfg.DataDir = ExpandPath(cfg.DataDir)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadAudioConfig(v *viper.Viper, cfg AudioConfig) AudioConfig {
	if v.IsSet("audio.sample_rate") {
		cfg.SampleRate = v.GetInt("audio.sample_rate")
	}
	if v.IsSet("audio.channels") {
		cfg.Channels = v.GetInt("audio.channels")
	}
	if v.IsSet("audio.buffer_size") {
		cfg.BufferSize = v.GetInt("audio.buffer_size")
	}
	if v.IsSet("audio.volume") {
		cfg.Volume = v.GetFloat64("audio.volume")
	}
	return cfg
}

func loadRemoteConfig(v *viper.Viper, cfg RemoteConfig) RemoteConfig {
	if v.IsSet("remote.endpoint") {
		cfg.Endpoint = v.GetString("remote.endpoint")
	}
	if v.IsSet("remote.api_key") {
		cfg.APIKey = v.GetString("remote.api_key")
	}
	if v.IsSet("remote.voice_id") {
		cfg.VoiceID = v.GetString("remote.voice_id")
	}
	if v.IsSet("remote.model_id") {
		cfg.ModelID = v.GetString("remote.model_id")
	}
	if v.IsSet("remote.timeout") {
		cfg.Timeout = v.GetDuration("remote.timeout")
	}
	if v.IsSet("remote.requests_per_minute") {
		cfg.RequestsPerMinute = v.GetInt("remote.requests_per_minute")
	}
	return cfg
}

func loadCacheConfig(v *viper.Viper, cfg CacheConfig) CacheConfig {
	if v.IsSet("cache.enabled") {
		cfg.Enabled = v.GetBool("cache.enabled")
	}
	if v.IsSet("cache.max_size") {
		cfg.MaxSize = v.GetInt("cache.max_size")
	}
	if v.IsSet("cache.ttl") {
		cfg.TTL = v.GetDuration("cache.ttl")
	}
	if v.IsSet("cache.compression_level") {
		cfg.Level = v.GetInt("cache.compression_level")
	}
	return cfg
}

// SetDefaults sets default values in viper so a written config file and
// `viper.Get` agree with DefaultConfig.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("network_voice", d.NetworkVoice)
	v.SetDefault("handle_cache_size", d.HandleCacheSize)
	v.SetDefault("preload_concurrency", d.PreloadConcurrency)

	v.SetDefault("audio.sample_rate", d.Audio.SampleRate)
	v.SetDefault("audio.channels", d.Audio.Channels)
	v.SetDefault("audio.buffer_size", d.Audio.BufferSize)
	v.SetDefault("audio.volume", d.Audio.Volume)

	v.SetDefault("remote.endpoint", d.Remote.Endpoint)
	v.SetDefault("remote.voice_id", d.Remote.VoiceID)
	v.SetDefault("remote.model_id", d.Remote.ModelID)
	v.SetDefault("remote.timeout", d.Remote.Timeout.String())
	v.SetDefault("remote.requests_per_minute", d.Remote.RequestsPerMinute)

	v.SetDefault("synth.binary", d.Synth.Binary)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.max_size", d.Cache.MaxSize)
	v.SetDefault("cache.ttl", d.Cache.TTL.String())
	v.SetDefault("cache.compression_level", d.Cache.Level)
}

// StorePath is the preference database inside DataDir.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "verbski.db")
}

// ClipCachePath is the clip disk cache directory inside DataDir.
func (c *Config) ClipCachePath() string {
	return filepath.Join(c.DataDir, "clips")
}

func defaultDataDir() (string, error) {
	scope := gap.NewScope(gap.User, "verbski")
	dirs, err := scope.DataDirs()
	if err != nil || len(dirs) == 0 {
		return "", fmt.Errorf("could not find data directory: %w", err)
	}
	return dirs[0], nil
}
