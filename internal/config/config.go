// Package config holds the verbski configuration: defaults, the viper
// file layer, environment overrides and validation.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/mitchellh/go-homedir"
)

// Config contains all verbski configuration options.
type Config struct {
	// Directory holding recorded clips named {infinitive}_{person}.{ext}
	AssetsDir string `yaml:"assets_dir" env:"VERBSKI_ASSETS_DIR"`
	// Directory for the preference database and the clip cache
	DataDir string `yaml:"data_dir" env:"VERBSKI_DATA_DIR"`

	// Use the remote voice before falling back to the local synthesizer
	NetworkVoice bool `yaml:"network_voice" env:"VERBSKI_NETWORK_VOICE"`

	// Prepared handles kept in memory (3 verbs x 6 persons)
	HandleCacheSize int `yaml:"handle_cache_size" env:"VERBSKI_HANDLE_CACHE_SIZE"`
	// Concurrent fetches during preload
	PreloadConcurrency int `yaml:"preload_concurrency" env:"VERBSKI_PRELOAD_CONCURRENCY"`

	Audio  AudioConfig  `yaml:"audio"`
	Remote RemoteConfig `yaml:"remote"`
	Synth  SynthConfig  `yaml:"synth"`
	Cache  CacheConfig  `yaml:"cache"`
}

// AudioConfig contains output device settings.
type AudioConfig struct {
	SampleRate int     `yaml:"sample_rate" env:"VERBSKI_AUDIO_SAMPLE_RATE"`
	Channels   int     `yaml:"channels" env:"VERBSKI_AUDIO_CHANNELS"`
	BufferSize int     `yaml:"buffer_size" env:"VERBSKI_AUDIO_BUFFER_SIZE"`
	Volume     float64 `yaml:"volume" env:"VERBSKI_AUDIO_VOLUME"`
}

// RemoteConfig contains ElevenLabs settings.
type RemoteConfig struct {
	Endpoint          string        `yaml:"endpoint" env:"VERBSKI_REMOTE_ENDPOINT"`
	APIKey            string        `yaml:"api_key" env:"ELEVENLABS_API_KEY"`
	VoiceID           string        `yaml:"voice_id" env:"VERBSKI_REMOTE_VOICE_ID"`
	ModelID           string        `yaml:"model_id" env:"VERBSKI_REMOTE_MODEL_ID"`
	Timeout           time.Duration `yaml:"timeout" env:"VERBSKI_REMOTE_TIMEOUT"`
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"VERBSKI_REMOTE_REQUESTS_PER_MINUTE"`
}

// SynthConfig contains local synthesizer settings.
type SynthConfig struct {
	Binary string `yaml:"binary" env:"VERBSKI_SYNTH_BINARY"`
}

// CacheConfig contains clip disk cache settings.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" env:"VERBSKI_CACHE_ENABLED"`
	MaxSize int           `yaml:"max_size" env:"VERBSKI_CACHE_MAX_SIZE"` // MB
	TTL     time.Duration `yaml:"ttl" env:"VERBSKI_CACHE_TTL"`
	Level   int           `yaml:"compression_level" env:"VERBSKI_CACHE_COMPRESSION_LEVEL"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		AssetsDir:          "",
		DataDir:            "",
		NetworkVoice:       true,
		HandleCacheSize:    18,
		PreloadConcurrency: 3,

		Audio: AudioConfig{
			SampleRate: 44100,
			Channels:   1,
			BufferSize: 4096,
			Volume:     1.0,
		},
		Remote: RemoteConfig{
			Endpoint:          "https://api.elevenlabs.io",
			VoiceID:           "21m00Tcm4TlvDq8ikWAM",
			ModelID:           "eleven_multilingual_v2",
			Timeout:           15 * time.Second,
			RequestsPerMinute: 60,
		},
		Synth: SynthConfig{
			Binary: "espeak-ng",
		},
		Cache: CacheConfig{
			Enabled: true,
			MaxSize: 256,
			TTL:     30 * 24 * time.Hour,
			Level:   3,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.HandleCacheSize < 1 || c.HandleCacheSize > 256 {
		return fmt.Errorf("handle_cache_size must be between 1 and 256, got %d", c.HandleCacheSize)
	}
	if c.PreloadConcurrency < 1 || c.PreloadConcurrency > 6 {
		return fmt.Errorf("preload_concurrency must be between 1 and 6, got %d", c.PreloadConcurrency)
	}
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}
	if err := c.Remote.Validate(); err != nil {
		return fmt.Errorf("remote config: %w", err)
	}
	if c.Synth.Binary == "" {
		return fmt.Errorf("synth binary cannot be empty")
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}
	return nil
}

// Validate checks the audio device settings.
func (c *AudioConfig) Validate() error {
	if c.SampleRate != 44100 && c.SampleRate != 48000 {
		return fmt.Errorf("invalid sample rate %d: must be 44100 or 48000", c.SampleRate)
	}
	if c.Channels != 1 && c.Channels != 2 {
		return fmt.Errorf("channels must be 1 or 2, got %d", c.Channels)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("buffer_size must be positive, got %d", c.BufferSize)
	}
	if c.Volume < 0.0 || c.Volume > 1.0 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", c.Volume)
	}
	return nil
}

// Validate checks the remote voice settings.
func (c *RemoteConfig) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint must be an http(s) URL, got %q", c.Endpoint)
	}
	if c.VoiceID == "" {
		return fmt.Errorf("voice_id cannot be empty")
	}
	if c.Timeout < time.Second {
		return fmt.Errorf("timeout must be at least 1 second, got %v", c.Timeout)
	}
	if c.RequestsPerMinute < 1 || c.RequestsPerMinute > 6000 {
		return fmt.Errorf("requests_per_minute must be between 1 and 6000, got %d", c.RequestsPerMinute)
	}
	return nil
}

// Validate checks the disk cache settings.
func (c *CacheConfig) Validate() error {
	if c.MaxSize < 1 || c.MaxSize > 10000 {
		return fmt.Errorf("max_size must be between 1 and 10000 MB, got %d", c.MaxSize)
	}
	if c.Level < 0 || c.Level > 22 {
		return fmt.Errorf("compression_level must be between 0 and 22, got %d", c.Level)
	}
	if c.TTL < 0 {
		return fmt.Errorf("ttl cannot be negative, got %v", c.TTL)
	}
	return nil
}

// ExpandPath expands a leading ~ in path.
func ExpandPath(path string) string {
	p, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return p
}
