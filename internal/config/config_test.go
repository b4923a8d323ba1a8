package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// TestDefaultConfig tests that default configuration is valid.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
	if cfg.HandleCacheSize != 18 {
		t.Errorf("Default handle cache should hold 18 handles, got %d", cfg.HandleCacheSize)
	}
	if !cfg.NetworkVoice {
		t.Error("Network voice should be enabled by default")
	}
}

// TestConfigValidation tests configuration validation.
func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name:    "handle cache too small",
			modify:  func(c *Config) { c.HandleCacheSize = 0 },
			wantErr: true,
			errMsg:  "handle_cache_size must be between",
		},
		{
			name:    "preload concurrency too high",
			modify:  func(c *Config) { c.PreloadConcurrency = 10 },
			wantErr: true,
			errMsg:  "preload_concurrency must be between",
		},
		{
			name:    "invalid sample rate",
			modify:  func(c *Config) { c.Audio.SampleRate = 12345 },
			wantErr: true,
			errMsg:  "invalid sample rate",
		},
		{
			name:    "volume too high",
			modify:  func(c *Config) { c.Audio.Volume = 3.0 },
			wantErr: true,
			errMsg:  "volume must be between",
		},
		{
			name:    "relative endpoint",
			modify:  func(c *Config) { c.Remote.Endpoint = "api.elevenlabs.io" },
			wantErr: true,
			errMsg:  "endpoint must be",
		},
		{
			name:    "short timeout",
			modify:  func(c *Config) { c.Remote.Timeout = time.Millisecond },
			wantErr: true,
			errMsg:  "timeout must be at least",
		},
		{
			name:    "empty synth binary",
			modify:  func(c *Config) { c.Synth.Binary = "" },
			wantErr: true,
			errMsg:  "synth binary",
		},
		{
			name:    "compression level",
			modify:  func(c *Config) { c.Cache.Level = 30 },
			wantErr: true,
			errMsg:  "compression_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error containing %q, got nil", tt.errMsg)
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

// TestLoad tests loading from viper with environment overrides.
func TestLoad(t *testing.T) {
	dataDir := t.TempDir()

	v := viper.New()
	SetDefaults(v)
	v.Set("data_dir", dataDir)
	v.Set("network_voice", false)
	v.Set("handle_cache_size", 12)
	v.Set("remote.timeout", "5s")
	v.Set("audio.volume", 0.5)
	v.Set("remote.api_key", "from-file")

	t.Setenv("ELEVENLABS_API_KEY", "from-env")
	t.Setenv("VERBSKI_PRELOAD_CONCURRENCY", "2")

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DataDir != dataDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, dataDir)
	}
	if cfg.NetworkVoice {
		t.Error("NetworkVoice should be false")
	}
	if cfg.HandleCacheSize != 12 {
		t.Errorf("HandleCacheSize = %d, want 12", cfg.HandleCacheSize)
	}
	if cfg.Remote.Timeout != 5*time.Second {
		t.Errorf("Remote.Timeout = %v, want 5s", cfg.Remote.Timeout)
	}
	if cfg.Audio.Volume != 0.5 {
		t.Errorf("Audio.Volume = %v, want 0.5", cfg.Audio.Volume)
	}
	if cfg.Remote.APIKey != "from-env" {
		t.Errorf("environment should override file, got %q", cfg.Remote.APIKey)
	}
	if cfg.PreloadConcurrency != 2 {
		t.Errorf("PreloadConcurrency = %d, want 2", cfg.PreloadConcurrency)
	}
	if cfg.StorePath() != filepath.Join(dataDir, "verbski.db") {
		t.Errorf("StorePath = %q", cfg.StorePath())
	}
	if cfg.ClipCachePath() != filepath.Join(dataDir, "clips") {
		t.Errorf("ClipCachePath = %q", cfg.ClipCachePath())
	}
}

// TestLoadInvalid tests that invalid values are rejected.
func TestLoadInvalid(t *testing.T) {
	v := viper.New()
	v.Set("data_dir", t.TempDir())
	v.Set("handle_cache_size", 0)

	if _, err := Load(v); err == nil {
		t.Error("Expected error for handle_cache_size 0")
	}
}

// TestExpandPath tests home directory expansion.
func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/verbski"); got != filepath.Join(home, "verbski") {
		t.Errorf("ExpandPath = %q", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath changed an absolute path: %q", got)
	}
}
