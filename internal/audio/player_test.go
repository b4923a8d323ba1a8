package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PlayerConfig)
		wantErr bool
	}{
		{"default", func(*PlayerConfig) {}, false},
		{"48kHz stereo", func(c *PlayerConfig) { c.SampleRate, c.Channels = 48000, 2 }, false},
		{"silent", func(c *PlayerConfig) { c.Volume = 0 }, false},
		{"22050Hz", func(c *PlayerConfig) { c.SampleRate = 22050 }, true},
		{"six channels", func(c *PlayerConfig) { c.Channels = 6 }, true},
		{"24 bit", func(c *PlayerConfig) { c.BitDepth = 24 }, true},
		{"no buffer", func(c *PlayerConfig) { c.BufferSize = 0 }, true},
		{"too loud", func(c *PlayerConfig) { c.Volume = 1.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPlayerConfig()
			tt.mutate(&cfg)
			err := validateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPlayerStateString(t *testing.T) {
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "playing", StatePlaying.String())
	assert.Equal(t, "paused", StatePaused.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "unknown", PlayerState(42).String())
}
