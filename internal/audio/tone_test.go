package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToneLength(t *testing.T) {
	tests := []struct {
		effect   Effect
		channels int
		want     int
	}{
		{EffectHover, 1, 1764 * 2},
		{EffectHover, 2, 1764 * 2 * 2},
		{EffectCorrect, 1, (3969 + 6174) * 2},
		{EffectWrong, 1, (5292 + 8820) * 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.effect), func(t *testing.T) {
			clip, err := Tone(tt.effect, 44100, tt.channels)
			require.NoError(t, err)
			assert.Equal(t, FormatPCM, clip.Format)
			assert.Len(t, clip.Data, tt.want)
		})
	}
}

func TestToneStartsSilent(t *testing.T) {
	clip, err := Tone(EffectCorrect, 44100, 1)
	require.NoError(t, err)
	assert.Equal(t, byte(0), clip.Data[0])
	assert.Equal(t, byte(0), clip.Data[1])
}

func TestParseEffect(t *testing.T) {
	e, err := ParseEffect("wrong")
	require.NoError(t, err)
	assert.Equal(t, EffectWrong, e)

	_, err = ParseEffect("applause")
	assert.Error(t, err)

	_, err = Tone(Effect("applause"), 44100, 1)
	assert.Error(t, err)
}

func TestEffectDuration(t *testing.T) {
	assert.Equal(t, 230*time.Millisecond, EffectCorrect.Duration())
	assert.Zero(t, Effect("nope").Duration())
}
