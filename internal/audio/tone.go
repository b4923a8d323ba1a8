package audio

import (
	"bytes"
	"fmt"
	"math"
	"time"
)

// Effect is a short interface sound.
type Effect string

const (
	EffectHover   Effect = "hover"
	EffectCorrect Effect = "correct"
	EffectWrong   Effect = "wrong"
)

// ParseEffect validates an effect name.
func ParseEffect(s string) (Effect, error) {
	switch e := Effect(s); e {
	case EffectHover, EffectCorrect, EffectWrong:
		return e, nil
	}
	return "", fmt.Errorf("unknown sound effect %q (want hover, correct or wrong)", s)
}

type note struct {
	freq float64
	dur  time.Duration
	gain float64
}

var effectNotes = map[Effect][]note{
	EffectHover:   {{freq: 880, dur: 40 * time.Millisecond, gain: 0.15}},
	EffectCorrect: {{freq: 660, dur: 90 * time.Millisecond, gain: 0.3}, {freq: 990, dur: 140 * time.Millisecond, gain: 0.3}},
	EffectWrong:   {{freq: 330, dur: 120 * time.Millisecond, gain: 0.3}, {freq: 220, dur: 200 * time.Millisecond, gain: 0.3}},
}

// Duration is the length of the rendered effect.
func (e Effect) Duration() time.Duration {
	var d time.Duration
	for _, n := range effectNotes[e] {
		d += n.dur
	}
	return d
}

// fadeTime is applied at both ends of every note to avoid clicks.
const fadeTime = 5 * time.Millisecond

// Tone renders an effect as a PCM clip in device layout.
func Tone(effect Effect, sampleRate, channels int) (Clip, error) {
	notes, ok := effectNotes[effect]
	if !ok {
		return Clip{}, fmt.Errorf("unknown sound effect %q", effect)
	}

	var out bytes.Buffer
	scratch := make([]byte, 2)
	for _, n := range notes {
		total := samplesFor(n.dur, sampleRate)
		fade := samplesFor(fadeTime, sampleRate)
		for i := 0; i < total; i++ {
			env := 1.0
			if i < fade {
				env = float64(i) / float64(fade)
			} else if total-i < fade {
				env = float64(total-i) / float64(fade)
			}
			v := n.gain * env * math.Sin(2*math.Pi*n.freq*float64(i)/float64(sampleRate))
			for c := 0; c < channels; c++ {
				writeSample(&out, scratch, v)
			}
		}
	}
	return Clip{Data: out.Bytes(), Format: FormatPCM}, nil
}

func samplesFor(d time.Duration, sampleRate int) int {
	return int(int64(d) * int64(sampleRate) / int64(time.Second))
}
