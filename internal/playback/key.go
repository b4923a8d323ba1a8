package playback

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeWord trims and NFC-normalizes a word so that precomposed and
// decomposed spellings (й, ё) share one key.
func NormalizeWord(word string) string {
	return norm.NFC.String(strings.TrimSpace(word))
}

// Key identifies one spoken form for one voice.
func Key(voice, word string, person Person) string {
	return voice + ":" + NormalizeWord(word) + "_" + string(person)
}

// AssetName is the file stem of a recorded clip.
func AssetName(word string, person Person) string {
	return NormalizeWord(word) + "_" + string(person)
}
