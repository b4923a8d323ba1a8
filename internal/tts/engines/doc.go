// Package engines contains the speech backends used by playback.
// ElevenLabs is the remote voice (HTTP, rate limited); Espeak drives the
// espeak-ng binary as the on-device fallback.
package engines
