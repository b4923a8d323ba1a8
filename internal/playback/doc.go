// Package playback coordinates spoken conjugations. A Coordinator turns a
// (word, person) pair into sound: recorded assets first, then cached or
// freshly fetched remote audio, and finally the local speech synthesizer.
// It keeps at most one clip sounding and remembers the mute preference.
package playback
