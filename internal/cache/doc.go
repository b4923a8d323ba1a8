// Package cache holds the two caches behind playback: a small
// insertion-ordered cache of prepared handles kept in memory, and a
// persistent zstd-compressed disk cache of clips fetched from the remote
// voice.
package cache
