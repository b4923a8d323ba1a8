// Package audio provides clip decoding and playback handles on top of the
// oto/v3 library. A Device turns a decoded clip into a Handle that can be
// started, stopped and rewound, and that reports start, end and error events
// through replaceable callbacks.
package audio
