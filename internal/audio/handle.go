package audio

import (
	"errors"
	"sync"
	"time"
)

// Errors shared by handle implementations.
var (
	ErrHandleClosed = errors.New("audio handle is closed")
	ErrDeviceClosed = errors.New("audio device is closed")
)

// PlayerState represents the current state of a handle.
type PlayerState int32

const (
	StateStopped PlayerState = iota
	StatePlaying
	StatePaused
	StateClosed
)

// String returns a human readable state name.
func (s PlayerState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Callbacks are the playback events a handle reports. Any field may be nil.
type Callbacks struct {
	OnStart func()
	OnEnd   func()
	OnError func(error)
}

// Handle is a prepared, replayable clip bound to an output device.
//
// Callbacks are replaced, never accumulated: SetCallbacks overwrites the
// previous set and ClearCallbacks drops it. Implementations must not fire
// events from a run that was stopped or superseded by a newer Play.
type Handle interface {
	// Play starts playback from the beginning and returns once the device
	// accepted it.
	Play() error

	// Stop pauses playback and rewinds to the start. Safe to call when idle.
	Stop() error

	// Position returns the current playback offset.
	Position() time.Duration

	// Duration returns the clip length.
	Duration() time.Duration

	// State returns the current handle state.
	State() PlayerState

	SetCallbacks(cb Callbacks)
	ClearCallbacks()

	// Close stops playback and releases the underlying resources.
	Close() error
}

// Device creates handles for decoded clips.
type Device interface {
	NewHandle(clip Clip) (Handle, error)
}

// Events guards a Callbacks value and a run generation for Handle
// implementations. Events are only delivered for the generation they were
// captured with, so a stopped run can never report into a newer one.
type Events struct {
	mu  sync.Mutex
	cb  Callbacks
	gen uint64
}

// Set replaces the callbacks.
func (e *Events) Set(cb Callbacks) {
	e.mu.Lock()
	e.cb = cb
	e.mu.Unlock()
}

// Clear drops all callbacks.
func (e *Events) Clear() {
	e.Set(Callbacks{})
}

// Next invalidates the running generation and returns a new one.
func (e *Events) Next() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	return e.gen
}

// Live reports whether gen is still the current generation.
func (e *Events) Live(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen == gen
}

func (e *Events) snapshot(gen uint64) (Callbacks, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		return Callbacks{}, false
	}
	return e.cb, true
}

// Start delivers OnStart for gen.
func (e *Events) Start(gen uint64) {
	if cb, ok := e.snapshot(gen); ok && cb.OnStart != nil {
		cb.OnStart()
	}
}

// End delivers OnEnd for gen.
func (e *Events) End(gen uint64) {
	if cb, ok := e.snapshot(gen); ok && cb.OnEnd != nil {
		cb.OnEnd()
	}
}

// Error delivers OnError for gen.
func (e *Events) Error(gen uint64, err error) {
	if cb, ok := e.snapshot(gen); ok && cb.OnError != nil {
		cb.OnError(err)
	}
}
