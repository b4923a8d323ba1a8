package audio

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// MockDevice implements Device for testing purposes.
// It hands out MockHandles that simulate playback without producing sound.
type MockDevice struct {
	mu      sync.Mutex
	handles []*MockHandle

	// NewHandleErr, when set, makes NewHandle fail.
	NewHandleErr error
	// PlayErr, when set, is copied into every new handle's PlayErr.
	PlayErr error
	// ManualStart defers OnStart until the test calls MockHandle.Begin.
	ManualStart bool
}

// NewMockDevice creates a mock device with default settings.
func NewMockDevice() *MockDevice {
	return &MockDevice{}
}

// NewHandle records the clip and returns a fresh MockHandle.
func (d *MockDevice) NewHandle(clip Clip) (Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.NewHandleErr != nil {
		return nil, d.NewHandleErr
	}
	h := NewMockHandle(clip)
	h.PlayErr = d.PlayErr
	h.ManualStart = d.ManualStart
	d.handles = append(d.handles, h)
	return h, nil
}

// Handles returns every handle created so far, oldest first.
func (d *MockDevice) Handles() []*MockHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*MockHandle, len(d.handles))
	copy(out, d.handles)
	return out
}

// HandleCount returns how many handles were created.
func (d *MockDevice) HandleCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handles)
}

// MockHandle implements Handle for testing purposes.
type MockHandle struct {
	Clip Clip

	// PlayErr, when set, makes Play fail without firing events.
	PlayErr error
	// ManualStart defers OnStart until Begin is called.
	ManualStart bool

	mu       sync.Mutex
	events   Events
	gen      uint64
	state    atomic.Int32
	position time.Duration
	duration time.Duration

	// Metrics for testing
	playCount     atomic.Int64
	stopCount     atomic.Int64
	closeCount    atomic.Int64
	callbackSets  atomic.Int64
	callbackClear atomic.Int64
}

// NewMockHandle creates a stopped mock handle for clip. The simulated
// duration assumes 44100Hz 16-bit mono PCM.
func NewMockHandle(clip Clip) *MockHandle {
	h := &MockHandle{
		Clip:     clip,
		duration: time.Duration(len(clip.Data)/2) * time.Second / 44100,
	}
	h.state.Store(int32(StateStopped))
	return h
}

// Play starts a simulated run from position zero.
func (h *MockHandle) Play() error {
	h.mu.Lock()
	if PlayerState(h.state.Load()) == StateClosed {
		h.mu.Unlock()
		return ErrHandleClosed
	}
	if h.PlayErr != nil {
		h.mu.Unlock()
		return h.PlayErr
	}
	h.gen = h.events.Next()
	gen := h.gen
	h.position = 0
	h.state.Store(int32(StatePlaying))
	h.playCount.Add(1)
	manual := h.ManualStart
	h.mu.Unlock()

	if !manual {
		h.events.Start(gen)
	}
	return nil
}

// Begin delivers a deferred OnStart for the current run.
func (h *MockHandle) Begin() {
	h.mu.Lock()
	gen := h.gen
	h.mu.Unlock()
	h.events.Start(gen)
}

// Advance moves the simulated playback position forward.
func (h *MockHandle) Advance(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if PlayerState(h.state.Load()) == StatePlaying {
		h.position += d
	}
}

// Complete simulates the clip reaching its end.
func (h *MockHandle) Complete() {
	h.mu.Lock()
	gen := h.gen
	if PlayerState(h.state.Load()) == StatePlaying {
		h.state.Store(int32(StateStopped))
		h.position = h.duration
	}
	h.mu.Unlock()
	h.events.End(gen)
}

// Fail simulates a device error during playback.
func (h *MockHandle) Fail(err error) {
	if err == nil {
		err = errors.New("simulated playback error")
	}
	h.mu.Lock()
	gen := h.gen
	h.state.Store(int32(StateStopped))
	h.mu.Unlock()
	h.events.Error(gen, err)
}

// FireStale delivers events for a run that has already been superseded.
// A correct handle must drop them.
func (h *MockHandle) FireStale() {
	h.mu.Lock()
	gen := h.gen - 1
	h.mu.Unlock()
	h.events.Start(gen)
	h.events.End(gen)
}

// Stop pauses and rewinds the simulated run.
func (h *MockHandle) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if PlayerState(h.state.Load()) == StateClosed {
		return nil
	}
	h.gen = h.events.Next()
	h.position = 0
	h.state.Store(int32(StateStopped))
	h.stopCount.Add(1)
	return nil
}

// Position returns the simulated playback offset.
func (h *MockHandle) Position() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position
}

func (h *MockHandle) Duration() time.Duration { return h.duration }

func (h *MockHandle) State() PlayerState { return PlayerState(h.state.Load()) }

// SetCallbacks replaces the callbacks.
func (h *MockHandle) SetCallbacks(cb Callbacks) {
	h.callbackSets.Add(1)
	h.events.Set(cb)
}

// ClearCallbacks drops the callbacks.
func (h *MockHandle) ClearCallbacks() {
	h.callbackClear.Add(1)
	h.events.Clear()
}

// Close marks the handle closed.
func (h *MockHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if PlayerState(h.state.Load()) == StateClosed {
		return nil
	}
	h.gen = h.events.Next()
	h.events.Clear()
	h.state.Store(int32(StateClosed))
	h.closeCount.Add(1)
	return nil
}

// GetMetrics returns playback metrics for testing.
func (h *MockHandle) GetMetrics() MockPlayerMetrics {
	return MockPlayerMetrics{
		PlayCount:      h.playCount.Load(),
		StopCount:      h.stopCount.Load(),
		CloseCount:     h.closeCount.Load(),
		CallbackSets:   h.callbackSets.Load(),
		CallbackClears: h.callbackClear.Load(),
	}
}

// MockPlayerMetrics contains playback metrics for testing.
type MockPlayerMetrics struct {
	PlayCount      int64
	StopCount      int64
	CloseCount     int64
	CallbackSets   int64
	CallbackClears int64
}

// Ensure the mocks implement the interfaces.
var (
	_ Device = (*MockDevice)(nil)
	_ Handle = (*MockHandle)(nil)
)
