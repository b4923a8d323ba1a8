package engines

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/verbski/verbski/internal/audio"
	"github.com/verbski/verbski/internal/tts"
)

// espeak-ng scales for a "normal" utterance.
const (
	espeakBaseWPM   = 175
	espeakMinWPM    = 80
	espeakMaxWPM    = 450
	espeakBasePitch = 50
	espeakBaseAmp   = 100
)

// EspeakEngine speaks through the espeak-ng binary, which plays on the
// system audio device itself.
type EspeakEngine struct {
	binary string
}

// EspeakConfig holds configuration for the espeak-ng engine.
type EspeakConfig struct {
	// Binary name or path - defaults to espeak-ng
	Binary string
}

// NewEspeakEngine creates a local synthesizer. It does not check that the
// binary exists; see Available.
func NewEspeakEngine(config EspeakConfig) *EspeakEngine {
	if config.Binary == "" {
		config.Binary = "espeak-ng"
	}
	return &EspeakEngine{binary: config.Binary}
}

// Available reports whether the binary can be found.
func (e *EspeakEngine) Available() bool {
	_, err := exec.LookPath(e.binary)
	return err == nil
}

// Prepare returns a handle that speaks u each time it is played.
func (e *EspeakEngine) Prepare(u tts.Utterance) (audio.Handle, error) {
	if strings.TrimSpace(u.Text) == "" {
		return nil, tts.ErrEmptyText
	}
	path, err := exec.LookPath(e.binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tts.ErrSynthUnavailable, err)
	}
	return &espeakHandle{
		path: path,
		args: espeakArgs(u),
		text: u.Text,
	}, nil
}

// GetInfo returns engine information.
func (e *EspeakEngine) GetInfo() tts.EngineInfo {
	return tts.EngineInfo{
		Name:        "espeak-ng",
		Voice:       "ru",
		MaxTextSize: maxTextSize,
	}
}

// espeakArgs maps browser speech settings onto espeak-ng flags. Text is
// fed on stdin so it can never be read as a flag.
func espeakArgs(u tts.Utterance) []string {
	lang := u.Lang
	if lang == "" {
		lang = "ru"
	}
	// espeak-ng voices are lower case, e.g. ru or en-us.
	lang = strings.ToLower(lang)
	if i := strings.IndexByte(lang, '-'); i > 0 && lang[:i] == "ru" {
		lang = "ru"
	}

	rate := clamp(u.Rate, 0.1, 10, 1)
	pitch := clamp(u.Pitch, 0, 2, 1)
	volume := clamp(u.Volume, 0, 1, 1)

	wpm := int(math.Round(espeakBaseWPM * rate))
	wpm = max(espeakMinWPM, min(espeakMaxWPM, wpm))

	return []string{
		"-v", lang,
		"-s", strconv.Itoa(wpm),
		"-p", strconv.Itoa(int(math.Round(espeakBasePitch * pitch))),
		"-a", strconv.Itoa(int(math.Round(espeakBaseAmp * volume))),
		"--stdin",
	}
}

// clamp bounds v, substituting def for zero values.
func clamp(v, lo, hi, def float64) float64 {
	if v == 0 {
		return def
	}
	return math.Max(lo, math.Min(hi, v))
}

// espeakHandle runs one espeak-ng process per Play.
type espeakHandle struct {
	path string
	args []string
	text string

	events audio.Events

	mu      sync.Mutex
	cmd     *exec.Cmd
	started time.Time
	state   audio.PlayerState
}

// Play starts a fresh espeak-ng process. OnStart fires once the process is
// running, OnEnd on a clean exit and OnError otherwise.
func (h *espeakHandle) Play() error {
	h.mu.Lock()
	if h.state == audio.StateClosed {
		h.mu.Unlock()
		return audio.ErrHandleClosed
	}
	h.killLocked()

	gen := h.events.Next()
	cmd := exec.Command(h.path, h.args...)
	cmd.Stdin = strings.NewReader(h.text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		h.state = audio.StateStopped
		h.mu.Unlock()
		return fmt.Errorf("%w: %w", tts.ErrSynthUnavailable, err)
	}
	h.cmd = cmd
	h.started = time.Now()
	h.state = audio.StatePlaying
	h.mu.Unlock()

	log.Debug("espeak-ng started", "pid", cmd.Process.Pid, "args", strings.Join(h.args, " "))

	h.events.Start(gen)
	go h.wait(cmd, gen, &stderr)
	return nil
}

func (h *espeakHandle) wait(cmd *exec.Cmd, gen uint64, stderr *bytes.Buffer) {
	err := cmd.Wait()

	h.mu.Lock()
	if h.cmd == cmd {
		h.cmd = nil
		h.state = audio.StateStopped
	}
	h.mu.Unlock()

	if !h.events.Live(gen) {
		return
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("espeak-ng: %w: %s", err, msg)
		} else {
			err = fmt.Errorf("espeak-ng: %w", err)
		}
		h.events.Error(gen, err)
		return
	}
	h.events.End(gen)
}

// Stop kills the running process. Its exit is not reported.
func (h *espeakHandle) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.events.Next()
	h.killLocked()
	if h.state != audio.StateClosed {
		h.state = audio.StateStopped
	}
	return nil
}

func (h *espeakHandle) killLocked() {
	if h.cmd == nil || h.cmd.Process == nil {
		return
	}
	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		log.Warn("failed to stop espeak-ng", "error", err)
	}
	h.cmd = nil
}

// Position returns the time since the current run started.
func (h *espeakHandle) Position() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != audio.StatePlaying {
		return 0
	}
	return time.Since(h.started)
}

// Duration is unknown until espeak-ng exits.
func (h *espeakHandle) Duration() time.Duration { return 0 }

func (h *espeakHandle) State() audio.PlayerState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *espeakHandle) SetCallbacks(cb audio.Callbacks) { h.events.Set(cb) }

func (h *espeakHandle) ClearCallbacks() { h.events.Clear() }

func (h *espeakHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.events.Next()
	h.events.Clear()
	h.killLocked()
	h.state = audio.StateClosed
	return nil
}

var (
	_ tts.Speaker  = (*EspeakEngine)(nil)
	_ audio.Handle = (*espeakHandle)(nil)
)
