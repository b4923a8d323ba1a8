package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/verbski/verbski/internal/audio"
	"github.com/verbski/verbski/internal/cache"
	"github.com/verbski/verbski/internal/tts"
)

// Defaults applied by New when an option is left zero.
const (
	DefaultCacheSize          = 18 // three verbs, six forms each
	DefaultPreloadConcurrency = 3
	DefaultSampleRate         = 44100
	DefaultChannels           = 1
)

// State is the coordinator's playback state.
type State int

const (
	StateIdle State = iota
	StatePlaying
)

func (s State) String() string {
	if s == StatePlaying {
		return "playing"
	}
	return "idle"
}

// MuteStore persists the mute flag.
type MuteStore interface {
	Muted() (bool, error)
	SetMuted(muted bool) error
}

// Options configures a Coordinator. Device is required.
type Options struct {
	Device audio.Device

	// Sources are the offline tiers, tried in order.
	Sources []Source
	// Remote is appended to Sources while the network voice is enabled.
	Remote Source
	// Speaker is the last resort when no source yields a playable clip.
	Speaker tts.Speaker

	Prefs MuteStore

	// Voice prefixes handle cache keys so clips of different voices never
	// collide.
	Voice string
	Text  TextFunc

	CacheSize          int
	PreloadConcurrency int
	NetworkVoice       bool

	// SampleRate and Channels shape generated effect tones.
	SampleRate int
	Channels   int
}

// Coordinator plays conjugated forms, keeping at most one clip sounding.
type Coordinator struct {
	device      audio.Device
	offline     []Source
	remote      Source
	speaker     tts.Speaker
	prefs       MuteStore
	voice       string
	text        TextFunc
	concurrency int
	sampleRate  int
	channels    int

	handles *cache.ClipCache[audio.Handle]
	network atomic.Bool
	playing atomic.Bool

	// toggleMu orders mute flips with their saves.
	toggleMu sync.Mutex

	mu        sync.Mutex
	muted     bool
	busy      bool
	closed    bool
	current   audio.Handle
	transient bool // current is a synthesizer handle owned by the coordinator

	effectsMu sync.Mutex
	effects   map[audio.Effect]audio.Handle
}

// New creates a coordinator and loads the persisted mute flag.
func New(opts Options) (*Coordinator, error) {
	if opts.Device == nil {
		return nil, errors.New("playback: audio device is required")
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.PreloadConcurrency <= 0 {
		opts.PreloadConcurrency = DefaultPreloadConcurrency
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.Channels <= 0 {
		opts.Channels = DefaultChannels
	}
	if opts.Text == nil {
		opts.Text = WordText
	}

	c := &Coordinator{
		device:      opts.Device,
		offline:     opts.Sources,
		remote:      opts.Remote,
		speaker:     opts.Speaker,
		prefs:       opts.Prefs,
		voice:       opts.Voice,
		text:        opts.Text,
		concurrency: opts.PreloadConcurrency,
		sampleRate:  opts.SampleRate,
		channels:    opts.Channels,
		effects:     make(map[audio.Effect]audio.Handle),
	}
	c.handles = cache.NewClipCache(opts.CacheSize, c.release)
	c.network.Store(opts.NetworkVoice)

	if c.prefs != nil {
		muted, err := c.prefs.Muted()
		if err != nil {
			log.Warn("could not read mute preference", "error", err)
		}
		c.muted = muted
	}
	return c, nil
}

// release detaches and closes an evicted handle.
func (c *Coordinator) release(key string, h audio.Handle) {
	h.ClearCallbacks()
	_ = h.Stop()
	if err := h.Close(); err != nil {
		log.Debug("closing evicted handle", "key", key, "error", err)
	}

	c.mu.Lock()
	if c.current == h {
		c.current = nil
		c.playing.Store(false)
	}
	c.mu.Unlock()
	log.Debug("handle evicted", "key", key)
}

// Muted reports the mute flag.
func (c *Coordinator) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// IsPlaying reports whether a clip is sounding.
func (c *Coordinator) IsPlaying() bool {
	return c.playing.Load()
}

// State returns Idle or Playing.
func (c *Coordinator) State() State {
	if c.playing.Load() {
		return StatePlaying
	}
	return StateIdle
}

// SetNetworkVoice enables or disables the remote voice tier.
func (c *Coordinator) SetNetworkVoice(enabled bool) {
	if c.network.Swap(enabled) != enabled {
		log.Info("network voice changed", "enabled", enabled)
	}
}

// NetworkVoice reports whether the remote voice tier is enabled.
func (c *Coordinator) NetworkVoice() bool {
	return c.network.Load()
}

// ToggleMute flips and persists the mute flag, stopping playback when
// muting. It returns the new flag.
func (c *Coordinator) ToggleMute() bool {
	c.toggleMu.Lock()
	defer c.toggleMu.Unlock()

	c.mu.Lock()
	c.muted = !c.muted
	muted := c.muted
	if muted {
		c.stopLocked()
	}
	c.mu.Unlock()

	if c.prefs != nil {
		if err := c.prefs.SetMuted(muted); err != nil {
			log.Warn("could not save mute preference", "error", err)
		}
	}
	return muted
}

// Stop pauses and rewinds the current clip. Safe to call when idle.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Coordinator) stopLocked() {
	if c.current != nil {
		if err := c.current.Stop(); err != nil {
			log.Debug("stopping current handle", "error", err)
		}
	}
	c.playing.Store(false)
}

// Cached reports whether the handle for word and person is cached.
func (c *Coordinator) Cached(word string, person Person) bool {
	return c.handles.Contains(Key(c.voice, word, person))
}

// CachedKeys lists cached handle keys, oldest first.
func (c *Coordinator) CachedKeys() []string {
	return c.handles.Keys()
}

// CacheStats returns handle cache statistics.
func (c *Coordinator) CacheStats() cache.CacheStats {
	return c.handles.Stats()
}

// Preload fetches and caches a handle for every person of word that is not
// cached yet. Failures are logged and skipped; Preload returns once every
// fetch has finished.
func (c *Coordinator) Preload(ctx context.Context, word string) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, person := range Persons {
		req := newRequest(c.voice, word, person, c.text)
		if c.handles.Contains(req.Key) {
			continue
		}
		g.Go(func() error {
			if _, err := c.load(ctx, req); err != nil {
				log.Warn("preload failed", "key", req.Key, "request", req.ID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// load fetches a clip through the source chain, builds a handle and caches
// it. If another caller cached the same key first, that handle wins.
func (c *Coordinator) load(ctx context.Context, req Request) (audio.Handle, error) {
	sources := c.offline
	if c.remote != nil && c.network.Load() {
		sources = append(append([]Source{}, c.offline...), c.remote)
	}

	clip, err := Chain(sources).Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	h, err := c.device.NewHandle(clip)
	if err != nil {
		return nil, fmt.Errorf("preparing %s clip: %w", clip.Format, err)
	}

	actual, stored := c.handles.LoadOrStore(req.Key, h)
	if !stored {
		_ = h.Close()
	}
	return actual, nil
}

// Play speaks word in the given person using the configured text.
func (c *Coordinator) Play(ctx context.Context, word string, person Person) {
	c.play(ctx, newRequest(c.voice, word, person, c.text))
}

// PlayText is Play with an explicit text for the remote and local voices.
// A text other than the configured one is cached under its own key.
func (c *Coordinator) PlayText(ctx context.Context, word string, person Person, text string) {
	if text == "" {
		c.Play(ctx, word, person)
		return
	}
	c.play(ctx, textRequest(c.voice, word, person, c.text, text))
}

func (c *Coordinator) play(ctx context.Context, req Request) {
	c.mu.Lock()
	if c.muted || c.closed {
		c.mu.Unlock()
		return
	}
	if c.busy || c.playing.Load() {
		c.mu.Unlock()
		log.Debug("play dropped, already playing", "key", req.Key)
		return
	}
	c.busy = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	h, transient := c.resolve(ctx, req)
	if h == nil {
		return
	}

	c.mu.Lock()
	if c.muted || c.closed {
		c.mu.Unlock()
		if transient {
			_ = h.Close()
		}
		return
	}

	if prev := c.current; prev != nil && prev != h {
		prev.ClearCallbacks()
		_ = prev.Stop()
		if c.transient {
			_ = prev.Close()
		}
	}

	_ = h.Stop()
	h.ClearCallbacks()
	h.SetCallbacks(audio.Callbacks{
		OnStart: func() {
			c.playing.Store(true)
		},
		OnEnd: func() {
			c.playing.Store(false)
			log.Debug("playback finished", "key", req.Key)
		},
		OnError: func(err error) {
			c.playing.Store(false)
			log.Error("playback error", "key", req.Key, "error", err)
		},
	})
	c.current = h
	c.transient = transient
	c.mu.Unlock()

	if err := h.Play(); err != nil {
		log.Error("could not start playback", "key", req.Key, "request", req.ID, "error", err)
		c.playing.Store(false)
	}
}

// resolve returns a handle for req: cached, freshly loaded, or spoken by
// the local synthesizer. transient marks synthesizer handles, which are
// never cached.
func (c *Coordinator) resolve(ctx context.Context, req Request) (h audio.Handle, transient bool) {
	if h, ok := c.handles.Get(req.Key); ok {
		return h, false
	}

	h, err := c.load(ctx, req)
	if err == nil {
		return h, false
	}
	log.Warn("no clip, falling back to local synthesis", "key", req.Key, "request", req.ID, "error", err)

	if c.speaker == nil {
		log.Error("local synthesis unavailable", "key", req.Key, "error", tts.ErrSynthUnavailable)
		return nil, false
	}
	h, err = c.speaker.Prepare(tts.FallbackUtterance(req.Text))
	if err != nil {
		log.Error("local synthesis failed", "key", req.Key, "error", err)
		return nil, false
	}
	return h, true
}

// PlayEffect plays a short tone. Effects are not playback requests: they
// may sound over the current clip, never interrupt it and never report as
// playing.
func (c *Coordinator) PlayEffect(effect audio.Effect) {
	c.mu.Lock()
	if c.muted || c.closed {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.effectsMu.Lock()
	defer c.effectsMu.Unlock()

	h, ok := c.effects[effect]
	if !ok {
		clip, err := audio.Tone(effect, c.sampleRate, c.channels)
		if err != nil {
			log.Error("could not build effect", "effect", effect, "error", err)
			return
		}
		h, err = c.device.NewHandle(clip)
		if err != nil {
			log.Error("could not prepare effect", "effect", effect, "error", err)
			return
		}
		c.effects[effect] = h
	}

	_ = h.Stop()
	if err := h.Play(); err != nil {
		log.Error("could not play effect", "effect", effect, "error", err)
	}
}

// Close stops playback and releases every handle.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.stopLocked()
	if c.transient && c.current != nil {
		_ = c.current.Close()
	}
	c.current = nil
	c.mu.Unlock()

	c.handles.Purge()

	c.effectsMu.Lock()
	defer c.effectsMu.Unlock()
	for effect, h := range c.effects {
		_ = h.Close()
		delete(c.effects, effect)
	}
	return nil
}
