package engines

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/verbski/verbski/internal/audio"
	"github.com/verbski/verbski/internal/tts"
	"golang.org/x/time/rate"
)

// maxTextSize bounds a single request. Verb forms are a few words long.
const maxTextSize = 1000

// maxResponseSize bounds the audio body we are willing to read.
const maxResponseSize = 10 * 1024 * 1024

// ErrResponseTooLarge is returned for audio bodies over maxResponseSize.
var ErrResponseTooLarge = errors.New("remote audio exceeds size limit")

// ElevenLabsEngine is the remote voice. It posts text to the ElevenLabs
// text-to-speech endpoint and returns the MP3 it answers with.
type ElevenLabsEngine struct {
	endpoint string
	apiKey   string
	voiceID  string
	modelID  string

	client *http.Client

	// Rate limiting to avoid being blocked
	rateLimiter *rate.Limiter
}

// ElevenLabsConfig holds configuration for the ElevenLabs engine.
type ElevenLabsConfig struct {
	// Endpoint is the API base URL - defaults to https://api.elevenlabs.io
	Endpoint string

	// APIKey is sent as xi-api-key when set
	APIKey string

	// VoiceID defaults to tts.DefaultVoiceID
	VoiceID string

	// ModelID defaults to tts.DefaultModelID
	ModelID string

	// Timeout per request (defaults to 15s)
	Timeout time.Duration

	// Rate limit requests per minute (defaults to 60)
	RequestsPerMinute int

	// HTTPClient overrides the default client
	HTTPClient *http.Client
}

// NewElevenLabsEngine creates a new remote voice client.
func NewElevenLabsEngine(config ElevenLabsConfig) (*ElevenLabsEngine, error) {
	if config.Endpoint == "" {
		config.Endpoint = "https://api.elevenlabs.io"
	}
	if _, err := url.Parse(config.Endpoint); err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	if config.VoiceID == "" {
		config.VoiceID = tts.DefaultVoiceID
	}
	if config.ModelID == "" {
		config.ModelID = tts.DefaultModelID
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 60
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &ElevenLabsEngine{
		endpoint: strings.TrimRight(config.Endpoint, "/"),
		apiKey:   config.APIKey,
		voiceID:  config.VoiceID,
		modelID:  config.ModelID,
		client:   client,
		// Six preload fetches may go out at once.
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), 6),
	}, nil
}

type synthesisRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize converts text to audio using the remote voice.
func (e *ElevenLabsEngine) Synthesize(ctx context.Context, text string) (audio.Clip, error) {
	if strings.TrimSpace(text) == "" {
		return audio.Clip{}, tts.ErrEmptyText
	}
	if n := len([]rune(text)); n > maxTextSize {
		return audio.Clip{}, fmt.Errorf("%w: %d characters (max %d)", tts.ErrTextTooLong, n, maxTextSize)
	}

	if err := e.rateLimiter.Wait(ctx); err != nil {
		return audio.Clip{}, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	body, err := json.Marshal(synthesisRequest{Text: text, ModelID: e.modelID})
	if err != nil {
		return audio.Clip{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.requestURL(), bytes.NewReader(body))
	if err != nil {
		return audio.Clip{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	if e.apiKey != "" {
		req.Header.Set("xi-api-key", e.apiKey)
	}

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("remote voice request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return audio.Clip{}, &tts.StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "audio") {
		return audio.Clip{}, fmt.Errorf("%w: %q", tts.ErrNonAudioResponse, contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return audio.Clip{}, fmt.Errorf("read remote audio: %w", err)
	}
	if len(data) > maxResponseSize {
		return audio.Clip{}, fmt.Errorf("%w (%s)", ErrResponseTooLarge, humanize.IBytes(maxResponseSize))
	}
	if len(data) == 0 {
		return audio.Clip{}, fmt.Errorf("%w: empty body", tts.ErrNonAudioResponse)
	}

	log.Debug("remote voice synthesized",
		"voice", e.voiceID,
		"size", humanize.IBytes(uint64(len(data))),
		"took", time.Since(start).Round(time.Millisecond))

	format := audio.FormatFromContentType(contentType)
	if format == audio.FormatUnknown {
		format = audio.Sniff(data)
	}
	return audio.Clip{Data: data, Format: format}, nil
}

func (e *ElevenLabsEngine) requestURL() string {
	u := e.endpoint + "/v1/text-to-speech/" + url.PathEscape(e.voiceID)
	if e.apiKey == "" {
		u += "?allow_unauthenticated=1"
	}
	return u
}

// VoiceID returns the configured voice.
func (e *ElevenLabsEngine) VoiceID() string { return e.voiceID }

// ModelID returns the configured model.
func (e *ElevenLabsEngine) ModelID() string { return e.modelID }

// GetInfo returns engine information.
func (e *ElevenLabsEngine) GetInfo() tts.EngineInfo {
	return tts.EngineInfo{
		Name:        "elevenlabs",
		Voice:       e.voiceID,
		MaxTextSize: maxTextSize,
		IsOnline:    true,
	}
}

var _ tts.Synthesizer = (*ElevenLabsEngine)(nil)
