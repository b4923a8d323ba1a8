package engines

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verbski/verbski/internal/audio"
	"github.com/verbski/verbski/internal/tts"
)

var fakeMP3 = []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 0}

func newTestEngine(t *testing.T, handler http.HandlerFunc, apiKey string) *ElevenLabsEngine {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	engine, err := NewElevenLabsEngine(ElevenLabsConfig{
		Endpoint:          srv.URL,
		APIKey:            apiKey,
		RequestsPerMinute: 6000,
	})
	require.NoError(t, err)
	return engine
}

func TestElevenLabs_Synthesize(t *testing.T) {
	engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/text-to-speech/"+tts.DefaultVoiceID, r.URL.Path)
		assert.Equal(t, "audio/mpeg", r.Header.Get("Accept"))
		assert.Equal(t, "secret", r.Header.Get("xi-api-key"))
		assert.Empty(t, r.URL.Query().Get("allow_unauthenticated"))

		var body synthesisRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "читаю", body.Text)
		assert.Equal(t, tts.DefaultModelID, body.ModelID)

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(fakeMP3)
	}, "secret")

	clip, err := engine.Synthesize(context.Background(), "читаю")
	require.NoError(t, err)
	assert.Equal(t, audio.FormatMP3, clip.Format)
	assert.Equal(t, fakeMP3, clip.Data)
}

func TestElevenLabs_Unauthenticated(t *testing.T) {
	engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("allow_unauthenticated"))
		assert.Empty(t, r.Header.Get("xi-api-key"))
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(fakeMP3)
	}, "")

	_, err := engine.Synthesize(context.Background(), "да")
	require.NoError(t, err)
}

func TestElevenLabs_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "quota exceeded", http.StatusUnauthorized)
			},
			check: func(t *testing.T, err error) {
				var se *tts.StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusUnauthorized, se.Code)
				assert.Contains(t, se.Body, "quota exceeded")
				assert.True(t, tts.IsStatus(err, http.StatusUnauthorized))
			},
		},
		{
			name: "non-audio content type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte("<html>captcha</html>"))
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, tts.ErrNonAudioResponse)
			},
		},
		{
			name: "oversized audio body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "audio/mpeg")
				_, _ = w.Write(make([]byte, maxResponseSize+1))
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrResponseTooLarge)
			},
		},
		{
			name: "empty audio body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "audio/mpeg")
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, tts.ErrNonAudioResponse)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t, tt.handler, "")
			_, err := engine.Synthesize(context.Background(), "читать")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestElevenLabs_InputValidation(t *testing.T) {
	var calls atomic.Int32
	engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}, "")

	_, err := engine.Synthesize(context.Background(), "  ")
	assert.ErrorIs(t, err, tts.ErrEmptyText)

	_, err = engine.Synthesize(context.Background(), strings.Repeat("я", maxTextSize+1))
	assert.ErrorIs(t, err, tts.ErrTextTooLong)

	assert.Equal(t, int32(0), calls.Load())
}

func TestElevenLabs_ContextCancelled(t *testing.T) {
	engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, "")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := engine.Synthesize(ctx, "читать")
	assert.Error(t, err)
}

func TestElevenLabs_Defaults(t *testing.T) {
	engine, err := NewElevenLabsEngine(ElevenLabsConfig{})
	require.NoError(t, err)

	assert.Equal(t, "https://api.elevenlabs.io", engine.endpoint)
	assert.Equal(t, tts.DefaultVoiceID, engine.VoiceID())
	assert.Equal(t, tts.DefaultModelID, engine.ModelID())
	assert.NotNil(t, engine.rateLimiter)

	info := engine.GetInfo()
	assert.Equal(t, "elevenlabs", info.Name)
	assert.True(t, info.IsOnline)
}
