package tts

import (
	"errors"
	"fmt"
	"net/http"
)

// Common TTS errors
var (
	// ErrNonAudioResponse indicates the remote voice answered 2xx with
	// something other than audio.
	ErrNonAudioResponse = errors.New("remote voice returned a non-audio response")

	// ErrSynthUnavailable indicates the local speech synthesizer is not
	// installed or cannot be started.
	ErrSynthUnavailable = errors.New("local speech synthesizer unavailable")

	// ErrEmptyText indicates there is nothing to speak.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrTextTooLong indicates the text exceeds the engine limit.
	ErrTextTooLong = errors.New("text too long")
)

// StatusError is returned when the remote voice answers with a non-2xx
// status.
type StatusError struct {
	Code int
	Body string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("remote voice: %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
	}
	return fmt.Sprintf("remote voice: %d %s", e.Code, http.StatusText(e.Code))
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
