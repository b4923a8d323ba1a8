package tts

import (
	"fmt"
	"net/url"
	"os/exec"
)

// ValidationResult contains the result of engine validation
type ValidationResult struct {
	// Engine is the validated engine name
	Engine string

	// Available indicates if the engine is available and configured
	Available bool

	// Error contains any validation error
	Error error

	// Guidance provides setup instructions if validation failed
	Guidance string

	// Details contains additional validation information
	Details map[string]string
}

// ValidateSpeaker checks that the local synthesizer binary can be found.
func ValidateSpeaker(binary string) *ValidationResult {
	result := &ValidationResult{
		Engine:  "espeak-ng",
		Details: make(map[string]string),
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		result.Error = fmt.Errorf("%w: %s not found in PATH: %w", ErrSynthUnavailable, binary, err)
		result.Guidance = buildEspeakInstallGuidance()
		return result
	}
	result.Details["binary_path"] = path
	result.Available = true
	return result
}

// ValidateRemote checks the remote voice configuration without making a
// request.
func ValidateRemote(endpoint, apiKey, voiceID string) *ValidationResult {
	result := &ValidationResult{
		Engine:  "elevenlabs",
		Details: make(map[string]string),
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		result.Error = fmt.Errorf("invalid endpoint %q", endpoint)
		result.Guidance = "Set remote.endpoint to an absolute URL, e.g. https://api.elevenlabs.io"
		return result
	}
	result.Details["endpoint"] = u.String()

	if v, ok := LookupVoice(voiceID); ok {
		result.Details["voice"] = v.Name
	} else {
		result.Details["voice"] = voiceID + " (custom)"
	}

	if apiKey == "" {
		result.Details["auth"] = "unauthenticated"
		result.Guidance = "Requests without ELEVENLABS_API_KEY are often rejected; the local synthesizer will be used instead."
	} else {
		result.Details["auth"] = "api key"
	}

	result.Available = true
	return result
}

// buildEspeakInstallGuidance provides instructions for installing espeak-ng
func buildEspeakInstallGuidance() string {
	return `espeak-ng is not installed. It speaks words when no recorded or
remote audio is available. To install:

   # Ubuntu/Debian
   sudo apt install espeak-ng

   # Fedora
   sudo dnf install espeak-ng

   # Arch Linux
   sudo pacman -S espeak-ng

   # macOS (Homebrew)
   brew install espeak-ng`
}
