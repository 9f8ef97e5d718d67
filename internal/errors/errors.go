package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrPlaybackBlocked   = errors.New("playback blocked")
	ErrAudioUnavailable  = errors.New("audio output unavailable")
	ErrInvalidTransition = errors.New("invalid playback transition")
	ErrInvalidPlaylist   = errors.New("invalid playlist")
	ErrMusicNotFound     = errors.New("music file not found")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// LoungeError wraps an error with a user-friendly suggestion.
type LoungeError struct {
	Err        error
	Suggestion string
}

func (e *LoungeError) Error() string {
	return e.Err.Error()
}

func (e *LoungeError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &LoungeError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var loungeErr *LoungeError
	if errors.As(err, &loungeErr) && loungeErr.Suggestion != "" {
		return loungeErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrMusicNotFound) || strings.Contains(errStr, "no such file") {
		return "Set music.path in your config or pass --music to point at an MP3 mix"
	}

	if errors.Is(err, ErrAudioUnavailable) {
		return "This build has no audio output. Rebuild with CGO_ENABLED=1"
	}

	if errors.Is(err, ErrPlaybackBlocked) || strings.Contains(errStr, "speaker") {
		return "Check that an audio output device is available, then toggle playback again"
	}

	if errors.Is(err, ErrInvalidPlaylist) {
		return "Playlist offsets must be non-negative and strictly increasing"
	}

	if errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrConfigNotFound) || strings.Contains(errStr, "config") {
		return "Run 'lounge config init' to create a valid configuration"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
