package playback

import (
	"errors"
	"fmt"

	"github.com/laoaac/aacboard/internal/clips"
	"github.com/laoaac/aacboard/internal/speech"
)

// ErrorCode classifies playback failures.
type ErrorCode string

const (
	ErrorCodeClipMissing          ErrorCode = "CLIP_MISSING"
	ErrorCodeClipFailure          ErrorCode = "CLIP_FAILURE"
	ErrorCodeSynthesisUnavailable ErrorCode = "SYNTHESIS_UNAVAILABLE"
	ErrorCodeSynthesisFailure     ErrorCode = "SYNTHESIS_FAILURE"
	ErrorCodeAudioFailure         ErrorCode = "AUDIO_FAILURE"
)

// PlaybackError describes why a symbol could not be heard.
type PlaybackError struct {
	Code   ErrorCode
	Source Source
	ID     string
	Cause  error
}

func (e *PlaybackError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %s: %v", e.Code, e.Source, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s %s", e.Code, e.Source, e.ID)
}

func (e *PlaybackError) Unwrap() error {
	return e.Cause
}

// Expected reports whether the error is a normal condition, such as a
// symbol without a recorded clip.
func (e *PlaybackError) Expected() bool {
	return e.Code == ErrorCodeClipMissing
}

func loadError(id string, err error) *PlaybackError {
	code := ErrorCodeClipFailure
	if errors.Is(err, clips.ErrClipNotFound) {
		code = ErrorCodeClipMissing
	}
	return &PlaybackError{Code: code, Source: Recorded, ID: id, Cause: err}
}

func synthError(id string, err error) *PlaybackError {
	code := ErrorCodeSynthesisFailure
	if errors.Is(err, speech.ErrSynthesisUnavailable) {
		code = ErrorCodeSynthesisUnavailable
	}
	return &PlaybackError{Code: code, Source: Synthesized, ID: id, Cause: err}
}

func audioError(source Source, id string, err error) *PlaybackError {
	return &PlaybackError{Code: ErrorCodeAudioFailure, Source: source, ID: id, Cause: err}
}
