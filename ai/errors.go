package ai

import "errors"

var (
	// ErrCapabilityUnavailable is returned when a provider does not support
	// the requested operation (for example transcription on an
	// OpenAI-compatible local service).
	ErrCapabilityUnavailable = errors.New("capability unavailable")

	// ErrEmptyResponse is returned when the underlying service produced no
	// usable output for a request.
	ErrEmptyResponse = errors.New("empty model response")
)
