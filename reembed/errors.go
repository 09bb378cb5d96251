package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrBackendRequired is returned when no storage backend is provided
	ErrBackendRequired = errors.New("storage backend is required")

	// ErrEmbedderRequired is returned when no embedding backend is available
	ErrEmbedderRequired = errors.New("embedding backend is required")
)
