package ingestion

import "errors"

var (
	// ErrBackendRequired is returned when a storage backend is not provided.
	ErrBackendRequired = errors.New("storage backend required")

	// ErrDispatcherRequired is returned when an extraction dispatcher is not provided.
	ErrDispatcherRequired = errors.New("extraction dispatcher required")

	// ErrEmbedderRequired is returned when an embedding provider is not provided.
	ErrEmbedderRequired = errors.New("embedding provider required")

	// ErrNoSources is returned when an item has neither a URL nor uploads.
	ErrNoSources = errors.New("item has no sources")

	// ErrFetchOutsideRoot is returned when an upload key escapes the
	// fetcher's root directory.
	ErrFetchOutsideRoot = errors.New("upload key resolves outside the storage root")
)
