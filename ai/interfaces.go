package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator is a generative capability used for summaries, topic labels,
// image descriptions, and audio/video transcripts. Any method may return
// ErrCapabilityUnavailable when the underlying service does not support
// the operation; call sites must degrade gracefully.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Summarize produces a short abstractive summary of the text.
	// The title, when non-empty, is given to the model as context.
	Summarize(ctx context.Context, text, title string) (string, error)

	// SuggestTags produces a small set of topic labels for the text.
	// Labels are normalized (lower-cased, space-to-hyphen) and capped at 8.
	SuggestTags(ctx context.Context, text, title string) ([]string, error)

	// DescribeImage produces a natural-language description of image bytes.
	DescribeImage(ctx context.Context, data []byte, name string) (string, error)

	// Transcribe produces a raw transcript of audio or video bytes.
	Transcribe(ctx context.Context, data []byte, name string) (string, error)
}

// Recognizer is an optical character recognition capability.
// It returns the recognized text together with the mean character-level
// confidence on the engine's native 0-100 scale.
type Recognizer interface {
	RecognizeText(ctx context.Context, data []byte) (text string, confidence float64, err error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// Generator instances, ensuring they share configuration and resources.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the generative service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
