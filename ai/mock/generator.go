package mock

import (
	"context"
	"fmt"
	"strings"

	"github.com/synapselabs/synapse/core"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// SummarizeFunc is called by Summarize if set.
	SummarizeFunc func(ctx context.Context, text, title string) (string, error)

	// SuggestTagsFunc is called by SuggestTags if set.
	SuggestTagsFunc func(ctx context.Context, text, title string) ([]string, error)

	// DescribeImageFunc is called by DescribeImage if set.
	DescribeImageFunc func(ctx context.Context, data []byte, name string) (string, error)

	// TranscribeFunc is called by Transcribe if set.
	TranscribeFunc func(ctx context.Context, data []byte, name string) (string, error)

	callCount int
}

// NewMockGenerator creates a mock generator with default deterministic behavior.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Summarize returns the first sentence of the text by default.
func (m *MockGenerator) Summarize(ctx context.Context, text, title string) (string, error) {
	m.callCount++

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, text, title)
	}

	if idx := strings.IndexAny(text, ".!?"); idx >= 0 {
		return strings.TrimSpace(text[:idx+1]), nil
	}
	return strings.TrimSpace(text), nil
}

// SuggestTags extracts simple tags from the first words of the text by default.
func (m *MockGenerator) SuggestTags(ctx context.Context, text, title string) ([]string, error) {
	m.callCount++

	if m.SuggestTagsFunc != nil {
		return m.SuggestTagsFunc(ctx, text, title)
	}

	var tags []string
	for _, word := range strings.Fields(text) {
		if len(word) < 4 {
			continue
		}
		tag, err := core.NormalizeTagName(word)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		if len(tags) == 3 {
			break
		}
	}
	return tags, nil
}

// DescribeImage returns a canned description by default.
func (m *MockGenerator) DescribeImage(ctx context.Context, data []byte, name string) (string, error) {
	m.callCount++

	if m.DescribeImageFunc != nil {
		return m.DescribeImageFunc(ctx, data, name)
	}

	return fmt.Sprintf("An image named %s (%d bytes)", name, len(data)), nil
}

// Transcribe returns a canned transcript by default.
func (m *MockGenerator) Transcribe(ctx context.Context, data []byte, name string) (string, error) {
	m.callCount++

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, data, name)
	}

	return fmt.Sprintf("Transcript of %s", name), nil
}

// CallCount returns the number of times any method was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.SummarizeFunc = nil
	m.SuggestTagsFunc = nil
	m.DescribeImageFunc = nil
	m.TranscribeFunc = nil
}
