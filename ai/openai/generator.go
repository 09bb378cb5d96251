package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/synapselabs/synapse/ai"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
// Transcription is not supported by the chat completion surface and
// returns ai.ErrCapabilityUnavailable.
type Generator struct {
	llm        *openai.LLM
	inputLimit int
	logger     *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	token := config.APIKey
	if token == "" {
		token = "none"
	}

	llm, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(token),
		openai.WithModel(config.GenerativeModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		llm:        llm,
		inputLimit: config.SummaryInputLimit,
		logger:     slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Summarize produces a concise summary of the given text.
func (g *Generator) Summarize(ctx context.Context, text, title string) (string, error) {
	prompt := ai.SummaryPrompt(text, title, g.inputLimit)

	response, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}

	summary := strings.TrimSpace(response)
	if summary == "" {
		return "", ai.ErrEmptyResponse
	}
	return summary, nil
}

// SuggestTags proposes topical tags for the given text.
func (g *Generator) SuggestTags(ctx context.Context, text, title string) ([]string, error) {
	prompt := ai.TagsPrompt(text, title, g.inputLimit)

	response, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		return nil, fmt.Errorf("tag suggestion failed: %w", err)
	}

	return ai.ParseTagList(response), nil
}

// DescribeImage produces a searchable textual description of image bytes
// using a multimodal chat message.
func (g *Generator) DescribeImage(ctx context.Context, data []byte, name string) (string, error) {
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("not an image: %s (%s)", name, mime.String())
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.BinaryPart(mime.String(), data),
				llms.TextPart(ai.ImageDescriptionPrompt),
			},
		},
	}

	resp, err := g.llm.GenerateContent(ctx, content)
	if err != nil {
		return "", fmt.Errorf("image description failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ai.ErrEmptyResponse
	}

	desc := strings.TrimSpace(resp.Choices[0].Content)
	if desc == "" {
		return "", ai.ErrEmptyResponse
	}

	g.logger.Debug("described image", "name", name, "chars", len(desc))
	return desc, nil
}

// Transcribe is not supported by OpenAI-compatible chat endpoints.
func (g *Generator) Transcribe(ctx context.Context, data []byte, name string) (string, error) {
	return "", fmt.Errorf("%w: transcription", ai.ErrCapabilityUnavailable)
}
