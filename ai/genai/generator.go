// Copyright 2025 Synapse Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package genai

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	gen "github.com/google/generative-ai-go/genai"
	"github.com/gabriel-vasile/mimetype"

	"github.com/synapselabs/synapse/ai"
)

// Generator produces summaries, tags, image descriptions, and transcripts
// using a Gemini generative model.
type Generator struct {
	client     *gen.Client
	model      *gen.GenerativeModel
	inputLimit int
	logger     *slog.Logger
}

func newGenerator(client *gen.Client, config *ai.Config) *Generator {
	return &Generator{
		client:     client,
		model:      client.GenerativeModel(config.GenerativeModel),
		inputLimit: config.SummaryInputLimit,
		logger:     slog.Default().With("component", "genai-generator"),
	}
}

// Summarize produces a concise summary of the given text.
// Long input is truncated to the configured limit before prompting.
func (g *Generator) Summarize(ctx context.Context, text, title string) (string, error) {
	prompt := ai.SummaryPrompt(text, title, g.inputLimit)

	res, err := g.model.GenerateContent(ctx, gen.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}

	summary := strings.TrimSpace(responseText(res))
	if summary == "" {
		return "", ai.ErrEmptyResponse
	}
	return summary, nil
}

// SuggestTags proposes topical tags for the given text. The result is
// normalized and capped; it may be empty when the model declines.
func (g *Generator) SuggestTags(ctx context.Context, text, title string) ([]string, error) {
	prompt := ai.TagsPrompt(text, title, g.inputLimit)

	res, err := g.model.GenerateContent(ctx, gen.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("tag suggestion failed: %w", err)
	}

	return ai.ParseTagList(responseText(res)), nil
}

// DescribeImage produces a searchable textual description of image bytes.
func (g *Generator) DescribeImage(ctx context.Context, data []byte, name string) (string, error) {
	mime := mimetype.Detect(data)
	format := strings.TrimPrefix(mime.String(), "image/")
	if format == mime.String() {
		return "", fmt.Errorf("not an image: %s (%s)", name, mime.String())
	}

	res, err := g.model.GenerateContent(ctx,
		gen.ImageData(format, data),
		gen.Text(ai.ImageDescriptionPrompt),
	)
	if err != nil {
		return "", fmt.Errorf("image description failed: %w", err)
	}

	desc := strings.TrimSpace(responseText(res))
	if desc == "" {
		return "", ai.ErrEmptyResponse
	}

	g.logger.Debug("described image", "name", name, "chars", len(desc))
	return desc, nil
}

// Transcribe extracts spoken content from audio or video bytes.
// The media is uploaded through the Files API and referenced by URI,
// which supports inputs far larger than inline request limits.
func (g *Generator) Transcribe(ctx context.Context, data []byte, name string) (string, error) {
	mime := mimetype.Detect(data)

	file, err := g.client.UploadFile(ctx, "", bytes.NewReader(data), &gen.UploadFileOptions{
		DisplayName: name,
		MIMEType:    mime.String(),
	})
	if err != nil {
		return "", fmt.Errorf("media upload failed: %w", err)
	}
	defer func() {
		if derr := g.client.DeleteFile(ctx, file.Name); derr != nil {
			g.logger.Warn("failed to delete uploaded media", "file", file.Name, "error", derr)
		}
	}()

	res, err := g.model.GenerateContent(ctx,
		gen.FileData{MIMEType: file.MIMEType, URI: file.URI},
		gen.Text(ai.TranscriptionPrompt),
	)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	transcript := strings.TrimSpace(responseText(res))
	if transcript == "" {
		return "", ai.ErrEmptyResponse
	}

	g.logger.Debug("transcribed media", "name", name, "chars", len(transcript))
	return transcript, nil
}

// responseText concatenates the text parts of all candidates.
func responseText(res *gen.GenerateContentResponse) string {
	if res == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range res.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(gen.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}
