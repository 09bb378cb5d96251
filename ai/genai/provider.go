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
	"context"
	"errors"
	"log/slog"

	gen "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/synapselabs/synapse/ai"
)

// Provider implements ai.Provider backed by the Google Gemini API.
// It covers the full capability surface: embeddings, summaries, tags,
// vision descriptions, and audio/video transcription.
type Provider struct {
	client    *gen.Client
	embedder  *Embedder
	generator *Generator
	logger    *slog.Logger
}

// NewProvider creates a new Gemini-backed AI provider.
// The config is validated and normalized before use; an API key is required.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction and
// prevent coupling to Gemini-specific implementation details.
func NewProvider(ctx context.Context, config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.APIKey == "" {
		return nil, errors.New("genai: API key is required")
	}

	client, err := gen.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, err
	}

	return &Provider{
		client:    client,
		embedder:  newEmbedder(client, config),
		generator: newGenerator(client, config),
		logger:    slog.Default().With("component", "genai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Generator returns the generative service.
func (p *Provider) Generator() ai.Generator {
	return p.generator
}

// Close releases the underlying API client.
func (p *Provider) Close() error {
	p.logger.Debug("closing genai provider")
	return p.client.Close()
}
