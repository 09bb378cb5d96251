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
	"fmt"
	"log/slog"

	gen "github.com/google/generative-ai-go/genai"

	"github.com/synapselabs/synapse/ai"
)

// Embedder generates vector embeddings using a Gemini embedding model.
type Embedder struct {
	model  *gen.EmbeddingModel
	name   string
	logger *slog.Logger
}

func newEmbedder(client *gen.Client, config *ai.Config) *Embedder {
	return &Embedder{
		model:  client.EmbeddingModel(config.EmbeddingModel),
		name:   config.EmbeddingModel,
		logger: slog.Default().With("component", "genai-embedder"),
	}
}

// EmbedText generates an embedding vector for a single text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	res, err := e.model.EmbedContent(ctx, gen.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, ai.ErrEmptyResponse
	}
	return res.Embedding.Values, nil
}

// EmbedTexts generates embedding vectors for multiple texts in a single
// batch request. The result preserves input order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batch := e.model.NewBatch()
	for _, text := range texts {
		batch.AddContent(gen.Text(text))
	}

	res, err := e.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("batch embedding failed: %w", err)
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d",
			ai.ErrEmptyResponse, len(texts), len(res.Embeddings))
	}

	vectors := make([][]float32, len(res.Embeddings))
	for i, emb := range res.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("%w: embedding %d is empty", ai.ErrEmptyResponse, i)
		}
		vectors[i] = emb.Values
	}

	e.logger.Debug("generated batch embeddings", "count", len(vectors))
	return vectors, nil
}
