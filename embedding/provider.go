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

package embedding

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/synapselabs/synapse/ai"
)

const (
	// pacingBurst allows short runs of uncached calls before throttling.
	pacingBurst = 5
	// pacingInterval is the steady-state refill interval between calls.
	pacingInterval = 100 * time.Millisecond
)

// Provider generates embedding vectors with caching and request pacing
// layered over an underlying ai.Embedder. A nil embedder is a valid
// configuration: every call then reports an absent vector, which lets
// the rest of the system run without semantic features.
type Provider struct {
	embedder ai.Embedder
	cache    *Cache
	limiter  *rate.Limiter
	model    string
	logger   *slog.Logger
}

// NewProvider creates a pacing, caching embedding provider.
// The embedder may be nil when no AI backend is configured.
func NewProvider(embedder ai.Embedder, model string) *Provider {
	return &Provider{
		embedder: embedder,
		cache:    NewCache(),
		limiter:  rate.NewLimiter(rate.Every(pacingInterval), pacingBurst),
		model:    model,
		logger:   slog.Default().With("component", "embedding"),
	}
}

// Available reports whether an embedding backend is configured.
func (p *Provider) Available() bool {
	return p.embedder != nil
}

// ModelName returns the identifier of the embedding model in use, or an
// empty string when no backend is configured.
func (p *Provider) ModelName() string {
	if p.embedder == nil {
		return ""
	}
	return p.model
}

// Cache returns the underlying vector cache.
func (p *Provider) Cache() *Cache {
	return p.cache
}

// Embed returns an embedding vector for text, or nil when no vector can
// be produced. Backend failures are logged and reported as an absent
// vector rather than an error; only context cancellation is returned.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	if p.embedder == nil {
		return nil, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	if vector := p.cache.Get(text); vector != nil {
		return vector, nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	vector, err := p.embedder.EmbedText(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Warn("embedding failed", "chars", len(text), "error", err)
		return nil, nil
	}
	if len(vector) == 0 {
		return nil, nil
	}

	p.cache.Put(text, vector)
	return vector, nil
}

// EmbedBatch returns one vector per input text, preserving order.
// Individual failures yield nil entries; the call only errors when the
// context is cancelled.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := p.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}
