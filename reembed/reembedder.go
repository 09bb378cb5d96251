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


package reembed

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/synapselabs/synapse/core"
	"github.com/synapselabs/synapse/embedding"
	"github.com/synapselabs/synapse/ingestion"
	"github.com/synapselabs/synapse/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// ReportInterval is how often to report progress (number of items)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed embeddings
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder rebuilds the embedding records of an owner's items with the
// currently configured embedding model. Each item's stored vectors are
// purged and regenerated from its extraction records, so a model change
// never leaves mixed-model vectors behind.
type Reembedder struct {
	store    storage.Backend
	embedder *embedding.Provider
	config   *Config
	progress io.Writer
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(store storage.Backend, embedder *embedding.Provider, config *Config, progress io.Writer) (*Reembedder, error) {
	if store == nil {
		return nil, ErrBackendRequired
	}
	if embedder == nil || !embedder.Available() {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		store:    store,
		embedder: embedder,
		config:   config,
		progress: progress,
	}, nil
}

// Run reembeds every ready item belonging to the owner.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context, owner uuid.UUID) error {
	items, err := r.store.Items().ListItemsByOwner(ctx, owner)
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	eligible := items[:0]
	for _, item := range items {
		if item.Status == core.StatusReady {
			eligible = append(eligible, item)
		}
	}

	total := len(eligible)
	if total == 0 {
		fmt.Fprintf(r.progress, "No ready items to reembed (0 items)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d items (model: %s)\n",
		total, r.embedder.ModelName())

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	for i, item := range eligible {
		if err := r.reembedItem(ctx, item.Id); err != nil {
			return fmt.Errorf("failed to reembed item %d: %w", item.Id, err)
		}
		tracker.Update(i + 1)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d items in %v (%.1f items/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}

// reembedItem regenerates one item's vectors from its extraction records.
// An item without extractions just has its stale vectors purged.
func (r *Reembedder) reembedItem(ctx context.Context, itemId core.ID) error {
	extractions, err := r.store.Extractions().GetExtractionsByItem(ctx, itemId)
	if err != nil {
		return err
	}
	if len(extractions) == 0 {
		return r.store.Embeddings().DeleteEmbeddingsByItem(ctx, itemId)
	}

	texts := make([]string, len(extractions))
	for i, record := range extractions {
		texts[i] = record.Content
	}
	combined := strings.Join(texts, ingestion.CombinedDelimiter)

	chunks := ingestion.ChunkText(combined, ingestion.DefaultChunkSize, ingestion.DefaultChunkOverlap, true)
	chunks = ingestion.MergeSmallChunks(chunks, ingestion.MinChunkSize)
	if len(chunks) == 0 {
		return r.store.Embeddings().DeleteEmbeddingsByItem(ctx, itemId)
	}

	chunkTexts := make([]string, len(chunks))
	for i, chunk := range chunks {
		chunkTexts[i] = chunk.Text
	}

	var vectors [][]float32
	embed := func() error {
		// The provider degrades backend failures to absent vectors, so
		// an all-nil batch is the retryable signal here.
		batch, err := r.embedder.EmbedBatch(ctx, chunkTexts)
		if err != nil {
			return err
		}
		if !anyVector(batch) {
			return fmt.Errorf("embedding produced no vectors for %d chunks", len(chunkTexts))
		}
		vectors = batch
		return nil
	}
	if err := RetryWithBackoff(ctx, embed, r.config.MaxRetries, r.config.RetryDelay); err != nil {
		return err
	}

	// Purge before writing so no stale higher-index chunks survive a
	// shrinking chunk count.
	if err := r.store.Embeddings().DeleteEmbeddingsByItem(ctx, itemId); err != nil {
		return err
	}

	records := make([]*core.EmbeddingRecord, 0, len(chunks))
	for i, vector := range vectors {
		if vector == nil {
			continue
		}
		records = append(records, &core.EmbeddingRecord{
			ItemId:     itemId,
			ChunkIndex: chunks[i].Index,
			ChunkText:  truncateRunes(chunks[i].Text, ingestion.MaxChunkTextLength),
			Vector:     vector,
			Model:      r.embedder.ModelName(),
		})
	}
	return r.store.Embeddings().AddEmbeddings(ctx, records...)
}

func anyVector(vectors [][]float32) bool {
	for _, vector := range vectors {
		if vector != nil {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
