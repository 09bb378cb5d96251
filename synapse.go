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


package synapse

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/synapselabs/synapse/ai"
	"github.com/synapselabs/synapse/ai/genai"
	"github.com/synapselabs/synapse/ai/openai"
	"github.com/synapselabs/synapse/core"
	"github.com/synapselabs/synapse/embedding"
	"github.com/synapselabs/synapse/extraction"
	"github.com/synapselabs/synapse/ingestion"
	"github.com/synapselabs/synapse/reembed"
	"github.com/synapselabs/synapse/search"
	"github.com/synapselabs/synapse/storage"
	"github.com/synapselabs/synapse/storage/badger"
)

// defaultLocalHost is the OpenAI-compatible endpoint assumed when no
// API key and no host are configured.
const defaultLocalHost = "http://localhost:11434/v1"

// SearchMode selects the ranking strategy for Database.Search.
type SearchMode string

const (
	SearchSemantic SearchMode = "semantic"
	SearchKeyword  SearchMode = "keyword"
	SearchHybrid   SearchMode = "hybrid"
)

// Database bundles the storage backend, the AI provider, the embedding
// layer, the ingestion pipeline, and the searcher behind one handle.
// It is the entry point for embedding the system in another program.
type Database struct {
	store    *badger.Store
	provider ai.Provider
	embedder *embedding.Provider
	pipeline *ingestion.Pipeline
	searcher *search.Searcher
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig   *ai.Config
	provider   ai.Provider
	recognizer ai.Recognizer
	poolSize   int
	uploadRoot string
	logger     *slog.Logger
}

// WithAIConfig sets the AI service configuration.
// An API key selects the hosted Gemini provider; otherwise an
// OpenAI-compatible host is used.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects a pre-built AI provider, bypassing provider
// selection from the config. Intended for tests and custom stacks.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithRecognizer supplies an OCR service used as the image extraction
// fallback when no vision description is available. Images are skipped
// when neither capability is configured.
func WithRecognizer(recognizer ai.Recognizer) DatabaseOption {
	return func(o *databaseOptions) {
		o.recognizer = recognizer
	}
}

// WithPoolSize sets the ingestion worker pool size.
// Default is half the CPU count.
func WithPoolSize(size int) DatabaseOption {
	return func(o *databaseOptions) {
		o.poolSize = size
	}
}

// WithUploadRoot restricts upload keys to the given directory.
// Default is the filesystem root, which accepts absolute paths.
func WithUploadRoot(dir string) DatabaseOption {
	return func(o *databaseOptions) {
		o.uploadRoot = dir
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewDatabase opens (or creates) the content database at filePath and
// wires the processing pipeline and the searcher.
func NewDatabase(ctx context.Context, filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig:   ai.DefaultConfig(),
		uploadRoot: "/",
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.aiConfig.APIKey == "" && options.aiConfig.Host == "" {
		options.aiConfig.Host = defaultLocalHost
	}

	store, err := badger.OpenStore(filePath, false)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		if options.aiConfig.APIKey != "" {
			provider, err = genai.NewProvider(ctx, options.aiConfig)
		} else {
			provider, err = openai.NewProvider(options.aiConfig)
		}
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	embedder := embedding.NewProvider(provider.Embedder(), options.aiConfig.EmbeddingModel)

	dispatcherOpts := []extraction.Option{
		extraction.WithGenerator(provider.Generator()),
	}
	if options.recognizer != nil {
		dispatcherOpts = append(dispatcherOpts, extraction.WithRecognizer(options.recognizer))
	}
	dispatcher, err := extraction.NewDispatcher(dispatcherOpts...)
	if err != nil {
		provider.Close()
		store.Close()
		return nil, err
	}

	pipelineOpts := []ingestion.Option{
		ingestion.WithGenerator(provider.Generator()),
		ingestion.WithFetcher(ingestion.NewFileFetcher(options.uploadRoot)),
	}
	if options.poolSize > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(options.poolSize))
	}
	pipeline, err := ingestion.NewPipeline(store, dispatcher, embedder, pipelineOpts...)
	if err != nil {
		provider.Close()
		store.Close()
		return nil, err
	}

	searcher, err := search.NewSearcher(store, embedder)
	if err != nil {
		pipeline.Release()
		provider.Close()
		store.Close()
		return nil, err
	}

	return &Database{
		store:    store,
		provider: provider,
		embedder: embedder,
		pipeline: pipeline,
		searcher: searcher,
		logger:   options.logger,
	}, nil
}

// Close drains in-flight processing, then releases the AI provider and
// the storage backend.
func (db *Database) Close() error {
	db.pipeline.Release()
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}
	if err := db.store.Close(); err != nil {
		db.logger.Error("error closing storage", "err", err)
		return err
	}
	return nil
}

// Store exposes the storage backend for direct repository access.
func (db *Database) Store() storage.Backend {
	return db.store
}

// Provider exposes the configured AI provider.
func (db *Database) Provider() ai.Provider {
	return db.provider
}

// Embedder exposes the cached, rate-limited embedding layer.
func (db *Database) Embedder() *embedding.Provider {
	return db.embedder
}

// Searcher exposes the underlying searcher for monitored searches.
func (db *Database) Searcher() *search.Searcher {
	return db.searcher
}

// Submit stores a new content item and processes it in the background.
// A resubmission of the same source by the same owner returns the
// existing item.
func (db *Database) Submit(ctx context.Context, item *core.ContentItem) (*core.ContentItem, error) {
	return db.pipeline.Submit(ctx, item)
}

// Reprocess re-runs extraction and embedding for an existing item.
func (db *Database) Reprocess(ctx context.Context, id core.ID) error {
	return db.pipeline.Reprocess(ctx, id)
}

// Drain blocks until all queued processing runs complete.
func (db *Database) Drain() {
	db.pipeline.Drain()
}

// Search ranks the owner's items for the query using the given mode.
func (db *Database) Search(ctx context.Context, owner uuid.UUID, query string, mode SearchMode, opts *search.Options) ([]*core.ItemResult, error) {
	switch mode {
	case SearchSemantic:
		return db.searcher.Semantic(ctx, owner, query, opts)
	case SearchKeyword:
		return db.searcher.Keyword(ctx, owner, query, opts)
	case SearchHybrid, "":
		return db.searcher.Hybrid(ctx, owner, query, opts)
	}
	return nil, fmt.Errorf("unknown search mode %q", mode)
}

// Related finds the owner's items most similar to the reference item.
func (db *Database) Related(ctx context.Context, owner uuid.UUID, itemId core.ID, limit int) ([]*core.ItemResult, error) {
	return db.searcher.Related(ctx, owner, itemId, limit)
}

// GetItem retrieves one item by ID.
func (db *Database) GetItem(ctx context.Context, id core.ID) (*core.ContentItem, error) {
	return db.store.Items().GetItem(ctx, id)
}

// DeleteItem removes an item together with its extractions, embeddings,
// and tag links.
func (db *Database) DeleteItem(ctx context.Context, id core.ID) error {
	return db.store.Items().DeleteItem(ctx, id)
}

// Reembed rebuilds the owner's embedding records with the configured
// model, writing progress to the given writer.
func (db *Database) Reembed(ctx context.Context, owner uuid.UUID, config *reembed.Config, progress io.Writer) error {
	reembedder, err := reembed.NewReembedder(db.store, db.embedder, config, progress)
	if err != nil {
		return err
	}
	return reembedder.Run(ctx, owner)
}
