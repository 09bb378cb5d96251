package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/panjf2000/ants/v2"

	"github.com/synapselabs/synapse/ai"
	"github.com/synapselabs/synapse/core"
	"github.com/synapselabs/synapse/embedding"
	"github.com/synapselabs/synapse/extraction"
	"github.com/synapselabs/synapse/storage"
)

const (
	// CombinedDelimiter separates the extraction texts of one item's
	// sources in the combined document.
	CombinedDelimiter = "\n\n---\n\n"

	// naiveSummaryLength is the fallback summary cut when no generative
	// capability is available or the call fails.
	naiveSummaryLength = 500

	// MaxChunkTextLength caps the chunk text stored alongside a vector.
	MaxChunkTextLength = 5_000

	// maxItemTextLength caps the extracted text stored on the item.
	maxItemTextLength = 1_000_000
)

// Pipeline orchestrates the processing of content items: extraction,
// summarization, tagging, chunking, and embedding. Runs execute on a
// bounded worker pool; the submitting call returns immediately.
type Pipeline struct {
	store      storage.Backend
	dispatcher *extraction.Dispatcher
	embedder   *embedding.Provider
	generator  ai.Generator
	fetcher    Fetcher
	pool       *ants.Pool
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent runs.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithGenerator supplies the generative service used for summaries and
// tags. Without one, every item gets the naive summary and no tags.
func WithGenerator(generator ai.Generator) Option {
	return func(p *Pipeline) error {
		p.generator = generator
		return nil
	}
}

// WithFetcher supplies the fetcher used to load upload bytes.
// Required for items with file uploads.
func WithFetcher(fetcher Fetcher) Option {
	return func(p *Pipeline) error {
		p.fetcher = fetcher
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new processing pipeline.
func NewPipeline(
	store storage.Backend,
	dispatcher *extraction.Dispatcher,
	embedder *embedding.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if store == nil {
		return nil, ErrBackendRequired
	}
	if dispatcher == nil {
		return nil, ErrDispatcherRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:      store,
		dispatcher: dispatcher,
		embedder:   embedder,
		pool:       pool,
		logger:     slog.Default().With("component", "pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Submit validates and stores a new item, then processes it in the
// background. When the owner already has an item with the same content
// fingerprint, that item is returned instead and nothing new is stored.
func (p *Pipeline) Submit(ctx context.Context, item *core.ContentItem) (*core.ContentItem, error) {
	if err := core.ValidateContentItem(item); err != nil {
		return nil, err
	}

	if item.Fingerprint == 0 {
		item.Fingerprint = fingerprintOf(item)
	}

	existing, err := p.store.Items().FindItemByFingerprint(ctx, item.Owner, item.Fingerprint)
	if err == nil {
		p.logger.Debug("duplicate submission", "item", existing.Id)
		return existing, nil
	}
	if err != storage.ErrNotFound {
		return nil, err
	}

	item.Status = core.StatusProcessing
	added, err := p.store.Items().AddItem(ctx, item)
	if err != nil {
		return nil, err
	}

	if err := p.enqueue(added.Id); err != nil {
		return nil, err
	}
	return added, nil
}

// Reprocess re-runs the pipeline for an existing item. Extraction and
// embedding records from prior runs are purged first so reruns do not
// accumulate duplicates.
func (p *Pipeline) Reprocess(ctx context.Context, id core.ID) error {
	if _, err := p.store.Items().GetItem(ctx, id); err != nil {
		return err
	}

	if err := p.store.Extractions().DeleteExtractionsByItem(ctx, id); err != nil {
		return err
	}
	if err := p.store.Embeddings().DeleteEmbeddingsByItem(ctx, id); err != nil {
		return err
	}
	if err := p.store.Items().UpdateItemStatus(ctx, id, core.StatusProcessing); err != nil {
		return err
	}

	return p.enqueue(id)
}

// Drain blocks until every queued run has finished. Intended for tests
// and shutdown.
func (p *Pipeline) Drain() {
	p.wg.Wait()
}

// Release releases the worker pool after draining in-flight runs.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	p.wg.Wait()
	if p.pool != nil {
		p.pool.Release()
	}
}

func (p *Pipeline) enqueue(id core.ID) error {
	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()
		p.run(context.Background(), id)
	})
	if err != nil {
		p.wg.Done()
		return err
	}
	return nil
}

// run executes one processing pass. Errors terminate the run with the
// item marked failed; the failure path itself never panics or returns.
func (p *Pipeline) run(ctx context.Context, id core.ID) {
	if err := p.process(ctx, id); err != nil {
		p.logger.Error("processing failed", "item", id, "err", err)
		if serr := p.store.Items().UpdateItemStatus(ctx, id, core.StatusFailed); serr != nil {
			p.logger.Error("unable to mark item failed", "item", id, "err", serr)
		}
	}
}

func (p *Pipeline) process(ctx context.Context, id core.ID) error {
	item, err := p.store.Items().GetItem(ctx, id)
	if err != nil {
		return err
	}

	if err := p.store.Items().UpdateItemStatus(ctx, id, core.StatusProcessing); err != nil {
		return err
	}

	combined, err := p.extractSources(ctx, item)
	if err != nil {
		return err
	}

	summary, labels := p.summarizeAndTag(ctx, combined, item.Title)

	if err := p.embedChunks(ctx, item.Id, combined); err != nil {
		return err
	}

	item.Summary = summary
	item.ExtractedText = capRunes(combined, maxItemTextLength)
	item.Status = core.StatusReady
	if _, err := p.store.Items().UpdateItem(ctx, item); err != nil {
		return err
	}

	for _, label := range labels {
		tag, err := p.store.Tags().GetOrCreateTag(ctx, label)
		if err != nil {
			return err
		}
		if err := p.store.Tags().LinkItemTag(ctx, item.Id, tag.Id); err != nil {
			return err
		}
	}

	p.logger.Info("item processed", "item", item.Id, "kind", item.Kind, "chars", len(item.ExtractedText))
	return nil
}

// extractSources runs extraction for every source of the item, persists
// one record per non-empty result, and returns the combined text. A
// failing or empty source is logged and skipped; an all-empty outcome
// yields an empty combined text, not an error.
func (p *Pipeline) extractSources(ctx context.Context, item *core.ContentItem) (string, error) {
	var texts []string

	persist := func(results []extraction.Result) error {
		for _, result := range results {
			record := &core.ExtractionRecord{
				ItemId:     item.Id,
				Kind:       result.Kind,
				Content:    result.Text,
				Confidence: result.Confidence,
			}
			if _, err := p.store.Extractions().AddExtractions(ctx, record); err != nil {
				return err
			}
			texts = append(texts, result.Text)
		}
		return nil
	}

	switch {
	case item.SourceURL != "":
		kind := item.Kind
		if kind != core.KindWebpage && kind != core.KindYouTube {
			kind = extraction.DetectURLKind(item.SourceURL)
		}
		results, err := p.dispatcher.Extract(ctx, kind, extraction.Source{URL: item.SourceURL})
		if err != nil {
			p.logger.Warn("source extraction failed", "item", item.Id, "url", item.SourceURL, "err", err)
		} else if err := persist(results); err != nil {
			return "", err
		}

	case len(item.Uploads) > 0:
		if p.fetcher == nil {
			return "", fmt.Errorf("item %d has uploads but no fetcher is configured", item.Id)
		}
		for _, upload := range item.Uploads {
			data, err := p.fetcher.Fetch(ctx, upload.Key)
			if err != nil {
				p.logger.Warn("upload fetch failed", "item", item.Id, "key", upload.Key, "err", err)
				continue
			}

			kind := upload.Kind
			if kind == "" {
				kind = extraction.DetectKind(data)
			}

			results, err := p.dispatcher.Extract(ctx, kind, extraction.Source{
				Name: upload.Key,
				Data: data,
			})
			if err != nil {
				p.logger.Warn("source extraction failed", "item", item.Id, "key", upload.Key, "err", err)
				continue
			}
			if err := persist(results); err != nil {
				return "", err
			}
		}

	default:
		return "", ErrNoSources
	}

	if len(texts) == 0 {
		p.logger.Warn("no text extracted from any source", "item", item.Id)
	}
	return strings.Join(texts, CombinedDelimiter), nil
}

// summarizeAndTag produces the item summary and topic labels. On any
// generative failure it falls back to the naive summary and an empty
// label set so the item still reaches a terminal non-failed status.
func (p *Pipeline) summarizeAndTag(ctx context.Context, text, title string) (string, []string) {
	if p.generator == nil || strings.TrimSpace(text) == "" {
		return naiveSummary(text), nil
	}

	summary, err := p.generator.Summarize(ctx, text, title)
	if err != nil {
		p.logger.Warn("summary generation failed, using naive fallback", "err", err)
		return naiveSummary(text), nil
	}

	labels, err := p.generator.SuggestTags(ctx, text, title)
	if err != nil {
		p.logger.Warn("tag suggestion failed", "err", err)
		labels = nil
	}
	return summary, labels
}

// embedChunks chunks the combined text and persists one embedding record
// per chunk that embeds successfully. Absent vectors are skipped.
func (p *Pipeline) embedChunks(ctx context.Context, itemId core.ID, text string) error {
	chunks := ChunkText(text, DefaultChunkSize, DefaultChunkOverlap, true)
	chunks = MergeSmallChunks(chunks, MinChunkSize)
	if len(chunks) == 0 {
		return nil
	}

	chunkTexts := make([]string, len(chunks))
	for i, chunk := range chunks {
		chunkTexts[i] = chunk.Text
	}

	vectors, err := p.embedder.EmbedBatch(ctx, chunkTexts)
	if err != nil {
		return err
	}

	var records []*core.EmbeddingRecord
	for i, vector := range vectors {
		if vector == nil {
			continue
		}
		records = append(records, &core.EmbeddingRecord{
			ItemId:     itemId,
			ChunkIndex: chunks[i].Index,
			ChunkText:  capRunes(chunks[i].Text, MaxChunkTextLength),
			Vector:     vector,
			Model:      p.embedder.ModelName(),
		})
	}
	if len(records) == 0 {
		return nil
	}
	return p.store.Embeddings().AddEmbeddings(ctx, records...)
}

// fingerprintOf derives the content fingerprint of an item from its
// source identity.
func fingerprintOf(item *core.ContentItem) core.ID {
	if item.SourceURL != "" {
		return core.IDFromContent(item.SourceURL)
	}
	keys := make([]string, len(item.Uploads))
	for i, upload := range item.Uploads {
		keys[i] = upload.Key
	}
	return core.IDFromContent(strings.Join(keys, "\n"))
}

// naiveSummary cuts the first naiveSummaryLength characters of text,
// appending an ellipsis when truncated.
func naiveSummary(text string) string {
	if utf8.RuneCountInString(text) <= naiveSummaryLength {
		return text
	}
	return capRunes(text, naiveSummaryLength) + "..."
}

// capRunes truncates s to at most n runes.
func capRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
