package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/synapselabs/synapse/core"
	"github.com/synapselabs/synapse/embedding"
	"github.com/synapselabs/synapse/storage"
)

const (
	// DefaultLimit is the result count used when the caller asks for none.
	DefaultLimit = 10

	// Keyword location weights, highest-value location wins.
	titleWeight   = 1.0
	summaryWeight = 0.8
	textWeight    = 0.6

	// Default hybrid signal weights, normalized before fusion.
	defaultSemanticWeight = 0.7
	defaultKeywordWeight  = 0.3
)

// Options tunes a search call. The zero value means: DefaultLimit
// results, no kind filter, default hybrid weights.
type Options struct {
	// Limit caps the number of returned items.
	Limit int

	// Kinds restricts semantic candidates to the given content kinds.
	Kinds []core.ContentKind

	// SemanticWeight and KeywordWeight set the hybrid fusion weights.
	// They are normalized to sum to 1; both zero selects the defaults.
	SemanticWeight float64
	KeywordWeight  float64

	// Monitor receives stage callbacks. Nil disables monitoring.
	Monitor Monitor
}

func (o *Options) limit() int {
	if o == nil || o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

func (o *Options) monitor() Monitor {
	if o == nil || o.Monitor == nil {
		return noop
	}
	return o.Monitor
}

// Searcher ranks one owner's items by semantic similarity, keyword
// matching, or a weighted fusion of both.
type Searcher struct {
	store    storage.Backend
	embedder *embedding.Provider
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(store storage.Backend, embedder *embedding.Provider, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrBackendRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		store:    store,
		embedder: embedder,
		logger:   slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Semantic ranks the owner's items by chunk-level vector similarity to
// the query. An item's score is its best chunk similarity. When no
// embedding backend is available the result is empty, not an error.
func (s *Searcher) Semantic(ctx context.Context, owner uuid.UUID, query string, opts *Options) ([]*core.ItemResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	mon := opts.monitor()
	mon.Start(query)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	if vector == nil {
		s.logger.Debug("query embedding unavailable, semantic search yields nothing")
		mon.Finish(nil)
		return nil, nil
	}

	results, err := s.semanticByVector(ctx, owner, vector, opts.limit(), SemanticThreshold, 0, opts)
	if err != nil {
		return nil, err
	}
	mon.Finish(results)
	return results, nil
}

// semanticByVector runs the vector leg shared by Semantic and Related.
// exclude removes one item (the reference) from consideration.
func (s *Searcher) semanticByVector(ctx context.Context, owner uuid.UUID, vector []float32, limit int, threshold float64, exclude core.ID, opts *Options) ([]*core.ItemResult, error) {
	items, err := s.ownerItems(ctx, owner, opts)
	if err != nil {
		return nil, err
	}

	byId := make(map[core.ID]*core.ContentItem, len(items))
	var candidates []Candidate
	for _, item := range items {
		if item.Id == exclude {
			continue
		}
		byId[item.Id] = item

		records, err := s.store.Embeddings().GetEmbeddingsByItem(ctx, item.Id)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			candidates = append(candidates, Candidate{
				ItemId:     record.ItemId,
				ChunkIndex: record.ChunkIndex,
				Text:       record.ChunkText,
				Vector:     record.Vector,
			})
		}
	}

	matches := FindSimilar(vector, candidates, 2*limit, threshold)
	opts.monitor().AfterSemanticSearch(matches)

	// Group chunk matches by item; the item score is its best chunk.
	grouped := make(map[core.ID]*core.ItemResult)
	var order []core.ID
	for _, match := range matches {
		result, ok := grouped[match.Candidate.ItemId]
		if !ok {
			result = &core.ItemResult{Item: byId[match.Candidate.ItemId]}
			grouped[match.Candidate.ItemId] = result
			order = append(order, match.Candidate.ItemId)
		}
		if match.Similarity > result.SemanticScore {
			result.SemanticScore = match.Similarity
		}
		result.Matches = append(result.Matches, core.ChunkMatch{
			ChunkIndex: match.Candidate.ChunkIndex,
			Text:       match.Candidate.Text,
			Similarity: match.Similarity,
		})
	}

	results := make([]*core.ItemResult, 0, len(grouped))
	for _, id := range order {
		result := grouped[id]
		result.Score = result.SemanticScore
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Keyword ranks the owner's items by whitespace-token coverage weighted
// by the best matching location: title over summary over extracted text.
// Items matching no token are excluded.
func (s *Searcher) Keyword(ctx context.Context, owner uuid.UUID, query string, opts *Options) ([]*core.ItemResult, error) {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil, ErrEmptyQuery
	}
	mon := opts.monitor()
	mon.Start(query)

	items, err := s.ownerItems(ctx, owner, opts)
	if err != nil {
		return nil, err
	}

	limit := opts.limit()
	var results []*core.ItemResult
	for _, item := range items {
		score := keywordScore(item, tokens)
		if score == 0 {
			continue
		}
		results = append(results, &core.ItemResult{
			Item:         item,
			Score:        score,
			KeywordScore: score,
		})
	}
	mon.AfterKeywordSearch(len(results))

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	mon.Finish(results)
	return results, nil
}

// keywordScore is token coverage times the weight of the best location
// any token matched in.
func keywordScore(item *core.ContentItem, tokens []string) float64 {
	title := strings.ToLower(item.Title)
	summary := strings.ToLower(item.Summary)
	text := strings.ToLower(item.ExtractedText)

	matched := 0
	best := 0.0
	for _, token := range tokens {
		hit := false
		if strings.Contains(title, token) {
			hit = true
			if titleWeight > best {
				best = titleWeight
			}
		}
		if strings.Contains(summary, token) {
			hit = true
			if summaryWeight > best {
				best = summaryWeight
			}
		}
		if strings.Contains(text, token) {
			hit = true
			if textWeight > best {
				best = textWeight
			}
		}
		if hit {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}

	coverage := float64(matched) / float64(len(tokens))
	return coverage * best
}

// Hybrid runs semantic and keyword search concurrently and fuses their
// scores with normalized weights. An item present in only one result set
// contributes 0 for the missing signal.
func (s *Searcher) Hybrid(ctx context.Context, owner uuid.UUID, query string, opts *Options) ([]*core.ItemResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	mon := opts.monitor()
	mon.Start(query)

	limit := opts.limit()
	semWeight, keyWeight := normalizeWeights(opts)

	// Each leg gathers twice the requested results so fusion has
	// candidates beyond either leg's own cutoff.
	legOpts := &Options{Limit: 2 * limit}
	if opts != nil {
		legOpts.Kinds = opts.Kinds
	}

	var (
		wg       sync.WaitGroup
		semantic []*core.ItemResult
		keyword  []*core.ItemResult
		semErr   error
		keyErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		semantic, semErr = s.Semantic(ctx, owner, query, legOpts)
	}()
	go func() {
		defer wg.Done()
		keyword, keyErr = s.Keyword(ctx, owner, query, legOpts)
	}()
	wg.Wait()

	if semErr != nil {
		return nil, semErr
	}
	if keyErr != nil {
		return nil, keyErr
	}

	fused := make(map[core.ID]*core.ItemResult)
	var order []core.ID
	for _, result := range semantic {
		fused[result.Item.Id] = &core.ItemResult{
			Item:          result.Item,
			SemanticScore: result.SemanticScore,
			Matches:       result.Matches,
		}
		order = append(order, result.Item.Id)
	}
	for _, result := range keyword {
		existing, ok := fused[result.Item.Id]
		if !ok {
			existing = &core.ItemResult{Item: result.Item}
			fused[result.Item.Id] = existing
			order = append(order, result.Item.Id)
		}
		existing.KeywordScore = result.KeywordScore
	}

	results := make([]*core.ItemResult, 0, len(fused))
	for _, id := range order {
		result := fused[id]
		result.Score = semWeight*result.SemanticScore + keyWeight*result.KeywordScore
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	mon.Finish(results)
	return results, nil
}

// normalizeWeights scales the configured hybrid weights to sum to 1,
// falling back to the defaults when both are zero or negative.
func normalizeWeights(opts *Options) (semantic, keyword float64) {
	semantic, keyword = defaultSemanticWeight, defaultKeywordWeight
	if opts != nil && (opts.SemanticWeight > 0 || opts.KeywordWeight > 0) {
		semantic, keyword = opts.SemanticWeight, opts.KeywordWeight
	}
	total := semantic + keyword
	if total <= 0 {
		return defaultSemanticWeight, defaultKeywordWeight
	}
	return semantic / total, keyword / total
}

// Related finds the owner's items most similar to a reference item,
// using the centroid of the reference's chunk vectors as the query.
// The reference itself is excluded. Without stored vectors for the
// reference the result is empty.
func (s *Searcher) Related(ctx context.Context, owner uuid.UUID, itemId core.ID, limit int) ([]*core.ItemResult, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	records, err := s.store.Embeddings().GetEmbeddingsByItem(ctx, itemId)
	if err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(records))
	for i, record := range records {
		vectors[i] = record.Vector
	}
	centroid := Centroid(vectors)
	if centroid == nil {
		s.logger.Debug("reference item has no vectors", "item", itemId)
		return nil, nil
	}

	return s.semanticByVector(ctx, owner, centroid, limit, RelatedThreshold, itemId, nil)
}

// ownerItems lists the owner's items, applying the optional kind filter.
func (s *Searcher) ownerItems(ctx context.Context, owner uuid.UUID, opts *Options) ([]*core.ContentItem, error) {
	items, err := s.store.Items().ListItemsByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if opts == nil || len(opts.Kinds) == 0 {
		return items, nil
	}

	allowed := make(map[core.ContentKind]bool, len(opts.Kinds))
	for _, kind := range opts.Kinds {
		allowed[kind] = true
	}

	filtered := items[:0]
	for _, item := range items {
		if allowed[item.Kind] {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}
