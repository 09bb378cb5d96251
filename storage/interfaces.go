package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/synapselabs/synapse/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ItemRepository provides operations for managing content items.
type ItemRepository interface {
	Repository

	// AddItem adds a content item to storage.
	// For an item with Id=0, generates a new ID from sequence.
	// Sets CreatedAt/UpdatedAt timestamps if not already set and
	// maintains the owner and fingerprint indices.
	// Returns the item with generated ID and timestamps populated.
	AddItem(ctx context.Context, item *core.ContentItem) (*core.ContentItem, error)

	// UpdateItem replaces an existing item and bumps UpdatedAt.
	// Returns ErrNotFound if the item doesn't exist.
	UpdateItem(ctx context.Context, item *core.ContentItem) (*core.ContentItem, error)

	// UpdateItemStatus transitions just the lifecycle status of an item.
	// Returns ErrNotFound if the item doesn't exist.
	UpdateItemStatus(ctx context.Context, id core.ID, status core.ItemStatus) error

	// GetItem retrieves a single item by ID.
	// Returns ErrNotFound if the item doesn't exist.
	GetItem(ctx context.Context, id core.ID) (*core.ContentItem, error)

	// ListItemsByOwner retrieves every item belonging to an owner,
	// ordered by ID ascending.
	ListItemsByOwner(ctx context.Context, owner uuid.UUID) ([]*core.ContentItem, error)

	// FindItemByFingerprint looks up an owner's item by content
	// fingerprint. Returns ErrNotFound if no item matches.
	FindItemByFingerprint(ctx context.Context, owner uuid.UUID, fingerprint core.ID) (*core.ContentItem, error)

	// DeleteItem removes an item together with its extraction records,
	// embedding records, tag links, and index entries.
	// Returns ErrNotFound if the item doesn't exist.
	DeleteItem(ctx context.Context, id core.ID) error
}

// ExtractionRepository provides operations for managing raw extraction results.
type ExtractionRepository interface {
	Repository

	// AddExtractions adds one or more extraction records.
	// For records with Id=0, generates new IDs from sequence and sets
	// CreatedAt if not already set.
	AddExtractions(ctx context.Context, records ...*core.ExtractionRecord) ([]*core.ExtractionRecord, error)

	// GetExtractionsByItem retrieves every extraction record for an item,
	// ordered by ID ascending (creation order).
	GetExtractionsByItem(ctx context.Context, itemId core.ID) ([]*core.ExtractionRecord, error)

	// DeleteExtractionsByItem removes all extraction records for an item.
	// Deleting records for an item that has none is not an error.
	DeleteExtractionsByItem(ctx context.Context, itemId core.ID) error
}

// EmbeddingRepository provides operations for managing chunk embeddings.
type EmbeddingRepository interface {
	Repository

	// AddEmbeddings adds one or more embedding records, keyed by
	// (item, chunk index). Re-adding an existing key overwrites it.
	AddEmbeddings(ctx context.Context, records ...*core.EmbeddingRecord) error

	// GetEmbeddingsByItem retrieves every embedding record for an item,
	// ordered by chunk index ascending. Records whose stored vector
	// fails to decode are skipped with a warning, not returned as errors.
	GetEmbeddingsByItem(ctx context.Context, itemId core.ID) ([]*core.EmbeddingRecord, error)

	// DeleteEmbeddingsByItem removes all embedding records for an item.
	// Deleting records for an item that has none is not an error.
	DeleteEmbeddingsByItem(ctx context.Context, itemId core.ID) error
}

// TagRepository provides operations for managing tags and item-tag links.
type TagRepository interface {
	Repository

	// GetOrCreateTag finds or creates a tag by normalized name.
	// Tag IDs are content-derived, so concurrent creation converges on
	// the same record.
	GetOrCreateTag(ctx context.Context, name string) (*core.Tag, error)

	// LinkItemTag associates a tag with an item in both directions.
	// Linking an already-linked pair is treated as success.
	LinkItemTag(ctx context.Context, itemId, tagId core.ID) error

	// GetTagsByItem retrieves the tags linked to an item.
	GetTagsByItem(ctx context.Context, itemId core.ID) ([]*core.Tag, error)

	// GetItemsByTag retrieves the IDs of items linked to a tag.
	GetItemsByTag(ctx context.Context, tagId core.ID) ([]core.ID, error)

	// UnlinkItemTags removes every tag link for an item (both directions).
	UnlinkItemTags(ctx context.Context, itemId core.ID) error
}

// Backend aggregates the repositories of one storage engine.
type Backend interface {
	Items() ItemRepository
	Extractions() ExtractionRepository
	Embeddings() EmbeddingRepository
	Tags() TagRepository

	// Close closes the backend and all repositories.
	Close() error
}
