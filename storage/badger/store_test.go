package badger

import (
	"context"
	"testing"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapselabs/synapse/core"
	"github.com/synapselabs/synapse/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestItem(owner uuid.UUID) *core.ContentItem {
	return &core.ContentItem{
		Owner:   owner,
		Kind:    core.KindText,
		Title:   "notes",
		Uploads: []core.Upload{{Key: "notes.txt", Kind: core.KindText}},
		Status:  core.StatusProcessing,
	}
}

func TestAddAndGetItem(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := uuid.New()

	added, err := store.Items().AddItem(ctx, newTestItem(owner))
	require.NoError(t, err)
	assert.NotZero(t, added.Id)
	assert.False(t, added.CreatedAt.IsZero())

	got, err := store.Items().GetItem(ctx, added.Id)
	require.NoError(t, err)
	assert.Equal(t, added.Title, got.Title)
	assert.Equal(t, owner, got.Owner)
	assert.Equal(t, core.StatusProcessing, got.Status)
}

func TestGetItemNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Items().GetItem(context.Background(), 9999)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateItemStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	added, err := store.Items().AddItem(ctx, newTestItem(uuid.New()))
	require.NoError(t, err)

	require.NoError(t, store.Items().UpdateItemStatus(ctx, added.Id, core.StatusReady))

	got, err := store.Items().GetItem(ctx, added.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusReady, got.Status)

	err = store.Items().UpdateItemStatus(ctx, added.Id, core.ItemStatus("bogus"))
	require.ErrorIs(t, err, core.ErrInvalidStatus)
}

func TestListItemsByOwnerIsScoped(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := store.Items().AddItem(ctx, newTestItem(alice))
		require.NoError(t, err)
	}
	_, err := store.Items().AddItem(ctx, newTestItem(bob))
	require.NoError(t, err)

	items, err := store.Items().ListItemsByOwner(ctx, alice)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Ordered by ID ascending.
	assert.Less(t, uint64(items[0].Id), uint64(items[1].Id))
	assert.Less(t, uint64(items[1].Id), uint64(items[2].Id))
}

func TestFindItemByFingerprint(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := uuid.New()

	item := newTestItem(owner)
	item.Fingerprint = core.IDFromContent("the same bytes")
	added, err := store.Items().AddItem(ctx, item)
	require.NoError(t, err)

	found, err := store.Items().FindItemByFingerprint(ctx, owner, item.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, added.Id, found.Id)

	// Fingerprints are scoped per owner.
	_, err = store.Items().FindItemByFingerprint(ctx, uuid.New(), item.Fingerprint)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExtractionRecordsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	added, err := store.Items().AddItem(ctx, newTestItem(uuid.New()))
	require.NoError(t, err)

	confidence := 0.95
	records := []*core.ExtractionRecord{
		{ItemId: added.Id, Kind: core.ExtractionPlainText, Content: "first", Confidence: &confidence},
		{ItemId: added.Id, Kind: core.ExtractionPlainText, Content: "second"},
	}
	_, err = store.Extractions().AddExtractions(ctx, records...)
	require.NoError(t, err)

	got, err := store.Extractions().GetExtractionsByItem(ctx, added.Id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Content)
	assert.Equal(t, "second", got[1].Content)
	require.NotNil(t, got[0].Confidence)
	assert.Equal(t, 0.95, *got[0].Confidence)

	require.NoError(t, store.Extractions().DeleteExtractionsByItem(ctx, added.Id))
	got, err = store.Extractions().GetExtractionsByItem(ctx, added.Id)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEmbeddingRecordsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	added, err := store.Items().AddItem(ctx, newTestItem(uuid.New()))
	require.NoError(t, err)

	records := []*core.EmbeddingRecord{
		{ItemId: added.Id, ChunkIndex: 1, ChunkText: "second chunk", Vector: []float32{0, 1}, Model: "m"},
		{ItemId: added.Id, ChunkIndex: 0, ChunkText: "first chunk", Vector: []float32{1, 0}, Model: "m"},
	}
	require.NoError(t, store.Embeddings().AddEmbeddings(ctx, records...))

	got, err := store.Embeddings().GetEmbeddingsByItem(ctx, added.Id)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by chunk index regardless of insertion order.
	assert.Equal(t, 0, got[0].ChunkIndex)
	assert.Equal(t, 1, got[1].ChunkIndex)
	assert.Equal(t, []float32{1, 0}, got[0].Vector)
}

func TestEmbeddingDuplicateChunkRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	added, err := store.Items().AddItem(ctx, newTestItem(uuid.New()))
	require.NoError(t, err)

	require.NoError(t, store.Embeddings().AddEmbeddings(ctx,
		&core.EmbeddingRecord{ItemId: added.Id, ChunkIndex: 0, Vector: []float32{1}, Model: "old"}))
	err = store.Embeddings().AddEmbeddings(ctx,
		&core.EmbeddingRecord{ItemId: added.Id, ChunkIndex: 0, Vector: []float32{2}, Model: "new"})
	require.ErrorIs(t, err, storage.ErrDuplicateKey)

	// The original record is untouched and a purge clears the way.
	got, err := store.Embeddings().GetEmbeddingsByItem(ctx, added.Id)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "old", got[0].Model)

	require.NoError(t, store.Embeddings().DeleteEmbeddingsByItem(ctx, added.Id))
	require.NoError(t, store.Embeddings().AddEmbeddings(ctx,
		&core.EmbeddingRecord{ItemId: added.Id, ChunkIndex: 0, Vector: []float32{2}, Model: "new"}))
}

func TestClosedStoreReturnsStorageClosed(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)

	added, err := store.Items().AddItem(context.Background(), newTestItem(uuid.New()))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Items().GetItem(context.Background(), added.Id)
	require.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestTranslateErrMapsBadgerSentinels(t *testing.T) {
	assert.NoError(t, translateErr(nil))
	assert.ErrorIs(t, translateErr(badgerdb.ErrDBClosed), storage.ErrStorageClosed)
	assert.ErrorIs(t, translateErr(badgerdb.ErrConflict), storage.ErrTransactionFailed)
	assert.ErrorIs(t, translateErr(storage.ErrNotFound), storage.ErrNotFound)
}

func TestTagsGetOrCreateAndLink(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tag1, err := store.Tags().GetOrCreateTag(ctx, "Machine Learning")
	require.NoError(t, err)
	assert.Equal(t, "machine-learning", tag1.Name)

	// Same normalized name converges on the same tag.
	tag2, err := store.Tags().GetOrCreateTag(ctx, "machine learning")
	require.NoError(t, err)
	assert.Equal(t, tag1.Id, tag2.Id)

	added, err := store.Items().AddItem(ctx, newTestItem(uuid.New()))
	require.NoError(t, err)

	require.NoError(t, store.Tags().LinkItemTag(ctx, added.Id, tag1.Id))
	// Idempotent.
	require.NoError(t, store.Tags().LinkItemTag(ctx, added.Id, tag1.Id))

	tags, err := store.Tags().GetTagsByItem(ctx, added.Id)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "machine-learning", tags[0].Name)

	itemIds, err := store.Tags().GetItemsByTag(ctx, tag1.Id)
	require.NoError(t, err)
	assert.Equal(t, []core.ID{added.Id}, itemIds)
}

func TestDeleteItemCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := uuid.New()

	item := newTestItem(owner)
	item.Fingerprint = core.IDFromContent("cascade me")
	added, err := store.Items().AddItem(ctx, item)
	require.NoError(t, err)

	_, err = store.Extractions().AddExtractions(ctx,
		&core.ExtractionRecord{ItemId: added.Id, Kind: core.ExtractionPlainText, Content: "text"})
	require.NoError(t, err)
	require.NoError(t, store.Embeddings().AddEmbeddings(ctx,
		&core.EmbeddingRecord{ItemId: added.Id, ChunkIndex: 0, Vector: []float32{1}, Model: "m"}))

	tag, err := store.Tags().GetOrCreateTag(ctx, "keep")
	require.NoError(t, err)
	require.NoError(t, store.Tags().LinkItemTag(ctx, added.Id, tag.Id))

	require.NoError(t, store.Items().DeleteItem(ctx, added.Id))

	_, err = store.Items().GetItem(ctx, added.Id)
	require.ErrorIs(t, err, storage.ErrNotFound)

	extractions, err := store.Extractions().GetExtractionsByItem(ctx, added.Id)
	require.NoError(t, err)
	assert.Empty(t, extractions)

	embeddings, err := store.Embeddings().GetEmbeddingsByItem(ctx, added.Id)
	require.NoError(t, err)
	assert.Empty(t, embeddings)

	tags, err := store.Tags().GetTagsByItem(ctx, added.Id)
	require.NoError(t, err)
	assert.Empty(t, tags)

	itemIds, err := store.Tags().GetItemsByTag(ctx, tag.Id)
	require.NoError(t, err)
	assert.Empty(t, itemIds)

	_, err = store.Items().FindItemByFingerprint(ctx, owner, item.Fingerprint)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCorruptEmbeddingSkipped(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	added, err := store.Items().AddItem(ctx, newTestItem(uuid.New()))
	require.NoError(t, err)

	require.NoError(t, store.Embeddings().AddEmbeddings(ctx,
		&core.EmbeddingRecord{ItemId: added.Id, ChunkIndex: 0, Vector: []float32{1}, Model: "m"}))

	// Plant a corrupt record alongside the good one.
	err = store.backend.WithTx(func(tx *badgerdb.Txn) error {
		if err := tx.Set(makeEmbeddingKey(added.Id, 1), []byte("{broken")); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	require.NoError(t, err)

	got, err := store.Embeddings().GetEmbeddingsByItem(ctx, added.Id)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].ChunkIndex)
}
