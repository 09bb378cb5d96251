package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/synapselabs/synapse/core"
	"github.com/synapselabs/synapse/storage"
)

// ItemRepository implements storage.ItemRepository for BadgerDB.
type ItemRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(backend *Backend) (*ItemRepository, error) {
	idSeq, err := backend.GetSequence(itemIDSeq)
	if err != nil {
		return nil, err
	}

	return &ItemRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ItemRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *ItemRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddItem adds a content item, assigning a sequence ID when unset and
// maintaining the owner and fingerprint indices.
func (r *ItemRepository) AddItem(ctx context.Context, item *core.ContentItem) (*core.ContentItem, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if item.Id == 0 {
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			item.Id = core.ID(nextID)
		}

		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now().UTC()
		}
		item.UpdatedAt = item.CreatedAt

		value, err := storage.MarshalItem(item)
		if err != nil {
			return err
		}
		if err := tx.Set(makeItemKey(item.Id), value); err != nil {
			return err
		}

		if err := tx.Set(makeItemOwnerKey(item.Owner, item.Id), idBytes(item.Id)); err != nil {
			return err
		}

		if item.Fingerprint != 0 {
			if err := tx.Set(makeItemFingerprintKey(item.Owner, item.Fingerprint), idBytes(item.Id)); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem replaces an existing item and bumps UpdatedAt.
func (r *ItemRepository) UpdateItem(ctx context.Context, item *core.ContentItem) (*core.ContentItem, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		old, err := r.readItem(tx, item.Id)
		if err != nil {
			return err
		}

		item.UpdatedAt = time.Now().UTC()

		value, err := storage.MarshalItem(item)
		if err != nil {
			return err
		}
		if err := tx.Set(makeItemKey(item.Id), value); err != nil {
			return err
		}

		// Refresh the fingerprint index if the fingerprint changed.
		if old.Fingerprint != item.Fingerprint {
			if old.Fingerprint != 0 {
				if err := tx.Delete(makeItemFingerprintKey(old.Owner, old.Fingerprint)); err != nil {
					return err
				}
			}
			if item.Fingerprint != 0 {
				if err := tx.Set(makeItemFingerprintKey(item.Owner, item.Fingerprint), idBytes(item.Id)); err != nil {
					return err
				}
			}
		}

		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItemStatus transitions just the lifecycle status of an item.
func (r *ItemRepository) UpdateItemStatus(ctx context.Context, id core.ID, status core.ItemStatus) error {
	if err := core.ValidateItemStatus(status); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := r.readItem(tx, id)
		if err != nil {
			return err
		}

		item.Status = status
		item.UpdatedAt = time.Now().UTC()

		value, err := storage.MarshalItem(item)
		if err != nil {
			return err
		}
		if err := tx.Set(makeItemKey(id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetItem retrieves a single item by ID.
func (r *ItemRepository) GetItem(ctx context.Context, id core.ID) (*core.ContentItem, error) {
	var item *core.ContentItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		item, err = r.readItem(tx, id)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListItemsByOwner retrieves every item belonging to an owner, ordered
// by ID ascending.
func (r *ItemRepository) ListItemsByOwner(ctx context.Context, owner uuid.UUID) ([]*core.ContentItem, error) {
	var items []*core.ContentItem

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialItemOwnerKey(owner)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				id = idFromBytes(val)
				return nil
			})
			if err != nil {
				return err
			}

			item, err := r.readItem(tx, id)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindItemByFingerprint looks up an owner's item by content fingerprint.
func (r *ItemRepository) FindItemByFingerprint(ctx context.Context, owner uuid.UUID, fingerprint core.ID) (*core.ContentItem, error) {
	var item *core.ContentItem

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		entry, err := tx.Get(makeItemFingerprintKey(owner, fingerprint))
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		var id core.ID
		if err := entry.Value(func(val []byte) error {
			id = idFromBytes(val)
			return nil
		}); err != nil {
			return err
		}

		item, err = r.readItem(tx, id)
		return err
	}, false)

	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item together with its extraction records,
// embedding records, tag links, and index entries.
func (r *ItemRepository) DeleteItem(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := r.readItem(tx, id)
		if err != nil {
			return err
		}

		if err := tx.Delete(makeItemOwnerKey(item.Owner, id)); err != nil {
			return err
		}
		if item.Fingerprint != 0 {
			if err := tx.Delete(makeItemFingerprintKey(item.Owner, item.Fingerprint)); err != nil {
				return err
			}
		}

		// Cascade: extraction records, embeddings, tag links.
		if err := deletePrefix(tx, makePartialExtractionKey(id)); err != nil {
			return err
		}
		if err := deletePrefix(tx, makePartialEmbeddingKey(id)); err != nil {
			return err
		}
		if err := deleteItemTagLinks(tx, id); err != nil {
			return err
		}

		if err := tx.Delete(makeItemKey(id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readItem fetches and decodes one item inside a transaction.
func (r *ItemRepository) readItem(tx *badger.Txn, id core.ID) (*core.ContentItem, error) {
	entry, err := tx.Get(makeItemKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var item *core.ContentItem
	err = entry.Value(func(val []byte) error {
		var err error
		item, err = storage.UnmarshalItem(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// deletePrefix removes every key under a prefix in the transaction.
func deletePrefix(tx *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// deleteItemTagLinks removes both directions of an item's tag links.
func deleteItemTagLinks(tx *badger.Txn, itemId core.ID) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePartialItemTagKey(itemId)
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)

	prefixLen := len(opts.Prefix)
	var tagIds []core.ID
	for iter.Rewind(); iter.Valid(); iter.Next() {
		key := iter.Item().Key()
		tagIds = append(tagIds, idFromBytes(key[prefixLen:]))
	}
	iter.Close()

	for _, tagId := range tagIds {
		if err := tx.Delete(makeItemTagKey(itemId, tagId)); err != nil {
			return err
		}
		if err := tx.Delete(makeTagItemKey(tagId, itemId)); err != nil {
			return err
		}
	}
	return nil
}
