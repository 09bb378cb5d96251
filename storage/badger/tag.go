package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/synapselabs/synapse/core"
	"github.com/synapselabs/synapse/storage"
)

// TagRepository implements storage.TagRepository for BadgerDB.
// Tag IDs derive from the normalized name, so find-or-create is a
// deterministic point lookup.
type TagRepository struct {
	backend *Backend
}

var _ storage.TagRepository = (*TagRepository)(nil)

// NewTagRepository creates a new TagRepository.
func NewTagRepository(backend *Backend) (*TagRepository, error) {
	return &TagRepository{backend: backend}, nil
}

// Close is a no-op; the repository holds no resources of its own.
func (r *TagRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *TagRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// GetOrCreateTag finds or creates a tag by name. The name is normalized
// before use.
func (r *TagRepository) GetOrCreateTag(ctx context.Context, name string) (*core.Tag, error) {
	normalized, err := core.NormalizeTagName(name)
	if err != nil {
		return nil, err
	}

	id := core.IDFromContent(normalized)
	var tag *core.Tag

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeTagKey(id)

		entry, err := tx.Get(key)
		if err == nil {
			return entry.Value(func(val []byte) error {
				tag, err = storage.UnmarshalTag(val)
				return err
			})
		}
		if err != badger.ErrKeyNotFound {
			return err
		}

		tag = &core.Tag{
			Id:        id,
			Name:      normalized,
			CreatedAt: time.Now().UTC(),
		}
		value, err := storage.MarshalTag(tag)
		if err != nil {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return tag, nil
}

// LinkItemTag associates a tag with an item in both directions.
// Linking an already-linked pair succeeds without change.
func (r *TagRepository) LinkItemTag(ctx context.Context, itemId, tagId core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeItemTagKey(itemId, tagId), idBytes(tagId)); err != nil {
			return err
		}
		if err := tx.Set(makeTagItemKey(tagId, itemId), idBytes(itemId)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetTagsByItem retrieves the tags linked to an item.
func (r *TagRepository) GetTagsByItem(ctx context.Context, itemId core.ID) ([]*core.Tag, error) {
	var tags []*core.Tag

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialItemTagKey(itemId)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		var tagIds []core.ID
		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				tagIds = append(tagIds, idFromBytes(val))
				return nil
			})
			if err != nil {
				return err
			}
		}

		for _, tagId := range tagIds {
			entry, err := tx.Get(makeTagKey(tagId))
			if err == badger.ErrKeyNotFound {
				continue
			}
			if err != nil {
				return err
			}
			err = entry.Value(func(val []byte) error {
				tag, err := storage.UnmarshalTag(val)
				if err != nil {
					return err
				}
				tags = append(tags, tag)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return tags, nil
}

// GetItemsByTag retrieves the IDs of items linked to a tag.
func (r *TagRepository) GetItemsByTag(ctx context.Context, tagId core.ID) ([]core.ID, error) {
	var itemIds []core.ID

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialTagItemKey(tagId)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				itemIds = append(itemIds, idFromBytes(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return itemIds, nil
}

// UnlinkItemTags removes every tag link for an item.
func (r *TagRepository) UnlinkItemTags(ctx context.Context, itemId core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deleteItemTagLinks(tx, itemId); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
