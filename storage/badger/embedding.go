package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/synapselabs/synapse/core"
	"github.com/synapselabs/synapse/storage"
)

// EmbeddingRepository implements storage.EmbeddingRepository for BadgerDB.
// Records are keyed by (item, chunk index); no sequence is needed.
type EmbeddingRepository struct {
	backend *Backend
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

// NewEmbeddingRepository creates a new EmbeddingRepository.
func NewEmbeddingRepository(backend *Backend) (*EmbeddingRepository, error) {
	return &EmbeddingRepository{backend: backend}, nil
}

// Close is a no-op; the repository holds no resources of its own.
func (r *EmbeddingRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *EmbeddingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddEmbeddings adds one or more embedding records. A record whose
// (item, chunk index) already exists is rejected; callers purge an
// item's records before rebuilding them.
func (r *EmbeddingRepository) AddEmbeddings(ctx context.Context, records ...*core.EmbeddingRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if record.CreatedAt.IsZero() {
				record.CreatedAt = time.Now().UTC()
			}

			key := makeEmbeddingKey(record.ItemId, record.ChunkIndex)
			if _, err := tx.Get(key); err == nil {
				return fmt.Errorf("embedding for item %d chunk %d: %w",
					record.ItemId, record.ChunkIndex, storage.ErrDuplicateKey)
			} else if err != badger.ErrKeyNotFound {
				return err
			}

			value, err := storage.MarshalEmbedding(record)
			if err != nil {
				return err
			}
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetEmbeddingsByItem retrieves every embedding record for an item,
// ordered by chunk index. A record whose value fails to decode is
// skipped with a warning rather than failing the whole read.
func (r *EmbeddingRepository) GetEmbeddingsByItem(ctx context.Context, itemId core.ID) ([]*core.EmbeddingRecord, error) {
	var records []*core.EmbeddingRecord

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialEmbeddingKey(itemId)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().KeyCopy(nil)
			err := iter.Item().Value(func(val []byte) error {
				record, err := storage.UnmarshalEmbedding(val)
				if err != nil {
					r.backend.logger.Warn("skipping undecodable embedding record",
						"key", string(key), "error", err)
					return nil
				}
				records = append(records, record)
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
	return records, nil
}

// DeleteEmbeddingsByItem removes all embedding records for an item.
func (r *EmbeddingRepository) DeleteEmbeddingsByItem(ctx context.Context, itemId core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deletePrefix(tx, makePartialEmbeddingKey(itemId)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
