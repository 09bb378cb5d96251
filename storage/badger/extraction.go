package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/synapselabs/synapse/core"
	"github.com/synapselabs/synapse/storage"
)

// ExtractionRepository implements storage.ExtractionRepository for BadgerDB.
type ExtractionRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ExtractionRepository = (*ExtractionRepository)(nil)

// NewExtractionRepository creates a new ExtractionRepository.
func NewExtractionRepository(backend *Backend) (*ExtractionRepository, error) {
	idSeq, err := backend.GetSequence(extractionIDSeq)
	if err != nil {
		return nil, err
	}

	return &ExtractionRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ExtractionRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *ExtractionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddExtractions adds one or more extraction records.
func (r *ExtractionRepository) AddExtractions(ctx context.Context, records ...*core.ExtractionRecord) ([]*core.ExtractionRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if record.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				record.Id = core.ID(nextID)
			}

			if record.CreatedAt.IsZero() {
				record.CreatedAt = time.Now().UTC()
			}

			value, err := storage.MarshalExtraction(record)
			if err != nil {
				return err
			}
			if err := tx.Set(makeExtractionKey(record.ItemId, record.Id), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetExtractionsByItem retrieves every extraction record for an item in
// creation order.
func (r *ExtractionRepository) GetExtractionsByItem(ctx context.Context, itemId core.ID) ([]*core.ExtractionRecord, error) {
	var records []*core.ExtractionRecord

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialExtractionKey(itemId)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				record, err := storage.UnmarshalExtraction(val)
				if err != nil {
					return err
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

// DeleteExtractionsByItem removes all extraction records for an item.
func (r *ExtractionRepository) DeleteExtractionsByItem(ctx context.Context, itemId core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deletePrefix(tx, makePartialExtractionKey(itemId)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
