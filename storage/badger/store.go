package badger

import (
	"github.com/synapselabs/synapse/storage"
)

// Store aggregates the BadgerDB repositories behind storage.Backend.
type Store struct {
	backend     *Backend
	items       *ItemRepository
	extractions *ExtractionRepository
	embeddings  *EmbeddingRepository
	tags        *TagRepository
}

var _ storage.Backend = (*Store)(nil)

// OpenStore opens a BadgerDB store at path. An empty path with inMemory
// set creates a throwaway in-memory store.
func OpenStore(path string, inMemory bool) (*Store, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}

	items, err := NewItemRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	extractions, err := NewExtractionRepository(backend)
	if err != nil {
		items.Close()
		backend.Close()
		return nil, err
	}

	embeddings, err := NewEmbeddingRepository(backend)
	if err != nil {
		extractions.Close()
		items.Close()
		backend.Close()
		return nil, err
	}

	tags, err := NewTagRepository(backend)
	if err != nil {
		embeddings.Close()
		extractions.Close()
		items.Close()
		backend.Close()
		return nil, err
	}

	return &Store{
		backend:     backend,
		items:       items,
		extractions: extractions,
		embeddings:  embeddings,
		tags:        tags,
	}, nil
}

// Items returns the item repository.
func (s *Store) Items() storage.ItemRepository { return s.items }

// Extractions returns the extraction repository.
func (s *Store) Extractions() storage.ExtractionRepository { return s.extractions }

// Embeddings returns the embedding repository.
func (s *Store) Embeddings() storage.EmbeddingRepository { return s.embeddings }

// Tags returns the tag repository.
func (s *Store) Tags() storage.TagRepository { return s.tags }

// Close releases the repositories and the underlying database.
func (s *Store) Close() error {
	s.tags.Close()
	s.embeddings.Close()
	s.extractions.Close()
	if err := s.items.Close(); err != nil {
		s.backend.Close()
		return err
	}
	return s.backend.Close()
}
