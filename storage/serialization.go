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

package storage

import (
	"encoding/json"
	"fmt"

	"github.com/synapselabs/synapse/core"
)

// Records and vectors persist as JSON so the on-disk format stays
// readable and storage-engine agnostic. Vectors in particular must
// round-trip as plain float arrays.

// MarshalItem serializes a ContentItem to bytes.
func MarshalItem(item *core.ContentItem) ([]byte, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("%w: item %d: %v", ErrSerializationFailed, item.Id, err)
	}
	return data, nil
}

// UnmarshalItem deserializes a ContentItem from bytes.
func UnmarshalItem(data []byte) (*core.ContentItem, error) {
	var item core.ContentItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("%w: item: %v", ErrSerializationFailed, err)
	}
	return &item, nil
}

// MarshalExtraction serializes an ExtractionRecord to bytes.
func MarshalExtraction(record *core.ExtractionRecord) ([]byte, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: extraction %d: %v", ErrSerializationFailed, record.Id, err)
	}
	return data, nil
}

// UnmarshalExtraction deserializes an ExtractionRecord from bytes.
func UnmarshalExtraction(data []byte) (*core.ExtractionRecord, error) {
	var record core.ExtractionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: extraction: %v", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalEmbedding serializes an EmbeddingRecord to bytes. The vector
// is encoded as a JSON float array.
func MarshalEmbedding(record *core.EmbeddingRecord) ([]byte, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding %d/%d: %v",
			ErrSerializationFailed, record.ItemId, record.ChunkIndex, err)
	}
	return data, nil
}

// UnmarshalEmbedding deserializes an EmbeddingRecord from bytes.
func UnmarshalEmbedding(data []byte) (*core.EmbeddingRecord, error) {
	var record core.EmbeddingRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: embedding: %v", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalTag serializes a Tag to bytes.
func MarshalTag(tag *core.Tag) ([]byte, error) {
	data, err := json.Marshal(tag)
	if err != nil {
		return nil, fmt.Errorf("%w: tag %q: %v", ErrSerializationFailed, tag.Name, err)
	}
	return data, nil
}

// UnmarshalTag deserializes a Tag from bytes.
func UnmarshalTag(data []byte) (*core.Tag, error) {
	var tag core.Tag
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("%w: tag: %v", ErrSerializationFailed, err)
	}
	return &tag, nil
}
