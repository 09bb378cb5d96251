package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"

	"github.com/synapselabs/synapse/core"
)

// Key prefixes for different data types. Composite keys encode numeric
// components in BigEndian so lexicographic iteration order matches
// numeric order. Iteration always includes the trailing colon so
// sequence keys never collide with record prefixes.
const (
	itemPrefix       = "itmrec"
	itemOwnerPrefix  = "itmown"
	itemFingerPrefix = "itmfp"
	itemIDSeq        = "itmrecseq"
	extractionPrefix = "extrec"
	extractionIDSeq  = "extrecseq"
	embeddingPrefix  = "embrec"
	tagPrefix        = "tagrec"
	itemTagPrefix    = "itmtag"
	tagItemPrefix    = "tagitm"
)

// makeItemKey generates a key for a content item by ID.
func makeItemKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", itemPrefix, id))
}

// makeItemOwnerKey generates a composite key for the owner index.
// Format: prefix:owner:id
func makeItemOwnerKey(owner uuid.UUID, id core.ID) []byte {
	prefix := []byte(itemOwnerPrefix + ":")
	buf := make([]byte, len(prefix)+16+8)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], owner[:])
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialItemOwnerKey generates the iteration prefix for one owner.
func makePartialItemOwnerKey(owner uuid.UUID) []byte {
	prefix := []byte(itemOwnerPrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	copy(buf[offset:], owner[:])
	return buf
}

// makeItemFingerprintKey generates a key for the per-owner fingerprint
// index. Format: prefix:owner:fingerprint
func makeItemFingerprintKey(owner uuid.UUID, fingerprint core.ID) []byte {
	prefix := []byte(itemFingerPrefix + ":")
	buf := make([]byte, len(prefix)+16+8)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], owner[:])
	binary.BigEndian.PutUint64(buf[offset:], uint64(fingerprint))
	return buf
}

// makeExtractionKey generates a composite key for an extraction record.
// Format: prefix:itemID:recordID
func makeExtractionKey(itemId, recordId core.ID) []byte {
	prefix := []byte(extractionPrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(itemId))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(recordId))
	return buf
}

// makePartialExtractionKey generates the iteration prefix for one item's
// extraction records.
func makePartialExtractionKey(itemId core.ID) []byte {
	prefix := []byte(extractionPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(itemId))
	return buf
}

// makeEmbeddingKey generates a composite key for an embedding record.
// Format: prefix:itemID:chunkIndex
func makeEmbeddingKey(itemId core.ID, chunkIndex int) []byte {
	prefix := []byte(embeddingPrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(itemId))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkIndex))
	return buf
}

// makePartialEmbeddingKey generates the iteration prefix for one item's
// embedding records.
func makePartialEmbeddingKey(itemId core.ID) []byte {
	prefix := []byte(embeddingPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(itemId))
	return buf
}

// makeTagKey generates a key for a tag by ID.
func makeTagKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", tagPrefix, id))
}

// makeItemTagKey generates a composite key for the item-to-tag link.
// Format: prefix:itemID:tagID
func makeItemTagKey(itemId, tagId core.ID) []byte {
	prefix := []byte(itemTagPrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(itemId))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(tagId))
	return buf
}

// makePartialItemTagKey generates the iteration prefix for one item's
// tag links.
func makePartialItemTagKey(itemId core.ID) []byte {
	prefix := []byte(itemTagPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(itemId))
	return buf
}

// makeTagItemKey generates a composite key for the tag-to-item link.
// Format: prefix:tagID:itemID
func makeTagItemKey(tagId, itemId core.ID) []byte {
	prefix := []byte(tagItemPrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(tagId))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(itemId))
	return buf
}

// makePartialTagItemKey generates the iteration prefix for one tag's
// item links.
func makePartialTagItemKey(tagId core.ID) []byte {
	prefix := []byte(tagItemPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(tagId))
	return buf
}

// idBytes encodes an ID in BigEndian for index values.
func idBytes(id core.ID) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

// idFromBytes decodes a BigEndian index value back to an ID.
func idFromBytes(data []byte) core.ID {
	if len(data) != 8 {
		return 0
	}
	return core.ID(binary.BigEndian.Uint64(data))
}
