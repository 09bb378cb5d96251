package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapselabs/synapse/core"
)

func TestEmbeddingVectorEncodesAsFloatArray(t *testing.T) {
	record := &core.EmbeddingRecord{
		ItemId:     7,
		ChunkIndex: 2,
		ChunkText:  "some chunk",
		Vector:     []float32{0.25, -0.5, 1},
		Model:      "gemini-embedding-001",
		CreatedAt:  time.Now().UTC(),
	}

	data, err := MarshalEmbedding(record)
	require.NoError(t, err)
	assert.Contains(t, string(data), `[0.25,-0.5,1]`)

	decoded, err := UnmarshalEmbedding(data)
	require.NoError(t, err)
	assert.Equal(t, record.Vector, decoded.Vector)
	assert.Equal(t, record.ChunkIndex, decoded.ChunkIndex)
}

func TestItemRoundTrip(t *testing.T) {
	confidence := 0.9
	item := &core.ContentItem{
		Id:            42,
		Owner:         uuid.New(),
		Kind:          core.KindWebpage,
		Title:         "A page",
		Summary:       "About a page",
		ExtractedText: "The page text",
		SourceURL:     "https://example.com",
		Fingerprint:   core.IDFromContent("https://example.com"),
		Status:        core.StatusReady,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
		UpdatedAt:     time.Now().UTC().Truncate(time.Second),
	}

	data, err := MarshalItem(item)
	require.NoError(t, err)

	decoded, err := UnmarshalItem(data)
	require.NoError(t, err)
	assert.Equal(t, item, decoded)

	record := &core.ExtractionRecord{
		Id: 1, ItemId: 42, Kind: core.ExtractionWebText,
		Content: "The page text", Confidence: &confidence,
	}
	rdata, err := MarshalExtraction(record)
	require.NoError(t, err)
	rdecoded, err := UnmarshalExtraction(rdata)
	require.NoError(t, err)
	assert.Equal(t, record, rdecoded)
}

func TestUnmarshalCorruptData(t *testing.T) {
	_, err := UnmarshalItem([]byte("{not json"))
	require.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalEmbedding([]byte("nope"))
	require.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalTag([]byte{0x01})
	require.ErrorIs(t, err, ErrSerializationFailed)
}
