package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapselabs/synapse/ai/mock"
)

func TestEmbedCachesRepeatedText(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	provider := NewProvider(embedder, "test-model")
	ctx := context.Background()

	first, err := provider.Embed(ctx, "hello world")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := provider.Embed(ctx, "hello world")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, embedder.CallCount())
	assert.Equal(t, 1, provider.Cache().Len())
}

func TestEmbedNilBackend(t *testing.T) {
	provider := NewProvider(nil, "")
	ctx := context.Background()

	vector, err := provider.Embed(ctx, "anything")
	require.NoError(t, err)
	assert.Nil(t, vector)
	assert.False(t, provider.Available())
	assert.Empty(t, provider.ModelName())
}

func TestEmbedEmptyText(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	provider := NewProvider(embedder, "test-model")
	ctx := context.Background()

	for _, text := range []string{"", "   ", "\n\t"} {
		vector, err := provider.Embed(ctx, text)
		require.NoError(t, err)
		assert.Nil(t, vector)
	}
	assert.Equal(t, 0, embedder.CallCount())
}

func TestEmbedBackendFailureReturnsNil(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("backend down")
	}
	provider := NewProvider(embedder, "test-model")

	vector, err := provider.Embed(context.Background(), "some text")
	require.NoError(t, err)
	assert.Nil(t, vector)
	assert.Equal(t, 0, provider.Cache().Len())
}

func TestEmbedContextCancellation(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	provider := NewProvider(embedder, "test-model")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.Embed(ctx, "some text")
	require.Error(t, err)
}

func TestEmbedBatchPreservesOrder(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	provider := NewProvider(embedder, "test-model")
	ctx := context.Background()

	texts := []string{"alpha", "", "gamma"}
	vectors, err := provider.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	assert.NotNil(t, vectors[0])
	assert.Nil(t, vectors[1])
	assert.NotNil(t, vectors[2])

	direct, err := provider.Embed(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, direct, vectors[0])
}

func TestCacheClear(t *testing.T) {
	cache := NewCache()
	cache.Put("a", []float32{1, 2})
	cache.Put("b", []float32{3, 4})
	cache.Put("nil entry", nil)
	require.Equal(t, 2, cache.Len())

	assert.Equal(t, []float32{1, 2}, cache.Get("a"))
	assert.Nil(t, cache.Get("missing"))

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
	assert.Nil(t, cache.Get("a"))
}
