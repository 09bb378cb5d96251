package synapse

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapselabs/synapse/ai/mock"
	"github.com/synapselabs/synapse/core"
)

func TestNewDatabase(t *testing.T) {
	ctx := context.Background()

	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(ctx, tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		assert.NotNil(t, db.Store())
		assert.NotNil(t, db.Provider())
		assert.NotNil(t, db.Embedder())
		assert.NotNil(t, db.Searcher())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a database at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(ctx, tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(context.Background(), t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, db)

	err = db.Close()
	assert.NoError(t, err)
}

func TestDatabase_EndToEnd(t *testing.T) {
	ctx := context.Background()
	uploadDir := t.TempDir()
	notePath := filepath.Join(uploadDir, "garden.txt")
	require.NoError(t, os.WriteFile(notePath,
		[]byte("Tomatoes thrive in full sun. Water deeply twice a week and mulch the beds."), 0644))

	db, err := NewDatabase(ctx, t.TempDir(),
		WithProvider(mock.NewMockProvider()),
		WithUploadRoot(uploadDir),
		WithPoolSize(1),
	)
	require.NoError(t, err)
	defer db.Close()

	owner := uuid.New()
	item, err := db.Submit(ctx, &core.ContentItem{
		Owner:   owner,
		Kind:    core.KindText,
		Title:   "Garden notes",
		Uploads: []core.Upload{{Key: "garden.txt", Kind: core.KindText}},
	})
	require.NoError(t, err)
	db.Drain()

	stored, err := db.GetItem(ctx, item.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusReady, stored.Status)
	assert.NotEmpty(t, stored.ExtractedText)

	results, err := db.Search(ctx, owner, "tomatoes", SearchKeyword, nil)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, item.Id, results[0].Item.Id)

	var buf bytes.Buffer
	require.NoError(t, db.Reembed(ctx, owner, nil, &buf))
	assert.Contains(t, buf.String(), "Reembedding complete")

	require.NoError(t, db.DeleteItem(ctx, item.Id))
	_, err = db.GetItem(ctx, item.Id)
	assert.Error(t, err)
}

func TestDatabase_RecognizerFallback(t *testing.T) {
	ctx := context.Background()
	uploadDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "receipt.png"),
		[]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, 0644))

	provider := mock.NewMockProvider()
	provider.GetMockGenerator().DescribeImageFunc = func(ctx context.Context, data []byte, name string) (string, error) {
		return "", nil
	}
	recognizer := mock.NewMockRecognizer()
	recognizer.RecognizeTextFunc = func(ctx context.Context, data []byte) (string, float64, error) {
		return "Receipt total 42.00", 90.0, nil
	}

	db, err := NewDatabase(ctx, t.TempDir(),
		WithProvider(provider),
		WithRecognizer(recognizer),
		WithUploadRoot(uploadDir),
		WithPoolSize(1),
	)
	require.NoError(t, err)
	defer db.Close()

	item, err := db.Submit(ctx, &core.ContentItem{
		Owner:   uuid.New(),
		Kind:    core.KindImage,
		Title:   "Receipt",
		Uploads: []core.Upload{{Key: "receipt.png", Kind: core.KindImage}},
	})
	require.NoError(t, err)
	db.Drain()

	assert.Equal(t, 1, recognizer.CallCount())

	stored, err := db.GetItem(ctx, item.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusReady, stored.Status)
	assert.Contains(t, stored.ExtractedText, "Receipt total")

	records, err := db.Store().Extractions().GetExtractionsByItem(ctx, item.Id)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, core.ExtractionOCR, records[0].Kind)
	require.NotNil(t, records[0].Confidence)
	assert.InDelta(t, 0.9, *records[0].Confidence, 1e-9)
}

func TestDatabase_SearchModes(t *testing.T) {
	ctx := context.Background()
	db, err := NewDatabase(ctx, t.TempDir(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer db.Close()

	owner := uuid.New()
	for _, mode := range []SearchMode{SearchSemantic, SearchKeyword, SearchHybrid, ""} {
		_, err := db.Search(ctx, owner, "anything", mode, nil)
		assert.NoError(t, err, "mode %q", mode)
	}

	_, err = db.Search(ctx, owner, "anything", SearchMode("fuzzy"), nil)
	assert.Error(t, err)
}
