package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapselabs/synapse/ai/mock"
	"github.com/synapselabs/synapse/core"
)

func TestExtractUnknownKind(t *testing.T) {
	d, err := NewDispatcher()
	require.NoError(t, err)

	_, err = d.Extract(context.Background(), core.ContentKind("carrier-pigeon"), Source{})
	require.ErrorIs(t, err, ErrNoStrategy)
}

func TestExtractPlainText(t *testing.T) {
	d, err := NewDispatcher()
	require.NoError(t, err)

	results, err := d.Extract(context.Background(), core.KindText, Source{
		Name: "notes.txt",
		Data: []byte("  some plain notes  "),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "some plain notes", results[0].Text)
	assert.Equal(t, core.ExtractionPlainText, results[0].Kind)
	require.NotNil(t, results[0].Confidence)
	assert.Equal(t, 1.0, *results[0].Confidence)
}

func TestExtractPlainTextReplacesInvalidUTF8(t *testing.T) {
	d, err := NewDispatcher()
	require.NoError(t, err)

	results, err := d.Extract(context.Background(), core.KindText, Source{
		Data: []byte{'h', 'i', 0xff, '!'},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "hi�!", results[0].Text)
}

func TestExtractEmptyTextYieldsNoResults(t *testing.T) {
	d, err := NewDispatcher()
	require.NoError(t, err)

	results, err := d.Extract(context.Background(), core.KindText, Source{
		Data: []byte("   \n\t  "),
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestExtractImagePrefersVisionDescription(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.DescribeImageFunc = func(ctx context.Context, data []byte, name string) (string, error) {
		return "A whiteboard covered in diagrams", nil
	}
	recognizer := mock.NewMockRecognizer()

	d, err := NewDispatcher(WithGenerator(generator), WithRecognizer(recognizer))
	require.NoError(t, err)

	results, err := d.Extract(context.Background(), core.KindImage, Source{
		Name: "board.png",
		Data: []byte("fake image bytes"),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, core.ExtractionVision, results[0].Kind)
	assert.Equal(t, "A whiteboard covered in diagrams", results[0].Text)
	assert.Nil(t, results[0].Confidence)
	assert.Equal(t, 0, recognizer.CallCount())
}

func TestExtractImageFallsBackToOCR(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.DescribeImageFunc = func(ctx context.Context, data []byte, name string) (string, error) {
		return "", errors.New("vision unavailable")
	}
	recognizer := mock.NewMockRecognizer()
	recognizer.RecognizeTextFunc = func(ctx context.Context, data []byte) (string, float64, error) {
		return "MEETING AT NOON", 87.5, nil
	}

	d, err := NewDispatcher(WithGenerator(generator), WithRecognizer(recognizer))
	require.NoError(t, err)

	results, err := d.Extract(context.Background(), core.KindImage, Source{
		Name: "sign.jpg",
		Data: []byte("fake image bytes"),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, core.ExtractionOCR, results[0].Kind)
	assert.Equal(t, "MEETING AT NOON", results[0].Text)
	require.NotNil(t, results[0].Confidence)
	assert.InDelta(t, 0.875, *results[0].Confidence, 1e-9)
}

func TestExtractImageNoCapabilities(t *testing.T) {
	d, err := NewDispatcher()
	require.NoError(t, err)

	results, err := d.Extract(context.Background(), core.KindImage, Source{
		Data: []byte("fake image bytes"),
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestExtractVideoTranscribes(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.TranscribeFunc = func(ctx context.Context, data []byte, name string) (string, error) {
		return "welcome to the talk", nil
	}

	d, err := NewDispatcher(WithGenerator(generator))
	require.NoError(t, err)

	results, err := d.Extract(context.Background(), core.KindVideo, Source{
		Name: "talk.mp4",
		Data: []byte("fake video bytes"),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.ExtractionTranscript, results[0].Kind)
	assert.Equal(t, "welcome to the talk", results[0].Text)
}

func TestExtractVideoCapabilityUnavailable(t *testing.T) {
	d, err := NewDispatcher()
	require.NoError(t, err)

	results, err := d.Extract(context.Background(), core.KindVideo, Source{
		Data: []byte("fake video bytes"),
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}
