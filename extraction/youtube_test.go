package extraction

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapselabs/synapse/core"
)

func TestYouTubeVideoID(t *testing.T) {
	tests := []struct {
		url  string
		id   string
		want bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=short", "", false},
		{"https://example.com/watch?v=dQw4w9WgXcQ", "", false},
		{"https://vimeo.com/123456", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		id, ok := YouTubeVideoID(tt.url)
		assert.Equal(t, tt.want, ok, "url %q", tt.url)
		assert.Equal(t, tt.id, id, "url %q", tt.url)
	}
}

func TestExtractYouTubeJoinsSegments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dQw4w9WgXcQ", r.URL.Query().Get("v"))
		w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.0" dur="2.5">never gonna</text>
  <text start="2.5" dur="2.5">give you up</text>
  <text start="5.0" dur="2.5">it&amp;#39;s a promise</text>
</transcript>`))
	}))
	defer server.Close()

	orig := captionEndpoint
	captionEndpoint = server.URL
	defer func() { captionEndpoint = orig }()

	d, err := NewDispatcher(WithHTTPClient(server.Client()))
	require.NoError(t, err)

	results, err := d.Extract(context.Background(), core.KindYouTube, Source{
		URL: "https://youtu.be/dQw4w9WgXcQ",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, core.ExtractionYouTube, results[0].Kind)
	assert.Equal(t, "never gonna give you up it's a promise", results[0].Text)
}

func TestExtractYouTubeNoCaptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Empty body, the endpoint's shape for caption-less videos.
	}))
	defer server.Close()

	orig := captionEndpoint
	captionEndpoint = server.URL
	defer func() { captionEndpoint = orig }()

	d, err := NewDispatcher(WithHTTPClient(server.Client()))
	require.NoError(t, err)

	_, err = d.Extract(context.Background(), core.KindYouTube, Source{
		URL: "https://youtu.be/dQw4w9WgXcQ",
	})
	require.ErrorIs(t, err, ErrNoCaptions)
}

func TestExtractYouTubeRejectsNonVideoURL(t *testing.T) {
	d, err := NewDispatcher()
	require.NoError(t, err)

	_, err = d.Extract(context.Background(), core.KindYouTube, Source{
		URL: "https://example.com/article",
	})
	require.ErrorIs(t, err, ErrInvalidURL)
}

func TestDetectURLKind(t *testing.T) {
	assert.Equal(t, core.KindYouTube, DetectURLKind("https://youtu.be/dQw4w9WgXcQ"))
	assert.Equal(t, core.KindWebpage, DetectURLKind("https://example.com/article"))
}

func TestDetectKind(t *testing.T) {
	assert.Equal(t, core.KindDocument, DetectKind([]byte("%PDF-1.4 fake")))
	assert.Equal(t, core.KindImage, DetectKind([]byte("\x89PNG\r\n\x1a\n rest")))
	assert.Equal(t, core.KindText, DetectKind([]byte("just some words")))
}
