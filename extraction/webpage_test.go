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

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Test Page</title>
  <style>body { color: red; }</style>
  <script>console.log("noise");</script>
</head>
<body>
  <nav>Home | About | Contact</nav>
  <header>Site Header</header>
  <main>
    <h1>Gardening   Basics</h1>
    <p>Tomatoes need
       full sun.</p>
  </main>
  <aside>Related links</aside>
  <footer>Copyright notice</footer>
</body>
</html>`

func TestExtractWebpageStripsChrome(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	d, err := NewDispatcher(WithHTTPClient(server.Client()))
	require.NoError(t, err)

	results, err := d.Extract(context.Background(), core.KindWebpage, Source{URL: server.URL})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, core.ExtractionWebText, results[0].Kind)
	assert.Equal(t, "Test Page Gardening Basics Tomatoes need full sun.", results[0].Text)
}

func TestExtractWebpageFollowsRedirects(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, server.URL+"/new", http.StatusMovedPermanently)
			return
		}
		w.Write([]byte("<html><body><p>moved content</p></body></html>"))
	}))
	defer server.Close()

	d, err := NewDispatcher(WithHTTPClient(server.Client()))
	require.NoError(t, err)

	results, err := d.Extract(context.Background(), core.KindWebpage, Source{URL: server.URL + "/old"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "moved content", results[0].Text)
}

func TestExtractWebpageErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	d, err := NewDispatcher(WithHTTPClient(server.Client()))
	require.NoError(t, err)

	_, err = d.Extract(context.Background(), core.KindWebpage, Source{URL: server.URL})
	require.Error(t, err)
}

func TestExtractWebpageRejectsBadURLs(t *testing.T) {
	d, err := NewDispatcher()
	require.NoError(t, err)

	for _, raw := range []string{
		"ftp://example.com/file",
		"not a url",
		"file:///etc/passwd",
		"",
	} {
		_, err := d.Extract(context.Background(), core.KindWebpage, Source{URL: raw})
		assert.ErrorIs(t, err, ErrInvalidURL, "url %q", raw)
	}
}
