package ingestion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Fetcher retrieves the raw bytes of an uploaded source by storage key.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// FileFetcher resolves upload keys against a local directory, with
// http(s) keys fetched over the network. Keys must stay inside the root
// directory.
type FileFetcher struct {
	root   string
	client *http.Client
}

// NewFileFetcher creates a fetcher rooted at dir.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{
		root:   dir,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch reads the bytes behind key.
func (f *FileFetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return f.fetchRemote(ctx, key)
	}

	path := filepath.Join(f.root, filepath.Clean("/"+key))
	rel, err := filepath.Rel(f.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %q", ErrFetchOutsideRoot, key)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading upload %q: %w", key, err)
	}
	return data, nil
}

func (f *FileFetcher) fetchRemote(ctx context.Context, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching upload %q: %w", key, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching upload %q: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching upload %q: status %d", key, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upload %q: %w", key, err)
	}
	return data, nil
}
