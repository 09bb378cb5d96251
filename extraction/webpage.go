package extraction

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/synapselabs/synapse/core"
)

// skippedTags are HTML elements whose text never belongs in extracted
// page content.
var skippedTags = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"header": true,
	"footer": true,
	"aside":  true,
}

// extractWebpage fetches an http(s) URL and reduces the page to visible
// text with whitespace collapsed.
func (d *Dispatcher) extractWebpage(ctx context.Context, src Source) ([]Result, error) {
	if err := validateWebURL(src.URL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, src.URL)
	}
	req.Header.Set("User-Agent", "synapse/1.0")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", src.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %q: status %d", src.URL, resp.StatusCode)
	}

	text, err := visibleText(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", src.URL, err)
	}
	if text == "" {
		d.logger.Debug("page contained no visible text", "url", src.URL)
		return nil, nil
	}

	return []Result{{Text: capText(text), Kind: core.ExtractionWebText}}, nil
}

// validateWebURL accepts only well-formed absolute http(s) URLs.
func validateWebURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return nil
}

// visibleText tokenizes HTML and joins the text content of visible
// elements with single spaces, dropping the content of skippedTags
// subtrees entirely.
func visibleText(r io.Reader) (string, error) {
	tokenizer := html.NewTokenizer(r)
	var parts []string
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != io.EOF {
				return "", err
			}
			return strings.Join(parts, " "), nil

		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if skippedTags[string(name)] {
				skipDepth++
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if skippedTags[string(name)] && skipDepth > 0 {
				skipDepth--
			}

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			parts = append(parts, strings.Fields(string(tokenizer.Text()))...)
		}
	}
}
