package extraction

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/synapselabs/synapse/core"
)

// extractDocument pulls the embedded plain text out of a PDF, page by
// page. Pages that fail to decode are skipped; a document that yields no
// text at all produces an empty result set.
func (d *Dispatcher) extractDocument(ctx context.Context, src Source) ([]Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(src.Data), int64(len(src.Data)))
	if err != nil {
		return nil, fmt.Errorf("parsing pdf %q: %w", src.Name, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			d.logger.Warn("skipping unreadable pdf page", "file", src.Name, "page", i, "error", err)
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		d.logger.Debug("pdf contained no extractable text", "file", src.Name)
		return nil, nil
	}

	return []Result{{Text: capText(text), Kind: core.ExtractionPDFText}}, nil
}
