package extraction

import (
	"context"
	"strings"

	"github.com/synapselabs/synapse/core"
)

// extractText decodes a plain text upload as UTF-8, replacing invalid
// sequences with the replacement rune.
func (d *Dispatcher) extractText(ctx context.Context, src Source) ([]Result, error) {
	text := strings.ToValidUTF8(string(src.Data), "�")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	return []Result{{
		Text:       capText(text),
		Kind:       core.ExtractionPlainText,
		Confidence: confidenceOf(1.0),
	}}, nil
}
