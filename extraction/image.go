package extraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/synapselabs/synapse/core"
)

// extractImage prefers a vision description of the image when a generative
// capability is configured, falling back to OCR. The extraction kind on
// the result records which path produced the text.
func (d *Dispatcher) extractImage(ctx context.Context, src Source) ([]Result, error) {
	if d.generator != nil {
		desc, err := d.generator.DescribeImage(ctx, src.Data, src.Name)
		if err == nil {
			desc = strings.TrimSpace(desc)
			if desc != "" {
				return []Result{{Text: capText(desc), Kind: core.ExtractionVision}}, nil
			}
		} else {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			d.logger.Warn("image description failed, trying OCR", "file", src.Name, "error", err)
		}
	}

	if d.recognizer == nil {
		d.logger.Debug("no image capability configured", "file", src.Name)
		return nil, nil
	}

	text, confidence, err := d.recognizer.RecognizeText(ctx, src.Data)
	if err != nil {
		return nil, fmt.Errorf("ocr for %q: %w", src.Name, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	// Recognizer confidence is mean character confidence on a 0-100 scale.
	return []Result{{
		Text:       capText(text),
		Kind:       core.ExtractionOCR,
		Confidence: confidenceOf(confidence / 100.0),
	}}, nil
}
