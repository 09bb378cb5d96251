package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/synapselabs/synapse/ai"
	"github.com/synapselabs/synapse/core"
)

// extractVideo transcribes uploaded audio or video through the generative
// capability. When the configured provider cannot transcribe, the source
// yields no text rather than failing the item.
func (d *Dispatcher) extractVideo(ctx context.Context, src Source) ([]Result, error) {
	if d.generator == nil {
		d.logger.Debug("no transcription capability configured", "file", src.Name)
		return nil, nil
	}

	transcript, err := d.generator.Transcribe(ctx, src.Data, src.Name)
	if err != nil {
		if errors.Is(err, ai.ErrCapabilityUnavailable) {
			d.logger.Debug("provider does not support transcription", "file", src.Name)
			return nil, nil
		}
		return nil, fmt.Errorf("transcribing %q: %w", src.Name, err)
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, nil
	}

	return []Result{{Text: capText(transcript), Kind: core.ExtractionTranscript}}, nil
}
