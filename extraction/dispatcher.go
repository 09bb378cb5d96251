// Copyright 2025 Synapse Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/synapselabs/synapse/ai"
	"github.com/synapselabs/synapse/core"
)

// fetchTimeout bounds webpage and caption retrieval.
const fetchTimeout = 30 * time.Second

// Source is one raw input to extract text from: uploaded bytes or a URL.
type Source struct {
	// Name is the original file name for uploads. Informational.
	Name string

	// Data holds the raw bytes for upload-backed sources.
	Data []byte

	// URL is set for webpage and youtube sources instead of Data.
	URL string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher) error

// WithGenerator supplies the generative AI service used for image
// descriptions and audio/video transcription.
func WithGenerator(generator ai.Generator) Option {
	return func(d *Dispatcher) error {
		d.generator = generator
		return nil
	}
}

// WithRecognizer supplies the OCR service used as the image fallback.
func WithRecognizer(recognizer ai.Recognizer) Option {
	return func(d *Dispatcher) error {
		d.recognizer = recognizer
		return nil
	}
}

// WithHTTPClient replaces the HTTP client used for webpage and caption
// fetches. Intended for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Dispatcher) error {
		if client == nil {
			return errors.New("http client must not be nil")
		}
		d.client = client
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		d.logger = logger
		return nil
	}
}

// Dispatcher routes content to the extraction strategy matching its kind.
// Strategies that depend on an absent AI capability degrade to empty
// results instead of failing.
type Dispatcher struct {
	generator  ai.Generator
	recognizer ai.Recognizer
	client     *http.Client
	strategies map[core.ContentKind]strategyFunc
	logger     *slog.Logger
}

type strategyFunc func(ctx context.Context, src Source) ([]Result, error)

// NewDispatcher creates a dispatcher with strategies registered for every
// content kind.
func NewDispatcher(opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		client: &http.Client{Timeout: fetchTimeout},
		logger: slog.Default().With("component", "extraction"),
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	d.strategies = map[core.ContentKind]strategyFunc{
		core.KindDocument: d.extractDocument,
		core.KindImage:    d.extractImage,
		core.KindVideo:    d.extractVideo,
		core.KindText:     d.extractText,
		core.KindWebpage:  d.extractWebpage,
		core.KindYouTube:  d.extractYouTube,
	}

	return d, nil
}

// Extract runs the strategy for kind against src. It returns zero or more
// results; an empty slice means the source yielded no usable text.
func (d *Dispatcher) Extract(ctx context.Context, kind core.ContentKind, src Source) ([]Result, error) {
	strategy, ok := d.strategies[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoStrategy, kind)
	}

	results, err := strategy(ctx, src)
	if err != nil {
		return nil, err
	}

	// Drop empty results so callers only see usable text.
	kept := results[:0]
	for _, r := range results {
		if r.Text != "" {
			kept = append(kept, r)
		}
	}
	return kept, nil
}
