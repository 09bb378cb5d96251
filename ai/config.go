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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// APIKey authenticates against hosted services (Gemini).
	// Unused by local OpenAI-compatible services.
	APIKey string

	// Host is the base URL for OpenAI-compatible service APIs.
	// Example: "http://localhost:11434/v1" for a local server.
	Host string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "gemini-embedding-001", "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// GenerativeModel is the model identifier to use for summaries, tags,
	// vision descriptions, and transcripts.
	// Example: "gemini-2.0-flash", "qwen2.5:3b", "gpt-4o-mini"
	GenerativeModel string

	// SummaryInputLimit caps how many characters of extracted text are sent
	// to the generative model for summary/tag requests.
	// Default: 12000
	SummaryInputLimit int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAPIKey sets the hosted-service API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithHost sets the OpenAI-compatible service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithGenerativeModel sets the generative model identifier.
func WithGenerativeModel(model string) ConfigOption {
	return func(c *Config) {
		c.GenerativeModel = model
	}
}

// WithSummaryInputLimit sets the character cap for summary/tag model input.
func WithSummaryInputLimit(limit int) ConfigOption {
	return func(c *Config) {
		c.SummaryInputLimit = limit
	}
}

// DefaultConfig returns a Config with sensible defaults for the Gemini
// hosted service, which covers every capability including transcription.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingModel:    "gemini-embedding-001",
		GenerativeModel:   "gemini-2.0-flash",
		SummaryInputLimit: 12000,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options. This is the recommended way to create a Config.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithAPIKey(os.Getenv("GEMINI_API_KEY")),
//	    ai.WithEmbeddingModel("gemini-embedding-001"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the host if missing, which is required by most
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
	if c.SummaryInputLimit <= 0 {
		c.SummaryInputLimit = 12000
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.APIKey == "" && c.Host == "" {
		return errors.New("ai config: either APIKey or Host is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.GenerativeModel == "" {
		return errors.New("ai config: GenerativeModel is required")
	}
	return nil
}
