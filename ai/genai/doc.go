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

// Package genai provides AI service implementations backed by the Google
// Gemini API.
//
// This package implements the ai.Provider interface using the official
// generative-ai-go client. It supports the full capability surface: text
// embeddings, summarization, tag suggestion, image description, and
// audio/video transcription via the Files API.
//
// # Usage
//
//	config := ai.DefaultConfig()
//	config.APIKey = os.Getenv("GEMINI_API_KEY")
//
//	provider, err := genai.NewProvider(ctx, config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "sample text")
//	summary, err := provider.Generator().Summarize(ctx, text, title)
package genai
