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

// Package extraction turns raw content sources into plain text.
//
// A Dispatcher holds one strategy per content kind: PDF text extraction
// for documents, vision description with OCR fallback for images,
// transcription for audio/video, UTF-8 decoding for plain text, HTML
// reduction for web pages, and caption-track retrieval for video links.
// Strategies that depend on an unconfigured AI capability produce empty
// results so a partially configured system keeps working.
package extraction
