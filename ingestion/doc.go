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

// Package ingestion contains the content processing pipeline and the
// text chunker that prepares extracted text for embedding.
//
// A submitted item moves processing → ready, or → failed on any
// unhandled error. Each run extracts text from the item's sources,
// persists per-source extraction records, combines them, generates a
// summary and tags (with a mandatory naive fallback), chunks and embeds
// the combined text, and finally links tags. Runs execute on a bounded
// worker pool so submission returns immediately.
package ingestion
