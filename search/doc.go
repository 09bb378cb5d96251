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


// Package search ranks stored content items for one owner.
//
// The Searcher type offers three entry points:
//   - Semantic search over chunk embeddings with cosine similarity
//   - Keyword search over title, summary, and extracted text
//   - Hybrid search fusing both signals with normalized weights
//
// Related retrieval reuses the semantic path, querying with the
// centroid of a reference item's chunk vectors.
package search
