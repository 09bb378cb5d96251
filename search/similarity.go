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

package search

import (
	"math"
	"sort"

	"github.com/synapselabs/synapse/core"
)

const (
	// SemanticThreshold is the minimum similarity for semantic search hits.
	SemanticThreshold = 0.5

	// RelatedThreshold is the minimum similarity for related-item queries.
	RelatedThreshold = 0.4
)

// Candidate is one chunk vector considered during similarity ranking.
type Candidate struct {
	ItemId     core.ID
	ChunkIndex int
	Text       string
	Vector     []float32
}

// Match is a candidate that survived thresholding, with its score.
type Match struct {
	Candidate  Candidate
	Similarity float64
}

// CosineSimilarity computes the cosine of two vectors rescaled from
// [-1, 1] to [0, 1]. Mismatched lengths, empty vectors, or a zero
// magnitude on either side yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	scaled := (cos + 1) / 2

	// Guard against floating point drift outside [0, 1].
	if scaled < 0 {
		return 0
	}
	if scaled > 1 {
		return 1
	}
	return scaled
}

// FindSimilar scores every candidate against the query vector, discards
// scores below threshold, and returns the top topK matches ordered by
// similarity descending. Ties preserve candidate input order.
func FindSimilar(query []float32, candidates []Candidate, topK int, threshold float64) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		similarity := CosineSimilarity(query, candidate.Vector)
		if similarity < threshold {
			continue
		}
		matches = append(matches, Match{Candidate: candidate, Similarity: similarity})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// Centroid computes the per-dimension arithmetic mean of vectors.
// Vectors whose length differs from the first are skipped; an empty or
// all-mismatched input yields nil.
func Centroid(vectors [][]float32) []float32 {
	var centroid []float64
	var dim, count int

	for _, vector := range vectors {
		if len(vector) == 0 {
			continue
		}
		if centroid == nil {
			dim = len(vector)
			centroid = make([]float64, dim)
		}
		if len(vector) != dim {
			continue
		}
		for i, v := range vector {
			centroid[i] += float64(v)
		}
		count++
	}
	if count == 0 {
		return nil
	}

	result := make([]float32, dim)
	for i, sum := range centroid {
		result[i] = float32(sum / float64(count))
	}
	return result
}
