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

package ingestion

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/synapselabs/synapse/core"
)

const (
	// DefaultChunkSize is the target chunk length in characters,
	// a rough proxy for token count.
	DefaultChunkSize = 512

	// DefaultChunkOverlap carries trailing context into the next chunk.
	DefaultChunkOverlap = 100

	// MinChunkSize is the smallest chunk worth embedding on its own.
	MinChunkSize = 100
)

var (
	// sentenceBoundary matches end-of-sentence punctuation followed by
	// whitespace and a capital letter. The submatch delimits the
	// whitespace so boundaries can be computed without lookarounds.
	sentenceBoundary = regexp.MustCompile(`[.!?](\s+)[A-Z]`)

	paragraphBoundary = regexp.MustCompile(`\n\n+`)
)

// ChunkText splits text into overlapping chunks sized for embedding.
// When preserveParagraphs is set, paragraphs are accumulated greedily and
// oversized paragraphs are re-split on sentence boundaries; otherwise a
// plain sliding window is used, snapping each cut to a nearby sentence
// boundary when one falls within 100 characters.
//
// StartChar/EndChar locate each chunk at its first occurrence in the
// trimmed source text.
func ChunkText(text string, chunkSize, overlap int, preserveParagraphs bool) []core.Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}

	if preserveParagraphs {
		return chunkByParagraphs(text, chunkSize, overlap)
	}
	return chunkBySlidingWindow(text, chunkSize, overlap)
}

func chunkByParagraphs(text string, chunkSize, overlap int) []core.Chunk {
	var paragraphs []string
	for _, para := range paragraphBoundary.Split(text, -1) {
		if para = strings.TrimSpace(para); para != "" {
			paragraphs = append(paragraphs, para)
		}
	}

	var chunks []core.Chunk
	current := ""

	appendChunk := func(chunkText string) {
		start := strings.Index(text, chunkText)
		chunks = append(chunks, core.Chunk{
			Index:     len(chunks),
			Text:      strings.TrimSpace(chunkText),
			StartChar: start,
			EndChar:   start + len(chunkText),
		})
	}

	for _, para := range paragraphs {
		if len(para) > chunkSize {
			// Flush whatever accumulated, then split the oversized
			// paragraph on sentence boundaries.
			if strings.TrimSpace(current) != "" {
				appendChunk(current)
				current = ""
			}

			sentChunk := ""
			for _, sent := range splitSentences(para) {
				candidate := sent
				if sentChunk != "" {
					candidate = sentChunk + " " + sent
				}
				if len(candidate) <= chunkSize {
					sentChunk = candidate
					continue
				}
				if sentChunk != "" {
					appendChunk(sentChunk)
					sentChunk = tailChars(sentChunk, overlap) + " " + sent
				} else {
					sentChunk = sent
				}
			}
			if strings.TrimSpace(sentChunk) != "" {
				appendChunk(sentChunk)
			}
			continue
		}

		candidate := para
		if current != "" {
			candidate = current + "\n\n" + para
		}
		if len(candidate) <= chunkSize {
			current = candidate
			continue
		}
		if strings.TrimSpace(current) != "" {
			appendChunk(current)
			current = tailChars(current, overlap) + "\n\n" + para
		} else {
			current = para
		}
	}

	if strings.TrimSpace(current) != "" {
		appendChunk(current)
	}

	return chunks
}

func chunkBySlidingWindow(text string, chunkSize, overlap int) []core.Chunk {
	var chunks []core.Chunk
	pos := 0

	for pos < len(text) {
		end := pos + chunkSize
		if end > len(text) {
			end = len(text)
		}

		// Snap the cut to a sentence boundary within the next 100 chars.
		if end < len(text) {
			searchEnd := end + 100
			if searchEnd > len(text) {
				searchEnd = len(text)
			}
			if loc := sentenceBoundary.FindStringSubmatchIndex(text[end:searchEnd]); loc != nil {
				// End just before the capital that opens the next sentence.
				end += loc[3]
			}
		}

		chunkText := strings.TrimSpace(text[pos:end])
		if chunkText != "" {
			chunks = append(chunks, core.Chunk{
				Index:     len(chunks),
				Text:      chunkText,
				StartChar: pos,
				EndChar:   end,
			})
		}

		if end >= len(text) {
			break
		}
		next := end - overlap
		if next <= pos {
			break
		}
		pos = next
	}

	return chunks
}

// splitSentences splits a paragraph on sentence boundaries, trimming
// each sentence and dropping empties.
func splitSentences(para string) []string {
	locs := sentenceBoundary.FindAllStringSubmatchIndex(para, -1)

	var sentences []string
	start := 0
	for _, loc := range locs {
		// loc[2]:loc[3] is the whitespace run between sentences.
		if sent := strings.TrimSpace(para[start:loc[2]]); sent != "" {
			sentences = append(sentences, sent)
		}
		start = loc[3]
	}
	if sent := strings.TrimSpace(para[start:]); sent != "" {
		sentences = append(sentences, sent)
	}
	return sentences
}

// tailChars returns the last n bytes of s without splitting a rune.
func tailChars(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	cut := len(s) - n
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return s[cut:]
}

// MergeSmallChunks fuses chunks shorter than minSize into their right
// neighbor and renumbers the result. A trailing small chunk is kept
// as-is.
func MergeSmallChunks(chunks []core.Chunk, minSize int) []core.Chunk {
	if len(chunks) == 0 {
		return nil
	}
	if minSize <= 0 {
		minSize = MinChunkSize
	}

	var merged []core.Chunk
	for i := 0; i < len(chunks); i++ {
		chunk := chunks[i]
		if len(chunk.Text) < minSize && i < len(chunks)-1 {
			next := chunks[i+1]
			merged = append(merged, core.Chunk{
				Index:     len(merged),
				Text:      chunk.Text + " " + next.Text,
				StartChar: chunk.StartChar,
				EndChar:   next.EndChar,
			})
			i++
			continue
		}
		chunk.Index = len(merged)
		merged = append(merged, chunk)
	}
	return merged
}
