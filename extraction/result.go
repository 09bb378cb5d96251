package extraction

import (
	"unicode/utf8"

	"github.com/synapselabs/synapse/core"
)

// MaxTextLength caps the text carried by a single extraction result.
// Longer extractions are truncated, not rejected.
const MaxTextLength = 500_000

// Result is the outcome of one extraction strategy applied to one source.
type Result struct {
	// Text is the extracted plain text, capped at MaxTextLength.
	Text string

	// Kind identifies the strategy that produced the text.
	Kind core.ExtractionKind

	// Confidence is the strategy's own quality estimate in [0, 1],
	// or nil when the strategy has no notion of confidence.
	Confidence *float64
}

// capText truncates s to at most MaxTextLength bytes without splitting
// a UTF-8 sequence.
func capText(s string) string {
	if len(s) <= MaxTextLength {
		return s
	}
	cut := MaxTextLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// confidenceOf returns a pointer to v for use as a Result confidence.
func confidenceOf(v float64) *float64 {
	return &v
}
