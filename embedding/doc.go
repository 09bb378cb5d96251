// Package embedding layers caching and request pacing over an AI
// embedding backend.
//
// The Provider is the single path through which the rest of the system
// obtains vectors. It memoizes results by exact text, throttles uncached
// backend calls with a token bucket, and degrades gracefully: when no
// backend is configured or a call fails, the affected text simply has no
// vector and callers fall back to keyword-only behavior.
package embedding
