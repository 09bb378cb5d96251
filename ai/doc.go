// Package ai defines the external capability contracts consumed by the
// content pipeline and the search engine: text embedding, generative
// summarization/tagging/vision/transcription, and optical character
// recognition.
//
// Every capability is optional at runtime. Call sites must treat an absent
// or failing capability as a degraded mode, not a fault: summaries fall
// back to naive truncation, embeddings are skipped, OCR is only consulted
// when vision description is unavailable.
//
// Concrete providers live in subpackages:
//   - ai/genai: Google Gemini (full capability surface)
//   - ai/openai: OpenAI-compatible local services via langchaingo
//   - ai/mock: deterministic test doubles
package ai
