// Package openai provides AI service implementations using OpenAI-compatible APIs.
//
// This package implements the ai.Provider interface using the langchaingo
// library to communicate with OpenAI or OpenAI-compatible services (such as
// Ollama, LocalAI, or vLLM). Audio/video transcription is not available
// through this provider; Transcribe reports ai.ErrCapabilityUnavailable and
// callers are expected to degrade gracefully.
//
// # Usage
//
//	config := ai.DefaultConfig()
//	config.Host = "http://localhost:11434" // /v1 added automatically
//	config.EmbeddingModel = "embeddinggemma"
//	config.GenerativeModel = "qwen2.5:3b"
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "sample text")
//	summary, err := provider.Generator().Summarize(ctx, text, title)
package openai
