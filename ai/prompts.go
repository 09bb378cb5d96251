package ai

import (
	"strings"
	"unicode/utf8"
)

// MaxTags caps how many topic labels a generator may return.
const MaxTags = 8

const summaryPromptHeader = "Summarize the following content in 2-4 concise sentences. " +
	"Preserve key facts and ideas.\n\n"

const tagsPromptHeader = "From the following content, suggest 3-8 short topic tags " +
	"(lowercase, comma-separated, no spaces inside a tag, e.g. machine-learning, productivity). " +
	"Only output the tags, nothing else.\n\n"

// ImageDescriptionPrompt asks a vision model to describe an image.
const ImageDescriptionPrompt = "Describe this image in detail. Include: " +
	"what it shows (objects, people, scenery, context), " +
	"any visible text, and the overall meaning or purpose. " +
	"Be concise but thorough (2-5 sentences)."

// TranscriptionPrompt asks a multimodal model for a raw transcript.
const TranscriptionPrompt = "Transcribe this audio or video. " +
	"Output only the raw transcript text, nothing else."

// SummaryPrompt builds the summary request for a generative model.
// The text is truncated to limit characters with a truncation marker.
func SummaryPrompt(text, title string, limit int) string {
	return contentPrompt(summaryPromptHeader, text, title, limit)
}

// TagsPrompt builds the topic-label request for a generative model.
func TagsPrompt(text, title string, limit int) string {
	return contentPrompt(tagsPromptHeader, text, title, limit)
}

func contentPrompt(header, text, title string, limit int) string {
	var b strings.Builder
	b.WriteString(header)
	if title != "" {
		b.WriteString("Title: ")
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	b.WriteString("Content:\n")
	b.WriteString(TruncateForModel(text, limit))
	return b.String()
}

// TruncateForModel caps model input at limit characters, appending a
// truncation marker when anything was cut.
func TruncateForModel(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "\n\n[Truncated...]"
}

// ParseTagList parses a comma-separated model response into normalized
// topic labels: trimmed, lower-cased, spaces replaced with hyphens,
// capped at MaxTags.
func ParseTagList(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		tag = strings.ReplaceAll(strings.ToLower(tag), " ", "-")
		tags = append(tags, tag)
		if len(tags) == MaxTags {
			break
		}
	}
	return tags
}
