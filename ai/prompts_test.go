package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTagList(t *testing.T) {
	t.Run("normalizes labels", func(t *testing.T) {
		tags := ParseTagList("Machine Learning, productivity ,  KNOWLEDGE bases")
		assert.Equal(t, []string{"machine-learning", "productivity", "knowledge-bases"}, tags)
	})

	t.Run("caps at MaxTags", func(t *testing.T) {
		raw := "a,b,c,d,e,f,g,h,i,j"
		assert.Len(t, ParseTagList(raw), MaxTags)
	})

	t.Run("skips empty entries", func(t *testing.T) {
		assert.Equal(t, []string{"go"}, ParseTagList(", go,, "))
	})
}

func TestTruncateForModel(t *testing.T) {
	short := "short text"
	assert.Equal(t, short, TruncateForModel(short, 100))

	long := strings.Repeat("x", 200)
	got := TruncateForModel(long, 100)
	assert.True(t, strings.HasSuffix(got, "[Truncated...]"))
	assert.Contains(t, got, strings.Repeat("x", 100))
}

func TestSummaryPromptIncludesTitle(t *testing.T) {
	p := SummaryPrompt("some content", "My Notes", 1000)
	assert.Contains(t, p, "Title: My Notes")
	assert.Contains(t, p, "some content")

	p = SummaryPrompt("some content", "", 1000)
	assert.NotContains(t, p, "Title:")
}
