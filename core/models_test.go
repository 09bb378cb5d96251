package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("the same text")
		id2 := IDFromContent("the same text")
		assert.Equal(t, id1, id2)
	})

	t.Run("different content different id", func(t *testing.T) {
		id1 := IDFromContent("one text")
		id2 := IDFromContent("another text")
		assert.NotEqual(t, id1, id2)
	})

	t.Run("empty content", func(t *testing.T) {
		id := IDFromContent("")
		assert.NotZero(t, id)
	})
}

func TestParseContentKind(t *testing.T) {
	for _, kind := range ContentKinds {
		parsed, err := ParseContentKind(string(kind))
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := ParseContentKind("carrier-pigeon")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = ParseContentKind("")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestContentKindValid(t *testing.T) {
	assert.True(t, KindWebpage.Valid())
	assert.False(t, ContentKind("hologram").Valid())
}
