package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjusterhq/basin"
)

func TestSplitterSplitText(t *testing.T) {
	t.Run("Short text stays whole", func(t *testing.T) {
		s := NewSplitter(100, 0)
		chunks := s.SplitText("hurricane deductible")
		require.Len(t, chunks, 1)
		assert.Equal(t, "hurricane deductible", chunks[0])
	})

	t.Run("Empty text yields nothing", func(t *testing.T) {
		s := NewSplitter(100, 0)
		assert.Empty(t, s.SplitText("   "))
	})

	t.Run("Breaks at paragraph boundary", func(t *testing.T) {
		s := NewSplitter(30, 0)
		text := "First paragraph here.\n\nSecond paragraph follows it."
		chunks := s.SplitText(text)
		require.Len(t, chunks, 2)
		assert.Equal(t, "First paragraph here.", chunks[0])
		assert.Equal(t, "Second paragraph follows it.", chunks[1])
	})

	t.Run("Every chunk within size bound", func(t *testing.T) {
		s := NewSplitter(50, 10)
		text := strings.Repeat("coverage terms and exclusions. ", 20)
		for _, c := range s.SplitText(text) {
			assert.LessOrEqual(t, len(c), 50)
		}
	})
}

func TestSplitIntoChunks(t *testing.T) {
	s := NewSplitter(30, 0)
	doc := basin.DocumentMeta{ID: "d1", Title: "Policy Basics", Category: "policy"}
	text := "First paragraph here.\n\nSecond paragraph follows it."

	chunks := s.SplitIntoChunks(doc, text, map[string]any{"source": "upload"})
	require.Len(t, chunks, 2)

	for i, c := range chunks {
		assert.NotEmpty(t, c.ChunkID)
		assert.Equal(t, "d1", c.DocID)
		assert.Equal(t, "Policy Basics", c.DocTitle)
		assert.Equal(t, "policy", c.Category)
		assert.Equal(t, i, c.Metadata["chunk_index"])
		assert.Equal(t, 2, c.Metadata["chunk_total"])
		assert.Equal(t, "upload", c.Metadata["source"])
	}
	assert.NotEqual(t, chunks[0].ChunkID, chunks[1].ChunkID)
}
