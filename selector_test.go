package basin

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeMatches(docID string, n int, startScore float64) []Match {
	matches := make([]Match, n)
	for i := 0; i < n; i++ {
		matches[i] = Match{
			Chunk: Chunk{ChunkID: fmt.Sprintf("%s-c%d", docID, i), DocID: docID},
			Score: startScore - float64(i),
		}
	}
	return matches
}

func TestSelectTopMatchesHardCap(t *testing.T) {
	// 5 chunks from one doc, perDocCap 1: exactly the single best survives.
	in := &SettingsInput{Pool: intPtr(500), TopK: intPtr(3), PerDocCap: intPtr(1)}
	s := NormalizeSettings(in)

	scored := makeMatches("doc-1", 5, 50)
	selected := SelectTopMatches(scored, s)

	require.Len(t, selected, 1)
	assert.Equal(t, "doc-1-c0", selected[0].ChunkID)
}

func TestSelectTopMatchesBounds(t *testing.T) {
	s := NormalizeSettings(&SettingsInput{TopK: intPtr(5), PerDocCap: intPtr(2)})

	scored := MergeMatches(makeMatches("a", 10, 100), makeMatches("b", 10, 90))
	scored = MergeMatches(scored, makeMatches("c", 10, 80))

	selected := SelectTopMatches(scored, s)
	assert.LessOrEqual(t, len(selected), s.TopK)

	perDoc := make(map[string]int)
	for _, m := range selected {
		perDoc[m.DocID]++
		assert.LessOrEqual(t, perDoc[m.DocID], s.PerDocCap)
	}
}

func TestSelectTopMatchesSmallCorpusFallback(t *testing.T) {
	// Diversity capping would starve the pool on a tiny corpus; the
	// selector must fall back to the full list rather than return fewer
	// matches than the hard cap allows.
	in := &SettingsInput{TopK: intPtr(4), PerDocCap: intPtr(2), SoftPoolPerDocCap: intPtr(2)}
	s := NormalizeSettings(in)

	scored := makeMatches("only-doc", 5, 10)
	selected, relaxed := SelectTopMatchesDebug(scored, s)

	assert.True(t, relaxed)
	assert.Len(t, selected, 2) // hard cap still holds
}

func TestSelectTopMatchesEmpty(t *testing.T) {
	selected, relaxed := SelectTopMatchesDebug(nil, NormalizeSettings(nil))
	assert.Empty(t, selected)
	assert.False(t, relaxed)
}

func TestMergeMatches(t *testing.T) {
	a := []Match{
		{Chunk: Chunk{ChunkID: "c1", DocID: "d1"}, Score: 5},
		{Chunk: Chunk{ChunkID: "c2", DocID: "d1"}, Score: 3},
	}
	b := []Match{
		{Chunk: Chunk{ChunkID: "c1", DocID: "d1"}, Score: 9},
		{Chunk: Chunk{ChunkID: "c3", DocID: "d2"}, Score: 1},
	}

	t.Run("higher score wins on duplicate chunk", func(t *testing.T) {
		merged := MergeMatches(a, b)
		require.Len(t, merged, 3)
		assert.Equal(t, "c1", merged[0].ChunkID)
		assert.Equal(t, 9.0, merged[0].Score)
	})

	t.Run("sorted descending", func(t *testing.T) {
		merged := MergeMatches(a, b)
		for i := 1; i < len(merged); i++ {
			assert.GreaterOrEqual(t, merged[i-1].Score, merged[i].Score)
		}
	})

	t.Run("idempotent under empty re-merge", func(t *testing.T) {
		merged := MergeMatches(a, b)
		again := MergeMatches(merged, nil)
		assert.Equal(t, merged, again)
	})
}
