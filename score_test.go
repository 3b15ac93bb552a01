package basin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() Settings {
	return NormalizeSettings(nil)
}

func TestRankChunksPositivity(t *testing.T) {
	candidates := []Chunk{
		{ChunkID: "a", DocID: "d1", Content: "windstorm deductible schedule"},
		{ChunkID: "b", DocID: "d1", Content: "totally unrelated text"},
		{ChunkID: "c", DocID: "d2", Content: ""},
	}

	matches := RankChunks("windstorm deductible", candidates, testSettings())
	require.Len(t, matches, 1)
	for _, m := range matches {
		assert.Greater(t, m.Score, 0.0)
	}
	assert.Equal(t, "a", matches[0].ChunkID)
}

func TestRankChunksQuotedPhraseBonus(t *testing.T) {
	withPhrase := Chunk{ChunkID: "a", DocID: "d1", Content: "Coverage applies only to a named peril listed in the policy."}
	withoutPhrase := Chunk{ChunkID: "b", DocID: "d2", Content: "Coverage named in the peril schedule."}

	matches := RankChunks(`Is wind a "named peril" here?`, []Chunk{withPhrase, withoutPhrase}, testSettings())
	require.Len(t, matches, 2)
	require.Equal(t, "a", matches[0].ChunkID)

	// The phrase hit is worth the phrase weight on top of the shared term
	// overlap, so the gap must be at least that weight.
	gap := matches[0].Score - matches[1].Score
	assert.GreaterOrEqual(t, gap, DefaultScoreWeights().ExactPhrase-DefaultScoreWeights().ShortTerm)
}

func TestRankChunksWholeQuestionBonus(t *testing.T) {
	question := "recoverable depreciation"
	exact := Chunk{ChunkID: "a", DocID: "d1", Content: "The recoverable depreciation is released on completion."}
	partial := Chunk{ChunkID: "b", DocID: "d2", Content: "Depreciation applies. Recovery is separate."}

	matches := RankChunks(question, []Chunk{exact, partial}, testSettings())
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].ChunkID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestRankChunksFieldWeights(t *testing.T) {
	w := DefaultScoreWeights()

	t.Run("title hit adds weight", func(t *testing.T) {
		inTitle := Chunk{ChunkID: "a", DocID: "d1", DocTitle: "Roof Damage Report", Content: "roof decking"}
		plain := Chunk{ChunkID: "b", DocID: "d2", Content: "roof decking"}

		matches := RankChunks("roof", []Chunk{plain, inTitle}, testSettings())
		require.Len(t, matches, 2)
		assert.Equal(t, "a", matches[0].ChunkID)
		assert.InDelta(t, w.TitleTerm, matches[0].Score-matches[1].Score, 1e-9)
	})

	t.Run("category and tag hits add weight", func(t *testing.T) {
		tagged := Chunk{ChunkID: "a", DocID: "d1", Content: "shingle damage", Category: "roofing",
			Metadata: map[string]any{"tags": []any{"Roofing", "exterior"}}}

		matches := RankChunks("roofing", []Chunk{tagged}, testSettings())
		require.Len(t, matches, 1)
		// category + tag, no content hit for "roofing".
		assert.InDelta(t, w.CategoryTerm+w.TagTerm, matches[0].Score, 1e-9)
	})

	t.Run("malformed tags metadata is ignored", func(t *testing.T) {
		bad := Chunk{ChunkID: "a", DocID: "d1", Content: "roof decking",
			Metadata: map[string]any{"tags": "not-a-list"}}

		matches := RankChunks("roof", []Chunk{bad}, testSettings())
		require.Len(t, matches, 1)
		assert.InDelta(t, w.ShortTerm, matches[0].Score, 1e-9)
	})
}

func TestRankChunksStableTies(t *testing.T) {
	candidates := []Chunk{
		{ChunkID: "first", DocID: "d1", Content: "hail damage"},
		{ChunkID: "second", DocID: "d2", Content: "hail damage"},
		{ChunkID: "third", DocID: "d3", Content: "hail damage"},
	}

	matches := RankChunks("hail", candidates, testSettings())
	require.Len(t, matches, 3)
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{matches[0].ChunkID, matches[1].ChunkID, matches[2].ChunkID})
}

func TestRankChunksCustomWeights(t *testing.T) {
	w := ScoreWeights{ShortTerm: 10}
	matches := RankChunksWithWeights("hail", []Chunk{{ChunkID: "a", DocID: "d1", Content: "hail"}}, testSettings(), w)
	require.Len(t, matches, 1)
	assert.InDelta(t, 10.0, matches[0].Score, 1e-9)
}
