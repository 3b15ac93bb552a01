package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjusterhq/basin"
)

func seedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()

	policy := s.AddDocument(basin.DocumentMeta{ID: "doc-policy", Title: "HO-3 Policy Form", Status: "completed", Category: "policy"})
	s.AddChunks(policy.ID,
		basin.Chunk{ChunkID: "p1", Content: "The deductible applies separately to each windstorm or hail loss."},
		basin.Chunk{ChunkID: "p2", Content: "Actual cash value means replacement cost less depreciation."},
	)

	estimate := s.AddDocument(basin.DocumentMeta{ID: "doc-estimate", Title: "Xactimate Estimate", Status: "processed", Category: "estimate"})
	s.AddChunks(estimate.ID,
		basin.Chunk{ChunkID: "e1", Content: "Roof replacement line items include overhead and profit.",
			Metadata: map[string]any{"tags": []string{"roof", "pricing"}}},
	)

	s.AddDocument(basin.DocumentMeta{ID: "doc-draft", Title: "Draft Letter", Status: "draft", Category: "correspondence"})

	return s
}

func TestStoreSearchFilters(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)
	settings := basin.NormalizeSettings(nil)

	t.Run("draft documents are excluded by status", func(t *testing.T) {
		outcome, err := s.SearchWithStats(ctx, "deductible", settings)
		require.NoError(t, err)
		assert.Equal(t, 3, outcome.Stats.DocsProcessed)
		assert.Equal(t, 2, outcome.Stats.DocsMatchingFilter)
		for _, m := range outcome.Matches {
			assert.NotEqual(t, "doc-draft", m.DocID)
		}
	})

	t.Run("category filter narrows to one document", func(t *testing.T) {
		in := &basin.SettingsInput{Categories: []string{"estimate"}}
		outcome, err := s.SearchWithStats(ctx, "overhead and profit", basin.NormalizeSettings(in))
		require.NoError(t, err)
		require.Len(t, outcome.Matches, 1)
		assert.Equal(t, "e1", outcome.Matches[0].ChunkID)
	})

	t.Run("tag filter excludes untagged chunks", func(t *testing.T) {
		in := &basin.SettingsInput{Tags: []string{"roof"}}
		outcome, err := s.SearchWithStats(ctx, "roof replacement", basin.NormalizeSettings(in))
		require.NoError(t, err)
		require.Len(t, outcome.Matches, 1)
		assert.Equal(t, "e1", outcome.Matches[0].ChunkID)
		assert.Equal(t, 1, outcome.Stats.ChunksMatchingFilter)
	})

	t.Run("no match on unrelated query", func(t *testing.T) {
		matches, err := s.Search(ctx, "zzz qqq", settings)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestStoreSynonymRecall(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t)

	// "ACV" never appears in the corpus; recall relies on the expanded
	// "actual cash value" variant.
	matches, err := s.Search(ctx, "How is ACV calculated?", basin.NormalizeSettings(nil))
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "p2", matches[0].ChunkID)
}

func TestStoreHealthStats(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	doc := s.AddDocument(basin.DocumentMeta{Title: "Empty Doc", Status: "completed"})
	require.NotEmpty(t, doc.ID)

	outcome, err := s.SearchWithStats(ctx, "anything", basin.NormalizeSettings(nil))
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Stats.DocsMatchingFilter)
	assert.Equal(t, 1, outcome.Stats.DocsWithoutChunks)
	assert.Zero(t, outcome.Stats.ChunksMatchingFilter)

	hint := basin.DiagnoseRetrieval(*outcome.Stats, basin.NormalizeSettings(nil))
	assert.Contains(t, hint, "ingestion or chunking")
}

func TestStorePoolCap(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	doc := s.AddDocument(basin.DocumentMeta{Title: "Big Doc", Status: "completed"})
	for i := 0; i < 15; i++ {
		s.AddChunks(doc.ID, basin.Chunk{Content: "deductible clause text"})
	}

	pool := 10
	in := &basin.SettingsInput{Pool: &pool}
	outcome, err := s.SearchWithStats(ctx, "deductible", basin.NormalizeSettings(in))
	require.NoError(t, err)
	assert.True(t, outcome.Stats.PoolCapped)
	assert.Equal(t, 15, outcome.Stats.ChunksMatchingFilter)
}
