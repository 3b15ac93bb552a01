package basin

import "strings"

// DocumentMeta is the document-level record a store presents to the corpus
// search helper. Status and category are the attributes the basin filters
// operate on.
type DocumentMeta struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Status   string   `json:"status"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// SearchCorpus runs the full in-process retrieval pass over a loaded
// corpus: document-level status/category filtering, chunk-level tag
// filtering, the candidate pool ceiling, ranking against the expanded query
// variants, and diversity selection. Store backends load their data and
// delegate here so the filter and ranking semantics stay identical across
// backends.
func SearchCorpus(query string, docs []DocumentMeta, chunks map[string][]Chunk, s Settings) SearchOutcome {
	stats := HealthStats{
		DocsProcessed:  len(docs),
		StatusFilter:   s.Statuses,
		CategoryFilter: s.Categories,
		TagFilter:      s.Tags,
	}

	var candidates []Chunk
	for _, doc := range docs {
		if !containsFold(s.Statuses, doc.Status) {
			continue
		}
		if len(s.Categories) > 0 && !containsFold(s.Categories, doc.Category) {
			continue
		}
		stats.DocsMatchingFilter++

		docChunks := chunks[doc.ID]
		stats.ChunksAvailable += len(docChunks)
		if len(docChunks) == 0 {
			stats.DocsWithoutChunks++
			continue
		}

		for _, c := range docChunks {
			if len(s.Tags) > 0 && !chunkHasAnyTag(doc, c, s.Tags) {
				continue
			}
			stats.ChunksMatchingFilter++
			if len(candidates) >= s.Pool {
				stats.PoolCapped = true
				continue
			}
			candidates = append(candidates, c)
		}
	}

	var merged []Match
	for _, q := range ExpandQueries(query, DefaultMaxQueries) {
		merged = MergeMatches(merged, RankChunks(q, candidates, s))
	}

	selected, relaxed := SelectTopMatchesDebug(merged, s)
	return SearchOutcome{
		Matches:          selected,
		Stats:            &stats,
		DiversityRelaxed: relaxed,
	}
}

func containsFold(allowed []string, value string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return true
		}
	}
	return false
}

// chunkHasAnyTag matches the tag filter against both document-level and
// chunk-level tags, case-insensitively.
func chunkHasAnyTag(doc DocumentMeta, c Chunk, wanted []string) bool {
	chunkTags := c.Tags()
	for _, w := range wanted {
		if containsFold(doc.Tags, w) || containsFold(chunkTags, w) {
			return true
		}
	}
	return false
}
