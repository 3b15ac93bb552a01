package basin

import (
	"fmt"
	"math"
	"strings"
)

// HealthStats is a diagnostic snapshot of one retrieval attempt, built
// fresh by the search backend on each call.
type HealthStats struct {
	DocsProcessed        int      `json:"docs_processed"`
	DocsMatchingFilter   int      `json:"docs_matching_filter"`
	ChunksAvailable      int      `json:"chunks_available"`
	ChunksMatchingFilter int      `json:"chunks_matching_filter"`
	DocsWithoutChunks    int      `json:"docs_without_chunks"`
	PoolCapped           bool     `json:"pool_capped"`
	StatusFilter         []string `json:"status_filter,omitempty"`
	CategoryFilter       []string `json:"category_filter,omitempty"`
	TagFilter            []string `json:"tag_filter,omitempty"`
}

// DiagnoseRetrieval explains why a retrieval yielded too few or no
// candidates. It returns a human-readable hint, or "" when the corpus looks
// healthy. Only the first matching rule fires.
func DiagnoseRetrieval(stats HealthStats, s Settings) string {
	if stats.DocsMatchingFilter == 0 {
		return fmt.Sprintf(
			"No documents matched the basin filters (statuses: %s). Check the status/category filters or reprocess the documents.",
			strings.Join(s.Statuses, ", "))
	}

	if stats.ChunksMatchingFilter == 0 {
		if stats.DocsWithoutChunks > 0 {
			return fmt.Sprintf(
				"%d matching document(s) have no chunks; ingestion or chunking likely failed for them.",
				stats.DocsWithoutChunks)
		}
		return "No chunks are available under the current filters; the filters may be too restrictive or chunk metadata is missing."
	}

	smallCorpus := int(math.Ceil(float64(s.TopK) / 2))
	if smallCorpus < 2 {
		smallCorpus = 2
	}
	if stats.ChunksMatchingFilter < smallCorpus {
		return fmt.Sprintf(
			"Only %d chunk(s) are available under the current filters; consider broadening the filters.",
			stats.ChunksMatchingFilter)
	}

	return ""
}
