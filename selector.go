package basin

import "sort"

// SelectTopMatches applies two-stage diversity selection to score-sorted
// matches and returns at most s.TopK of them.
//
// Stage A builds a diverse candidate pool under the looser soft cap. If the
// capped pool would fall below a safety floor on a small corpus, diversity
// filtering is discarded and the full score-sorted list is used instead, so
// the engine never returns fewer results than available purely because of
// the diversity constraint.
//
// Stage B walks the pool in score order admitting at most s.PerDocCap chunks
// per document until s.TopK matches are selected.
func SelectTopMatches(scored []Match, s Settings) []Match {
	selected, _ := SelectTopMatchesDebug(scored, s)
	return selected
}

// SelectTopMatchesDebug is SelectTopMatches plus a flag reporting whether
// the Stage A diversity cap was relaxed for a small corpus. The flag feeds
// RetrievalDebug so dropped diversity guarantees stay visible to auditors.
func SelectTopMatchesDebug(scored []Match, s Settings) ([]Match, bool) {
	if len(scored) == 0 {
		return nil, false
	}

	softCap := s.SoftPoolPerDocCap
	if s.PerDocCap > softCap {
		softCap = s.PerDocCap
	}

	pool := make([]Match, 0, len(scored))
	softCounts := make(map[string]int)
	for _, m := range scored {
		if softCounts[m.DocID] >= softCap {
			continue
		}
		softCounts[m.DocID]++
		pool = append(pool, m)
	}

	floor := s.TopK * 2
	if s.TopK+4 > floor {
		floor = s.TopK + 4
	}
	if len(scored) < floor {
		floor = len(scored)
	}

	relaxed := false
	if len(pool) < floor {
		pool = scored
		relaxed = true
	}

	selected := make([]Match, 0, s.TopK)
	hardCounts := make(map[string]int)
	for _, m := range pool {
		if len(selected) >= s.TopK {
			break
		}
		if hardCounts[m.DocID] >= s.PerDocCap {
			continue
		}
		hardCounts[m.DocID]++
		selected = append(selected, m)
	}

	return selected, relaxed
}

// MergeMatches merges two match lists, deduplicating by chunk ID with the
// higher-scored instance winning, and returns the result sorted by
// descending score. Merging with an empty list is a no-op, so the operation
// is idempotent.
func MergeMatches(a, b []Match) []Match {
	best := make(map[string]int)
	var merged []Match

	for _, m := range append(append([]Match(nil), a...), b...) {
		if idx, ok := best[m.ChunkID]; ok {
			if m.Score > merged[idx].Score {
				merged[idx] = m
			}
			continue
		}
		best[m.ChunkID] = len(merged)
		merged = append(merged, m)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	return merged
}
