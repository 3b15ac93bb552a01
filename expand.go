package basin

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultMaxQueries bounds the expanded-query list when the caller does not
// specify a limit.
const DefaultMaxQueries = 8

// maxRelatedTermHints caps the hint list rendered into the summary variant.
const maxRelatedTermHints = 4

// ExpandQueries generates lexical variants of a user question using the
// built-in insurance synonym table. The original trimmed question is always
// first; the result is deduplicated and truncated to maxQueries (default 8
// when maxQueries <= 0). Empty or whitespace-only input yields nil.
func ExpandQueries(question string, maxQueries int) []string {
	return ExpandQueriesWithTable(question, maxQueries, DefaultSynonyms)
}

// ExpandQueriesWithTable expands a question against a caller-supplied
// synonym table.
func ExpandQueriesWithTable(question string, maxQueries int, table SynonymTable) []string {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil
	}
	if maxQueries <= 0 {
		maxQueries = DefaultMaxQueries
	}

	lower := strings.ToLower(question)
	queries := []string{question}
	var hints []string

	// Sorted keys keep expansion deterministic regardless of map order.
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !strings.Contains(lower, strings.ToLower(key)) {
			continue
		}

		wordRe, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(key) + `\b`)
		if err != nil {
			continue
		}

		for _, synonym := range table[key] {
			queries = append(queries, question+" | "+synonym)
			if replaced := wordRe.ReplaceAllString(question, synonym); replaced != question {
				queries = append(queries, replaced)
			}
			hints = append(hints, synonym)
		}
	}

	if len(hints) > 0 {
		unique := dedupeStrings(hints)
		if len(unique) > maxRelatedTermHints {
			unique = unique[:maxRelatedTermHints]
		}
		queries = append(queries, question+" | related terms: "+strings.Join(unique, ", "))
	}

	queries = dedupeStrings(queries)
	if len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}
	return queries
}

// dedupeStrings removes exact duplicates (after trimming) while preserving
// first-occurrence order.
func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		t := strings.TrimSpace(s)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
