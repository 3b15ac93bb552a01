package basin

import "math"

// Chunk is a retrievable unit of document text. A chunk belongs to exactly
// one source document and carries enough metadata to be filtered and cited
// independently of its parent.
type Chunk struct {
	ChunkID  string         `json:"chunk_id"`
	DocID    string         `json:"doc_id"`
	DocTitle string         `json:"doc_title"`
	Content  string         `json:"content"`
	Category string         `json:"category,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Tags extracts the chunk's metadata tags. A missing or malformed "tags"
// entry yields no tags rather than an error.
func (c Chunk) Tags() []string {
	if c.Metadata == nil {
		return nil
	}
	switch v := c.Metadata["tags"].(type) {
	case []string:
		return v
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	default:
		return nil
	}
}

// Match is a chunk paired with its lexical relevance score. Scores are
// additive and unbounded above; matches are created fresh per query and
// never persisted.
type Match struct {
	Chunk
	Score float64 `json:"score"`
}

// Source is the externally visible citation record derived from a match,
// used for audit and citation display.
type Source struct {
	DocID    string  `json:"doc_id"`
	DocTitle string  `json:"doc_title"`
	ChunkID  string  `json:"chunk_id"`
	Score    float64 `json:"score"`
}

// SourceFromMatch builds a citation record with the score rounded to
// 4 decimals.
func SourceFromMatch(m Match) Source {
	return Source{
		DocID:    m.DocID,
		DocTitle: m.DocTitle,
		ChunkID:  m.ChunkID,
		Score:    math.Round(m.Score*10000) / 10000,
	}
}

// QueryExpansionDebug records the expanded-query list produced for a
// retrieval attempt.
type QueryExpansionDebug struct {
	Queries []string `json:"queries"`
	Count   int      `json:"count"`
}

// RetrievalDebug is the observability record attached to every engine
// result, on both the match and no-match paths.
type RetrievalDebug struct {
	Pool             int                 `json:"pool"`
	TopK             int                 `json:"top_k"`
	PerDocCap        int                 `json:"per_doc_cap"`
	DiversityRelaxed bool                `json:"diversity_relaxed,omitempty"`
	QueryExpansion   QueryExpansionDebug `json:"query_expansion"`
}

// NoMatchResponse is the structured payload returned when retrieval finds
// no scoring evidence. It replaces a generated answer: the caller surfaces
// the clarifying question and suggestions instead of an error.
type NoMatchResponse struct {
	Result             string   `json:"result"`
	ClarifyingQuestion string   `json:"clarifying_question"`
	SuggestedQueries   []string `json:"suggested_queries,omitempty"`
	NextSteps          []string `json:"next_steps"`
	DiagnosticHint     string   `json:"diagnostic_hint,omitempty"`
}

// Result is the uniform envelope returned by the engine. Exactly one of
// LLMResult and NotFound is meaningful, matching SkippedLLM.
type Result[T any] struct {
	UsedKB     bool             `json:"used_kb"`
	SkippedLLM bool             `json:"skipped_llm"`
	Retrieval  RetrievalDebug   `json:"retrieval"`
	Sources    []Source         `json:"sources"`
	LLMResult  T                `json:"llm_result,omitempty"`
	NotFound   *NoMatchResponse `json:"not_found_response,omitempty"`
}
