package basin

import (
	"context"

	"github.com/adjusterhq/basin/log"
)

// SearchFunc is the injected search collaborator. It performs the actual
// lookup against whatever storage backs the knowledge basin and returns
// already filtered, scored and ranked matches. Implementations are expected
// to build on RankChunks and SelectTopMatches.
type SearchFunc func(ctx context.Context, query string, s Settings) ([]Match, error)

// LLMFunc is the injected answer-generation collaborator. It receives the
// rendered context block and the matches for citation bookkeeping.
type LLMFunc[T any] func(ctx context.Context, kbContext string, matches []Match) (T, error)

// Searcher is the interface form of SearchFunc, implemented by the store
// packages.
type Searcher interface {
	Search(ctx context.Context, query string, s Settings) ([]Match, error)
}

// SearcherFunc adapts a plain function to the Searcher interface.
type SearcherFunc func(ctx context.Context, query string, s Settings) ([]Match, error)

// Search calls f.
func (f SearcherFunc) Search(ctx context.Context, query string, s Settings) ([]Match, error) {
	return f(ctx, query, s)
}

// SearchOutcome is the richer result a store can report alongside its
// matches: the retrieval health snapshot and whether the diversity cap was
// relaxed during selection.
type SearchOutcome struct {
	Matches          []Match
	Stats            *HealthStats
	DiversityRelaxed bool
}

// StatsSearcher is implemented by stores that can report retrieval health
// alongside matches. The engine uses it to attach diagnostics to no-match
// responses and to surface relaxed diversity guarantees.
type StatsSearcher interface {
	Searcher
	SearchWithStats(ctx context.Context, query string, s Settings) (SearchOutcome, error)
}

// Answer runs one KB-first retrieval pass: retrieve, then either
// short-circuit to a structured no-match response or assemble context and
// delegate to the LLM caller. The LLM is never invoked without retrieved
// evidence. Errors from either collaborator propagate unmodified; retries
// and deadlines belong to the collaborators and the hosting layer.
func Answer[T any](ctx context.Context, analysisType, query string, s Settings, search SearchFunc, callLLM LLMFunc[T]) (*Result[T], error) {
	return answer(ctx, analysisType, query, s, func(ctx context.Context) (SearchOutcome, error) {
		matches, err := search(ctx, query, s)
		return SearchOutcome{Matches: matches}, err
	}, callLLM)
}

// AnswerWithSearcher is Answer with the search side supplied as a Searcher.
// Stores implementing StatsSearcher additionally get retrieval diagnostics
// attached to the no-match response and the diversity-relaxed flag recorded
// in the debug block.
func AnswerWithSearcher[T any](ctx context.Context, analysisType, query string, s Settings, searcher Searcher, callLLM LLMFunc[T]) (*Result[T], error) {
	run := func(ctx context.Context) (SearchOutcome, error) {
		if ss, ok := searcher.(StatsSearcher); ok {
			return ss.SearchWithStats(ctx, query, s)
		}
		matches, err := searcher.Search(ctx, query, s)
		return SearchOutcome{Matches: matches}, err
	}
	return answer(ctx, analysisType, query, s, run, callLLM)
}

func answer[T any](ctx context.Context, analysisType, query string, s Settings, search func(context.Context) (SearchOutcome, error), callLLM LLMFunc[T]) (*Result[T], error) {
	outcome, err := search(ctx)
	if err != nil {
		return nil, err
	}

	// Expansion is computed on both paths for observability.
	expanded := ExpandQueries(query, DefaultMaxQueries)
	debug := RetrievalDebug{
		Pool:             s.Pool,
		TopK:             s.TopK,
		PerDocCap:        s.PerDocCap,
		DiversityRelaxed: outcome.DiversityRelaxed,
		QueryExpansion: QueryExpansionDebug{
			Queries: expanded,
			Count:   len(expanded),
		},
	}

	if len(outcome.Matches) == 0 {
		var hint string
		if outcome.Stats != nil {
			hint = DiagnoseRetrieval(*outcome.Stats, s)
		}
		notFound := BuildNoMatchResponse(analysisType, query, s, expanded, hint)
		log.Debug("kb-first %s: no match for %q, llm skipped (hint: %s)", analysisType, query, hint)
		return &Result[T]{
			SkippedLLM: true,
			Retrieval:  debug,
			Sources:    []Source{},
			NotFound:   &notFound,
		}, nil
	}

	kbContext := BuildContext(outcome.Matches)
	llmResult, err := callLLM(ctx, kbContext, outcome.Matches)
	if err != nil {
		return nil, err
	}

	sources := make([]Source, len(outcome.Matches))
	for i, m := range outcome.Matches {
		sources[i] = SourceFromMatch(m)
	}

	log.Debug("kb-first %s: %d match(es) for %q", analysisType, len(outcome.Matches), query)
	return &Result[T]{
		UsedKB:    true,
		Retrieval: debug,
		Sources:   sources,
		LLMResult: llmResult,
	}, nil
}
