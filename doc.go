// Basin - Knowledge-Base-First Retrieval for Insurance Claims Analysis
//
// Basin is a lexical retrieval and ranking engine that gates LLM analysis
// behind knowledge-base evidence: the model is never called unless retrieval
// produced at least one supporting passage, and every answer carries [KB-n]
// citations back to the passages it was grounded in.
//
// # Features
//
//   - Query expansion: insurance-jargon synonym substitution widens recall
//     for adjuster shorthand (ACV, RCV, O&P, ALE, AOB and friends)
//   - Deterministic lexical scoring: auditable additive weights over terms,
//     quoted phrases, titles, categories and tags
//   - Diversity-capped selection: a per-document cap keeps one long document
//     from monopolizing the result set, with a soft fallback on small corpora
//   - KB-first orchestration: structured no-match responses with retrieval
//     diagnostics instead of unsourced LLM guesses
//   - Pluggable storage: in-memory, Redis, PostgreSQL and SQLite basins
//
// # Quick Start
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"github.com/adjusterhq/basin"
//		"github.com/adjusterhq/basin/llm"
//		"github.com/adjusterhq/basin/store/memory"
//	)
//
//	func main() {
//		ctx := context.Background()
//		kb := memory.NewStore()
//		// ... ingest documents and chunks ...
//
//		question := "How is the hurricane deductible calculated?"
//		caller := llm.NewOpenAICaller("api-key", "")
//
//		res, err := basin.AnswerWithSearcher(ctx, "coverage_review", question,
//			basin.NormalizeSettings(nil), kb, caller.Func(question))
//		if err != nil {
//			panic(err)
//		}
//		if res.SkippedLLM {
//			fmt.Println(res.NotFound.ClarifyingQuestion)
//			return
//		}
//		fmt.Println(res.LLMResult)
//		for _, s := range res.Sources {
//			fmt.Printf("  [%s] %s (%.2f)\n", s.ChunkID, s.DocTitle, s.Score)
//		}
//	}
package basin
