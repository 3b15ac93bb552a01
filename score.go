package basin

import (
	"regexp"
	"sort"
	"strings"
)

// ScoreWeights is the additive scoring calibration. The defaults were tuned
// empirically against adjuster questions; expose them as configuration so
// deployments can retune without code changes.
type ScoreWeights struct {
	WholeQuestion float64 // whole lowercased question found in content
	ExactPhrase   float64 // quoted phrase found in content
	LongTerm      float64 // term of length >= 5 found in content
	ShortTerm     float64 // shorter term found in content
	TitleTerm     float64 // term found in the document title
	CategoryTerm  float64 // term found in the chunk category
	TagTerm       float64 // term found in a metadata tag
}

// DefaultScoreWeights returns the source calibration.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		WholeQuestion: 20,
		ExactPhrase:   18,
		LongTerm:      2,
		ShortTerm:     1,
		TitleTerm:     1.5,
		CategoryTerm:  0.8,
		TagTerm:       1,
	}
}

// minWholeQuestionLen gates the whole-question substring bonus so trivial
// questions do not dominate the score.
const minWholeQuestionLen = 10

// longTermLen is the term length at which a content hit earns the long-term
// weight instead of the short-term one.
const longTermLen = 5

var (
	termSplitRe    = regexp.MustCompile(`[^a-z0-9&]+`)
	quotedPhraseRe = regexp.MustCompile(`["']([^"']{3,})["']`)
)

// RankChunks scores each candidate against the question and returns the
// positive-scoring matches sorted by descending score. Ties preserve input
// order. The model is purely lexical: deterministic and auditable, a
// first-pass filter ahead of the LLM rather than a semantic ranker.
func RankChunks(question string, candidates []Chunk, s Settings) []Match {
	return RankChunksWithWeights(question, candidates, s, DefaultScoreWeights())
}

// RankChunksWithWeights ranks candidates with a caller-supplied calibration.
func RankChunksWithWeights(question string, candidates []Chunk, s Settings, w ScoreWeights) []Match {
	lowerQuestion := strings.ToLower(strings.TrimSpace(question))
	terms := questionTerms(lowerQuestion)
	phrases := exactPhrases(question)

	var matches []Match
	for _, c := range candidates {
		score := scoreChunk(c, lowerQuestion, terms, phrases, w)
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Chunk: c, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// questionTerms tokenizes a lowercased question into a deduplicated term
// set, discarding tokens shorter than 2 characters.
func questionTerms(lowerQuestion string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, tok := range termSplitRe.Split(lowerQuestion, -1) {
		if len(tok) < 2 || seen[tok] {
			continue
		}
		seen[tok] = true
		terms = append(terms, tok)
	}
	return terms
}

// exactPhrases extracts quoted substrings of at least 3 characters from the
// raw question.
func exactPhrases(question string) []string {
	var phrases []string
	for _, m := range quotedPhraseRe.FindAllStringSubmatch(question, -1) {
		if p := strings.TrimSpace(m[1]); len(p) >= 3 {
			phrases = append(phrases, p)
		}
	}
	return phrases
}

func scoreChunk(c Chunk, lowerQuestion string, terms, phrases []string, w ScoreWeights) float64 {
	content := strings.ToLower(c.Content)
	title := strings.ToLower(c.DocTitle)
	category := strings.ToLower(c.Category)

	tags := c.Tags()
	loweredTags := make([]string, len(tags))
	for i, t := range tags {
		loweredTags[i] = strings.ToLower(t)
	}

	var score float64

	if len(lowerQuestion) >= minWholeQuestionLen && strings.Contains(content, lowerQuestion) {
		score += w.WholeQuestion
	}

	for _, phrase := range phrases {
		if strings.Contains(content, strings.ToLower(phrase)) {
			score += w.ExactPhrase
		}
	}

	for _, term := range terms {
		if strings.Contains(content, term) {
			if len(term) >= longTermLen {
				score += w.LongTerm
			} else {
				score += w.ShortTerm
			}
		}
		if title != "" && strings.Contains(title, term) {
			score += w.TitleTerm
		}
		if category != "" && strings.Contains(category, term) {
			score += w.CategoryTerm
		}
		for _, tag := range loweredTags {
			if strings.Contains(tag, term) {
				score += w.TagTerm
				break
			}
		}
	}

	return score
}
