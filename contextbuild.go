package basin

import (
	"fmt"
	"strings"
)

// NotFoundSentence is the fixed reply the downstream model must use when
// the supplied context does not contain the answer. Callers can match on it
// to detect evidence gaps in generated output.
const NotFoundSentence = "Not found in the knowledge base."

// BuildContext renders ranked matches into the authoritative context block
// injected into the LLM prompt. Numbering is 1-based and follows match
// order, so a KB-n citation in the generated answer maps back to
// sources[n-1]. Empty input yields an empty string.
func BuildContext(matches []Match) string {
	if len(matches) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("=== KNOWLEDGE BASE CONTEXT ===\n")
	b.WriteString("Answer using ONLY the excerpts below plus facts already established on this claim.\n")
	b.WriteString(fmt.Sprintf("If the answer is not present in the excerpts, respond exactly: %q\n", NotFoundSentence))
	b.WriteString("Cite every supported statement with the bracketed KB marker of its excerpt, e.g. the marker of excerpt 1.\n\n")

	for i, m := range matches {
		b.WriteString(fmt.Sprintf("[KB-%d] doc=%s title=%q chunk=%s score=%.3f\n", i+1, m.DocID, m.DocTitle, m.ChunkID, m.Score))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	b.WriteString("=== END KNOWLEDGE BASE CONTEXT ===\n")
	return b.String()
}
