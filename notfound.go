package basin

import "fmt"

// maxSuggestedQueries caps how many expansion variants are offered back to
// the user when nothing matched.
const maxSuggestedQueries = 3

// strictModeDisclaimer is appended to the no-match message when the basin
// runs in KB-only mode, so the absence of evidence is never silently
// bypassed.
const strictModeDisclaimer = " Knowledge-basin-only mode is enabled, so no answer will be generated without supporting documents."

// BuildNoMatchResponse produces the structured payload returned when zero
// chunks scored above zero. The user receives a clarifying question and
// actionable suggestions rather than a bare error.
func BuildNoMatchResponse(analysisType, query string, s Settings, expanded []string, diagnosticHint string) NoMatchResponse {
	msg := fmt.Sprintf("No knowledge base match was found for %s with the query %q.", analysisType, query)
	if s.Strict {
		msg += strictModeDisclaimer
	}

	var suggested []string
	if len(expanded) > 1 {
		suggested = expanded[1:]
		if len(suggested) > maxSuggestedQueries {
			suggested = suggested[:maxSuggestedQueries]
		}
	}

	return NoMatchResponse{
		Result:             msg,
		ClarifyingQuestion: "Is there an exact phrase, clause name, or document title I should look for in the knowledge base?",
		SuggestedQueries:   suggested,
		NextSteps: []string{
			"Try one of the suggested queries.",
			"Use exact clause or document names, or put key phrases in quotes.",
			"Reprocess or upload the document that should contain this answer.",
		},
		DiagnosticHint: diagnosticHint,
	}
}
