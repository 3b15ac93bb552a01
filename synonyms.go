package basin

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// SynonymTable maps a jargon key to its expansion variants. Keys are matched
// case-insensitively as substrings of the question; variants are substituted
// on whole-word boundaries.
type SynonymTable map[string][]string

// DefaultSynonyms is the built-in insurance-domain synonym table used by
// query expansion. Property-claim questions are dense with acronyms that
// rarely appear verbatim in policy documents, so each entry maps jargon to
// the long-form wording carriers actually write.
var DefaultSynonyms = SynonymTable{
	"acv":              {"actual cash value", "depreciated value"},
	"rcv":              {"replacement cost value", "replacement cost"},
	"o&p":              {"overhead and profit", "contractor overhead"},
	"aob":              {"assignment of benefits"},
	"ale":              {"additional living expenses", "loss of use"},
	"dwelling":         {"coverage a", "structure coverage"},
	"contents":         {"coverage c", "personal property"},
	"deductible":       {"retention", "out of pocket"},
	"depreciation":     {"recoverable depreciation", "holdback"},
	"supplement":       {"supplemental claim", "additional damages"},
	"xactimate":        {"estimate line items", "scope of repairs"},
	"matching":         {"line of sight", "uniform appearance"},
	"code upgrade":     {"ordinance or law", "law and ordinance"},
	"mold":             {"fungi", "microbial growth"},
	"water damage":     {"water intrusion", "water loss"},
	"wind":             {"windstorm", "named peril wind"},
	"hail":             {"hailstorm", "hail impact"},
	"proof of loss":    {"sworn statement", "pol"},
	"appraisal":        {"appraisal clause", "dispute resolution"},
	"eua":              {"examination under oath"},
	"subrogation":      {"recovery rights", "third party recovery"},
	"exclusion":        {"excluded peril", "policy exclusion"},
	"endorsement":      {"policy rider", "policy amendment"},
	"named peril":      {"specified peril"},
	"all risk":         {"open peril", "special form"},
	"actual cash value": {"acv"},
	"replacement cost":  {"rcv"},
}

// LoadSynonymTable reads a YAML synonym resource (a mapping of key to a list
// of variants) so the table can be versioned and extended without
// redeploying the ranking logic.
func LoadSynonymTable(r io.Reader) (SynonymTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read synonym resource: %w", err)
	}

	var table SynonymTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse synonym resource: %w", err)
	}
	return table, nil
}
