package basin

import (
	"math"
	"strings"
)

// Default bounds for basin settings. Normalization clamps every numeric
// field into its documented range and substitutes the default when the
// field is absent.
const (
	DefaultPool      = 500
	MinPool          = 10
	MaxPool          = 2000
	DefaultTopK      = 10
	MinTopK          = 1
	MaxTopK          = 100
	DefaultPerDocCap = 3
	MinPerDocCap     = 1
	MaxPerDocCap     = 20
	MaxSoftPoolCap   = 50
)

// DefaultStatuses is the document-status filter applied when the caller
// supplies none: only fully processed documents are eligible for retrieval.
func DefaultStatuses() []string {
	return []string{"completed", "processed"}
}

// SettingsInput is the raw, possibly partial configuration accepted from
// untrusted callers. Nil pointer fields mean "not specified" and fall back
// to defaults during normalization.
type SettingsInput struct {
	Pool              *int     `json:"pool,omitempty"`
	TopK              *int     `json:"top_k,omitempty"`
	PerDocCap         *int     `json:"per_doc_cap,omitempty"`
	SoftPoolPerDocCap *int     `json:"soft_pool_per_doc_cap,omitempty"`
	Strict            bool     `json:"strict,omitempty"`
	Statuses          []string `json:"statuses,omitempty"`
	Categories        []string `json:"categories,omitempty"`
	Tags              []string `json:"tags,omitempty"`
}

// Settings is the fully populated, internally consistent basin
// configuration. Constructed once per retrieval call and immutable
// thereafter. Invariants: TopK <= Pool, SoftPoolPerDocCap >= PerDocCap.
type Settings struct {
	Pool              int      `json:"pool"`
	TopK              int      `json:"top_k"`
	PerDocCap         int      `json:"per_doc_cap"`
	SoftPoolPerDocCap int      `json:"soft_pool_per_doc_cap"`
	Strict            bool     `json:"strict"`
	Statuses          []string `json:"statuses"`
	Categories        []string `json:"categories,omitempty"`
	Tags              []string `json:"tags,omitempty"`
}

// NormalizeSettings validates and clamps a raw settings object into safe
// bounds. It never fails: malformed or missing input degrades to defaults
// rather than rejecting the request over a tuning parameter.
func NormalizeSettings(in *SettingsInput) Settings {
	return NormalizeSettingsWithFallback(in, nil)
}

// NormalizeSettingsWithFallback normalizes settings with a caller-specified
// fallback status list substituted when the input statuses are empty. A nil
// fallback uses DefaultStatuses.
func NormalizeSettingsWithFallback(in *SettingsInput, fallbackStatuses []string) Settings {
	if in == nil {
		in = &SettingsInput{}
	}
	if len(fallbackStatuses) == 0 {
		fallbackStatuses = DefaultStatuses()
	}

	pool := clampInt(in.Pool, DefaultPool, MinPool, MaxPool)

	topK := clampInt(in.TopK, DefaultTopK, MinTopK, MaxTopK)
	if topK > pool {
		topK = pool
	}

	perDocCap := clampInt(in.PerDocCap, DefaultPerDocCap, MinPerDocCap, MaxPerDocCap)

	softDefault := perDocCap + 1
	if half := int(math.Ceil(float64(topK) / 2)); half > softDefault {
		softDefault = half
	}
	softPoolPerDocCap := clampInt(in.SoftPoolPerDocCap, softDefault, perDocCap, MaxSoftPoolCap)

	statuses := cleanStrings(in.Statuses)
	if len(statuses) == 0 {
		statuses = append([]string(nil), fallbackStatuses...)
	}

	return Settings{
		Pool:              pool,
		TopK:              topK,
		PerDocCap:         perDocCap,
		SoftPoolPerDocCap: softPoolPerDocCap,
		Strict:            in.Strict,
		Statuses:          statuses,
		Categories:        cleanStrings(in.Categories),
		Tags:              cleanStrings(in.Tags),
	}
}

// clampInt resolves an optional integer to def when absent, then clamps it
// into [min, max].
func clampInt(v *int, def, min, max int) int {
	n := def
	if v != nil {
		n = *v
	}
	if n < min {
		n = min
	}
	if n > max {
		n = max
	}
	return n
}

// cleanStrings keeps only non-empty trimmed entries.
func cleanStrings(in []string) []string {
	var out []string
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
