package model

import "strings"

// SearchResult holds what the search API returned for one claim
type SearchResult struct {
	Query   string   `json:"query"`
	Answer  string   `json:"answer,omitempty"` // Search provider's synthesized answer
	Sources []Source `json:"sources"`
}

// Source is a single search hit
type Source struct {
	Title     string        `json:"title"`
	URL       string        `json:"url"`
	Content   string        `json:"content"`
	Score     float64       `json:"score"`
	Authority AuthorityTier `json:"authority,omitempty"`
}

// AuthorityTier represents the classification of source authority
type AuthorityTier int

const (
	TierUnknown   AuthorityTier = 0 // Not yet classified
	TierPrimary   AuthorityTier = 1 // Government, academic, official documents
	TierSecondary AuthorityTier = 2 // Encyclopedias, major publishers, reputable media
	TierTertiary  AuthorityTier = 3 // Blogs, forums, personal websites
)

func (t AuthorityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}

// Judgment labels the search-based verdict of the comparison stage
type Judgment string

const (
	JudgmentVerified          Judgment = "VERIFIED"
	JudgmentPartiallyVerified Judgment = "PARTIALLY_VERIFIED"
	JudgmentUnverified        Judgment = "UNVERIFIED"
	JudgmentContradicted      Judgment = "CONTRADICTED"
	JudgmentError             Judgment = "ERROR"
)

// Judgments lists all judgments in report order
var Judgments = []Judgment{
	JudgmentVerified,
	JudgmentPartiallyVerified,
	JudgmentUnverified,
	JudgmentContradicted,
	JudgmentError,
}

// ParseJudgment normalizes a judgment string; unknown values become UNVERIFIED
func ParseJudgment(s string) Judgment {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, j := range Judgments {
		if string(j) == s {
			return j
		}
	}
	return JudgmentUnverified
}

// Comparison is the comparison stage output for one claim
type Comparison struct {
	Judgment      Judgment `json:"verdict"`
	Confidence    float64  `json:"confidence"`
	Reasoning     string   `json:"reasoning"`
	Supporting    []string `json:"supporting,omitempty"`
	Contradicting []string `json:"contradicting,omitempty"`
	Correction    string   `json:"correction,omitempty"`
	SourceQuality string   `json:"source_quality,omitempty"`
}

// ClaimResult bundles everything the pipeline learned about one claim
type ClaimResult struct {
	Claim      Claim         `json:"claim"`
	Screening  Verdict       `json:"screening"`
	Search     *SearchResult `json:"search,omitempty"`
	Comparison Comparison    `json:"comparison"`
	Error      string        `json:"error,omitempty"` // Set when the claim failed mid-pipeline
}
