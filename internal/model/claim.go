package model

// Claim represents a factual assertion extracted from the input text
type Claim struct {
	Text          string        `json:"claim"`                   // The claim text itself
	OriginalText  string        `json:"original_text,omitempty"` // Sentence the claim was taken from
	Category      ClaimCategory `json:"category,omitempty"`      // What kind of fact is asserted
	Verifiability Verifiability `json:"verifiability,omitempty"` // How checkable the claim is
	SearchQuery   string        `json:"search_query,omitempty"`  // Query used against the search API
	Entities      *Entities     `json:"entities,omitempty"`      // Locally detected names, dates and numbers
}

// Query returns the search query for the claim, falling back to its text
func (c Claim) Query() string {
	if c.SearchQuery != "" {
		return c.SearchQuery
	}
	return c.Text
}

// Entities holds the specific facts detected in a claim
type Entities struct {
	ProperNouns []string `json:"proper_nouns,omitempty"`
	Dates       []string `json:"dates,omitempty"`
	Numbers     []string `json:"numbers,omitempty"`
}

// IsEmpty reports whether no entity was detected
func (e *Entities) IsEmpty() bool {
	return e == nil || (len(e.ProperNouns) == 0 && len(e.Dates) == 0 && len(e.Numbers) == 0)
}

// ClaimCategory categorizes the nature of the claim
type ClaimCategory string

const (
	CategoryStatistic ClaimCategory = "statistic" // Numbers, percentages, amounts
	CategoryDate      ClaimCategory = "date"      // When something happened
	CategoryEntity    ClaimCategory = "entity"    // Who or what something is
	CategoryEvent     ClaimCategory = "event"     // Something that happened
	CategoryQuote     ClaimCategory = "quote"     // Attributed statements
	CategoryOther     ClaimCategory = "other"
)

// Verifiability is the extractor's estimate of how checkable a claim is
type Verifiability string

const (
	VerifiabilityHigh   Verifiability = "high"
	VerifiabilityMedium Verifiability = "medium"
	VerifiabilityLow    Verifiability = "low"
)
