package model

// AxiomID identifies one of the nine screening axioms ("A1" .. "A9")
type AxiomID string

const (
	AxiomExistence    AxiomID = "A1"
	AxiomTruth        AxiomID = "A2"
	AxiomCausality    AxiomID = "A3"
	AxiomFractal      AxiomID = "A4"
	AxiomEvolution    AxiomID = "A5"
	AxiomSymbiosis    AxiomID = "A6"
	AxiomChoice       AxiomID = "A7"
	AxiomBoundary     AxiomID = "A8"
	AxiomTransparency AxiomID = "A9"
)

// Outcome is the result of axiom screening for a single claim
type Outcome string

const (
	OutcomePass        Outcome = "pass"
	OutcomeFlagged     Outcome = "flagged"
	OutcomeNeedsSource Outcome = "needs-source"
)

// Verdict is the axiom screening result for one claim.
// Axiom is the triggering axiom: the first violated one for flagged claims,
// A9 for claims that need a source, empty when the claim passed.
type Verdict struct {
	Claim          string    `json:"claim"`
	Outcome        Outcome   `json:"outcome"`
	Axiom          AxiomID   `json:"axiom,omitempty"`
	Violations     []AxiomID `json:"violations,omitempty"`
	Confidence     float64   `json:"confidence"`
	Reasoning      string    `json:"reasoning"`
	SourceRequired bool      `json:"source_required"`
	SourceProvided string    `json:"source_provided,omitempty"`
	Advisory       []string  `json:"advisory,omitempty"`
}

// Passed reports whether the claim had no structural violations
func (v Verdict) Passed() bool {
	return len(v.Violations) == 0
}

// ScreeningVerdict is the overall result of screening a whole text
type ScreeningVerdict string

const (
	ScreeningDefects     ScreeningVerdict = "STRUCTURAL DEFECTS DETECTED"
	ScreeningNeedsSource ScreeningVerdict = "NEEDS SOURCE VERIFICATION"
	ScreeningPassed      ScreeningVerdict = "PASSED AXIOM SCREENING"
)

// ScreeningSummary aggregates verdicts. Passed + Flagged + NeedsSource == Total.
type ScreeningSummary struct {
	Total       int              `json:"total_claims"`
	Passed      int              `json:"passed"`
	Flagged     int              `json:"flagged"`
	NeedsSource int              `json:"needs_source"`
	RiskPercent float64          `json:"hallucination_risk"`
	Verdict     ScreeningVerdict `json:"verdict"`
}

// ScreeningReport is the output of local-only axiom screening
type ScreeningReport struct {
	Summary  ScreeningSummary `json:"summary"`
	Verdicts []Verdict        `json:"verdicts"`
}

// Summarize counts verdicts by outcome
func Summarize(verdicts []Verdict) ScreeningSummary {
	s := ScreeningSummary{Total: len(verdicts)}
	for _, v := range verdicts {
		switch v.Outcome {
		case OutcomeFlagged:
			s.Flagged++
		case OutcomeNeedsSource:
			s.NeedsSource++
		default:
			s.Passed++
		}
	}

	if s.Total > 0 {
		s.RiskPercent = float64(s.Flagged) / float64(s.Total) * 100
	}

	switch {
	case s.Flagged > 0:
		s.Verdict = ScreeningDefects
	case s.NeedsSource > 0:
		s.Verdict = ScreeningNeedsSource
	default:
		s.Verdict = ScreeningPassed
	}

	return s
}
