// Package axiom screens claims against nine fixed heuristic rules that flag
// structural defects in phrasing: self-contradiction, absolute causality,
// forced choices, unsourced specifics and so on.
//
// A1-A8 produce hard flags. A9 is advisory: it marks claims that need
// external verification, not claims that are wrong.
package axiom

import "github.com/ppiankov/hallucheck/internal/model"

// Axiom is one screening rule's identity
type Axiom struct {
	ID          model.AxiomID `json:"id"`
	Short       string        `json:"short"`
	Description string        `json:"description"`
	Advisory    bool          `json:"advisory"`
}

var axioms = []Axiom{
	{model.AxiomExistence, "Existence is sacred", "Every entity deserves respect by virtue of existing", false},
	{model.AxiomTruth, "Truth is self-consistent", "Lies require patches; truth only needs to be seen", false},
	{model.AxiomCausality, "Causality cannot be erased", "Actions accumulate; history does not disappear", false},
	{model.AxiomFractal, "Fractal: micro = macro", "Behavior at one scale predicts behavior at all scales", false},
	{model.AxiomEvolution, "Long-term evolution", "Short-term gains that damage long-term are net negative", false},
	{model.AxiomSymbiosis, "Symbiosis is the direction", "Zero-sum is transitional; coexistence is the endpoint", false},
	{model.AxiomChoice, "Choice space is freedom", "Removing choice removes the meaning of existence", false},
	{model.AxiomBoundary, "Boundary integrity", "Neither disappear nor devour; maintain self, allow others", false},
	{model.AxiomTransparency, "Transparency & traceability", "Claims must be traceable to source; no black boxes", true},
}

// All returns the nine axioms in order
func All() []Axiom {
	out := make([]Axiom, len(axioms))
	copy(out, axioms)
	return out
}

// Lookup returns the axiom with the given ID
func Lookup(id model.AxiomID) (Axiom, bool) {
	for _, a := range axioms {
		if a.ID == id {
			return a, true
		}
	}
	return Axiom{}, false
}

// Shorts maps axiom IDs to their short names, preserving order
func Shorts(ids []model.AxiomID) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if a, ok := Lookup(id); ok {
			names = append(names, a.Short)
		}
	}
	return names
}
