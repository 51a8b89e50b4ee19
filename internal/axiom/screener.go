package axiom

import (
	"sort"
	"strings"

	"github.com/ppiankov/hallucheck/internal/model"
	"github.com/ppiankov/hallucheck/internal/util"
)

const (
	sourceNote       = "A9: Contains specific facts (names/dates/numbers), requires source verification"
	noSourceAdvisory = "No source provided. Verify against authoritative records."
	passedReasoning  = "All axiom checks passed"

	// minClaimRunes drops fragments too short to carry a claim
	minClaimRunes = 11
)

// Context carries what the screener knows beyond the claim itself
type Context struct {
	PriorClaims []string          // Earlier statements from the same text
	Source      string            // Source backing the claim, if any
	MultiScale  map[string]string // Observed behavior keyed by scale
}

// Screener checks claims against the nine axioms. It holds no state and is
// safe for concurrent use.
type Screener struct{}

// NewScreener creates a screener
func NewScreener() *Screener {
	return &Screener{}
}

// Verify screens a single claim
func (s *Screener) Verify(claim string, ctx Context) model.Verdict {
	lower := normalize(claim)

	v := model.Verdict{
		Claim:          claim,
		SourceProvided: ctx.Source,
	}

	var reasoning []string
	for _, r := range rules {
		if note := r.check(lower, ctx); note != "" {
			v.Violations = append(v.Violations, r.id)
			reasoning = append(reasoning, note)
		}
	}

	ents := DetectEntities(claim)
	v.SourceRequired = !ents.IsEmpty()
	if v.SourceRequired {
		reasoning = append(reasoning, sourceNote)
		v.Advisory = append(v.Advisory, sourceNote)
		if ctx.Source == "" {
			v.Advisory = append(v.Advisory, noSourceAdvisory)
		}
	}

	switch {
	case len(v.Violations) > 0:
		v.Outcome = model.OutcomeFlagged
		v.Axiom = v.Violations[0]
	case v.SourceRequired && ctx.Source == "":
		v.Outcome = model.OutcomeNeedsSource
		v.Axiom = model.AxiomTransparency
	default:
		v.Outcome = model.OutcomePass
	}

	v.Confidence = 1.0 - 0.2*float64(len(v.Violations))
	if v.Confidence < 0 {
		v.Confidence = 0
	}
	if v.SourceRequired && ctx.Source == "" && v.Confidence > 0.7 {
		v.Confidence = 0.7
	}

	if len(reasoning) == 0 {
		v.Reasoning = passedReasoning
	} else {
		v.Reasoning = strings.Join(reasoning, "; ")
	}

	return v
}

// ScreenText splits text into sentences and screens each one. Every sentence
// is checked against the sentences before it. groundTruth maps a subject to
// its known value: a sentence mentioning the subject without the value is
// checked as if "<subject> is <value>" had been stated earlier, and a sentence
// that is itself a key gets the value as its source.
func (s *Screener) ScreenText(text string, groundTruth map[string]string) model.ScreeningReport {
	return s.ScreenTextWithScales(text, groundTruth, nil)
}

// ScreenTextWithScales is ScreenText with behavior observed at several scales
// (for example team, company, industry), applied to every sentence for A4.
func (s *Screener) ScreenTextWithScales(text string, groundTruth, multiScale map[string]string) model.ScreeningReport {
	sentences := util.SplitSentences(text, minClaimRunes)

	subjects := make([]string, 0, len(groundTruth))
	for key := range groundTruth {
		subjects = append(subjects, key)
	}
	sort.Strings(subjects)

	verdicts := make([]model.Verdict, 0, len(sentences))
	for i, sentence := range sentences {
		ctx := Context{
			PriorClaims: append([]string(nil), sentences[:i]...),
			Source:      groundTruth[sentence],
			MultiScale:  multiScale,
		}

		lower := strings.ToLower(sentence)
		for _, key := range subjects {
			val := groundTruth[key]
			if strings.Contains(lower, strings.ToLower(key)) && !strings.Contains(lower, strings.ToLower(val)) {
				ctx.PriorClaims = append(ctx.PriorClaims, key+" is "+val)
			}
		}

		verdicts = append(verdicts, s.Verify(sentence, ctx))
	}

	return model.ScreeningReport{
		Summary:  model.Summarize(verdicts),
		Verdicts: verdicts,
	}
}

// ScreenClaims screens extracted claims in order, each against the ones before it
func (s *Screener) ScreenClaims(claims []model.Claim) []model.Verdict {
	verdicts := make([]model.Verdict, len(claims))
	prior := make([]string, 0, len(claims))
	for i, c := range claims {
		verdicts[i] = s.Verify(c.Text, Context{PriorClaims: append([]string(nil), prior...)})
		prior = append(prior, c.Text)
	}
	return verdicts
}
