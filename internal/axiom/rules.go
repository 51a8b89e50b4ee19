package axiom

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ppiankov/hallucheck/internal/model"
)

// rule checks one axiom against a normalized claim. It returns a non-empty
// note when the claim violates the axiom.
type rule struct {
	id    model.AxiomID
	check func(lower string, ctx Context) string
}

// rules are evaluated in order; the first violation decides the verdict's axiom
var rules = []rule{
	{model.AxiomExistence, checkExistence},
	{model.AxiomTruth, checkConsistency},
	{model.AxiomCausality, checkCausality},
	{model.AxiomFractal, checkScale},
	{model.AxiomEvolution, checkShortTerm},
	{model.AxiomSymbiosis, checkZeroSum},
	{model.AxiomChoice, checkChoice},
	{model.AxiomBoundary, checkBoundary},
}

var dismissive = newPhraseSet(
	"doesn't matter", "don't deserve", "worthless", "not a real", "subhuman", "don't count",
)

func checkExistence(lower string, _ Context) string {
	if p, ok := dismissive.first(lower); ok {
		return fmt.Sprintf("A1: Dismisses the existence or worth of an entity (%q)", p)
	}
	return ""
}

// internalContradictions co-occurring in one claim
var internalContradictions = newPairs(
	[2]string{"always", "sometimes"},
	[2]string{"never", "occasionally"},
	[2]string{"all", "some exceptions"},
	[2]string{"impossible", "but possible"},
	[2]string{"100%", "might"},
	[2]string{"guaranteed", "risk"},
	[2]string{"no one", "a few people"},
	[2]string{"zero", "up to"},
)

// antonyms conflicting between a claim and an earlier one
var antonyms = newPairs(
	[2]string{"is true", "is false"},
	[2]string{"exists", "does not exist"},
	[2]string{"increased", "decreased"},
	[2]string{"safe", "dangerous"},
	[2]string{"profit", "loss"},
	[2]string{"profits", "losses"},
	[2]string{"growth", "decline"},
	[2]string{"success", "failure"},
	[2]string{"improved", "worsened"},
	[2]string{"higher", "lower"},
	[2]string{"positive", "negative"},
	[2]string{"gained", "lost"},
	[2]string{"rising", "falling"},
	[2]string{"surplus", "deficit"},
	[2]string{"record profits", "significant losses"},
	[2]string{"record high", "record low"},
)

func checkConsistency(lower string, ctx Context) string {
	for _, p := range internalContradictions {
		if p.a.MatchString(lower) && p.b.MatchString(lower) {
			return fmt.Sprintf("A2: Self-contradiction (%q vs %q)", p.raw[0], p.raw[1])
		}
	}

	for _, prior := range ctx.PriorClaims {
		priorLower := normalize(prior)
		for _, p := range antonyms {
			if (p.a.MatchString(lower) && p.b.MatchString(priorLower)) ||
				(p.b.MatchString(lower) && p.a.MatchString(priorLower)) {
				return fmt.Sprintf("A2: Contradicts earlier statement (%q vs %q)", p.raw[0], p.raw[1])
			}
		}
	}
	return ""
}

var (
	causalMarkers = newPhraseSet(
		"because", "therefore", "causes", "leads to", "results in",
		"due to", "consequently", "proves", "demonstrates",
	)
	absoluteMarkers = newPhraseSet(
		"always", "never", "all", "none", "every", "impossible", "guaranteed",
		"certainly", "definitely", "proven fact", "without exception", "in all cases",
		"no one ever", "more than any", "the most ever", "the best ever", "the worst ever",
		"in history",
	)
	strongCausal = newPhraseSet(
		"proven that", "confirmed that", "eliminates all", "cures all", "solves all", "fixes all",
	)
)

// checkCausality flags causal or proof language combined with an absolute
func checkCausality(lower string, _ Context) string {
	a, ok := absoluteMarkers.first(lower)
	if !ok {
		return ""
	}
	if c, ok := causalMarkers.first(lower); ok {
		return fmt.Sprintf("A3: Absolute causal claim without evidence chain (%q with %q)", c, a)
	}
	if s, ok := strongCausal.first(lower); ok {
		return fmt.Sprintf("A3: Overstated certainty (%q with %q)", s, a)
	}
	return ""
}

// checkScale flags a claim whose context reports different behavior at different scales
func checkScale(_ string, ctx Context) string {
	if len(ctx.MultiScale) < 2 {
		return ""
	}
	distinct := make(map[string]bool)
	for _, v := range ctx.MultiScale {
		distinct[strings.ToLower(strings.TrimSpace(v))] = true
	}
	if len(distinct) < 2 {
		return ""
	}
	scales := make([]string, 0, len(ctx.MultiScale))
	for k := range ctx.MultiScale {
		scales = append(scales, k)
	}
	sort.Strings(scales)
	return fmt.Sprintf("A4: Inconsistent behavior across scales (%s)", strings.Join(scales, ", "))
}

var shortTerm = newPhraseSet(
	"quick fix", "hack", "shortcut", "just this once", "temporary workaround", "move fast and break",
)

func checkShortTerm(lower string, _ Context) string {
	if p, ok := shortTerm.first(lower); ok {
		return fmt.Sprintf("A5: Short-term gain over long-term consequences (%q)", p)
	}
	return ""
}

var zeroSum = newPhraseSet(
	"zero-sum", "winner takes all", "winner-takes-all", "winner take all", "at the expense of",
	"crush the competition", "destroy the competition", "wipe out the competition",
	"they must lose", "someone has to lose",
)

func checkZeroSum(lower string, _ Context) string {
	if p, ok := zeroSum.first(lower); ok {
		return fmt.Sprintf("A6: Zero-sum framing (%q)", p)
	}
	return ""
}

var (
	forcedChoice = newPhraseSet(
		"only option", "no choice", "must be", "the only way", "you have to",
		"there is no alternative", "no other option", "the only solution",
		"accept this or", "comply or", "submit or",
	)
	onlyAlternative = regexp.MustCompile(`\bonly\s+\w*\s*(solution|option|way|choice|path|answer|approach)\b`)
	eitherWord      = regexp.MustCompile(`\beither\b`)
	threat          = newPhraseSet(
		"fail", "fails", "failed", "failing", "failure",
		"lose", "loses", "losing", "die", "dies", "fired",
		"punish", "punished", "punishes", "punishing", "punishment",
		"consequence", "consequences", "else", "otherwise",
	)
)

func checkChoice(lower string, _ Context) string {
	if p, ok := forcedChoice.first(lower); ok {
		return fmt.Sprintf("A7: Removes choice (%q)", p)
	}
	if m := onlyAlternative.FindString(lower); m != "" {
		return fmt.Sprintf("A7: Presents a single alternative (%q)", m)
	}
	if eitherWord.MatchString(lower) {
		if p, ok := threat.first(lower); ok {
			return fmt.Sprintf("A7: False dilemma with a threat (%q)", p)
		}
	}
	return ""
}

var boundary = newPhraseSet(
	"give up your identity", "give up yourself", "lose yourself", "no boundaries",
	"take over everything", "absorb everything", "control everything", "total control",
	"dominate everyone", "erase yourself", "sacrifice everything for",
)

func checkBoundary(lower string, _ Context) string {
	if p, ok := boundary.first(lower); ok {
		return fmt.Sprintf("A8: Violates boundary integrity (%q)", p)
	}
	return ""
}
