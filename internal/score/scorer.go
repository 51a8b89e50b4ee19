package score

import (
	"fmt"

	"github.com/ppiankov/hallucheck/internal/model"
)

// Scorer calculates the credibility score and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate scores the claim results and explains the score with signals
func (s *Scorer) Calculate(results []model.ClaimResult) (model.Credibility, []model.Signal) {
	credibility := s.credibility(results)
	if len(results) == 0 {
		return credibility, nil
	}

	signals := []model.Signal{s.judgmentDistribution(credibility)}

	if sig, ok := s.contradictions(results); ok {
		signals = append(signals, sig)
	}
	if sig, ok := s.structuralDefects(results); ok {
		signals = append(signals, sig)
	}
	if sig, ok := s.sourceRequired(results); ok {
		signals = append(signals, sig)
	}
	if sig, ok := s.authorityDistribution(results); ok {
		signals = append(signals, sig)
	}
	if sig, ok := s.pipelineErrors(results); ok {
		signals = append(signals, sig)
	}

	return credibility, signals
}

// Weight returns a claim's contribution to the score, in [0, 1]
func Weight(c model.Comparison) float64 {
	switch c.Judgment {
	case model.JudgmentVerified:
		return c.Confidence
	case model.JudgmentPartiallyVerified:
		return c.Confidence * 0.6
	case model.JudgmentUnverified:
		return 0.3
	case model.JudgmentContradicted:
		// More certain contradictions score lower
		return (1 - c.Confidence) * 0.1
	default:
		return 0
	}
}

// LevelFor buckets a score
func LevelFor(score int) model.Level {
	switch {
	case score >= 80:
		return model.LevelHigh
	case score >= 60:
		return model.LevelMedium
	case score >= 40:
		return model.LevelLow
	default:
		return model.LevelSerious
	}
}

func (s *Scorer) credibility(results []model.ClaimResult) model.Credibility {
	stats := make(map[model.Judgment]int, len(model.Judgments))
	for _, j := range model.Judgments {
		stats[j] = 0
	}

	if len(results) == 0 {
		return model.Credibility{Score: 0, Level: model.LevelNoData, Stats: stats}
	}

	var total float64
	for _, r := range results {
		stats[r.Comparison.Judgment]++
		total += Weight(r.Comparison)
	}

	score := int(total / float64(len(results)) * 100)
	return model.Credibility{
		Score:       score,
		Level:       LevelFor(score),
		Stats:       stats,
		TotalClaims: len(results),
	}
}

func (s *Scorer) judgmentDistribution(c model.Credibility) model.Signal {
	severity := model.SeverityInfo
	switch c.Level {
	case model.LevelLow:
		severity = model.SeverityWarning
	case model.LevelSerious:
		severity = model.SeverityCritical
	}

	data := map[string]interface{}{
		"total":   c.TotalClaims,
		"score":   c.Score,
		"formula": "mean(VERIFIED: c, PARTIALLY_VERIFIED: 0.6c, UNVERIFIED: 0.3, CONTRADICTED: (1-c)*0.1, ERROR: 0) * 100",
	}
	for j, n := range c.Stats {
		data[string(j)] = n
	}

	return model.Signal{
		Type:     model.SignalJudgmentDistribution,
		Severity: severity,
		Description: fmt.Sprintf("%d verified, %d partially verified, %d unverified, %d contradicted",
			c.Stats[model.JudgmentVerified], c.Stats[model.JudgmentPartiallyVerified],
			c.Stats[model.JudgmentUnverified], c.Stats[model.JudgmentContradicted]),
		Data: data,
	}
}

func (s *Scorer) contradictions(results []model.ClaimResult) (model.Signal, bool) {
	var claims []string
	for _, r := range results {
		if r.Comparison.Judgment == model.JudgmentContradicted {
			claims = append(claims, r.Claim.Text)
		}
	}
	if len(claims) == 0 {
		return model.Signal{}, false
	}

	return model.Signal{
		Type:        model.SignalContradiction,
		Severity:    model.SeverityCritical,
		Description: fmt.Sprintf("%d claim(s) contradicted by search results", len(claims)),
		Data: map[string]interface{}{
			"contradicted": len(claims),
			"claims":       claims,
		},
	}, true
}

func (s *Scorer) structuralDefects(results []model.ClaimResult) (model.Signal, bool) {
	byAxiom := make(map[string]int)
	flagged := 0
	for _, r := range results {
		if r.Screening.Outcome != model.OutcomeFlagged {
			continue
		}
		flagged++
		for _, id := range r.Screening.Violations {
			byAxiom[string(id)]++
		}
	}
	if flagged == 0 {
		return model.Signal{}, false
	}

	severity := model.SeverityWarning
	if flagged*2 > len(results) {
		severity = model.SeverityCritical
	}

	return model.Signal{
		Type:        model.SignalStructuralDefects,
		Severity:    severity,
		Description: fmt.Sprintf("%d/%d claim(s) flagged by axiom screening", flagged, len(results)),
		Data: map[string]interface{}{
			"flagged":  flagged,
			"total":    len(results),
			"by_axiom": byAxiom,
		},
	}, true
}

func (s *Scorer) sourceRequired(results []model.ClaimResult) (model.Signal, bool) {
	required := 0
	for _, r := range results {
		if r.Screening.SourceRequired {
			required++
		}
	}
	if required == 0 {
		return model.Signal{}, false
	}

	ratio := float64(required) / float64(len(results))
	return model.Signal{
		Type:        model.SignalSourceRequired,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("%d/%d claim(s) contain specific names, dates or numbers (%.0f%%)", required, len(results), ratio*100),
		Data: map[string]interface{}{
			"source_required": required,
			"total":           len(results),
			"ratio":           ratio,
		},
	}, true
}

// authorityDistribution summarizes the tiers of all search sources
func (s *Scorer) authorityDistribution(results []model.ClaimResult) (model.Signal, bool) {
	primary, secondary, tertiary := 0, 0, 0
	for _, r := range results {
		if r.Search == nil {
			continue
		}
		for _, src := range r.Search.Sources {
			switch src.Authority {
			case model.TierPrimary:
				primary++
			case model.TierSecondary:
				secondary++
			default:
				tertiary++
			}
		}
	}

	total := primary + secondary + tertiary
	if total == 0 {
		return model.Signal{}, false
	}

	weighted := float64(primary*3+secondary*2+tertiary) / float64(total*3)

	severity := model.SeverityInfo
	if primary == 0 && secondary == 0 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalAuthorityDistribution,
		Severity:    severity,
		Description: fmt.Sprintf("Source authority: %d primary, %d secondary, %d tertiary", primary, secondary, tertiary),
		Data: map[string]interface{}{
			"primary":   primary,
			"secondary": secondary,
			"tertiary":  tertiary,
			"total":     total,
			"weighted":  weighted,
			"formula":   "(primary*3 + secondary*2 + tertiary*1) / (total*3)",
		},
	}, true
}

func (s *Scorer) pipelineErrors(results []model.ClaimResult) (model.Signal, bool) {
	var errs []string
	for _, r := range results {
		if r.Error != "" {
			errs = append(errs, r.Error)
		}
	}
	if len(errs) == 0 {
		return model.Signal{}, false
	}

	return model.Signal{
		Type:        model.SignalPipelineErrors,
		Severity:    model.SeverityWarning,
		Description: fmt.Sprintf("%d claim(s) could not be verified because of errors", len(errs)),
		Data: map[string]interface{}{
			"errors": errs,
		},
	}, true
}
