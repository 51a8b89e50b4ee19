// Package compare judges a claim against its search results with a language model.
package compare

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/hallucheck/internal/llm"
	"github.com/ppiankov/hallucheck/internal/model"
	"github.com/ppiankov/hallucheck/internal/search"
)

//go:embed prompts/compare.txt
var promptTemplate string

const (
	systemPrompt = "You verify factual claims against search results and answer with JSON only."

	// maxTokens bounds the judgment reply
	maxTokens = 1000

	// rawPreviewRunes is how much of an unparseable reply is kept in the reasoning
	rawPreviewRunes = 200
)

// Comparator turns a claim and its search results into a judgment
type Comparator struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewComparator creates a comparator
func NewComparator(provider llm.Provider, logger *zap.Logger) *Comparator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Comparator{provider: provider, logger: logger}
}

// Compare asks the model for a judgment. Provider failures are returned as errors;
// an unusable reply becomes an ERROR judgment.
func (c *Comparator) Compare(ctx context.Context, claim model.Claim, result *model.SearchResult) (model.Comparison, error) {
	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		System:    systemPrompt,
		Prompt:    BuildPrompt(claim.Text, search.FormatForComparison(result)),
		MaxTokens: maxTokens,
	})
	if err != nil {
		return model.Comparison{}, fmt.Errorf("compare claim: %w", err)
	}

	comparison := Parse(resp.Text)
	if comparison.Judgment == model.JudgmentError {
		c.logger.Debug("unparseable comparison response",
			zap.String("claim", claim.Text),
			zap.String("raw", resp.Text))
	}
	return comparison, nil
}

// BuildPrompt fills the comparison template
func BuildPrompt(claim, searchResults string) string {
	return strings.NewReplacer("{claim}", claim, "{search_results}", searchResults).Replace(promptTemplate)
}

type rawComparison struct {
	Verdict    string   `json:"verdict"`
	Confidence *float64 `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
	Evidence   struct {
		Supporting    []string `json:"supporting"`
		Contradicting []string `json:"contradicting"`
	} `json:"evidence"`
	Correction    *string `json:"correction"`
	SourceQuality string  `json:"source_quality"`
}

// Parse decodes a model reply into a comparison; it never fails
func Parse(text string) model.Comparison {
	payload := llm.ExtractJSON(text)

	var raw rawComparison
	if payload == "" || json.Unmarshal([]byte(payload), &raw) != nil {
		return ErrorComparison("Could not parse judgment: " + preview(text))
	}

	comparison := model.Comparison{
		Judgment:      model.ParseJudgment(raw.Verdict),
		Reasoning:     strings.TrimSpace(raw.Reasoning),
		Supporting:    nonEmpty(raw.Evidence.Supporting),
		Contradicting: nonEmpty(raw.Evidence.Contradicting),
		SourceQuality: strings.ToLower(strings.TrimSpace(raw.SourceQuality)),
	}
	if raw.Confidence != nil {
		comparison.Confidence = clamp(*raw.Confidence)
	}
	if raw.Correction != nil {
		comparison.Correction = cleanCorrection(*raw.Correction)
	}
	return comparison
}

// ErrorComparison builds an ERROR judgment carrying reason
func ErrorComparison(reason string) model.Comparison {
	return model.Comparison{
		Judgment:      model.JudgmentError,
		Confidence:    0,
		Reasoning:     reason,
		SourceQuality: "unknown",
	}
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// cleanCorrection drops placeholder corrections such as "null" or "N/A"
func cleanCorrection(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "null", "none", "n/a":
		return ""
	}
	return s
}

func nonEmpty(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func preview(s string) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > rawPreviewRunes {
		runes = runes[:rawPreviewRunes]
	}
	return string(runes)
}
