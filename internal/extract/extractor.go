// Package extract asks a language model for the checkable factual claims in a text.
package extract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/hallucheck/internal/axiom"
	"github.com/ppiankov/hallucheck/internal/llm"
	"github.com/ppiankov/hallucheck/internal/model"
)

//go:embed prompts/extract.txt
var promptTemplate string

const systemPrompt = "You extract verifiable factual claims from text and answer with JSON only."

// DefaultMaxClaims is used when no limit is configured
const DefaultMaxClaims = 5

// ErrEmptyText is returned for blank input
var ErrEmptyText = errors.New("no text to check")

// ParseError is returned when the model reply holds no usable JSON
type ParseError struct {
	Raw string // Model reply, kept for debugging
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse extraction response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Result holds the extracted claims and the model's account of the text
type Result struct {
	Claims  []model.Claim
	Summary model.ExtractionSummary
	Tokens  int
}

// Extractor turns free text into claims
type Extractor struct {
	provider  llm.Provider
	maxClaims int
	logger    *zap.Logger
}

// NewExtractor creates an extractor; maxClaims <= 0 selects DefaultMaxClaims
func NewExtractor(provider llm.Provider, maxClaims int, logger *zap.Logger) *Extractor {
	if maxClaims <= 0 {
		maxClaims = DefaultMaxClaims
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		provider:  provider,
		maxClaims: maxClaims,
		logger:    logger,
	}
}

// Extract sends text to the model and returns at most maxClaims claims,
// high-verifiability claims first
func (e *Extractor) Extract(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System: systemPrompt,
		Prompt: BuildPrompt(text),
	})
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}

	result, err := Parse(resp.Text)
	if err != nil {
		e.logger.Debug("unparseable extraction response", zap.String("raw", resp.Text))
		return nil, err
	}
	result.Tokens = resp.TokensUsed

	found := len(result.Claims)
	result.Claims = limit(result.Claims, e.maxClaims)

	e.logger.Debug("claims extracted",
		zap.Int("found", found),
		zap.Int("kept", len(result.Claims)),
		zap.Int("opinions", result.Summary.Opinions),
		zap.Int("tokens", result.Tokens))

	return result, nil
}

// BuildPrompt fills the extraction template
func BuildPrompt(text string) string {
	return strings.NewReplacer("{text}", text).Replace(promptTemplate)
}

type rawClaim struct {
	Claim         string `json:"claim"`
	OriginalText  string `json:"original_text"`
	Category      string `json:"category"`
	Verifiability string `json:"verifiability"`
	SearchQuery   string `json:"search_query"`
}

type rawExtraction struct {
	Claims     []rawClaim `json:"claims"`
	TotalFound int        `json:"total_claims_found"`
	Opinions   int        `json:"opinion_statements"`
	Note       string     `json:"note"`
}

// Parse decodes a model reply into claims. Fences and surrounding prose are tolerated.
func Parse(text string) (*Result, error) {
	payload := llm.ExtractJSON(text)
	if payload == "" {
		return nil, &ParseError{Raw: text, Err: errors.New("no JSON object in response")}
	}

	var raw rawExtraction
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, &ParseError{Raw: text, Err: err}
	}

	result := &Result{
		Summary: model.ExtractionSummary{
			TotalFound: raw.TotalFound,
			Opinions:   raw.Opinions,
			Note:       strings.TrimSpace(raw.Note),
		},
	}

	for _, rc := range raw.Claims {
		claimText := strings.TrimSpace(rc.Claim)
		if claimText == "" {
			continue
		}
		claim := model.Claim{
			Text:          claimText,
			OriginalText:  strings.TrimSpace(rc.OriginalText),
			Category:      parseCategory(rc.Category),
			Verifiability: parseVerifiability(rc.Verifiability),
			SearchQuery:   strings.TrimSpace(rc.SearchQuery),
		}
		if claim.SearchQuery == "" {
			claim.SearchQuery = claimText
		}
		if ents := axiom.DetectEntities(claimText); !ents.IsEmpty() {
			claim.Entities = &ents
		}
		result.Claims = append(result.Claims, claim)
	}

	if result.Summary.TotalFound < len(result.Claims) {
		result.Summary.TotalFound = len(result.Claims)
	}

	return result, nil
}

// limit keeps high-verifiability claims ahead of the rest, preserving order within each group
func limit(claims []model.Claim, max int) []model.Claim {
	slices.SortStableFunc(claims, func(a, b model.Claim) int {
		return rank(a.Verifiability) - rank(b.Verifiability)
	})
	if len(claims) > max {
		claims = claims[:max]
	}
	return claims
}

func rank(v model.Verifiability) int {
	if v == model.VerifiabilityHigh {
		return 0
	}
	return 1
}

func parseCategory(s string) model.ClaimCategory {
	c := model.ClaimCategory(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case model.CategoryStatistic, model.CategoryDate, model.CategoryEntity,
		model.CategoryEvent, model.CategoryQuote:
		return c
	default:
		return model.CategoryOther
	}
}

func parseVerifiability(s string) model.Verifiability {
	v := model.Verifiability(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case model.VerifiabilityHigh, model.VerifiabilityLow:
		return v
	default:
		return model.VerifiabilityMedium
	}
}
