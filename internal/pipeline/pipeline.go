package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/hallucheck/internal/apierr"
	"github.com/ppiankov/hallucheck/internal/axiom"
	"github.com/ppiankov/hallucheck/internal/compare"
	"github.com/ppiankov/hallucheck/internal/extract"
	"github.com/ppiankov/hallucheck/internal/metrics"
	"github.com/ppiankov/hallucheck/internal/model"
	"github.com/ppiankov/hallucheck/internal/score"
	"github.com/ppiankov/hallucheck/internal/search"
)

// maxOriginalRunes caps the input text kept in reports
const maxOriginalRunes = 500

// Stage names a pipeline step for progress reporting
type Stage string

const (
	StageFetch   Stage = "fetch"
	StageExtract Stage = "extract"
	StageScreen  Stage = "screen"
	StageSearch  Stage = "search"
	StageCompare Stage = "compare"
	StageScore   Stage = "score"
)

// ProgressFunc receives a line per step; it must be safe to call from the run's goroutine
type ProgressFunc func(stage Stage, message string)

// Extractor finds claims in text
type Extractor interface {
	Extract(ctx context.Context, text string) (*extract.Result, error)
}

// Comparator judges a claim against search results
type Comparator interface {
	Compare(ctx context.Context, claim model.Claim, result *model.SearchResult) (model.Comparison, error)
}

// Pipeline orchestrates extraction, screening, search, comparison and scoring
type Pipeline struct {
	extractor  Extractor
	screener   *axiom.Screener
	searcher   search.Searcher
	comparator Comparator
	scorer     *score.Scorer
	fetcher    *Fetcher
	logger     *zap.Logger
	progress   ProgressFunc
	now        func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithProgress sets the progress callback
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// WithFetcher sets the fetcher used for URL input
func WithFetcher(f *Fetcher) Option {
	return func(p *Pipeline) {
		p.fetcher = f
	}
}

// New assembles a pipeline from its stages
func New(extractor Extractor, searcher search.Searcher, comparator Comparator, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:  extractor,
		screener:   axiom.NewScreener(),
		searcher:   searcher,
		comparator: comparator,
		scorer:     score.NewScorer(),
		logger:     zap.NewNop(),
		progress:   func(Stage, string) {},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run checks text and builds a report. Extraction failures and fatal API
// errors (authentication, configuration) abort the run; any other per-claim
// failure marks that claim ERROR and the run continues.
func (p *Pipeline) Run(ctx context.Context, text string) (*model.Report, error) {
	start := p.now()
	report, err := p.run(ctx, text)

	status := "error"
	if err == nil {
		status = string(report.Status)
		metrics.RecordRun(status, p.now().Sub(start).Seconds(), report.Credibility.Score, report.Status == model.StatusSuccess)
	} else {
		metrics.RecordRun(status, p.now().Sub(start).Seconds(), 0, false)
	}
	p.logger.Info("pipeline run finished",
		zap.String("status", status),
		zap.Duration("elapsed", p.now().Sub(start)),
		zap.Error(err))

	return report, err
}

func (p *Pipeline) run(ctx context.Context, text string) (*model.Report, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, extract.ErrEmptyText
	}

	p.progress(StageExtract, "Extracting claims...")
	extraction, err := p.extractor.Extract(ctx, text)
	if err != nil {
		p.recordAPIError(err)
		return nil, fmt.Errorf("claim extraction failed: %w", err)
	}

	report := &model.Report{
		ID:           uuid.NewString(),
		GeneratedAt:  p.now().UTC(),
		Version:      model.Version,
		Status:       model.StatusSuccess,
		OriginalText: truncateRunes(text, maxOriginalRunes),
		Extraction:   extraction.Summary,
		Claims:       []model.ClaimResult{},
	}

	claims := extraction.Claims
	if len(claims) == 0 {
		p.progress(StageExtract, "No verifiable claims found")
		report.Status = model.StatusNoClaims
		report.Message = model.NoClaimsMessage
		report.Screening = model.Summarize(nil)
		report.Credibility, report.Signals = p.scorer.Calculate(nil)
		return report, nil
	}
	p.progress(StageExtract, fmt.Sprintf("Found %d claim(s)", len(claims)))

	p.progress(StageScreen, "Screening claims against axioms...")
	verdicts := p.screener.ScreenClaims(claims)
	for _, v := range verdicts {
		metrics.RecordScreening(string(v.Outcome), string(v.Axiom))
	}

	for i, claim := range claims {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := p.checkClaim(ctx, i, len(claims), claim)
		if err != nil {
			return nil, err
		}
		result.Screening = verdicts[i]
		metrics.RecordJudgment(string(result.Comparison.Judgment))
		report.Claims = append(report.Claims, result)
	}

	p.progress(StageScore, "Scoring...")
	report.Screening = model.Summarize(verdicts)
	report.Credibility, report.Signals = p.scorer.Calculate(report.Claims)

	return report, nil
}

// checkClaim searches and judges one claim. Only fatal errors are returned.
func (p *Pipeline) checkClaim(ctx context.Context, i, total int, claim model.Claim) (model.ClaimResult, error) {
	result := model.ClaimResult{Claim: claim}
	log := p.logger.With(zap.Int("claim", i+1), zap.String("query", claim.Query()))

	p.progress(StageSearch, fmt.Sprintf("[%d/%d] Searching: %s", i+1, total, preview(claim.Query(), 50)))
	found, err := p.searcher.Search(ctx, claim.Query())
	if err != nil {
		if fatal := p.claimError(err); fatal != nil {
			return result, fatal
		}
		log.Warn("search failed", zap.Error(err))
		result.Error = "search failed: " + apierr.UserMessage(err)
		result.Comparison = compare.ErrorComparison(result.Error)
		return result, nil
	}
	result.Search = found

	p.progress(StageCompare, fmt.Sprintf("[%d/%d] Judging: %s", i+1, total, preview(claim.Text, 50)))
	comparison, err := p.comparator.Compare(ctx, claim, found)
	if err != nil {
		if fatal := p.claimError(err); fatal != nil {
			return result, fatal
		}
		log.Warn("comparison failed", zap.Error(err))
		result.Error = "comparison failed: " + apierr.UserMessage(err)
		result.Comparison = compare.ErrorComparison(result.Error)
		return result, nil
	}
	result.Comparison = comparison

	log.Debug("claim judged",
		zap.String("verdict", string(comparison.Judgment)),
		zap.Float64("confidence", comparison.Confidence))
	return result, nil
}

// claimError records err and returns it when the whole run must stop
func (p *Pipeline) claimError(err error) error {
	p.recordAPIError(err)
	if apierr.IsFatal(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func (p *Pipeline) recordAPIError(err error) {
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		return
	}
	kind := "other"
	switch {
	case apierr.IsAuth(err):
		kind = "auth"
	case apierr.IsRateLimit(err):
		kind = "rate_limit"
	}
	metrics.RecordAPIError(apiErr.Service, kind)
}

// LoadInput returns the text behind input: fetched page text for http(s) URLs,
// file contents otherwise.
func (p *Pipeline) LoadInput(ctx context.Context, input string) (string, error) {
	if IsURL(input) {
		if p.fetcher == nil {
			return "", fmt.Errorf("%w: URL input needs a fetcher", apierr.ErrConfig)
		}
		p.progress(StageFetch, "Fetching "+input)
		page, err := p.fetcher.FetchWithRetry(ctx, input)
		if err != nil {
			return "", fmt.Errorf("fetch %s: %w", input, err)
		}
		return page.Text, nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

// CheckInput loads and checks a file path or URL
func (p *Pipeline) CheckInput(ctx context.Context, input string) (*model.Report, error) {
	text, err := p.LoadInput(ctx, input)
	if err != nil {
		return nil, err
	}

	report, err := p.Run(ctx, text)
	if err != nil {
		return nil, err
	}
	report.Source = input
	return report, nil
}

// Screen runs only the local axiom screening on text
func (p *Pipeline) Screen(text string, groundTruth map[string]string) model.ScreeningReport {
	return p.screener.ScreenText(text, groundTruth)
}

// IsURL reports whether input is an http(s) URL
func IsURL(input string) bool {
	lower := strings.ToLower(strings.TrimSpace(input))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func preview(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return truncateRunes(s, n) + "..."
}
