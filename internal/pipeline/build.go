package pipeline

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/hallucheck/internal/apierr"
	"github.com/ppiankov/hallucheck/internal/cache"
	"github.com/ppiankov/hallucheck/internal/compare"
	"github.com/ppiankov/hallucheck/internal/extract"
	"github.com/ppiankov/hallucheck/internal/llm"
	"github.com/ppiankov/hallucheck/internal/model"
	"github.com/ppiankov/hallucheck/internal/search"
	"github.com/ppiankov/hallucheck/internal/worker"
)

// NewFromConfig wires the configured LLM provider, search client, cache and
// rate limiter into a pipeline. Missing API keys fail here, before any network call.
func NewFromConfig(cfg *model.Config, logger *zap.Logger, opts ...Option) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		return nil, err
	}
	limited := llm.NewRateLimited(provider, limiter)

	searcher, err := NewSearcher(cfg, limiter, logger)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithLogger(logger),
		WithFetcher(NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes,
			cfg.HTTP.RespectRobots, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)),
	}

	logger.Debug("pipeline configured",
		zap.String("llm", provider.Name()),
		zap.String("model", cfg.LLM.Model),
		zap.String("search", searcher.Name()),
		zap.Bool("cache", cfg.Cache.Enabled))

	return New(
		extract.NewExtractor(limited, cfg.Extraction.MaxClaims, logger.Named("extract")),
		searcher,
		compare.NewComparator(limited, logger.Named("compare")),
		append(base, opts...)...,
	), nil
}

// NewSearcher builds the Tavily client behind the rate limiter and, when
// enabled, the layered search cache. Cache hits do not consume rate tokens.
func NewSearcher(cfg *model.Config, limiter *worker.Limiter, logger *zap.Logger) (search.Searcher, error) {
	if name := strings.ToLower(cfg.Search.Provider); name != "" && name != "tavily" {
		return nil, fmt.Errorf("%w: unknown search provider %q", apierr.ErrConfig, cfg.Search.Provider)
	}

	tavily, err := search.NewTavily(search.TavilyConfigFromModel(cfg.Search, cfg.HTTP))
	if err != nil {
		return nil, err
	}

	var s search.Searcher = tavily
	if limiter != nil {
		s = search.NewRateLimited(s, limiter)
	}

	if cfg.Cache.Enabled {
		store := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		namespace := tavily.Depth() + "|" + strings.Join(cfg.Search.IncludeDomains, ",")
		s = search.NewCached(s, store, namespace, 0, logger.Named("search"))
	}

	return s, nil
}
