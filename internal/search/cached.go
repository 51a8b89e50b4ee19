package search

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/hallucheck/internal/cache"
	"github.com/ppiankov/hallucheck/internal/metrics"
	"github.com/ppiankov/hallucheck/internal/model"
	"github.com/ppiankov/hallucheck/internal/worker"
)

// Cached serves repeated queries from a cache
type Cached struct {
	next      Searcher
	cache     cache.Cache
	namespace string // Separates results of different depths or domain filters
	ttl       time.Duration
	logger    *zap.Logger
}

// NewCached wraps next; a zero ttl uses the cache's own default
func NewCached(next Searcher, c cache.Cache, namespace string, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{
		next:      next,
		cache:     c,
		namespace: namespace,
		ttl:       ttl,
		logger:    logger,
	}
}

// Name returns the wrapped backend's name
func (c *Cached) Name() string {
	return c.next.Name()
}

// Search returns a cached result when present, otherwise queries and stores it.
// Cache write failures are logged and do not fail the search.
func (c *Cached) Search(ctx context.Context, query string) (*model.SearchResult, error) {
	key := cache.Key(c.next.Name(), c.namespace, query)

	if data, ok := c.cache.Get(key); ok {
		var result model.SearchResult
		if err := json.Unmarshal(data, &result); err == nil {
			metrics.RecordCacheLookup(true)
			c.logger.Debug("search cache hit", zap.String("query", query))
			result.Query = query
			return &result, nil
		}
		_ = c.cache.Delete(key)
	}
	metrics.RecordCacheLookup(false)

	result, err := c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(result)
	if err == nil {
		err = c.cache.Set(key, data, c.ttl)
	}
	if err != nil {
		c.logger.Warn("search cache write failed", zap.Error(err))
	}

	return result, nil
}

// RateLimited waits for the shared limiter before each search
type RateLimited struct {
	Searcher
	limiter *worker.Limiter
}

// NewRateLimited wraps s with limiter
func NewRateLimited(s Searcher, limiter *worker.Limiter) *RateLimited {
	return &RateLimited{Searcher: s, limiter: limiter}
}

// Search waits for a token, then delegates
func (r *RateLimited) Search(ctx context.Context, query string) (*model.SearchResult, error) {
	if err := r.limiter.WaitKey(ctx, "search:"+r.Name()); err != nil {
		return nil, err
	}
	return r.Searcher.Search(ctx, query)
}
