// Package search serves cached web searches to the http and mcp endpoints.
package search

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sheersh03/CaveBeat-Search-Engine/library/cache"
	"github.com/sheersh03/CaveBeat-Search-Engine/library/search"
)

// Searcher runs an uncached search
type Searcher interface {
	Search(ctx context.Context, req *search.Request) ([]search.PublicResult, error)
}

// Option configures Service
type Option func(*Service)

// WithCoalescing makes concurrent identical cache misses share one upstream fetch
func WithCoalescing(enabled bool) Option {
	return func(s *Service) {
		if enabled {
			s.inflight = new(singleflight.Group)
		} else {
			s.inflight = nil
		}
	}
}

// Service answers searches from the cache, falling back to the searcher.
type Service struct {
	cache    cache.Cache
	searcher Searcher
	inflight *singleflight.Group
}

// NewService is the constructor for Service.
func NewService(store cache.Cache, searcher Searcher, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("cache cannot be nil")
	}
	if searcher == nil {
		return nil, errors.New("searcher cannot be nil")
	}

	svc := &Service{
		cache:    store,
		searcher: searcher,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}

	return svc, nil
}

// Search returns the results for req.
//
// A live cache entry is returned with FromCache set. Otherwise the searcher
// runs and a successful result is stored before returning. Failures are never cached.
func (s *Service) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if req == nil {
		return nil, errors.New("search request cannot be nil")
	}

	startAt := time.Now()
	key := search.CacheKey(req)
	logger := gmw.GetLogger(ctx).Named("search_service").With(
		zap.String("query", req.Query),
		zap.String("type", string(req.Type)),
	)

	entry, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		// a broken cache must not take search down
		logger.Warn("cache lookup failed", zap.Error(err))
	} else if ok {
		logger.Debug("cache hit")
		return &search.Response{FromCache: true, Results: entry.Results}, nil
	}

	results, err := s.fetch(ctx, key, req)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, &cache.Entry{Results: results}); err != nil {
		logger.Warn("cache store failed", zap.Error(err))
	}

	logger.Info("search completed",
		zap.Int("results", len(results)),
		zap.Duration("cost", time.Since(startAt)))
	return &search.Response{FromCache: false, Results: results}, nil
}

func (s *Service) fetch(ctx context.Context, key string, req *search.Request) ([]search.PublicResult, error) {
	if s.inflight == nil {
		return s.runSearch(ctx, req)
	}

	v, err, _ := s.inflight.Do(key, func() (any, error) {
		return s.runSearch(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	return v.([]search.PublicResult), nil
}

func (s *Service) runSearch(ctx context.Context, req *search.Request) ([]search.PublicResult, error) {
	results, err := s.searcher.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []search.PublicResult{}
	}

	return results, nil
}

// CacheKeys lists the fingerprints currently cached
func (s *Service) CacheKeys(ctx context.Context) ([]string, error) {
	keys, err := s.cache.Keys(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list cache keys")
	}
	if keys == nil {
		keys = []string{}
	}

	return keys, nil
}
