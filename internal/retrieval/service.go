package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/tarana-ai/taranad/internal/config"
	"github.com/tarana-ai/taranad/internal/vectorstore"
)

// Service is the retrieval layer over a vector store. It fans a
// multi-query request out to the store, caches per-query batches, and
// coalesces concurrent identical queries into a single upstream call.
//
// The store embeds query text internally, so a cache hit also saves the
// embedding round trip.
type Service struct {
	store   vectorstore.Store
	cache   *queryCache
	group   singleflight.Group
	logger  *zap.Logger
	metrics *Metrics
}

// NewService creates a retrieval service. A nil store degrades searches
// to empty results instead of failing; writes still error.
func NewService(store vectorstore.Store, cfg config.RetrievalConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		cache:  newQueryCache(cfg.CacheTTL.Duration(), cfg.CacheMaxEntries),
		logger: logger,
	}
}

// SetMetrics attaches optional metrics. Safe to skip.
func (s *Service) SetMetrics(m *Metrics) {
	s.metrics = m
}

// Search runs one similarity search per sub-query and returns the
// batches in input order, one batch per sub-query. Batches are not
// deduplicated across sub-queries. The first failing sub-query fails
// the whole call.
func (s *Service) Search(ctx context.Context, queries []string, matchCount int) (batches [][]vectorstore.SearchResult, err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordSearch(ctx, len(queries), time.Since(start), err)
	}()

	for _, q := range queries {
		if strings.TrimSpace(q) == "" {
			return nil, vectorstore.ErrEmptyQuery
		}
	}

	batches = make([][]vectorstore.SearchResult, len(queries))
	if s.store == nil {
		s.logger.Warn("search with no store configured, returning empty results")
		for i := range batches {
			batches[i] = []vectorstore.SearchResult{}
		}
		return batches, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, query := range queries {
		g.Go(func() error {
			results, err := s.searchOne(gctx, query, matchCount)
			if err != nil {
				return fmt.Errorf("query %q: %w", query, err)
			}
			batches[i] = results
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

// searchOne resolves a single sub-query through the cache. Concurrent
// identical misses share one store call via singleflight.
func (s *Service) searchOne(ctx context.Context, query string, matchCount int) ([]vectorstore.SearchResult, error) {
	if results, ok := s.cache.Get(query, matchCount); ok {
		s.metrics.RecordCacheHit(ctx)
		s.logger.Debug("cache hit", zap.String("query", query), zap.Int("match_count", matchCount))
		return results, nil
	}
	s.metrics.RecordCacheMiss(ctx)

	v, err, shared := s.group.Do(cacheKey(query, matchCount), func() (any, error) {
		results, err := s.store.Search(ctx, query, matchCount)
		if err != nil {
			return nil, err
		}
		s.cache.Set(query, matchCount, results)
		return results, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("coalesced in-flight query", zap.String("query", query))
	}
	return v.([]vectorstore.SearchResult), nil
}

// Upsert writes activity records through to the store. Unlike Search,
// a missing store is a hard error here.
func (s *Service) Upsert(ctx context.Context, records []vectorstore.ActivityRecord) error {
	if s.store == nil {
		return fmt.Errorf("%w: no store configured", vectorstore.ErrStoreUnavailable)
	}
	if err := s.store.Upsert(ctx, records); err != nil {
		return err
	}
	// Written content may invalidate any cached batch.
	s.cache.Clear()
	return nil
}

// ScoreMap folds search batches into a map of activity title to its
// best observed similarity. Later occurrences of the same title only
// replace the stored score when strictly higher.
func ScoreMap(batches [][]vectorstore.SearchResult) map[string]float64 {
	scores := make(map[string]float64)
	for _, batch := range batches {
		for _, r := range batch {
			title := r.Title()
			score := float64(r.Similarity)
			if existing, ok := scores[title]; !ok || score > existing {
				scores[title] = score
			}
		}
	}
	return scores
}
