package retrieval

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tarana-ai/taranad/internal/config"
	"github.com/tarana-ai/taranad/internal/vectorstore"
)

// stubStore is an in-memory Store double with call accounting.
type stubStore struct {
	mu       sync.Mutex
	byQuery  map[string][]vectorstore.SearchResult
	fallback []vectorstore.SearchResult
	upserted []vectorstore.ActivityRecord

	searchCalls atomic.Int64
	searchErr   error
}

func newStubStore() *stubStore {
	return &stubStore{byQuery: make(map[string][]vectorstore.SearchResult)}
}

func (s *stubStore) Upsert(_ context.Context, records []vectorstore.ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted = append(s.upserted, records...)
	return nil
}

func (s *stubStore) Search(_ context.Context, query string, matchCount int) ([]vectorstore.SearchResult, error) {
	s.searchCalls.Add(1)
	if s.searchErr != nil {
		return nil, s.searchErr
	}

	s.mu.Lock()
	results, ok := s.byQuery[query]
	s.mu.Unlock()
	if !ok {
		results = s.fallback
	}
	if matchCount > 0 && matchCount < len(results) {
		results = results[:matchCount]
	}
	return results, nil
}

func (s *stubStore) Count(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.upserted), nil
}

func (s *stubStore) Close() error { return nil }

func hit(id, title string, similarity float32) vectorstore.SearchResult {
	return vectorstore.SearchResult{
		ActivityID: id,
		Content:    title,
		Similarity: similarity,
		Metadata:   map[string]any{"title": title},
	}
}

func testRetrievalConfig() config.RetrievalConfig {
	full := &config.Config{}
	full.ApplyDefaults()
	return full.Retrieval
}
