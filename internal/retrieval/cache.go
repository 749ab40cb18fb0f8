package retrieval

import (
	"fmt"
	"sync"
	"time"

	"github.com/tarana-ai/taranad/internal/vectorstore"
)

// cacheEntry holds one cached search batch.
type cacheEntry struct {
	results   []vectorstore.SearchResult
	expiresAt time.Time
}

// queryCache is a thread-safe read-through cache for search batches,
// keyed by (query, matchCount). Entries expire after a fixed TTL; the
// size bound is soft and enforced by pruning expired entries lazily on
// write rather than by LRU eviction.
type queryCache struct {
	mu         sync.RWMutex
	entries    map[string]cacheEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

func newQueryCache(ttl time.Duration, maxEntries int) *queryCache {
	return &queryCache{
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func cacheKey(query string, matchCount int) string {
	return fmt.Sprintf("%d:%s", matchCount, query)
}

// Get returns the cached batch for the key if present and unexpired.
// Expired entries are removed on access.
func (c *queryCache) Get(query string, matchCount int) ([]vectorstore.SearchResult, bool) {
	key := cacheKey(query, matchCount)

	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.results, true
}

// Set stores a batch under the key. When the cache is over its soft
// bound, expired entries are pruned first; the new entry is stored even
// if pruning frees nothing, so the bound is advisory rather than hard.
func (c *queryCache) Set(query string, matchCount int, results []vectorstore.SearchResult) {
	key := cacheKey(query, matchCount)

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.pruneExpiredLocked()
	}
	c.entries[key] = cacheEntry{
		results:   results,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Len reports the number of entries, expired or not.
func (c *queryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops all entries.
func (c *queryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// pruneExpiredLocked removes expired entries. Caller holds the write
// lock.
func (c *queryCache) pruneExpiredLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}
