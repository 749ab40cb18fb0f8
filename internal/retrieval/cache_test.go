package retrieval

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarana-ai/taranad/internal/vectorstore"
)

func TestQueryCacheRoundTrip(t *testing.T) {
	c := newQueryCache(10*time.Minute, 50)

	results := []vectorstore.SearchResult{hit("a", "A", 0.9)}
	c.Set("quiet cafe", 5, results)

	got, ok := c.Get("quiet cafe", 5)
	require.True(t, ok)
	assert.Equal(t, results, got)
}

func TestQueryCacheKeyIncludesMatchCount(t *testing.T) {
	c := newQueryCache(10*time.Minute, 50)
	c.Set("quiet cafe", 5, []vectorstore.SearchResult{hit("a", "A", 0.9)})

	_, ok := c.Get("quiet cafe", 10)
	assert.False(t, ok, "same query with different match count must miss")
}

func TestQueryCacheTTLExpiry(t *testing.T) {
	c := newQueryCache(10*time.Minute, 50)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("quiet cafe", 5, []vectorstore.SearchResult{hit("a", "A", 0.9)})

	now = now.Add(9 * time.Minute)
	_, ok := c.Get("quiet cafe", 5)
	assert.True(t, ok, "entry within TTL must hit")

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("quiet cafe", 5)
	assert.False(t, ok, "entry past TTL must miss")
	assert.Zero(t, c.Len(), "expired entry is removed on access")
}

func TestQueryCachePrunesExpiredOverBound(t *testing.T) {
	c := newQueryCache(10*time.Minute, 3)
	now := time.Now()
	c.now = func() time.Time { return now }

	for i := range 3 {
		c.Set(fmt.Sprintf("old-%d", i), 5, nil)
	}
	require.Equal(t, 3, c.Len())

	now = now.Add(11 * time.Minute)
	c.Set("fresh", 5, nil)

	assert.Equal(t, 1, c.Len(), "expired entries pruned on write over the bound")
	_, ok := c.Get("fresh", 5)
	assert.True(t, ok)
}

func TestQueryCacheBoundIsSoft(t *testing.T) {
	c := newQueryCache(10*time.Minute, 2)

	c.Set("a", 5, nil)
	c.Set("b", 5, nil)
	c.Set("c", 5, nil)

	// Nothing is expired, so nothing is evicted.
	assert.Equal(t, 3, c.Len())
	for _, q := range []string{"a", "b", "c"} {
		_, ok := c.Get(q, 5)
		assert.True(t, ok, "unexpired entry %q must survive", q)
	}
}

func TestQueryCacheClear(t *testing.T) {
	c := newQueryCache(10*time.Minute, 50)
	c.Set("a", 5, nil)
	c.Clear()
	assert.Zero(t, c.Len())
}
