package retrieval

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarana-ai/taranad/internal/vectorstore"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReindex(t *testing.T) {
	store := newStubStore()
	svc := NewService(store, testRetrievalConfig(), nil)
	path := writeCatalog(t, `{
		"activities": [
			{"id": "ramen-shop", "title": "Ramen Shop", "category": "food"},
			{"id": "art-museum", "title": "Art Museum", "category": "museum"}
		]
	}`)

	r := NewCatalogReindexer(svc, path, nil)
	indexed, err := r.Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, indexed)
	assert.Len(t, store.upserted, 2)
	assert.Equal(t, "ramen-shop", store.upserted[0].ActivityID)
}

func TestReindexEmptyCatalog(t *testing.T) {
	svc := NewService(newStubStore(), testRetrievalConfig(), nil)
	path := writeCatalog(t, `{"activities": []}`)

	indexed, err := NewCatalogReindexer(svc, path, nil).Reindex(context.Background())
	require.NoError(t, err)
	assert.Zero(t, indexed)
}

func TestReindexMissingFile(t *testing.T) {
	svc := NewService(newStubStore(), testRetrievalConfig(), nil)

	_, err := NewCatalogReindexer(svc, filepath.Join(t.TempDir(), "nope.json"), nil).Reindex(context.Background())
	assert.Error(t, err)
}

func TestReindexNilStore(t *testing.T) {
	svc := NewService(nil, testRetrievalConfig(), nil)
	path := writeCatalog(t, `{"activities": [{"id": "a", "title": "A"}]}`)

	_, err := NewCatalogReindexer(svc, path, nil).Reindex(context.Background())
	assert.ErrorIs(t, err, vectorstore.ErrStoreUnavailable)
}
