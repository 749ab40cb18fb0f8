package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tarana-ai/taranad/internal/catalog"
)

// CatalogReindexer rebuilds the vector index from the activity catalog
// file. Every reindex reloads the file, so catalog edits are picked up
// without a restart.
type CatalogReindexer struct {
	service *Service
	path    string
	logger  *zap.Logger
}

// NewCatalogReindexer creates a reindexer reading the catalog at path.
func NewCatalogReindexer(service *Service, path string, logger *zap.Logger) *CatalogReindexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogReindexer{service: service, path: path, logger: logger}
}

// Reindex loads the catalog and writes every activity through to the
// store. Returns the number of activities indexed.
func (r *CatalogReindexer) Reindex(ctx context.Context) (int, error) {
	c, err := catalog.Load(r.path)
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}
	if c.Len() == 0 {
		r.logger.Warn("catalog is empty, nothing to index", zap.String("path", r.path))
		return 0, nil
	}
	if err := r.service.Upsert(ctx, c.Records()); err != nil {
		return 0, fmt.Errorf("index catalog: %w", err)
	}
	r.logger.Info("catalog indexed", zap.String("path", r.path), zap.Int("activities", c.Len()))
	return c.Len(), nil
}
