package vectorstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tarana-ai/taranad/internal/config"
)

// NewStore creates a Store based on the configuration.
//
//   - "chromem" (default): embedded chromem-go store, no external service
//   - "postgres": hosted pgvector table, requires a service-role DSN
func NewStore(ctx context.Context, cfg *config.Config, embedder Embedder, logger *zap.Logger) (Store, error) {
	switch cfg.VectorStore.Provider {
	case "chromem", "":
		return NewChromemStore(ChromemConfig{
			Path:       cfg.VectorStore.Chromem.Path,
			Compress:   cfg.VectorStore.Chromem.Compress,
			Collection: cfg.VectorStore.Collection,
		}, embedder, logger)

	case "postgres":
		return NewPostgresStore(ctx, PostgresConfig{
			DSN:       cfg.Postgres.DSN.Value(),
			Table:     cfg.Postgres.Table,
			Dimension: cfg.Embeddings.Dimension,
		}, embedder, logger)

	default:
		return nil, fmt.Errorf("%w: unsupported vectorstore provider %q (supported: chromem, postgres)",
			ErrInvalidConfig, cfg.VectorStore.Provider)
	}
}
