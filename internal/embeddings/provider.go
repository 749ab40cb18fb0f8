// Package embeddings provides embedding generation via hosted providers.
package embeddings

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tarana-ai/taranad/internal/config"
	"github.com/tarana-ai/taranad/internal/vectorstore"
)

var (
	// ErrEmptyInput indicates empty or nil input texts.
	ErrEmptyInput = errors.New("empty or nil input texts")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrProviderFailed indicates the upstream embedding call failed.
	// Calls are metered and are not retried within the same request.
	ErrProviderFailed = errors.New("embedding provider call failed")

	// ErrDimensionMismatch indicates the provider returned vectors of an
	// unexpected width.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Provider is the interface for embedding providers.
type Provider interface {
	vectorstore.Embedder
	// Dimension returns the embedding width for the configured model.
	Dimension() int
	// Close releases resources held by the provider.
	Close() error
}

// NewProvider creates an embedding provider based on the configuration.
//
//   - "tei" (default): direct HTTP client for a TEI / OpenAI-compatible
//     hosted embedding endpoint
//   - "openai": langchaingo's openai embedder
func NewProvider(cfg config.EmbeddingsConfig, logger *zap.Logger) (Provider, error) {
	switch cfg.Provider {
	case "tei", "":
		return NewService(Config{
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			APIKey:            cfg.APIKey.Value(),
			Dimension:         cfg.Dimension,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
		}, logger)
	case "openai":
		return NewOpenAIProvider(OpenAIConfig{
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			APIKey:    cfg.APIKey.Value(),
			Dimension: cfg.Dimension,
		})
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}
