package embeddings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tarana-ai/taranad/internal/config"
)

func providerCfg(provider string) config.EmbeddingsConfig {
	return config.EmbeddingsConfig{
		Provider:  provider,
		BaseURL:   "http://localhost:8080",
		Model:     "test-model",
		Dimension: 768,
	}
}

func TestNewOpenAIProviderRequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider(OpenAIConfig{Model: "text-embedding-3-small", Dimension: 1536})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewOpenAIProviderRequiresDimension(t *testing.T) {
	_, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "text-embedding-3-small"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
