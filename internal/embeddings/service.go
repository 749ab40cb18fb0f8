package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultRequestTimeout = 30 * time.Second

// Config holds configuration for the TEI embedding service.
type Config struct {
	// BaseURL is the base URL for the embedding endpoint.
	BaseURL string

	// Model is the embedding model name, reported in metrics.
	Model string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Dimension is the expected embedding width. Responses of any other
	// width are rejected.
	Dimension int

	// RequestsPerSecond rate-limits upstream calls. Zero disables limiting.
	RequestsPerSecond float64
	Burst             int
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL required", ErrInvalidConfig)
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("%w: dimension must be positive", ErrInvalidConfig)
	}
	return nil
}

// Service generates embeddings via a TEI / OpenAI-compatible HTTP
// endpoint. The upstream call is metered; failures surface as
// ErrProviderFailed and are not retried here.
type Service struct {
	config  Config
	client  *http.Client
	limiter *rate.Limiter
	metrics *Metrics
}

// NewService creates an embedding service with the given configuration.
func NewService(cfg Config, logger *zap.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Service{
		config:  cfg,
		client:  &http.Client{Timeout: defaultRequestTimeout},
		limiter: limiter,
		metrics: NewMetrics(logger),
	}, nil
}

// teiRequest is the request body for the TEI embed endpoint.
type teiRequest struct {
	Inputs   any  `json:"inputs"`
	Truncate bool `json:"truncate"`
}

// EmbedDocuments generates embeddings for multiple texts.
func (s *Service) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	var genErr error
	defer func() {
		s.metrics.RecordGeneration(ctx, s.config.Model, "embed_documents", time.Since(start), len(texts), genErr)
	}()

	if len(texts) == 0 {
		genErr = fmt.Errorf("%w: texts cannot be empty", ErrEmptyInput)
		return nil, genErr
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			genErr = fmt.Errorf("%w: text at index %d is empty", ErrEmptyInput, i)
			return nil, genErr
		}
	}

	vectors, genErr := s.embed(ctx, texts)
	if genErr != nil {
		return nil, genErr
	}
	if len(vectors) != len(texts) {
		genErr = fmt.Errorf("%w: got %d embeddings for %d texts", ErrProviderFailed, len(vectors), len(texts))
		return nil, genErr
	}
	return vectors, nil
}

// EmbedQuery generates an embedding for a single query.
func (s *Service) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	var genErr error
	defer func() {
		s.metrics.RecordGeneration(ctx, s.config.Model, "embed_query", time.Since(start), 1, genErr)
	}()

	if strings.TrimSpace(text) == "" {
		genErr = fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
		return nil, genErr
	}

	vectors, genErr := s.embed(ctx, []string{text})
	if genErr != nil {
		return nil, genErr
	}
	if len(vectors) != 1 {
		genErr = fmt.Errorf("%w: got %d embeddings for single query", ErrProviderFailed, len(vectors))
		return nil, genErr
	}
	return vectors[0], nil
}

func (s *Service) embed(ctx context.Context, texts []string) ([][]float32, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", ErrProviderFailed, err)
		}
	}

	body, err := json.Marshal(teiRequest{Inputs: texts, Truncate: true})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimSuffix(s.config.BaseURL, "/") + "/embed"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrProviderFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrProviderFailed, resp.StatusCode, truncateBody(respBody))
	}

	var vectors [][]float32
	if err := json.Unmarshal(respBody, &vectors); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrProviderFailed, err)
	}

	for i, vec := range vectors {
		if len(vec) != s.config.Dimension {
			return nil, fmt.Errorf("%w: expected %d, got %d at index %d",
				ErrDimensionMismatch, s.config.Dimension, len(vec), i)
		}
	}
	return vectors, nil
}

// Dimension returns the embedding width for the configured model.
func (s *Service) Dimension() int {
	return s.config.Dimension
}

// Close is a no-op; the service holds no long-lived connections.
func (s *Service) Close() error {
	return nil
}

func truncateBody(body []byte) string {
	const maxLen = 256
	if len(body) > maxLen {
		return string(body[:maxLen]) + "..."
	}
	return string(body)
}
