package vectorstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	chromem "github.com/philippgille/chromem-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var chromemTracer = otel.Tracer("taranad.vectorstore.chromem")

// ChromemConfig holds configuration for the embedded chromem-go backend.
type ChromemConfig struct {
	// Path is the directory for persistent storage.
	Path string

	// Compress enables gzip compression for stored data.
	Compress bool

	// Collection is the collection name for activity vectors.
	Collection string
}

// ApplyDefaults sets default values for unset fields.
func (c *ChromemConfig) ApplyDefaults() {
	if c.Path == "" {
		c.Path = "~/.config/taranad/vectorstore"
	}
	if c.Collection == "" {
		c.Collection = "tarana_activities"
	}
}

// ChromemStore implements Store using chromem-go, an embeddable vector
// database with no external service dependency. Documents re-added with
// the same ID replace the prior entry, which gives Upsert its
// overwrite-by-id semantics.
type ChromemStore struct {
	db       *chromem.DB
	embedder Embedder
	config   ChromemConfig
	logger   *zap.Logger
	metrics  *Metrics
}

// NewChromemStore creates a ChromemStore with the given configuration.
func NewChromemStore(cfg ChromemConfig, embedder Embedder, logger *zap.Logger) (*ChromemStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg.ApplyDefaults()

	path, err := expandPath(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("expanding path: %w", err)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", path, err)
	}

	db, err := chromem.NewPersistentDB(path, cfg.Compress)
	if err != nil {
		return nil, fmt.Errorf("opening chromem DB: %w", err)
	}

	return &ChromemStore{
		db:       db,
		embedder: embedder,
		config:   cfg,
		logger:   logger,
		metrics:  NewMetrics(logger),
	}, nil
}

func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func (s *ChromemStore) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.EmbedQuery(ctx, text)
	}
}

func (s *ChromemStore) collection() (*chromem.Collection, error) {
	col, err := s.db.GetOrCreateCollection(s.config.Collection, nil, s.embeddingFunc())
	if err != nil {
		return nil, fmt.Errorf("getting collection %s: %w", s.config.Collection, err)
	}
	return col, nil
}

// Upsert embeds and writes activity records, overwriting rows with
// matching ActivityIDs.
func (s *ChromemStore) Upsert(ctx context.Context, records []ActivityRecord) error {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Upsert")
	defer span.End()
	span.SetAttributes(attribute.Int("record_count", len(records)))

	if len(records) == 0 {
		return ErrEmptyBatch
	}

	col, err := s.collection()
	if err != nil {
		span.RecordError(err)
		return err
	}

	texts := make([]string, len(records))
	for i, rec := range records {
		if rec.ActivityID == "" {
			return fmt.Errorf("record at index %d has no activity id", i)
		}
		texts[i] = rec.Content
	}

	embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	docs := make([]chromem.Document, len(records))
	for i, rec := range records {
		docs[i] = chromem.Document{
			ID:        rec.ActivityID,
			Content:   rec.Content,
			Metadata:  metadataToString(rec.Metadata),
			Embedding: embeddings[i],
		}
	}

	// Concurrency 1: embeddings are already computed above.
	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("adding documents: %w", err)
	}

	s.metrics.RecordUpsert(ctx, "chromem", len(records))
	s.logger.Debug("upserted activities",
		zap.String("collection", s.config.Collection),
		zap.Int("count", len(records)),
	)
	return nil
}

// Search returns up to k activities ordered by descending cosine similarity.
func (s *ChromemStore) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Search")
	defer span.End()
	span.SetAttributes(attribute.Int("k", k))

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	col := s.db.GetCollection(s.config.Collection, s.embeddingFunc())
	if col == nil {
		return []SearchResult{}, nil
	}

	// chromem requires nResults <= document count.
	count := col.Count()
	if count == 0 {
		return []SearchResult{}, nil
	}
	if k > count {
		k = count
	}

	results, err := col.Query(ctx, query, k, nil, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("querying collection %s: %w", s.config.Collection, err)
	}

	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{
			ActivityID: r.ID,
			Content:    r.Content,
			Similarity: r.Similarity,
			Metadata:   metadataFromString(r.Metadata),
		}
	}

	s.metrics.RecordSearch(ctx, "chromem", len(out))
	span.SetAttributes(attribute.Int("result_count", len(out)))
	return out, nil
}

// Count returns the number of stored activity records.
func (s *ChromemStore) Count(_ context.Context) (int, error) {
	col := s.db.GetCollection(s.config.Collection, s.embeddingFunc())
	if col == nil {
		return 0, nil
	}
	return col.Count(), nil
}

// Close releases resources. The chromem DB persists on write and holds no
// connection to close.
func (s *ChromemStore) Close() error {
	return nil
}

// metadataToString converts metadata to chromem's string-valued map.
func metadataToString(metadata map[string]any) map[string]string {
	if len(metadata) == 0 {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		switch val := v.(type) {
		case string:
			out[k] = val
		case bool:
			out[k] = strconv.FormatBool(val)
		case int:
			out[k] = strconv.Itoa(val)
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case []string:
			out[k] = strings.Join(val, ",")
		default:
			out[k] = fmt.Sprintf("%v", val)
		}
	}
	return out
}

// metadataFromString widens chromem's string map back to map[string]any.
// Numeric and boolean values come back as strings; scoring reads them
// through typed accessors that parse on demand.
func metadataFromString(metadata map[string]string) map[string]any {
	if len(metadata) == 0 {
		return nil
	}
	out := make(map[string]any, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
