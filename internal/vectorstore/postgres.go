package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var pgTracer = otel.Tracer("taranad.vectorstore.postgres")

// Table names are interpolated into DDL/DML, so restrict them to plain
// identifiers.
var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresConfig holds configuration for the hosted pgvector backend.
type PostgresConfig struct {
	// DSN is the service-role connection string. It must only be used in
	// a trusted server context, never exposed to a browser.
	DSN string

	// Table is the activity embeddings table name.
	Table string

	// Dimension is the embedding width for the vector column.
	Dimension int
}

// ApplyDefaults sets default values for unset fields.
func (c *PostgresConfig) ApplyDefaults() {
	if c.Table == "" {
		c.Table = "activity_embeddings"
	}
	if c.Dimension == 0 {
		c.Dimension = 768
	}
}

// Validate validates the configuration.
func (c *PostgresConfig) Validate() error {
	if c.DSN == "" {
		return fmt.Errorf("%w: postgres DSN required", ErrInvalidConfig)
	}
	if !identifierPattern.MatchString(c.Table) {
		return fmt.Errorf("%w: invalid table name %q", ErrInvalidConfig, c.Table)
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("%w: dimension must be positive", ErrInvalidConfig)
	}
	return nil
}

// PostgresStore implements Store against a hosted pgvector table.
// Similarity search runs server-side with the cosine distance operator;
// this process never holds the vectors.
type PostgresStore struct {
	pool     *pgxpool.Pool
	embedder Embedder
	config   PostgresConfig
	logger   *zap.Logger
	metrics  *Metrics
}

// NewPostgresStore connects to postgres, ensures the pgvector extension
// and the activity table exist, and returns the store.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig, embedder Embedder, logger *zap.Logger) (*PostgresStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s := &PostgresStore{
		pool:     pool,
		embedder: embedder,
		config:   cfg,
		logger:   logger,
		metrics:  NewMetrics(logger),
	}

	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("%w: enabling pgvector extension: %v", ErrStoreUnavailable, err)
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		activity_id text PRIMARY KEY,
		content     text NOT NULL,
		embedding   vector(%d) NOT NULL,
		metadata    jsonb NOT NULL DEFAULT '{}',
		updated_at  timestamptz NOT NULL DEFAULT now()
	)`, s.config.Table, s.config.Dimension)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("%w: creating table %s: %v", ErrStoreUnavailable, s.config.Table, err)
	}
	return nil
}

// Upsert embeds and writes activity records. The insert conflicts on
// activity_id and overwrites, so re-upserting an id leaves exactly one row.
func (s *PostgresStore) Upsert(ctx context.Context, records []ActivityRecord) error {
	ctx, span := pgTracer.Start(ctx, "PostgresStore.Upsert")
	defer span.End()
	span.SetAttributes(attribute.Int("record_count", len(records)))

	if len(records) == 0 {
		return ErrEmptyBatch
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

	sql := fmt.Sprintf(`INSERT INTO %s (activity_id, content, embedding, metadata, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (activity_id) DO UPDATE
		SET content = EXCLUDED.content,
		    embedding = EXCLUDED.embedding,
		    metadata = EXCLUDED.metadata,
		    updated_at = now()`, s.config.Table)

	for i, rec := range records {
		metadata, err := json.Marshal(orEmptyMetadata(rec.Metadata))
		if err != nil {
			return fmt.Errorf("marshaling metadata for %s: %w", rec.ActivityID, err)
		}
		vec := pgvector.NewVector(embeddings[i])
		if _, err := s.pool.Exec(ctx, sql, rec.ActivityID, rec.Content, vec, metadata); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("%w: upserting %s: %v", ErrStoreUnavailable, rec.ActivityID, err)
		}
	}

	s.metrics.RecordUpsert(ctx, "postgres", len(records))
	s.logger.Debug("upserted activities",
		zap.String("table", s.config.Table),
		zap.Int("count", len(records)),
	)
	return nil
}

// Search embeds the query and runs a cosine nearest-neighbor query
// server-side, ordered by descending similarity and truncated to k.
func (s *PostgresStore) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	ctx, span := pgTracer.Start(ctx, "PostgresStore.Search")
	defer span.End()
	span.SetAttributes(attribute.Int("k", k))

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	sql := fmt.Sprintf(`SELECT activity_id, content, metadata,
		       1 - (embedding <=> $1) AS similarity
		  FROM %s
		 ORDER BY embedding <=> $1
		 LIMIT $2`, s.config.Table)

	rows, err := s.pool.Query(ctx, sql, pgvector.NewVector(embedding), k)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: searching: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			r        SearchResult
			metadata []byte
			sim      float64
		)
		if err := rows.Scan(&r.ActivityID, &r.Content, &metadata, &sim); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		if err := json.Unmarshal(metadata, &r.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata for %s: %w", r.ActivityID, err)
		}
		r.Similarity = float32(sim)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading search results: %v", ErrStoreUnavailable, err)
	}

	if results == nil {
		results = []SearchResult{}
	}
	s.metrics.RecordSearch(ctx, "postgres", len(results))
	span.SetAttributes(attribute.Int("result_count", len(results)))
	return results, nil
}

// Count returns the number of stored activity records.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	sql := fmt.Sprintf("SELECT count(*) FROM %s", s.config.Table)
	if err := s.pool.QueryRow(ctx, sql).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting rows: %v", ErrStoreUnavailable, err)
	}
	return count, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func orEmptyMetadata(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
