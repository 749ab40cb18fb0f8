// Package vectorstore defines the interface for activity vector storage.
package vectorstore

import (
	"context"
	"errors"
)

// Sentinel errors for vector store operations.
var (
	// ErrStoreUnavailable is returned when the backing store is not
	// initialized or rejects an operation. Writes against an
	// uninitialized store fail with this error; they are not retried.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyBatch indicates an empty or nil activity batch.
	ErrEmptyBatch = errors.New("empty or nil activity batch")

	// ErrEmptyQuery indicates an empty query string.
	ErrEmptyQuery = errors.New("empty query")

	// ErrEmbeddingFailed indicates embedding generation failure during
	// a store operation.
	ErrEmbeddingFailed = errors.New("failed to generate embeddings")
)

// Embedder generates vector embeddings from text.
//
// Embeddings are dense numerical representations that capture semantic
// meaning, enabling similarity search. Implementations call a hosted
// embedding API; the call is metered and failures are not retried here.
type Embedder interface {
	// EmbedDocuments generates embeddings for multiple texts.
	// Returns one embedding per input text.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Store is the interface for activity vector storage.
//
// Implementations are transport-agnostic: the embedded chromem backend
// keeps vectors in-process, the postgres backend delegates cosine search
// to a hosted pgvector table. Both order results by descending cosine
// similarity and truncate to k.
type Store interface {
	// Upsert embeds and writes activity records. A record with an
	// existing ActivityID overwrites the prior row; there is never more
	// than one stored row per id.
	Upsert(ctx context.Context, records []ActivityRecord) error

	// Search returns up to k activities most similar to the query,
	// ordered by descending cosine similarity.
	Search(ctx context.Context, query string, k int) ([]SearchResult, error)

	// Count returns the number of stored activity records.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the store.
	Close() error
}
