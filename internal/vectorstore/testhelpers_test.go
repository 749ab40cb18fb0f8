package vectorstore

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"sync/atomic"
)

// hashEmbedder is a deterministic embedder for tests. It hashes tokens
// into a fixed-width bag-of-words vector and normalizes it, so texts
// sharing tokens get higher cosine similarity. It also counts calls so
// tests can assert on provider traffic.
type hashEmbedder struct {
	dim   int
	calls atomic.Int64
}

func newHashEmbedder(dim int) *hashEmbedder {
	return &hashEmbedder{dim: dim}
}

func (e *hashEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.EmbedQuery(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *hashEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	e.calls.Add(1)
	vec := make([]float32, e.dim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[int(h.Sum32())%e.dim] += 1
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	} else {
		vec[0] = 1
	}
	return vec, nil
}

func (e *hashEmbedder) queryCalls() int64 {
	return e.calls.Load()
}
