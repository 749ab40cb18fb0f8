package retrieval

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tarana-ai/taranad/internal/retrieval"

// Metrics tracks retrieval-level counters and latency. All recording
// methods are nil-safe so callers never need to guard.
type Metrics struct {
	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
	searches    metric.Int64Counter
	duration    metric.Float64Histogram
}

// NewMetrics creates retrieval metrics using the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	cacheHits, err := meter.Int64Counter(
		"retrieval.cache.hits",
		metric.WithDescription("Search batches served from cache"),
	)
	if err != nil {
		return nil, err
	}

	cacheMisses, err := meter.Int64Counter(
		"retrieval.cache.misses",
		metric.WithDescription("Search batches requiring an upstream call"),
	)
	if err != nil {
		return nil, err
	}

	searches, err := meter.Int64Counter(
		"retrieval.searches",
		metric.WithDescription("Multi-query search requests"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"retrieval.search.duration",
		metric.WithDescription("End-to-end multi-query search latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		cacheHits:   cacheHits,
		cacheMisses: cacheMisses,
		searches:    searches,
		duration:    duration,
	}, nil
}

func (m *Metrics) RecordCacheHit(ctx context.Context) {
	if m == nil || m.cacheHits == nil {
		return
	}
	m.cacheHits.Add(ctx, 1)
}

func (m *Metrics) RecordCacheMiss(ctx context.Context) {
	if m == nil || m.cacheMisses == nil {
		return
	}
	m.cacheMisses.Add(ctx, 1)
}

func (m *Metrics) RecordSearch(ctx context.Context, queryCount int, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.Int("query_count", queryCount),
		attribute.String("status", status),
	)
	if m.searches != nil {
		m.searches.Add(ctx, 1, attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, d.Seconds(), attrs)
	}
}
