package vectorstore

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/tarana-ai/taranad/internal/vectorstore"

// Metrics holds vector store metrics. All recording methods are nil-safe
// on their instruments so a failed instrument registration degrades to
// logging only.
type Metrics struct {
	meter    metric.Meter
	logger   *zap.Logger
	searches metric.Int64Counter
	results  metric.Int64Histogram
	upserts  metric.Int64Counter
}

// NewMetrics creates a Metrics instance for vector store operations.
func NewMetrics(logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Metrics{
		meter:  otel.Meter(instrumentationName),
		logger: logger,
	}
	m.init()
	return m
}

func (m *Metrics) init() {
	var err error

	m.searches, err = m.meter.Int64Counter(
		"taranad.vectorstore.searches_total",
		metric.WithDescription("Total similarity searches by backend"),
		metric.WithUnit("{search}"),
	)
	if err != nil {
		m.logger.Warn("failed to create searches counter", zap.Error(err))
	}

	m.results, err = m.meter.Int64Histogram(
		"taranad.vectorstore.search_results",
		metric.WithDescription("Number of results returned per similarity search"),
		metric.WithUnit("{result}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 5, 10, 25, 50),
	)
	if err != nil {
		m.logger.Warn("failed to create results histogram", zap.Error(err))
	}

	m.upserts, err = m.meter.Int64Counter(
		"taranad.vectorstore.upserts_total",
		metric.WithDescription("Total activity records upserted by backend"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		m.logger.Warn("failed to create upserts counter", zap.Error(err))
	}
}

// RecordSearch records a completed similarity search.
func (m *Metrics) RecordSearch(ctx context.Context, backend string, resultCount int) {
	attrs := metric.WithAttributes(attribute.String("backend", backend))
	if m.searches != nil {
		m.searches.Add(ctx, 1, attrs)
	}
	if m.results != nil {
		m.results.Record(ctx, int64(resultCount), attrs)
	}
}

// RecordUpsert records upserted activity records.
func (m *Metrics) RecordUpsert(ctx context.Context, backend string, count int) {
	if m.upserts != nil {
		m.upserts.Add(ctx, int64(count), metric.WithAttributes(attribute.String("backend", backend)))
	}
}
