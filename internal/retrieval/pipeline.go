package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/tarana-ai/taranad/internal/scoring"
	"github.com/tarana-ai/taranad/internal/vectorstore"
)

// ErrEmptyRequest is returned when a retrieval request has no query.
var ErrEmptyRequest = errors.New("retrieval: empty request")

// QueryExpander rewrites a user query into one or more sub-queries
// before retrieval. Implementations may call out to an LLM or apply
// static templates.
type QueryExpander interface {
	Expand(ctx context.Context, query string) ([]string, error)
}

// CandidateFilter removes candidates that fail hard constraints before
// ranking, for example closures pulled from traffic or weather feeds.
type CandidateFilter interface {
	Filter(ctx context.Context, prefs scoring.Preferences, candidates []scoring.Candidate) ([]scoring.Candidate, error)
}

// NoopExpander passes the query through unchanged as a single
// sub-query.
type NoopExpander struct{}

func (NoopExpander) Expand(_ context.Context, query string) ([]string, error) {
	return []string{query}, nil
}

// NoopFilter keeps every candidate.
type NoopFilter struct{}

func (NoopFilter) Filter(_ context.Context, _ scoring.Preferences, candidates []scoring.Candidate) ([]scoring.Candidate, error) {
	return candidates, nil
}

// Request is one retrieval invocation.
type Request struct {
	Query       string              `json:"query"`
	Preferences scoring.Preferences `json:"preferences"`

	// MatchCount is the per-sub-query result limit. Zero uses the
	// orchestrator default.
	MatchCount int `json:"match_count"`

	// TopK bounds the ranked output. Zero returns every candidate.
	TopK int `json:"top_k"`
}

// Response is the ranked outcome of a retrieval request.
type Response struct {
	Results    []scoring.ScoredCandidate `json:"results"`
	SubQueries []string                  `json:"sub_queries"`

	// CandidateCount is the number of distinct activities considered
	// before filtering and ranking.
	CandidateCount int `json:"candidate_count"`
}

// Orchestrator drives the retrieval pipeline: expand the query, fetch
// candidate batches, attach similarity scores, filter, then rank. The
// first stage to fail aborts the request; there is no partial-result
// recovery.
type Orchestrator struct {
	service           *Service
	ranker            *scoring.Ranker
	expander          QueryExpander
	filter            CandidateFilter
	defaultMatchCount int
	logger            *zap.Logger
}

// OrchestratorOption configures optional collaborators.
type OrchestratorOption func(*Orchestrator)

// WithExpander replaces the no-op query expander.
func WithExpander(e QueryExpander) OrchestratorOption {
	return func(o *Orchestrator) { o.expander = e }
}

// WithFilter replaces the no-op candidate filter.
func WithFilter(f CandidateFilter) OrchestratorOption {
	return func(o *Orchestrator) { o.filter = f }
}

// NewOrchestrator wires the pipeline. service and ranker are required;
// expansion and filtering default to no-ops.
func NewOrchestrator(service *Service, ranker *scoring.Ranker, defaultMatchCount int, logger *zap.Logger, opts ...OrchestratorOption) (*Orchestrator, error) {
	if service == nil {
		return nil, errors.New("retrieval: service is required")
	}
	if ranker == nil {
		return nil, errors.New("retrieval: ranker is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultMatchCount <= 0 {
		defaultMatchCount = 5
	}

	o := &Orchestrator{
		service:           service,
		ranker:            ranker,
		expander:          NoopExpander{},
		filter:            NoopFilter{},
		defaultMatchCount: defaultMatchCount,
		logger:            logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Retrieve runs the full pipeline for one request.
func (o *Orchestrator) Retrieve(ctx context.Context, req Request) (*Response, error) {
	tracer := otel.Tracer(instrumentationName)
	ctx, span := tracer.Start(ctx, "retrieval.retrieve")
	defer span.End()

	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyRequest
	}
	matchCount := req.MatchCount
	if matchCount <= 0 {
		matchCount = o.defaultMatchCount
	}

	subQueries, err := o.expander.Expand(ctx, req.Query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query expansion failed")
		return nil, fmt.Errorf("expand query: %w", err)
	}
	if len(subQueries) == 0 {
		subQueries = []string{req.Query}
	}
	span.SetAttributes(attribute.Int("sub_queries", len(subQueries)))

	batches, err := o.service.Search(ctx, subQueries, matchCount)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "candidate fetch failed")
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	candidates := buildCandidates(batches)
	span.SetAttributes(attribute.Int("candidates", len(candidates)))
	candidateCount := len(candidates)

	filtered, err := o.filter.Filter(ctx, req.Preferences, candidates)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "candidate filter failed")
		return nil, fmt.Errorf("filter candidates: %w", err)
	}

	ranked := o.ranker.Rank(req.Query, req.Preferences, filtered, req.TopK)

	o.logger.Debug("retrieval complete",
		zap.String("query", req.Query),
		zap.Int("sub_queries", len(subQueries)),
		zap.Int("candidates", candidateCount),
		zap.Int("ranked", len(ranked)))

	return &Response{
		Results:        ranked,
		SubQueries:     subQueries,
		CandidateCount: candidateCount,
	}, nil
}

// buildCandidates flattens batches into distinct candidates. The
// semantic signal is the merged best score per title from ScoreMap; the
// vector signal is the hit's own similarity. Duplicate activity ids
// across sub-queries collapse to the hit with the highest similarity.
func buildCandidates(batches [][]vectorstore.SearchResult) []scoring.Candidate {
	scores := ScoreMap(batches)

	byID := make(map[string]scoring.Candidate)
	order := make([]string, 0)
	for _, batch := range batches {
		for _, r := range batch {
			c := scoring.CandidateFromResult(r, scores[r.Title()])
			existing, seen := byID[r.ActivityID]
			if !seen {
				byID[r.ActivityID] = c
				order = append(order, r.ActivityID)
				continue
			}
			if c.Vector > existing.Vector {
				byID[r.ActivityID] = c
			}
		}
	}

	candidates := make([]scoring.Candidate, 0, len(order))
	for _, id := range order {
		candidates = append(candidates, byID[id])
	}
	return candidates
}
