package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tarana-ai/taranad/internal/retrieval"
	"github.com/tarana-ai/taranad/internal/vectorstore"
)

// Orchestrator is the retrieval pipeline the search endpoint fronts.
type Orchestrator interface {
	Retrieve(ctx context.Context, req retrieval.Request) (*retrieval.Response, error)
}

// HealthResponse is the response body for GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReindexResponse is the response body for POST /v1/reindex.
type ReindexResponse struct {
	Indexed int `json:"indexed"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleSearch runs a retrieval request through the pipeline and
// returns the ranked activities with their score breakdowns.
func (s *Server) handleSearch(c echo.Context) error {
	var req retrieval.Request
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid search request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := s.orchestrator.Retrieve(c.Request().Context(), req)
	switch {
	case errors.Is(err, retrieval.ErrEmptyRequest), errors.Is(err, vectorstore.ErrEmptyQuery):
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	case errors.Is(err, vectorstore.ErrStoreUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "vector store unavailable")
	case err != nil:
		s.logger.Error("search failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return c.JSON(http.StatusOK, resp)
}

// handleReindex re-embeds the activity catalog and writes it through to
// the vector store.
func (s *Server) handleReindex(c echo.Context) error {
	if s.reindexer == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "reindexing is not configured")
	}

	indexed, err := s.reindexer.Reindex(c.Request().Context())
	switch {
	case errors.Is(err, vectorstore.ErrStoreUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "vector store unavailable")
	case err != nil:
		s.logger.Error("reindex failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "reindex failed")
	}

	s.logger.Info("catalog reindexed", zap.Int("indexed", indexed))
	return c.JSON(http.StatusOK, ReindexResponse{Indexed: indexed})
}
