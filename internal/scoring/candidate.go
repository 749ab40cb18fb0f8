package scoring

import (
	"strconv"
	"strings"

	"github.com/tarana-ai/taranad/internal/vectorstore"
)

// Candidate is an activity under consideration for ranking, with its
// similarity signals already attached.
type Candidate struct {
	ActivityID  string
	Title       string
	Description string
	Category    string
	Tags        []string
	Budget      string

	// VisitStart and VisitEnd bound the ideal visiting window in local
	// hours [start, end). Both zero means no declared window.
	VisitStart int
	VisitEnd   int

	// Semantic is the best similarity observed for this activity's title
	// across all sub-queries of the request.
	Semantic float64

	// Vector is the raw cosine similarity of the individual search hit.
	Vector float64
}

// Breakdown is the per-dimension score record for a ranked candidate.
type Breakdown struct {
	Semantic   float64 `json:"semantic"`
	Vector     float64 `json:"vector"`
	Fuzzy      float64 `json:"fuzzy"`
	Contextual float64 `json:"contextual"`
	Temporal   float64 `json:"temporal"`
	Diversity  float64 `json:"diversity"`
}

// ScoredCandidate is a candidate with its score breakdown and final
// weighted score. Used transiently during ranking and returned to the
// prompt-construction consumer.
type ScoredCandidate struct {
	Candidate
	Scores Breakdown `json:"scores"`
	Final  float64   `json:"final"`
}

// CandidateFromResult builds a Candidate from a search result's
// metadata. Metadata values may arrive as strings (the embedded store
// keeps string-valued metadata) or as native types (the postgres backend
// round-trips JSON), so accessors parse both.
func CandidateFromResult(r vectorstore.SearchResult, semantic float64) Candidate {
	return Candidate{
		ActivityID:  r.ActivityID,
		Title:       r.Title(),
		Description: metaString(r.Metadata, "description"),
		Category:    metaString(r.Metadata, "category"),
		Tags:        metaStrings(r.Metadata, "tags"),
		Budget:      metaString(r.Metadata, "budget"),
		VisitStart:  metaInt(r.Metadata, "visit_start"),
		VisitEnd:    metaInt(r.Metadata, "visit_end"),
		Semantic:    semantic,
		Vector:      float64(r.Similarity),
	}
}

func metaString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func metaStrings(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func metaInt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
