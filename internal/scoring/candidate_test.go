package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tarana-ai/taranad/internal/vectorstore"
)

func TestCandidateFromResult(t *testing.T) {
	t.Run("string metadata", func(t *testing.T) {
		r := vectorstore.SearchResult{
			ActivityID: "ramen-shop",
			Content:    "Ramen Shop. Steaming bowls.",
			Similarity: 0.91,
			Metadata: map[string]any{
				"title":       "Ramen Shop",
				"description": "Steaming bowls of tonkotsu",
				"category":    "food",
				"tags":        "noodles, casual",
				"budget":      "low",
				"visit_start": "11",
				"visit_end":   "14",
			},
		}

		c := CandidateFromResult(r, 0.88)
		assert.Equal(t, "ramen-shop", c.ActivityID)
		assert.Equal(t, "Ramen Shop", c.Title)
		assert.Equal(t, "Steaming bowls of tonkotsu", c.Description)
		assert.Equal(t, "food", c.Category)
		assert.Equal(t, []string{"noodles", "casual"}, c.Tags)
		assert.Equal(t, "low", c.Budget)
		assert.Equal(t, 11, c.VisitStart)
		assert.Equal(t, 14, c.VisitEnd)
		assert.InDelta(t, 0.88, c.Semantic, 1e-9)
		assert.InDelta(t, 0.91, c.Vector, 1e-6)
	})

	t.Run("json round-tripped metadata", func(t *testing.T) {
		r := vectorstore.SearchResult{
			ActivityID: "art-museum",
			Metadata: map[string]any{
				"tags":        []any{"art", "indoor"},
				"visit_start": float64(9),
				"visit_end":   float64(17),
			},
		}

		c := CandidateFromResult(r, 0)
		assert.Equal(t, []string{"art", "indoor"}, c.Tags)
		assert.Equal(t, 9, c.VisitStart)
		assert.Equal(t, 17, c.VisitEnd)
	})

	t.Run("missing metadata falls back", func(t *testing.T) {
		r := vectorstore.SearchResult{ActivityID: "mystery"}

		c := CandidateFromResult(r, 0)
		assert.Equal(t, "mystery", c.Title)
		assert.Empty(t, c.Tags)
		assert.Zero(t, c.VisitStart)
	})
}
