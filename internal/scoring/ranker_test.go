package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRanker(t *testing.T) *Ranker {
	t.Helper()
	r, err := NewRanker(DefaultWeights(), []PeakWindow{{Start: 17, End: 20}})
	require.NoError(t, err)
	return r
}

func TestNewRankerNormalizesWeights(t *testing.T) {
	r := newTestRanker(t)
	assert.InDelta(t, 1.0, r.Weights().Sum(), 1e-9)
}

func TestNewRankerRejectsInvalidWeights(t *testing.T) {
	_, err := NewRanker(Weights{}, nil)
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestRankOrdersBySimilarity(t *testing.T) {
	r := newTestRanker(t)

	candidates := []Candidate{
		{ActivityID: "weak", Title: "Weak Match", Category: "a", Semantic: 0.1, Vector: 0.1},
		{ActivityID: "strong", Title: "Strong Match", Category: "b", Semantic: 0.9, Vector: 0.9},
		{ActivityID: "middle", Title: "Middle Match", Category: "c", Semantic: 0.5, Vector: 0.5},
	}

	ranked := r.Rank("anything", Preferences{}, candidates, 0)
	require.Len(t, ranked, 3)
	assert.Equal(t, "strong", ranked[0].ActivityID)
	assert.Equal(t, "middle", ranked[1].ActivityID)
	assert.Equal(t, "weak", ranked[2].ActivityID)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Final, ranked[i].Final)
	}
}

func TestRankTopKLimits(t *testing.T) {
	r := newTestRanker(t)

	candidates := []Candidate{
		{ActivityID: "a", Semantic: 0.3},
		{ActivityID: "b", Semantic: 0.2},
		{ActivityID: "c", Semantic: 0.1},
	}

	ranked := r.Rank("q", Preferences{}, candidates, 2)
	assert.Len(t, ranked, 2)

	assert.Empty(t, r.Rank("q", Preferences{}, nil, 2))
}

func TestRankTieBreaksOnActivityID(t *testing.T) {
	r := newTestRanker(t)

	candidates := []Candidate{
		{ActivityID: "zebra", Semantic: 0.5, Category: "a"},
		{ActivityID: "aardvark", Semantic: 0.5, Category: "b"},
	}

	for range 10 {
		ranked := r.Rank("q", Preferences{}, candidates, 0)
		require.Len(t, ranked, 2)
		assert.Equal(t, "aardvark", ranked[0].ActivityID, "ties must break lexicographically")
	}
}

func TestRankDiversityPenalizesRepeatedCategory(t *testing.T) {
	r, err := NewRanker(Weights{Semantic: 0.5, Diversity: 0.5}, nil)
	require.NoError(t, err)

	candidates := []Candidate{
		{ActivityID: "museum-1", Category: "museum", Semantic: 0.9},
		{ActivityID: "museum-2", Category: "museum", Semantic: 0.85},
		{ActivityID: "market", Category: "food", Semantic: 0.6},
	}

	ranked := r.Rank("q", Preferences{}, candidates, 0)
	require.Len(t, ranked, 3)
	assert.Equal(t, "museum-1", ranked[0].ActivityID)
	// The second museum loses its diversity score entirely; the market,
	// though less similar, ranks above it.
	assert.Equal(t, "market", ranked[1].ActivityID)
	assert.Equal(t, "museum-2", ranked[2].ActivityID)

	assert.InDelta(t, 0.0, ranked[2].Scores.Diversity, 1e-9)
	assert.InDelta(t, 1.0, ranked[1].Scores.Diversity, 1e-9)
}

func TestRankBreakdownPopulated(t *testing.T) {
	r := newTestRanker(t)

	candidates := []Candidate{{
		ActivityID:  "ramen-shop",
		Title:       "Ramen Shop",
		Description: "steaming ramen noodles",
		Category:    "food",
		Tags:        []string{"noodles"},
		Budget:      "low",
		VisitStart:  11,
		VisitEnd:    14,
		Semantic:    0.8,
		Vector:      0.75,
	}}

	ranked := r.Rank("ramen noodles", Preferences{Interests: []string{"food"}, Budget: "low"}, candidates, 1)
	require.Len(t, ranked, 1)

	s := ranked[0].Scores
	assert.InDelta(t, 0.8, s.Semantic, 1e-9)
	assert.InDelta(t, 0.75, s.Vector, 1e-9)
	assert.InDelta(t, 1.0, s.Fuzzy, 1e-9)
	assert.InDelta(t, 1.0, s.Contextual, 1e-9)
	assert.InDelta(t, 1.0, s.Temporal, 1e-9)
	assert.InDelta(t, 1.0, s.Diversity, 1e-9)
	assert.Greater(t, ranked[0].Final, 0.0)
}
