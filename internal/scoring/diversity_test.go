package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiversityScore(t *testing.T) {
	museum := Candidate{ActivityID: "art-museum", Category: "museum", Tags: []string{"art", "indoor"}}
	gallery := Candidate{ActivityID: "gallery", Category: "museum", Tags: []string{"art"}}
	market := Candidate{ActivityID: "night-market", Category: "food", Tags: []string{"street-food", "outdoor"}}

	t.Run("nothing selected", func(t *testing.T) {
		assert.InDelta(t, 1.0, DiversityScore(museum, nil), 1e-9)
	})

	t.Run("same category fully penalized", func(t *testing.T) {
		assert.InDelta(t, 0.0, DiversityScore(gallery, []Candidate{museum}), 1e-9)
	})

	t.Run("different category unpenalized", func(t *testing.T) {
		assert.InDelta(t, 1.0, DiversityScore(market, []Candidate{museum}), 1e-9)
	})

	t.Run("worst overlap wins", func(t *testing.T) {
		assert.InDelta(t, 0.0, DiversityScore(gallery, []Candidate{market, museum}), 1e-9)
	})

	t.Run("partial tag overlap", func(t *testing.T) {
		a := Candidate{Tags: []string{"art", "indoor"}}
		b := Candidate{Category: "other", Tags: []string{"art", "outdoor"}}
		// jaccard: 1 shared of 3 distinct tags
		assert.InDelta(t, 1-1.0/3, DiversityScore(a, []Candidate{b}), 1e-9)
	})
}

func TestTagJaccard(t *testing.T) {
	assert.InDelta(t, 0.0, tagJaccard(nil, []string{"a"}), 1e-9)
	assert.InDelta(t, 1.0, tagJaccard([]string{"A", "b"}, []string{"a", "B"}), 1e-9)
	assert.InDelta(t, 0.5, tagJaccard([]string{"a"}, []string{"a", "b"}), 1e-9)
}
