// Package scoring ranks candidate activities by combining vector
// similarity with fuzzy text, contextual, temporal, and diversity signals.
package scoring

import (
	"errors"
	"fmt"

	"github.com/tarana-ai/taranad/internal/config"
)

// ErrInvalidWeights indicates an unusable weight vector.
var ErrInvalidWeights = errors.New("invalid scoring weights")

// Weights is the scoring weight vector. Raw weights express relative
// emphasis; Normalize produces a convex combination summing to 1, which
// is the form the ranker consumes.
//
// Semantic and vector are two distinct signals: semantic carries the
// best similarity observed for an activity across all sub-queries of a
// request, vector the raw similarity of the individual hit.
type Weights struct {
	Semantic   float64
	Vector     float64
	Fuzzy      float64
	Contextual float64
	Temporal   float64
	Diversity  float64
}

// DefaultWeights returns the raw default emphasis knobs.
func DefaultWeights() Weights {
	return Weights{
		Semantic:   0.40,
		Vector:     0.25,
		Fuzzy:      0.20,
		Contextual: 0.20,
		Temporal:   0.15,
		Diversity:  0.05,
	}
}

// WeightsFromConfig converts configured weights to the scoring form.
func WeightsFromConfig(cfg config.WeightsConfig) Weights {
	return Weights{
		Semantic:   cfg.Semantic,
		Vector:     cfg.Vector,
		Fuzzy:      cfg.Fuzzy,
		Contextual: cfg.Contextual,
		Temporal:   cfg.Temporal,
		Diversity:  cfg.Diversity,
	}
}

// Normalize returns a copy scaled so the components sum to 1.
func (w Weights) Normalize() (Weights, error) {
	components := []float64{w.Semantic, w.Vector, w.Fuzzy, w.Contextual, w.Temporal, w.Diversity}
	var sum float64
	for _, v := range components {
		if v < 0 {
			return Weights{}, fmt.Errorf("%w: negative component", ErrInvalidWeights)
		}
		sum += v
	}
	if sum == 0 {
		return Weights{}, fmt.Errorf("%w: all components zero", ErrInvalidWeights)
	}
	return Weights{
		Semantic:   w.Semantic / sum,
		Vector:     w.Vector / sum,
		Fuzzy:      w.Fuzzy / sum,
		Contextual: w.Contextual / sum,
		Temporal:   w.Temporal / sum,
		Diversity:  w.Diversity / sum,
	}, nil
}

// Sum returns the total of all components.
func (w Weights) Sum() float64 {
	return w.Semantic + w.Vector + w.Fuzzy + w.Contextual + w.Temporal + w.Diversity
}
