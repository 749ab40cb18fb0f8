package scoring

import (
	"sort"
)

// Ranker combines per-dimension scores into a final ranking. The weight
// vector is normalized once at construction; ranking is deterministic
// with ties broken lexicographically on ActivityID.
type Ranker struct {
	weights Weights
	peaks   []PeakWindow
}

// NewRanker creates a Ranker with the given raw weights and peak-hour
// windows. Weights are normalized here; invalid weights are rejected.
func NewRanker(weights Weights, peaks []PeakWindow) (*Ranker, error) {
	normalized, err := weights.Normalize()
	if err != nil {
		return nil, err
	}
	return &Ranker{weights: normalized, peaks: peaks}, nil
}

// Weights returns the normalized weight vector in use.
func (r *Ranker) Weights() Weights {
	return r.weights
}

// Rank scores candidates against the query and preferences and returns
// the top K by final weighted score, highest first. topK <= 0 ranks all
// candidates.
//
// Selection is greedy: the diversity dimension of each pick is computed
// against the already-selected set, so a strong second museum scores
// lower than a first street-food stall of equal similarity.
func (r *Ranker) Rank(query string, prefs Preferences, candidates []Candidate, topK int) []ScoredCandidate {
	if len(candidates) == 0 {
		return []ScoredCandidate{}
	}
	if topK <= 0 || topK > len(candidates) {
		topK = len(candidates)
	}

	type staticScore struct {
		candidate Candidate
		scores    Breakdown
	}

	// Static dimensions do not depend on selection order.
	pool := make([]staticScore, len(candidates))
	for i, c := range candidates {
		pool[i] = staticScore{
			candidate: c,
			scores: Breakdown{
				Semantic:   c.Semantic,
				Vector:     c.Vector,
				Fuzzy:      FuzzyScore(query, c),
				Contextual: ContextualScore(prefs, c),
				Temporal:   TemporalScore(r.peaks, c),
			},
		}
	}

	// Stable input order for deterministic greedy selection.
	sort.Slice(pool, func(i, j int) bool {
		return pool[i].candidate.ActivityID < pool[j].candidate.ActivityID
	})

	ranked := make([]ScoredCandidate, 0, topK)
	selected := make([]Candidate, 0, topK)
	used := make([]bool, len(pool))

	for len(ranked) < topK {
		bestIdx := -1
		var best ScoredCandidate

		for i, entry := range pool {
			if used[i] {
				continue
			}
			scores := entry.scores
			scores.Diversity = DiversityScore(entry.candidate, selected)
			final := r.finalScore(scores)

			if bestIdx == -1 || final > best.Final {
				bestIdx = i
				best = ScoredCandidate{Candidate: entry.candidate, Scores: scores, Final: final}
			}
		}

		used[bestIdx] = true
		ranked = append(ranked, best)
		selected = append(selected, best.Candidate)
	}

	return ranked
}

func (r *Ranker) finalScore(s Breakdown) float64 {
	return r.weights.Semantic*s.Semantic +
		r.weights.Vector*s.Vector +
		r.weights.Fuzzy*s.Fuzzy +
		r.weights.Contextual*s.Contextual +
		r.weights.Temporal*s.Temporal +
		r.weights.Diversity*s.Diversity
}
