package scoring

import "strings"

// DiversityScore penalizes candidates too similar to already-selected
// higher-ranked picks, so an itinerary is not dominated by one activity
// type. The score is 1 minus the highest overlap with any selected
// candidate: same category counts as full overlap, otherwise tag
// Jaccard similarity. With nothing selected yet the score is 1.
func DiversityScore(c Candidate, selected []Candidate) float64 {
	if len(selected) == 0 {
		return 1
	}

	var worst float64
	for _, s := range selected {
		overlap := candidateOverlap(c, s)
		if overlap > worst {
			worst = overlap
		}
	}
	return 1 - worst
}

func candidateOverlap(a, b Candidate) float64 {
	if a.Category != "" && strings.EqualFold(a.Category, b.Category) {
		return 1
	}
	return tagJaccard(a.Tags, b.Tags)
}

func tagJaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]bool, len(a))
	for _, tag := range a {
		set[strings.ToLower(strings.TrimSpace(tag))] = true
	}

	intersection := 0
	union := len(set)
	seen := make(map[string]bool, len(b))
	for _, tag := range b {
		key := strings.ToLower(strings.TrimSpace(tag))
		if seen[key] {
			continue
		}
		seen[key] = true
		if set[key] {
			intersection++
		} else {
			union++
		}
	}
	return float64(intersection) / float64(union)
}
