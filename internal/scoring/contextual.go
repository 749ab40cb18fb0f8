package scoring

import "strings"

// Preferences are the traveler's declared interests and constraints.
type Preferences struct {
	// Interests are free-form interest tags, e.g. "food", "art".
	Interests []string `json:"interests,omitempty"`

	// Budget is a budget band matched against activity metadata,
	// e.g. "low", "medium", "high".
	Budget string `json:"budget,omitempty"`

	// GroupSize is the traveler party size. Groups larger than
	// groupFriendlyThreshold favor activities tagged group-friendly.
	GroupSize int `json:"group_size,omitempty"`

	// Dietary are dietary constraints matched against activity tags,
	// e.g. "vegetarian", "halal".
	Dietary []string `json:"dietary,omitempty"`
}

const groupFriendlyThreshold = 4

// ContextualScore measures how well an activity's metadata aligns with
// the declared preferences. Each declared signal contributes equally;
// with nothing declared the score is a neutral 0.5.
func ContextualScore(prefs Preferences, c Candidate) float64 {
	tagSet := make(map[string]bool, len(c.Tags)+1)
	for _, tag := range c.Tags {
		tagSet[strings.ToLower(strings.TrimSpace(tag))] = true
	}
	if c.Category != "" {
		tagSet[strings.ToLower(c.Category)] = true
	}

	declared, matched := 0, 0

	for _, interest := range prefs.Interests {
		declared++
		if tagSet[strings.ToLower(strings.TrimSpace(interest))] {
			matched++
		}
	}

	if prefs.Budget != "" {
		declared++
		if strings.EqualFold(prefs.Budget, c.Budget) {
			matched++
		}
	}

	if prefs.GroupSize > groupFriendlyThreshold {
		declared++
		if tagSet["group-friendly"] {
			matched++
		}
	}

	for _, diet := range prefs.Dietary {
		declared++
		if tagSet[strings.ToLower(strings.TrimSpace(diet))] {
			matched++
		}
	}

	if declared == 0 {
		return 0.5
	}
	return float64(matched) / float64(declared)
}
