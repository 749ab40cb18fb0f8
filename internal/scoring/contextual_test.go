package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextualScore(t *testing.T) {
	candidate := Candidate{
		Category: "food",
		Tags:     []string{"noodles", "vegetarian", "group-friendly"},
		Budget:   "low",
	}

	tests := []struct {
		name  string
		prefs Preferences
		want  float64
	}{
		{
			name:  "no declared preferences is neutral",
			prefs: Preferences{},
			want:  0.5,
		},
		{
			name:  "matching interest",
			prefs: Preferences{Interests: []string{"food"}},
			want:  1.0,
		},
		{
			name:  "category counts as tag",
			prefs: Preferences{Interests: []string{"Food"}},
			want:  1.0,
		},
		{
			name:  "half matched interests",
			prefs: Preferences{Interests: []string{"noodles", "hiking"}},
			want:  0.5,
		},
		{
			name:  "budget match",
			prefs: Preferences{Budget: "LOW"},
			want:  1.0,
		},
		{
			name:  "budget mismatch",
			prefs: Preferences{Budget: "high"},
			want:  0,
		},
		{
			name:  "large group matched by group-friendly tag",
			prefs: Preferences{GroupSize: 6},
			want:  1.0,
		},
		{
			name:  "small group not a signal",
			prefs: Preferences{GroupSize: 2},
			want:  0.5,
		},
		{
			name:  "dietary constraint matched",
			prefs: Preferences{Dietary: []string{"vegetarian"}},
			want:  1.0,
		},
		{
			name: "mixed signals",
			prefs: Preferences{
				Interests: []string{"food"},
				Budget:    "high",
				Dietary:   []string{"halal"},
			},
			want: 1.0 / 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ContextualScore(tt.prefs, candidate), 1e-9)
		})
	}
}

func TestContextualScoreLargeGroupWithoutTag(t *testing.T) {
	c := Candidate{Category: "museum", Tags: []string{"art"}}
	assert.InDelta(t, 0.0, ContextualScore(Preferences{GroupSize: 8}, c), 1e-9)
}
