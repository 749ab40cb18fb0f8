package scoring

import (
	"strings"
)

// FuzzyScore measures token overlap between the query and an activity's
// title, description, and tags. Returns a value in [0, 1].
func FuzzyScore(query string, c Candidate) float64 {
	querySet := make(map[string]bool)
	for _, token := range tokenize(query) {
		querySet[token] = true
	}
	if len(querySet) == 0 {
		return 0
	}

	docTokens := tokenize(c.Title + " " + c.Description + " " + strings.Join(c.Tags, " "))
	docSet := make(map[string]bool, len(docTokens))
	for _, token := range docTokens {
		docSet[token] = true
	}

	matched := 0
	for token := range querySet {
		if docSet[token] {
			matched++
		}
	}
	return float64(matched) / float64(len(querySet))
}

// tokenize splits text into lowercase terms, filtering stopwords and
// tokens shorter than three characters.
func tokenize(text string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isAlphanumeric(r)
	})

	filtered := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if len(token) > 2 && !stopwords[token] {
			filtered = append(filtered, token)
		}
	}
	return filtered
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || r == '_'
}

var stopwords = map[string]bool{
	"the": true, "and": true, "but": true, "for": true, "with": true,
	"from": true, "was": true, "are": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "can": true, "this": true, "that": true, "these": true,
	"those": true, "you": true, "she": true, "they": true, "what": true,
	"which": true, "who": true, "when": true, "where": true, "why": true,
	"how": true, "place": true, "near": true, "nearby": true,
}
