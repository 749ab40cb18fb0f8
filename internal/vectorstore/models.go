package vectorstore

// ActivityRecord is an activity to be embedded and stored.
type ActivityRecord struct {
	// ActivityID is the caller-supplied unique key. Re-upserting the
	// same id overwrites the stored row.
	ActivityID string

	// Content is the text that gets embedded.
	Content string

	// Metadata holds display and scoring fields (title, category, tags,
	// budget, visiting hours) carried through search results.
	Metadata map[string]any
}

// SearchResult is a single similarity search hit. Results are ephemeral,
// produced per query and never persisted.
type SearchResult struct {
	ActivityID string

	// Content is the stored document text.
	Content string

	// Similarity is the cosine similarity in [-1, 1], higher is closer.
	Similarity float32

	Metadata map[string]any
}

// Title returns the display title for a result, preferring the metadata
// title and falling back to the activity id.
func (r SearchResult) Title() string {
	if t, ok := r.Metadata["title"].(string); ok && t != "" {
		return t
	}
	return r.ActivityID
}
