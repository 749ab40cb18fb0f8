// Package catalog models the activity inventory that gets embedded and
// indexed for retrieval. The catalog is the write-side source of truth;
// the vector store only ever holds derived records.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tarana-ai/taranad/internal/vectorstore"
)

var (
	// ErrInvalidActivity is returned for activities missing required
	// fields.
	ErrInvalidActivity = errors.New("catalog: invalid activity")

	// ErrDuplicateID is returned when a catalog contains the same
	// activity id twice.
	ErrDuplicateID = errors.New("catalog: duplicate activity id")
)

// Activity is one bookable or visitable item in the inventory.
type Activity struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	Budget      string   `json:"budget,omitempty"`

	// VisitStart and VisitEnd bound the ideal visiting window in local
	// hours [start, end). Both zero means no declared window.
	VisitStart int `json:"visit_start,omitempty"`
	VisitEnd   int `json:"visit_end,omitempty"`
}

// Validate checks required fields and the visiting window.
func (a Activity) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidActivity)
	}
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("%w: activity %q missing title", ErrInvalidActivity, a.ID)
	}
	if a.VisitStart != 0 || a.VisitEnd != 0 {
		if a.VisitStart < 0 || a.VisitEnd > 24 || a.VisitStart >= a.VisitEnd {
			return fmt.Errorf("%w: activity %q visit window %d-%d", ErrInvalidActivity, a.ID, a.VisitStart, a.VisitEnd)
		}
	}
	return nil
}

// Document renders the text that gets embedded for this activity. Title
// leads so short queries still land near it in vector space.
func (a Activity) Document() string {
	var b strings.Builder
	b.WriteString(a.Title)
	if a.Description != "" {
		b.WriteString(". ")
		b.WriteString(a.Description)
	}
	if a.Category != "" {
		b.WriteString(". Category: ")
		b.WriteString(a.Category)
	}
	if len(a.Tags) > 0 {
		b.WriteString(". Tags: ")
		b.WriteString(strings.Join(a.Tags, ", "))
	}
	return b.String()
}

// Record converts the activity to its vector store representation. The
// metadata keys mirror what the scorer reads back out of search hits.
func (a Activity) Record() vectorstore.ActivityRecord {
	metadata := map[string]any{
		"title":    a.Title,
		"category": a.Category,
	}
	if a.Description != "" {
		metadata["description"] = a.Description
	}
	if len(a.Tags) > 0 {
		metadata["tags"] = a.Tags
	}
	if a.Budget != "" {
		metadata["budget"] = a.Budget
	}
	if a.VisitStart != 0 || a.VisitEnd != 0 {
		metadata["visit_start"] = a.VisitStart
		metadata["visit_end"] = a.VisitEnd
	}
	return vectorstore.ActivityRecord{
		ActivityID: a.ID,
		Content:    a.Document(),
		Metadata:   metadata,
	}
}
