package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validActivity() Activity {
	return Activity{
		ID:          "ramen-shop",
		Title:       "Ramen Shop",
		Description: "Steaming bowls of tonkotsu in a tiny alley spot",
		Category:    "food",
		Tags:        []string{"noodles", "casual"},
		Budget:      "low",
		VisitStart:  11,
		VisitEnd:    14,
	}
}

func TestActivityValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Activity)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Activity) {}},
		{name: "missing id", mutate: func(a *Activity) { a.ID = " " }, wantErr: true},
		{name: "missing title", mutate: func(a *Activity) { a.Title = "" }, wantErr: true},
		{name: "inverted window", mutate: func(a *Activity) { a.VisitStart = 14; a.VisitEnd = 11 }, wantErr: true},
		{name: "window past midnight", mutate: func(a *Activity) { a.VisitEnd = 25 }, wantErr: true},
		{name: "no window is fine", mutate: func(a *Activity) { a.VisitStart = 0; a.VisitEnd = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validActivity()
			tt.mutate(&a)
			err := a.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidActivity)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestActivityDocument(t *testing.T) {
	doc := validActivity().Document()
	assert.Contains(t, doc, "Ramen Shop")
	assert.Contains(t, doc, "tonkotsu")
	assert.Contains(t, doc, "Category: food")
	assert.Contains(t, doc, "noodles, casual")

	bare := Activity{ID: "x", Title: "Just a Title"}
	assert.Equal(t, "Just a Title", bare.Document())
}

func TestActivityRecord(t *testing.T) {
	r := validActivity().Record()
	assert.Equal(t, "ramen-shop", r.ActivityID)
	assert.Equal(t, "Ramen Shop", r.Metadata["title"])
	assert.Equal(t, "food", r.Metadata["category"])
	assert.Equal(t, []string{"noodles", "casual"}, r.Metadata["tags"])
	assert.Equal(t, "low", r.Metadata["budget"])
	assert.Equal(t, 11, r.Metadata["visit_start"])
	assert.Equal(t, 14, r.Metadata["visit_end"])
	assert.NotEmpty(t, r.Content)

	bare := Activity{ID: "x", Title: "T"}.Record()
	assert.NotContains(t, bare.Metadata, "tags")
	assert.NotContains(t, bare.Metadata, "visit_start")
}

func TestParse(t *testing.T) {
	t.Run("valid catalog", func(t *testing.T) {
		c, err := Parse([]byte(`{
			"activities": [
				{"id": "a", "title": "A", "category": "food"},
				{"id": "b", "title": "B", "category": "museum"}
			]
		}`))
		require.NoError(t, err)
		assert.Equal(t, 2, c.Len())
		assert.Len(t, c.Records(), 2)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		_, err := Parse([]byte(`{
			"activities": [
				{"id": "a", "title": "A"},
				{"id": "a", "title": "A again"}
			]
		}`))
		assert.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("invalid activity rejected", func(t *testing.T) {
		_, err := Parse([]byte(`{"activities": [{"id": "a"}]}`))
		assert.ErrorIs(t, err, ErrInvalidActivity)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := Parse([]byte(`{`))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"activities": [{"id": "a", "title": "A"}]}`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
