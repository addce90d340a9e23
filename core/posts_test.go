package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorString(t *testing.T) {
	tests := []struct {
		author   Author
		expected string
	}{
		{Author{FirstName: "Jane", LastName: "Austen"}, "Jane Austen"},
		{Author{FirstName: "Jane"}, "Jane"},
		{Author{LastName: "Austen"}, "Austen"},
		{Author{}, ""},
		{Author{FirstName: " ", LastName: "\t"}, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.author.String())
		assert.Equal(t, tt.expected == "", tt.author.IsZero())
	}
}

func TestPostView(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("WET", 3600))
	p := &Post{
		ID:      "abc",
		Author:  Author{FirstName: "Jane", LastName: "Austen"},
		Title:   "Emma",
		Content: "Emma Woodhouse, handsome, clever, and rich.",
		Created: created,
	}

	view := p.View()
	assert.Equal(t, "abc", view.ID)
	assert.Equal(t, "Jane Austen", view.Author)
	assert.Equal(t, p.Title, view.Title)
	assert.Equal(t, p.Content, view.Content)
	assert.True(t, created.Equal(view.Created))
	assert.Equal(t, time.UTC, view.Created.Location())
}

func TestPostApply(t *testing.T) {
	created := time.Now().Add(-time.Hour)
	p := Post{
		ID:      "abc",
		Author:  Author{FirstName: "Jane", LastName: "Austen"},
		Title:   "Emma",
		Content: "Old content",
		Created: created,
	}

	title := "Persuasion"
	p.Apply(Patch{ID: "other", Title: &title})

	require.Equal(t, "abc", p.ID)
	require.Equal(t, "Persuasion", p.Title)
	require.Equal(t, "Old content", p.Content)
	require.Equal(t, "Jane Austen", p.Author.String())
	require.True(t, created.Equal(p.Created))

	author := Author{FirstName: "Anne", LastName: "Elliot"}
	content := "New content"
	p.Apply(Patch{Author: &author, Content: &content})
	require.Equal(t, "Anne Elliot", p.Author.String())
	require.Equal(t, "New content", p.Content)
	require.Equal(t, "Persuasion", p.Title)

	require.True(t, Patch{ID: "abc"}.IsEmpty())
	require.False(t, Patch{Title: &title}.IsEmpty())
}
