package core

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("post not found")
	ErrInvalidPost = errors.New("invalid post")
)

type Author struct {
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
}

// String returns the display name of the author, as rendered by the API.
func (a Author) String() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// IsZero reports whether the author has no display name.
func (a Author) IsZero() bool {
	return a.String() == ""
}

// Post is the stored representation of a blog post. It is also the shape
// accepted by the API when creating a post.
type Post struct {
	ID      string    `json:"id,omitempty" yaml:"id,omitempty"`
	Author  Author    `json:"author" yaml:"author"`
	Title   string    `json:"title" yaml:"title"`
	Content string    `json:"content" yaml:"content"`
	Created time.Time `json:"created" yaml:"created"`
}

// View returns the public representation of the post.
func (p *Post) View() PostView {
	return PostView{
		ID:      p.ID,
		Author:  p.Author.String(),
		Title:   p.Title,
		Content: p.Content,
		Created: p.Created.UTC(),
	}
}

// Apply changes the fields present in the patch. The identifier is never
// modified.
func (p *Post) Apply(patch Patch) {
	if patch.Author != nil {
		p.Author = *patch.Author
	}

	if patch.Title != nil {
		p.Title = *patch.Title
	}

	if patch.Content != nil {
		p.Content = *patch.Content
	}

	if patch.Created != nil {
		p.Created = *patch.Created
	}
}

// PostView is what the API returns for a post. The author is flattened into
// its display name.
type PostView struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Created time.Time `json:"created"`
}

// PostViewFields are the keys every serialized post carries.
var PostViewFields = []string{"id", "author", "title", "content", "created"}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	ID      string     `json:"id,omitempty"`
	Author  *Author    `json:"author,omitempty"`
	Title   *string    `json:"title,omitempty"`
	Content *string    `json:"content,omitempty"`
	Created *time.Time `json:"created,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p.Author == nil && p.Title == nil && p.Content == nil && p.Created == nil
}
