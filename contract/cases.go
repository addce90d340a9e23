// Package contract holds the behavior every deployment of the posts API
// must show, expressed as cases run against a [harness.Harness].
package contract

import (
	"context"
	"net/http"

	"github.com/karlseguin/typed"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.hacdias.com/posts/core"
	"go.hacdias.com/posts/harness"
)

type Case struct {
	Group string
	Name  string
	Run   func(t require.TestingT, h *harness.Harness)
}

func (c Case) ID() string {
	return c.Group + "/" + c.Name
}

var Cases = []Case{
	{"GET", "returns all existing posts", listReturnsAllPosts},
	{"GET", "returns posts with the right fields", listReturnsRequiredFields},
	{"GET", "returns a single post", getReturnsPost},
	{"GET", "returns not found for unknown posts", getUnknownPost},
	{"POST", "adds a new post", createAddsPost},
	{"POST", "rejects posts with missing fields", createRequiresFields},
	{"PUT", "updates the fields sent over", updateChangesSuppliedFields},
	{"PUT", "rejects mismatched ids", updateRejectsMismatchedID},
	{"DELETE", "deletes a post by id", deleteRemovesPost},
	{"teardown", "wiping an empty store succeeds", wipeIsIdempotent},
}

// Groups returns the case groups in declaration order.
func Groups(cases []Case) []string {
	return lo.Uniq(lo.Map(cases, func(c Case, _ int) string {
		return c.Group
	}))
}

func requireView(t require.TestingT, post typed.Typed) {
	require.ElementsMatch(t, core.PostViewFields, lo.Keys(map[string]interface{}(post)))
	require.NotEmpty(t, post.String("id"))
}

func requireSameAsStored(t require.TestingT, post typed.Typed, stored core.Post) {
	require.Equal(t, stored.ID, post.String("id"))
	require.Equal(t, stored.Author.String(), post.String("author"))
	require.Equal(t, stored.Title, post.String("title"))
	require.Equal(t, stored.Content, post.String("content"))
}

func listPosts(t require.TestingT, h *harness.Harness) []typed.Typed {
	res, err := h.Get(context.Background(), "/posts")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.Status)
	require.True(t, res.IsJSON(), "response is not JSON")

	var posts []typed.Typed
	require.NoError(t, res.JSON(&posts), "response is not an array")
	return posts
}

func listReturnsAllPosts(t require.TestingT, h *harness.Harness) {
	posts := listPosts(t, h)
	require.GreaterOrEqual(t, len(posts), 1)

	count, err := h.DB.Count(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, count)
	require.Len(t, posts, h.SeedSize())
}

func listReturnsRequiredFields(t require.TestingT, h *harness.Harness) {
	posts := listPosts(t, h)
	require.GreaterOrEqual(t, len(posts), 1)

	for _, post := range posts {
		requireView(t, post)
	}

	first := posts[0]
	stored, err := h.DB.FindByID(context.Background(), first.String("id"))
	require.NoError(t, err)
	requireSameAsStored(t, first, stored)
}

func getReturnsPost(t require.TestingT, h *harness.Harness) {
	ctx := context.Background()

	stored, err := h.DB.FindOne(ctx)
	require.NoError(t, err)

	res, err := h.Get(ctx, "/posts/"+stored.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.Status)

	var post typed.Typed
	require.NoError(t, res.JSON(&post))
	requireView(t, post)
	requireSameAsStored(t, post, stored)
}

func getUnknownPost(t require.TestingT, h *harness.Harness) {
	res, err := h.Get(context.Background(), "/posts/does-not-exist")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, res.Status)
}

func createAddsPost(t require.TestingT, h *harness.Harness) {
	ctx := context.Background()
	payload := h.Fixtures.Post()

	res, err := h.Post(ctx, "/posts", payload)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.Status)
	require.True(t, res.IsJSON(), "response is not JSON")

	var post typed.Typed
	require.NoError(t, res.JSON(&post))
	requireView(t, post)
	require.Equal(t, payload.Title, post.String("title"))
	require.Equal(t, payload.Content, post.String("content"))

	stored, err := h.DB.FindByID(ctx, post.String("id"))
	require.NoError(t, err)
	require.Equal(t, payload.Author.FirstName, stored.Author.FirstName)
	require.Equal(t, payload.Author.LastName, stored.Author.LastName)
	require.Equal(t, payload.Title, stored.Title)
	require.Equal(t, payload.Content, stored.Content)
}

func createRequiresFields(t require.TestingT, h *harness.Harness) {
	ctx := context.Background()

	before, err := h.DB.Count(ctx)
	require.NoError(t, err)

	payload := h.Fixtures.Post()
	res, err := h.Post(ctx, "/posts", map[string]interface{}{
		"author":  payload.Author,
		"content": payload.Content,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, res.Status)

	after, err := h.DB.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func updateChangesSuppliedFields(t require.TestingT, h *harness.Harness) {
	ctx := context.Background()

	original, err := h.DB.FindOne(ctx)
	require.NoError(t, err)

	patch := h.Fixtures.Patch()
	patch.ID = original.ID

	res, err := h.Put(ctx, "/posts/"+original.ID, patch)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, res.Status)
	require.Empty(t, res.Body)

	updated, err := h.DB.FindByID(ctx, original.ID)
	require.NoError(t, err)
	require.Equal(t, *patch.Title, updated.Title)
	require.Equal(t, *patch.Content, updated.Content)
	require.Equal(t, original.Author, updated.Author)
	require.True(t, original.Created.Equal(updated.Created), "created changed")
}

func updateRejectsMismatchedID(t require.TestingT, h *harness.Harness) {
	ctx := context.Background()

	original, err := h.DB.FindOne(ctx)
	require.NoError(t, err)

	patch := h.Fixtures.Patch()
	patch.ID = original.ID + "-other"

	res, err := h.Put(ctx, "/posts/"+original.ID, patch)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, res.Status)

	stored, err := h.DB.FindByID(ctx, original.ID)
	require.NoError(t, err)
	require.Equal(t, original.Title, stored.Title)
	require.Equal(t, original.Content, stored.Content)
}

func deleteRemovesPost(t require.TestingT, h *harness.Harness) {
	ctx := context.Background()

	post, err := h.DB.FindOne(ctx)
	require.NoError(t, err)

	res, err := h.Delete(ctx, "/posts/"+post.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, res.Status)
	require.Empty(t, res.Body)

	_, err = h.DB.FindByID(ctx, post.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func wipeIsIdempotent(t require.TestingT, h *harness.Harness) {
	ctx := context.Background()

	require.NoError(t, h.Wipe(ctx))
	require.NoError(t, h.Wipe(ctx))

	count, err := h.DB.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}
