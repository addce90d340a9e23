package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.hacdias.com/posts/config"
	"go.hacdias.com/posts/core"
)

func newTestPost(title string) core.Post {
	return core.Post{
		Author:  core.Author{FirstName: "Jane", LastName: "Austen"},
		Title:   title,
		Content: "It is a truth universally acknowledged.",
		Created: time.Now().Add(-time.Hour).Truncate(time.Millisecond),
	}
}

func testDatabase(t *testing.T, db Database) {
	ctx := context.Background()

	err := db.Drop(ctx)
	require.NoError(t, err)

	count, err := db.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, count)

	_, err = db.FindOne(ctx)
	require.ErrorIs(t, err, core.ErrNotFound)

	ids, err := db.InsertMany(ctx, []core.Post{newTestPost("A"), newTestPost("B"), newTestPost("C")})
	require.NoError(t, err)
	require.Len(t, ids, 3)

	count, err = db.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	posts, err := db.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)

	p, err := db.FindByID(ctx, ids[1])
	require.NoError(t, err)
	require.Equal(t, ids[1], p.ID)
	require.Equal(t, "B", p.Title)
	require.Equal(t, "Jane Austen", p.Author.String())

	created, err := db.Insert(ctx, core.Post{
		Author:  core.Author{FirstName: "Anne", LastName: "Elliot"},
		Title:   "Persuasion",
		Content: "Sir Walter Elliot, of Kellynch Hall.",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.Created.IsZero())

	title := "B, revised"
	err = db.Update(ctx, ids[1], core.Patch{Title: &title})
	require.NoError(t, err)

	updated, err := db.FindByID(ctx, ids[1])
	require.NoError(t, err)
	require.Equal(t, title, updated.Title)
	require.Equal(t, p.Content, updated.Content)
	require.Equal(t, p.Author, updated.Author)
	require.True(t, p.Created.Equal(updated.Created))

	err = db.Update(ctx, ids[1], core.Patch{})
	require.NoError(t, err)

	err = db.Delete(ctx, ids[0])
	require.NoError(t, err)

	_, err = db.FindByID(ctx, ids[0])
	require.ErrorIs(t, err, core.ErrNotFound)

	err = db.Delete(ctx, ids[0])
	require.ErrorIs(t, err, core.ErrNotFound)

	err = db.Update(ctx, ids[0], core.Patch{Title: &title})
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = db.FindByID(ctx, "does-not-exist")
	require.ErrorIs(t, err, core.ErrNotFound)

	err = db.Drop(ctx)
	require.NoError(t, err)

	count, err = db.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, count)

	err = db.Drop(ctx)
	require.NoError(t, err)
}

func TestBolt(t *testing.T) {
	db, err := NewBolt(filepath.Join(t.TempDir(), "bolt.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	testDatabase(t, db)
}

func TestBoltInsertionOrder(t *testing.T) {
	db, err := NewBolt(filepath.Join(t.TempDir(), "bolt.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	for _, title := range []string{"first", "second", "third"} {
		_, err = db.Insert(ctx, newTestPost(title))
		require.NoError(t, err)
	}

	first, err := db.FindOne(ctx)
	require.NoError(t, err)
	require.Equal(t, "first", first.Title)
}

func TestMongo(t *testing.T) {
	uri := os.Getenv("POSTS_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("POSTS_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Open(ctx, config.Database{
		Driver: config.DriverMongo,
		URI:    uri,
		Name:   "posts-database-test",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	testDatabase(t, db)
}

func TestOpen(t *testing.T) {
	db, err := Open(context.Background(), config.Database{
		Driver: config.DriverBolt,
		Path:   filepath.Join(t.TempDir(), "posts.db"),
	})
	require.NoError(t, err)
	require.IsType(t, &Bolt{}, db)
	require.NoError(t, db.Close())

	_, err = Open(context.Background(), config.Database{Driver: "sqlite"})
	require.Error(t, err)
}
