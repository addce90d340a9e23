package harness

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.hacdias.com/posts/config"
)

func TestStartStop(t *testing.T) {
	ctx := context.Background()

	h, err := Start(ctx, Options{SeedSize: 3, Seed: lo.ToPtr(int64(9))})
	require.NoError(t, err)
	require.NotEmpty(t, h.URL)

	dir := h.tempDir
	require.DirExists(t, dir)

	res, err := h.Get(ctx, "/posts")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.Status)
	require.True(t, res.IsJSON())

	require.NoError(t, h.Stop())
	require.NoError(t, h.Stop())

	_, err = os.Stat(dir)
	require.True(t, os.IsNotExist(err))

	_, err = http.Get(h.URL + "/posts")
	require.Error(t, err)
}

func TestStartFailsWithUnreachableStore(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	tests := []struct {
		name string
		db   config.Database
	}{
		{"unknown driver", config.Database{Driver: "unknown"}},
		{"bolt in missing directory", config.Database{
			Driver: config.DriverBolt,
			Path:   filepath.Join(tmp, "missing", "posts.db"),
		}},
		{"mongo without server", config.Database{
			Driver: config.DriverMongo,
			URI:    "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200",
			Name:   "posts-harness-test",
		}},
	}

	for _, tt := range tests {
		h, err := Start(context.Background(), Options{Database: tt.db})
		require.Error(t, err, tt.name)
		require.Nil(t, h, tt.name)
	}

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestStartReleasesPartialSetup(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	// The temporary store and the server are up before readiness is checked.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h, err := Start(ctx, Options{})
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, h)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSeedAndWipe(t *testing.T) {
	h := New(t, Options{SeedSize: 4, Seed: lo.ToPtr(int64(0))})
	ctx := context.Background()

	posts, err := h.Seed(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 4)

	for _, p := range posts {
		stored, err := h.DB.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, p.Title, stored.Title)
	}

	count, err := h.DB.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, count)

	require.NoError(t, h.Wipe(ctx))
	require.NoError(t, h.Wipe(ctx))

	count, err = h.DB.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestCaseWipesAfterwards(t *testing.T) {
	h := New(t, Options{})
	ctx := context.Background()

	h.Case(t, "seeded", func(t *testing.T) {
		count, err := h.DB.Count(ctx)
		require.NoError(t, err)
		require.Equal(t, DefaultSeedSize, count)
	})

	count, err := h.DB.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestResponse(t *testing.T) {
	res := &Response{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": []string{"application/json; charset=utf-8"}},
		Body:   []byte(`{"id":"abc"}`),
	}

	require.True(t, res.IsJSON())

	var v map[string]string
	require.NoError(t, res.JSON(&v))
	require.Equal(t, "abc", v["id"])

	res.Header.Set("Content-Type", "text/html")
	require.False(t, res.IsJSON())
}

func TestZeroSeedIsReproducible(t *testing.T) {
	a := New(t, Options{Seed: lo.ToPtr(int64(0))})
	b := New(t, Options{Seed: lo.ToPtr(int64(0))})

	require.Equal(t, int64(0), a.Fixtures.Seed())
	require.Equal(t, a.Fixtures.Post().Title, b.Fixtures.Post().Title)

	random := New(t, Options{})
	require.NotZero(t, random.Fixtures.Seed())
}
