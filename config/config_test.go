package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	c, err := Parse()
	require.NoError(t, err)
	require.Equal(t, 8080, c.Port)
	require.False(t, c.Development)
	require.Equal(t, Database{Driver: DriverBolt, Path: "posts.db", Name: "posts"}, c.Database)
	require.Empty(t, c.TestDatabase.Driver)
}

func TestParseFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`port: 9000
database:
  driver: mongo
  uri: mongodb://localhost:27017
  name: blog
testDatabase:
  driver: bolt
  path: test.db
`), 0o644)
	require.NoError(t, err)

	t.Setenv("POSTS_DATABASE_NAME", "blog-from-env")

	c, err := Parse()
	require.NoError(t, err)
	require.Equal(t, 9000, c.Port)
	require.Equal(t, DriverMongo, c.Database.Driver)
	require.Equal(t, "mongodb://localhost:27017", c.Database.URI)
	require.Equal(t, "blog-from-env", c.Database.Name)
	require.Equal(t, Database{Driver: DriverBolt, Path: "test.db", Name: "posts-test"}, c.TestDatabase)
}

func TestDatabaseValidate(t *testing.T) {
	tests := []struct {
		db    Database
		valid bool
	}{
		{Database{Driver: DriverBolt, Path: "posts.db"}, true},
		{Database{Driver: DriverBolt}, false},
		{Database{Driver: DriverMongo, URI: "mongodb://localhost", Name: "posts"}, true},
		{Database{Driver: DriverMongo, Name: "posts"}, false},
		{Database{Driver: DriverMongo, URI: "mongodb://localhost"}, false},
		{Database{Driver: "postgres"}, false},
	}

	for _, tt := range tests {
		err := tt.db.Validate()
		if tt.valid {
			require.NoError(t, err, "driver %q", tt.db.Driver)
		} else {
			require.Error(t, err, "driver %q", tt.db.Driver)
		}
	}
}

func TestValidateRejectsSharedTestDatabase(t *testing.T) {
	db := Database{Driver: DriverBolt, Path: "posts.db"}
	c := &Config{Port: 8080, Database: db, TestDatabase: db}
	require.Error(t, c.validate())
}

func TestParseRejectsTestDatabaseSharingStore(t *testing.T) {
	t.Run("bolt", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("POSTS_TESTDATABASE_DRIVER", DriverBolt)
		t.Setenv("POSTS_TESTDATABASE_PATH", "./posts.db")

		_, err := Parse()
		require.Error(t, err)
	})

	t.Run("mongo", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("POSTS_DATABASE_DRIVER", DriverMongo)
		t.Setenv("POSTS_DATABASE_URI", "mongodb://localhost:27017")
		t.Setenv("POSTS_TESTDATABASE_DRIVER", DriverMongo)
		t.Setenv("POSTS_TESTDATABASE_URI", "mongodb://localhost:27017")
		t.Setenv("POSTS_TESTDATABASE_NAME", "posts")
		t.Setenv("POSTS_TESTDATABASE_PATH", "unused.db")

		_, err := Parse()
		require.Error(t, err)
	})

	t.Run("separate stores", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("POSTS_TESTDATABASE_DRIVER", DriverBolt)
		t.Setenv("POSTS_TESTDATABASE_PATH", "posts-test.db")

		c, err := Parse()
		require.NoError(t, err)
		require.Equal(t, "posts-test.db", c.TestDatabase.Path)
	})
}

func TestSameStore(t *testing.T) {
	tests := []struct {
		a, b Database
		same bool
	}{
		{Database{Driver: DriverBolt, Path: "posts.db", Name: "posts"}, Database{Driver: DriverBolt, Path: "posts.db", Name: "posts-test"}, true},
		{Database{Driver: DriverBolt, Path: "posts.db"}, Database{Driver: DriverBolt, Path: "data/../posts.db"}, true},
		{Database{Driver: DriverBolt, Path: "posts.db"}, Database{Driver: DriverBolt, Path: "test.db"}, false},
		{Database{Driver: DriverMongo, URI: "mongodb://db", Name: "posts", Path: "a.db"}, Database{Driver: DriverMongo, URI: "mongodb://db", Name: "posts", Path: "b.db"}, true},
		{Database{Driver: DriverMongo, URI: "mongodb://db", Name: "posts"}, Database{Driver: DriverMongo, URI: "mongodb://db", Name: "posts-test"}, false},
		{Database{Driver: DriverBolt, Path: "posts"}, Database{Driver: DriverMongo, URI: "mongodb://db", Name: "posts"}, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.same, tt.a.SameStore(tt.b), "%+v vs %+v", tt.a, tt.b)
		assert.Equal(t, tt.same, tt.b.SameStore(tt.a), "%+v vs %+v", tt.b, tt.a)
	}
}
