package database

import (
	"context"
	"fmt"

	"go.hacdias.com/posts/config"
	"go.hacdias.com/posts/core"
)

// Database is a document store of blog posts. Lookups of posts that do not
// exist return [core.ErrNotFound].
type Database interface {
	Close() error

	InsertMany(ctx context.Context, posts []core.Post) ([]string, error)
	Insert(ctx context.Context, post core.Post) (core.Post, error)
	FindByID(ctx context.Context, id string) (core.Post, error)
	FindOne(ctx context.Context) (core.Post, error)
	List(ctx context.Context) ([]core.Post, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, id string, patch core.Patch) error
	Delete(ctx context.Context, id string) error

	// Drop removes all data. Dropping an empty store is not an error.
	Drop(ctx context.Context) error
}

func Open(ctx context.Context, cfg config.Database) (Database, error) {
	switch cfg.Driver {
	case config.DriverBolt:
		return NewBolt(cfg.Path)
	case config.DriverMongo:
		return NewMongo(ctx, cfg.URI, cfg.Name)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
