package database

import (
	"bytes"
	"context"
	"encoding/gob"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"go.hacdias.com/posts/core"
)

var postsBucket = []byte("posts")

type Bolt struct {
	db *bolt.DB
}

func NewBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0666, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	return &Bolt{
		db: db,
	}, nil
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) InsertMany(ctx context.Context, posts []core.Post) ([]string, error) {
	ids := make([]string, 0, len(posts))

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(postsBucket)
		if err != nil {
			return err
		}

		for _, post := range posts {
			if post.ID == "" {
				// Version 7 identifiers sort by creation time, which keeps the
				// bucket in insertion order.
				id, err := uuid.NewV7()
				if err != nil {
					return err
				}
				post.ID = id.String()
			}

			if post.Created.IsZero() {
				post.Created = time.Now()
			}

			data, err := encodePost(&post)
			if err != nil {
				return err
			}

			err = bucket.Put([]byte(post.ID), data)
			if err != nil {
				return err
			}

			ids = append(ids, post.ID)
		}

		return nil
	})

	return ids, err
}

func (b *Bolt) Insert(ctx context.Context, post core.Post) (core.Post, error) {
	ids, err := b.InsertMany(ctx, []core.Post{post})
	if err != nil {
		return core.Post{}, err
	}

	return b.FindByID(ctx, ids[0])
}

func (b *Bolt) FindByID(ctx context.Context, id string) (core.Post, error) {
	var p core.Post

	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(postsBucket)
		if bucket == nil {
			return core.ErrNotFound
		}

		v := bucket.Get([]byte(id))
		if v == nil {
			return core.ErrNotFound
		}

		return decodePost(v, &p)
	})

	return p, err
}

func (b *Bolt) FindOne(ctx context.Context) (core.Post, error) {
	var p core.Post

	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(postsBucket)
		if bucket == nil {
			return core.ErrNotFound
		}

		k, v := bucket.Cursor().First()
		if k == nil {
			return core.ErrNotFound
		}

		return decodePost(v, &p)
	})

	return p, err
}

func (b *Bolt) List(ctx context.Context) ([]core.Post, error) {
	posts := []core.Post{}

	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(postsBucket)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var p core.Post
			err := decodePost(v, &p)
			if err != nil {
				return err
			}

			posts = append(posts, p)
			return nil
		})
	})

	return posts, err
}

func (b *Bolt) Count(ctx context.Context) (int, error) {
	count := 0

	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(postsBucket)
		if bucket == nil {
			return nil
		}

		count = bucket.Stats().KeyN
		return nil
	})

	return count, err
}

func (b *Bolt) Update(ctx context.Context, id string, patch core.Patch) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(postsBucket)
		if bucket == nil {
			return core.ErrNotFound
		}

		v := bucket.Get([]byte(id))
		if v == nil {
			return core.ErrNotFound
		}

		var p core.Post
		err := decodePost(v, &p)
		if err != nil {
			return err
		}

		p.Apply(patch)

		data, err := encodePost(&p)
		if err != nil {
			return err
		}

		return bucket.Put([]byte(id), data)
	})
}

func (b *Bolt) Delete(ctx context.Context, id string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(postsBucket)
		if bucket == nil || bucket.Get([]byte(id)) == nil {
			return core.ErrNotFound
		}

		return bucket.Delete([]byte(id))
	})
}

func (b *Bolt) Drop(ctx context.Context) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(postsBucket) == nil {
			return nil
		}

		return tx.DeleteBucket(postsBucket)
	})
}

func encodePost(p *core.Post) ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(p)
	return buf.Bytes(), err
}

func decodePost(data []byte, p *core.Post) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(p)
}
