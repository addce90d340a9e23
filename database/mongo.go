package database

import (
	"context"
	"errors"
	"time"

	"go.hacdias.com/posts/core"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mongoAuthor struct {
	FirstName string `bson:"firstName"`
	LastName  string `bson:"lastName"`
}

type mongoPost struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Author  mongoAuthor        `bson:"author"`
	Title   string             `bson:"title"`
	Content string             `bson:"content"`
	Created time.Time          `bson:"created"`
}

func newMongoPost(p core.Post) (mongoPost, error) {
	doc := mongoPost{
		Author: mongoAuthor{
			FirstName: p.Author.FirstName,
			LastName:  p.Author.LastName,
		},
		Title:   p.Title,
		Content: p.Content,
		Created: p.Created,
	}

	if doc.Created.IsZero() {
		doc.Created = time.Now()
	}

	if p.ID != "" {
		oid, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return doc, err
		}
		doc.ID = oid
	}

	return doc, nil
}

func (d *mongoPost) post() core.Post {
	return core.Post{
		ID: d.ID.Hex(),
		Author: core.Author{
			FirstName: d.Author.FirstName,
			LastName:  d.Author.LastName,
		},
		Title:   d.Title,
		Content: d.Content,
		Created: d.Created,
	}
}

type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	posts  *mongo.Collection
}

func NewMongo(ctx context.Context, uri, name string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	db := client.Database(name)

	return &Mongo{
		client: client,
		db:     db,
		posts:  db.Collection("posts"),
	}, nil
}

func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return m.client.Disconnect(ctx)
}

func (m *Mongo) InsertMany(ctx context.Context, posts []core.Post) ([]string, error) {
	if len(posts) == 0 {
		return []string{}, nil
	}

	docs := make([]interface{}, 0, len(posts))
	for _, p := range posts {
		doc, err := newMongoPost(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	res, err := m.posts.InsertMany(ctx, docs)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(res.InsertedIDs))
	for _, id := range res.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok {
			ids = append(ids, oid.Hex())
		}
	}

	return ids, nil
}

func (m *Mongo) Insert(ctx context.Context, post core.Post) (core.Post, error) {
	ids, err := m.InsertMany(ctx, []core.Post{post})
	if err != nil {
		return core.Post{}, err
	}

	if len(ids) != 1 {
		return core.Post{}, errors.New("mongo did not return the inserted id")
	}

	return m.FindByID(ctx, ids[0])
}

func (m *Mongo) FindByID(ctx context.Context, id string) (core.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return core.Post{}, core.ErrNotFound
	}

	return m.findOne(ctx, bson.M{"_id": oid})
}

func (m *Mongo) FindOne(ctx context.Context) (core.Post, error) {
	return m.findOne(ctx, bson.D{})
}

func (m *Mongo) findOne(ctx context.Context, filter interface{}) (core.Post, error) {
	var doc mongoPost
	err := m.posts.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.Post{}, core.ErrNotFound
	} else if err != nil {
		return core.Post{}, err
	}

	return doc.post(), nil
}

func (m *Mongo) List(ctx context.Context) ([]core.Post, error) {
	cursor, err := m.posts.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	var docs []mongoPost
	err = cursor.All(ctx, &docs)
	if err != nil {
		return nil, err
	}

	posts := make([]core.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].post())
	}

	return posts, nil
}

func (m *Mongo) Count(ctx context.Context) (int, error) {
	count, err := m.posts.CountDocuments(ctx, bson.D{})
	return int(count), err
}

func (m *Mongo) Update(ctx context.Context, id string, patch core.Patch) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return core.ErrNotFound
	}

	set := bson.M{}
	if patch.Author != nil {
		set["author"] = mongoAuthor{
			FirstName: patch.Author.FirstName,
			LastName:  patch.Author.LastName,
		}
	}

	if patch.Title != nil {
		set["title"] = *patch.Title
	}

	if patch.Content != nil {
		set["content"] = *patch.Content
	}

	if patch.Created != nil {
		set["created"] = *patch.Created
	}

	if len(set) == 0 {
		_, err = m.findOne(ctx, bson.M{"_id": oid})
		return err
	}

	res, err := m.posts.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return core.ErrNotFound
	}

	return nil
}

func (m *Mongo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return core.ErrNotFound
	}

	res, err := m.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}

	if res.DeletedCount == 0 {
		return core.ErrNotFound
	}

	return nil
}

func (m *Mongo) Drop(ctx context.Context) error {
	return m.db.Drop(ctx)
}
