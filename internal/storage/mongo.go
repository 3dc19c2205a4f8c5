package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/codedbysoumyajit/Blogspot/internal/models"
	"github.com/codedbysoumyajit/Blogspot/internal/postid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// PostsCollection is the MongoDB collection that holds post documents.
const PostsCollection = "posts"

// MongoStore is the MongoDB-backed PostRepository.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// postDocument is the persisted shape of a post. The public id is the hex
// form of _id.
type postDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Content     string             `bson:"content"`
	Image       string             `bson:"image"`
	CreatedAt   string             `bson:"createdAt"`
	Author      string             `bson:"author"`
	Location    string             `bson:"location"`
	Likes       int64              `bson:"likes"`
}

func (d *postDocument) toPost() models.Post {
	return models.Post{
		ID:          postid.String(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Content:     d.Content,
		Image:       d.Image,
		CreatedAt:   parseTime(d.CreatedAt),
		Author:      d.Author,
		Location:    d.Location,
		Likes:       d.Likes,
	}
}

// postSort orders newest first, then by _id ascending. ObjectIDs only
// increase monotonically within one process: ties between posts written by
// different processes in the same second follow their random id bytes, not
// insertion order.
var postSort = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}

// ConnectMongo dials the MongoDB deployment at uri, verifies it with a ping
// and returns a store over the posts collection of database dbName.
func ConnectMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	store := NewMongoStore(client, client.Database(dbName).Collection(PostsCollection))
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	slog.Info("connected to mongodb", "database", dbName)
	return store, nil
}

// NewMongoStore creates a MongoStore over an existing collection. client may
// be nil when the caller manages the connection lifecycle.
func NewMongoStore(client *mongo.Client, coll *mongo.Collection) *MongoStore {
	return &MongoStore{client: client, coll: coll, now: time.Now}
}

// EnsureIndexes creates the createdAt index used by the listing sort.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    postSort,
		Options: options.Index().SetName("idx_posts_created"),
	})
	if err != nil {
		return fmt.Errorf("creating posts index: %w", err)
	}
	return nil
}

// Close disconnects the client if the store owns one.
func (m *MongoStore) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}

// ListPosts returns every post, newest first.
func (m *MongoStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	cursor, err := m.coll.Find(ctx, bson.D{}, options.Find().SetSort(postSort))
	if err != nil {
		return nil, fmt.Errorf("finding posts: %w", err)
	}
	posts, err := decodePosts(ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// PaginatePosts runs the page query and the count concurrently.
func (m *MongoStore) PaginatePosts(ctx context.Context, page, limit int) (*models.PostPage, error) {
	if err := checkPage(page, limit); err != nil {
		return nil, err
	}

	var (
		posts = []models.Post{}
		total int64
	)

	offset, inRange := pageOffset(page, limit)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if !inRange {
			return nil
		}
		opts := options.Find().
			SetSort(postSort).
			SetSkip(int64(offset)).
			SetLimit(int64(limit))
		cursor, err := m.coll.Find(gctx, bson.D{}, opts)
		if err != nil {
			return fmt.Errorf("finding post page: %w", err)
		}
		posts, err = decodePosts(gctx, cursor)
		if err != nil {
			return fmt.Errorf("decoding post page: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		n, err := m.coll.CountDocuments(gctx, bson.D{})
		if err != nil {
			return fmt.Errorf("counting posts: %w", err)
		}
		total = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.PostPage{Posts: posts, TotalPages: TotalPages(total, limit)}, nil
}

// GetPost returns the post with the given id.
func (m *MongoStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	oid, err := lookupID(id)
	if err != nil {
		return nil, err
	}

	var doc postDocument
	if err := m.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting post by id: %w", err)
	}
	post := doc.toPost()
	return &post, nil
}

// CreatePost inserts a new document and returns the stored record.
func (m *MongoStore) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	doc := postDocument{
		ID:          postid.New(),
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		Image:       in.Image,
		CreatedAt:   formatTime(createdAtNow(m.now)),
		Author:      in.Author,
		Location:    in.Location,
		Likes:       0,
	}

	res, err := m.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}

	post := doc.toPost()
	return &post, nil
}

// UpdatePost applies the patch with $set and returns the post-update
// document.
func (m *MongoStore) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	oid, err := lookupID(id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return m.GetPost(ctx, id)
	}

	return m.findOneAndUpdate(ctx, oid, bson.M{"$set": patchDocument(patch)}, "updating post")
}

// LikePost increments likes with $inc so the store serializes concurrent
// likes.
func (m *MongoStore) LikePost(ctx context.Context, id string) (*models.Post, error) {
	oid, err := lookupID(id)
	if err != nil {
		return nil, err
	}

	return m.findOneAndUpdate(ctx, oid, bson.M{"$inc": bson.M{"likes": 1}}, "liking post")
}

// DeletePost removes the document. Malformed or unknown ids are a no-op.
func (m *MongoStore) DeletePost(ctx context.Context, id string) error {
	oid, err := lookupID(id)
	if err != nil {
		return nil
	}

	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	return nil
}

func (m *MongoStore) findOneAndUpdate(ctx context.Context, oid primitive.ObjectID, update bson.M, op string) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc postDocument
	if err := m.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	post := doc.toPost()
	return &post, nil
}

// patchDocument converts the non-nil patch fields into a $set document.
func patchDocument(p models.PostPatch) bson.D {
	var set bson.D
	add := func(key string, v *string) {
		if v != nil {
			set = append(set, bson.E{Key: key, Value: *v})
		}
	}
	add("title", p.Title)
	add("description", p.Description)
	add("content", p.Content)
	add("image", p.Image)
	add("author", p.Author)
	add("location", p.Location)
	return set
}

func decodePosts(ctx context.Context, cursor *mongo.Cursor) ([]models.Post, error) {
	defer cursor.Close(ctx)

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	posts := make([]models.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toPost())
	}
	return posts, nil
}
