package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionCounters = "counters"
	collectionUsers    = "users"
	collectionTokens   = "tokens"
	collectionPosts    = "posts"
	collectionComments = "comments"
)

// Store groups the repositories that share one database. Documents use
// integer _id values drawn from the counters collection so identifiers stay
// numeric across drivers.
type Store struct {
	db  *mongo.Database
	seq *sequences
}

// NewStore wraps db.
func NewStore(db *mongo.Database) *Store {
	return &Store{db: db, seq: &sequences{col: db.Collection(collectionCounters)}}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{col: s.db.Collection(collectionUsers), seq: s.seq}
}

func (s *Store) Tokens() *TokenRepository {
	return &TokenRepository{col: s.db.Collection(collectionTokens), users: s.Users()}
}

func (s *Store) Posts() *PostRepository {
	return &PostRepository{
		col:      s.db.Collection(collectionPosts),
		comments: s.db.Collection(collectionComments),
		seq:      s.seq,
	}
}

func (s *Store) Comments() *CommentRepository {
	return &CommentRepository{
		col:   s.db.Collection(collectionComments),
		posts: s.db.Collection(collectionPosts),
		seq:   s.seq,
	}
}

// Ping reports whether the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// EnsureIndexes creates the unique and ordering indexes every collection
// relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	byCollection := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionTokens: {
			{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionPosts: {
			{Keys: bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}},
		},
		collectionComments: {
			{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}},
		},
	}

	for name, models := range byCollection {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}
	return nil
}

// newestFirst orders documents by timestamp then _id, both descending.
func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
}

// sequences hands out monotonically increasing integer IDs per collection.
type sequences struct {
	col *mongo.Collection
}

func (s *sequences) next(ctx context.Context, name string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return doc.Seq, nil
}
