package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkpost/blog-api/internal/core/domain"
)

type CommentRepository struct {
	col   *mongo.Collection
	posts *mongo.Collection
	seq   *sequences
}

type mongoComment struct {
	ID             int64     `bson:"_id"`
	PostID         int64     `bson:"post_id"`
	Content        string    `bson:"content"`
	AuthorID       int64     `bson:"author_id"`
	AuthorUsername string    `bson:"author_username"`
	Timestamp      time.Time `bson:"timestamp"`
}

func (m mongoComment) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:             m.ID,
		PostID:         m.PostID,
		Content:        m.Content,
		AuthorID:       m.AuthorID,
		AuthorUsername: m.AuthorUsername,
		Timestamp:      m.Timestamp.UTC(),
	}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := r.requirePost(ctx, c.PostID); err != nil {
		return nil, err
	}
	id, err := r.seq.next(ctx, collectionComments)
	if err != nil {
		return nil, err
	}
	doc := mongoComment{
		ID:             id,
		PostID:         c.PostID,
		Content:        c.Content,
		AuthorID:       c.AuthorID,
		AuthorUsername: c.AuthorUsername,
		Timestamp:      c.Timestamp.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	if err := r.recheckPost(ctx, id, c.PostID); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id int64) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoComment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CommentRepository) List(ctx context.Context) ([]*domain.Comment, error) {
	return r.find(ctx, bson.M{})
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	return r.find(ctx, bson.M{"post_id": postID})
}

func (r *CommentRepository) ListByPosts(ctx context.Context, postIDs []int64) (map[int64][]*domain.Comment, error) {
	out := make(map[int64][]*domain.Comment, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	comments, err := r.find(ctx, bson.M{"post_id": bson.M{"$in": postIDs}})
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		out[c.PostID] = append(out[c.PostID], c)
	}
	return out, nil
}

func (r *CommentRepository) Update(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := r.requirePost(ctx, c.PostID); err != nil {
		return nil, err
	}
	var mc mongoComment
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": c.ID},
		bson.M{"$set": bson.M{"post_id": c.PostID, "content": c.Content}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}
	if err := r.recheckPost(ctx, mc.ID, mc.PostID); err != nil {
		return nil, err
	}
	return mc.toDomain(), nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) find(ctx context.Context, filter bson.M) ([]*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, newestFirst())
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	var docs []mongoComment
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	out := make([]*domain.Comment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *CommentRepository) requirePost(ctx context.Context, postID int64) error {
	n, err := r.posts.CountDocuments(ctx, bson.M{"_id": postID}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("check post %d: %w", postID, err)
	}
	if n == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// recheckPost runs after a comment write. A post deleted between the first
// existence check and the write has already swept its comments, so the one
// just written would be orphaned; it is removed and ErrPostNotFound returned.
func (r *CommentRepository) recheckPost(ctx context.Context, commentID, postID int64) error {
	err := r.requirePost(ctx, postID)
	if !errors.Is(err, domain.ErrPostNotFound) {
		return err
	}
	if _, derr := r.col.DeleteOne(ctx, bson.M{"_id": commentID}); derr != nil {
		return fmt.Errorf("remove orphaned comment %d: %w", commentID, derr)
	}
	return err
}
