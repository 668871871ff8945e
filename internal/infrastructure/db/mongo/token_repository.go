package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/inkpost/blog-api/internal/core/domain"
)

type TokenRepository struct {
	col   *mongo.Collection
	users *UserRepository
}

type mongoToken struct {
	Key       string    `bson:"key"`
	UserID    int64     `bson:"user_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func (m mongoToken) toDomain() *domain.Token {
	return &domain.Token{Key: m.Key, UserID: m.UserID, CreatedAt: m.CreatedAt.UTC()}
}

func (r *TokenRepository) FindByUser(ctx context.Context, userID int64) (*domain.Token, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

// Create relies on the unique user_id index: when a concurrent login already
// stored a token for the user, that token is returned instead.
func (r *TokenRepository) Create(ctx context.Context, token *domain.Token) (*domain.Token, error) {
	insertCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoToken{Key: token.Key, UserID: token.UserID, CreatedAt: token.CreatedAt.UTC()}
	if _, err := r.col.InsertOne(insertCtx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.FindByUser(ctx, token.UserID)
		}
		return nil, fmt.Errorf("insert token: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TokenRepository) FindUserByKey(ctx context.Context, key string) (*domain.User, error) {
	tok, err := r.findOne(ctx, bson.M{"key": key})
	if err != nil {
		return nil, err
	}
	user, err := r.users.FindByID(ctx, tok.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrTokenNotFound
	}
	return user, err
}

func (r *TokenRepository) findOne(ctx context.Context, filter bson.M) (*domain.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoToken
	if err := r.col.FindOne(ctx, filter).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	return mt.toDomain(), nil
}
