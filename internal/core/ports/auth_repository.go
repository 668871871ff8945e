package ports

import (
	"context"
	"time"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// UserRepository is the identity store.
type UserRepository interface {
	// Create inserts user and returns it with its ID assigned. It returns
	// domain.ErrDuplicateUsername when the username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// TokenRepository persists bearer tokens. The store must enforce uniqueness on
// both the key and the owning user.
type TokenRepository interface {
	FindByUser(ctx context.Context, userID int64) (*domain.Token, error)
	// Create stores token. When a token already exists for token.UserID the
	// existing row is returned instead and no second token is written.
	Create(ctx context.Context, token *domain.Token) (*domain.Token, error)
	// FindUserByKey resolves a token key to the user that owns it.
	FindUserByKey(ctx context.Context, key string) (*domain.User, error)
}

// TokenCache is an optional read-through cache in front of
// TokenRepository.FindUserByKey.
type TokenCache interface {
	// Get returns (nil, false, nil) on a miss.
	Get(ctx context.Context, key string) (*domain.User, bool, error)
	Set(ctx context.Context, key string, user *domain.User, ttl time.Duration) error
}
