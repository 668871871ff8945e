package ports

import (
	"context"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// RegisterInput carries the signup payload.
type RegisterInput struct {
	Username string
	Password string
	Email    string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token    string
	UserID   int64
	Username string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Authenticate resolves a bearer token key to its user, or returns
	// domain.ErrInvalidToken.
	Authenticate(ctx context.Context, key string) (*domain.User, error)
}
