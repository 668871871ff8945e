package ports

import (
	"context"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// PostInput carries writable post fields. A nil field is absent from the
// request; on a full update every field is required.
type PostInput struct {
	Title   *string
	Content *string
}

// CommentInput carries writable comment fields with the same nil semantics as
// PostInput.
type CommentInput struct {
	PostID  *int64
	Content *string
}

// PostService defines use-case operations for posts. caller is nil for
// anonymous requests.
type PostService interface {
	List(ctx context.Context) ([]*domain.Post, error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	Create(ctx context.Context, caller *domain.User, input PostInput) (*domain.Post, error)
	Update(ctx context.Context, caller *domain.User, id int64, input PostInput, partial bool) (*domain.Post, error)
	Delete(ctx context.Context, caller *domain.User, id int64) error
}

// CommentService defines use-case operations for comments.
type CommentService interface {
	List(ctx context.Context) ([]*domain.Comment, error)
	Get(ctx context.Context, id int64) (*domain.Comment, error)
	ListForPost(ctx context.Context, postID int64) ([]*domain.Comment, error)
	ListForPosts(ctx context.Context, postIDs []int64) (map[int64][]*domain.Comment, error)
	Create(ctx context.Context, caller *domain.User, input CommentInput) (*domain.Comment, error)
	Update(ctx context.Context, caller *domain.User, id int64, input CommentInput, partial bool) (*domain.Comment, error)
	Delete(ctx context.Context, caller *domain.User, id int64) error
}
