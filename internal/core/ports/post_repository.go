package ports

import (
	"context"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// PostRepository defines persistence operations for posts.
//
// List results are ordered by descending timestamp, ties broken by
// descending ID. Returned posts carry AuthorUsername.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	// Update writes Title and Content only; author and timestamp are immutable.
	Update(ctx context.Context, p *domain.Post) (*domain.Post, error)
	// Delete removes the post together with all of its comments.
	Delete(ctx context.Context, id int64) error
}

// CommentRepository defines persistence operations for comments. Ordering
// follows PostRepository.List.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id int64) (*domain.Comment, error)
	List(ctx context.Context) ([]*domain.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error)
	// ListByPosts returns the comments of every given post keyed by post ID.
	ListByPosts(ctx context.Context, postIDs []int64) (map[int64][]*domain.Comment, error)
	// Update writes PostID and Content only.
	Update(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	Delete(ctx context.Context, id int64) error
}
