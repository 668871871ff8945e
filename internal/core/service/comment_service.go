package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
	"github.com/inkpost/blog-api/internal/pkg/validation"
)

type CommentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
	validate *validation.Validator
	logger   zerolog.Logger
	now      func() time.Time
}

func NewCommentService(comments ports.CommentRepository, posts ports.PostRepository, logger zerolog.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		validate: validation.New(),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *CommentService) List(ctx context.Context) ([]*domain.Comment, error) {
	return s.comments.List(ctx)
}

func (s *CommentService) Get(ctx context.Context, id int64) (*domain.Comment, error) {
	return s.comments.FindByID(ctx, id)
}

// ListForPost returns the comments of an existing post.
func (s *CommentService) ListForPost(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}

func (s *CommentService) ListForPosts(ctx context.Context, postIDs []int64) (map[int64][]*domain.Comment, error) {
	if len(postIDs) == 0 {
		return map[int64][]*domain.Comment{}, nil
	}
	return s.comments.ListByPosts(ctx, postIDs)
}

func (s *CommentService) Create(ctx context.Context, caller *domain.User, input ports.CommentInput) (*domain.Comment, error) {
	if err := domain.RequireCaller(caller); err != nil {
		return nil, err
	}
	if err := validateCommentInput(s.validate, input, false); err != nil {
		return nil, err
	}
	if err := s.ensurePost(ctx, *input.PostID); err != nil {
		return nil, err
	}

	comment, err := s.comments.Create(ctx, &domain.Comment{
		PostID:         *input.PostID,
		Content:        *input.Content,
		AuthorID:       caller.ID,
		AuthorUsername: caller.Username,
		Timestamp:      s.now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, missingPost(*input.PostID)
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.logger.Info().Int64("comment_id", comment.ID).Int64("post_id", comment.PostID).Str("author", caller.Username).Msg("comment created")
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, caller *domain.User, id int64, input ports.CommentInput, partial bool) (*domain.Comment, error) {
	comment, err := s.writable(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := validateCommentInput(s.validate, input, partial); err != nil {
		return nil, err
	}

	if input.PostID != nil && *input.PostID != comment.PostID {
		if err := s.ensurePost(ctx, *input.PostID); err != nil {
			return nil, err
		}
		comment.PostID = *input.PostID
	}
	if input.Content != nil {
		comment.Content = *input.Content
	}

	updated, err := s.comments.Update(ctx, comment)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, missingPost(comment.PostID)
		}
		return nil, fmt.Errorf("update comment %d: %w", id, err)
	}
	s.logger.Info().Int64("comment_id", id).Bool("partial", partial).Msg("comment updated")
	return updated, nil
}

func (s *CommentService) Delete(ctx context.Context, caller *domain.User, id int64) error {
	if _, err := s.writable(ctx, caller, id); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete comment %d: %w", id, err)
	}
	s.logger.Info().Int64("comment_id", id).Msg("comment deleted")
	return nil
}

func (s *CommentService) writable(ctx context.Context, caller *domain.User, id int64) (*domain.Comment, error) {
	if err := domain.RequireCaller(caller); err != nil {
		return nil, err
	}
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(caller, comment); err != nil {
		s.logger.Debug().Int64("comment_id", id).Int64("caller_id", caller.ID).Msg("write denied")
		return nil, err
	}
	return comment, nil
}

// ensurePost turns a missing parent into a field error rather than a 404.
func (s *CommentService) ensurePost(ctx context.Context, postID int64) error {
	_, err := s.posts.FindByID(ctx, postID)
	if errors.Is(err, domain.ErrPostNotFound) {
		return missingPost(postID)
	}
	return err
}

func missingPost(postID int64) error {
	return domain.NewValidationError("post", fmt.Sprintf("invalid pk %q - object does not exist", fmt.Sprint(postID)))
}
