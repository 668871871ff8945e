package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
	"github.com/inkpost/blog-api/internal/pkg/validation"
)

type PostService struct {
	repo     ports.PostRepository
	validate *validation.Validator
	logger   zerolog.Logger
	now      func() time.Time
}

func NewPostService(repo ports.PostRepository, logger zerolog.Logger) *PostService {
	return &PostService{
		repo:     repo,
		validate: validation.New(),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *PostService) List(ctx context.Context) ([]*domain.Post, error) {
	return s.repo.List(ctx)
}

func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new post authored by caller.
func (s *PostService) Create(ctx context.Context, caller *domain.User, input ports.PostInput) (*domain.Post, error) {
	if err := domain.RequireCaller(caller); err != nil {
		return nil, err
	}
	if err := validatePostInput(s.validate, input, false); err != nil {
		return nil, err
	}

	post, err := s.repo.Create(ctx, &domain.Post{
		Title:          *input.Title,
		Content:        *input.Content,
		AuthorID:       caller.ID,
		AuthorUsername: caller.Username,
		Timestamp:      s.now(),
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("author_id", caller.ID).Msg("failed to create post")
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.logger.Info().Int64("post_id", post.ID).Str("author", caller.Username).Msg("post created")
	return post, nil
}

// Update changes title and/or content. Checks run in the order
// authentication, existence, authorship, field validation.
func (s *PostService) Update(ctx context.Context, caller *domain.User, id int64, input ports.PostInput, partial bool) (*domain.Post, error) {
	post, err := s.writable(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := validatePostInput(s.validate, input, partial); err != nil {
		return nil, err
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}

	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}
	s.logger.Info().Int64("post_id", id).Bool("partial", partial).Msg("post updated")
	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, caller *domain.User, id int64) error {
	if _, err := s.writable(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	s.logger.Info().Int64("post_id", id).Msg("post deleted")
	return nil
}

func (s *PostService) writable(ctx context.Context, caller *domain.User, id int64) (*domain.Post, error) {
	if err := domain.RequireCaller(caller); err != nil {
		return nil, err
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(caller, post); err != nil {
		s.logger.Debug().Int64("post_id", id).Int64("caller_id", caller.ID).Msg("write denied")
		return nil, err
	}
	return post, nil
}
