package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// PostRepository joins users on every read so posts carry the author's
// username.
type PostRepository struct {
	db *pgxpool.Pool
}

const selectPosts = `
	SELECT p.id, p.title, p.content, p.author_id, u.username, p.created_at
	FROM posts p
	JOIN users u ON u.id = p.author_id`

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `
	WITH p AS (
		INSERT INTO posts (title, content, author_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, content, author_id, created_at
	)
	SELECT p.id, p.title, p.content, p.author_id, u.username, p.created_at
	FROM p JOIN users u ON u.id = p.author_id`

	post, err := scanPost(r.db.QueryRow(ctx, q, p.Title, p.Content, p.AuthorID, p.Timestamp.UTC()))
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return post, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	post, err := scanPost(r.db.QueryRow(ctx, selectPosts+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return post, nil
}

func (r *PostRepository) List(ctx context.Context) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, selectPosts+` ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostRepository) Update(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `
	WITH p AS (
		UPDATE posts SET title = $2, content = $3
		WHERE id = $1
		RETURNING id, title, content, author_id, created_at
	)
	SELECT p.id, p.title, p.content, p.author_id, u.username, p.created_at
	FROM p JOIN users u ON u.id = p.author_id`

	post, err := scanPost(r.db.QueryRow(ctx, q, p.ID, p.Title, p.Content))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// Delete removes the post; comments go with it through ON DELETE CASCADE.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.AuthorUsername, &p.Timestamp); err != nil {
		return nil, err
	}
	p.Timestamp = p.Timestamp.UTC()
	return &p, nil
}
