package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpost/blog-api/internal/core/domain"
)

type CommentRepository struct {
	db *pgxpool.Pool
}

const selectComments = `
	SELECT c.id, c.post_id, c.content, c.author_id, u.username, c.created_at
	FROM comments c
	JOIN users u ON u.id = c.author_id`

const newestComments = ` ORDER BY c.created_at DESC, c.id DESC`

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `
	WITH c AS (
		INSERT INTO comments (post_id, content, author_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, post_id, content, author_id, created_at
	)
	SELECT c.id, c.post_id, c.content, c.author_id, u.username, c.created_at
	FROM c JOIN users u ON u.id = c.author_id`

	comment, err := scanComment(r.db.QueryRow(ctx, q, c.PostID, c.Content, c.AuthorID, c.Timestamp.UTC()))
	if err != nil {
		if pgErrorCode(err) == codeForeignKeyViolation {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return comment, nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id int64) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	comment, err := scanComment(r.db.QueryRow(ctx, selectComments+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return comment, nil
}

func (r *CommentRepository) List(ctx context.Context) ([]*domain.Comment, error) {
	return r.query(ctx, selectComments+newestComments)
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	return r.query(ctx, selectComments+` WHERE c.post_id = $1`+newestComments, postID)
}

func (r *CommentRepository) ListByPosts(ctx context.Context, postIDs []int64) (map[int64][]*domain.Comment, error) {
	out := make(map[int64][]*domain.Comment, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	comments, err := r.query(ctx, selectComments+` WHERE c.post_id = ANY($1)`+newestComments, postIDs)
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

	const q = `
	WITH c AS (
		UPDATE comments SET post_id = $2, content = $3
		WHERE id = $1
		RETURNING id, post_id, content, author_id, created_at
	)
	SELECT c.id, c.post_id, c.content, c.author_id, u.username, c.created_at
	FROM c JOIN users u ON u.id = c.author_id`

	comment, err := scanComment(r.db.QueryRow(ctx, q, c.ID, c.PostID, c.Content))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, domain.ErrCommentNotFound
		case pgErrorCode(err) == codeForeignKeyViolation:
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) query(ctx context.Context, q string, args ...any) ([]*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(&c.ID, &c.PostID, &c.Content, &c.AuthorID, &c.AuthorUsername, &c.Timestamp); err != nil {
		return nil, err
	}
	c.Timestamp = c.Timestamp.UTC()
	return &c, nil
}
